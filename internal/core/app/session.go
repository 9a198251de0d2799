package app

import (
	"context"

	"shadow/internal/core/errors"
	"shadow/internal/core/ports"
	"shadow/internal/data/session"
	"shadow/internal/shared/observability"
)

func (a *App) StartSession(ctx context.Context) (ports.SessionStatus, error) {
	ctx, span := observability.Tracer.Start(ctx, "App.StartSession")
	defer span.End()

	store, err := a.sessionStore(true)
	if err != nil {
		return ports.SessionStatus{}, recordError(span, err)
	}
	if store == nil {
		return ports.SessionStatus{}, recordError(span, sessionsDisabled())
	}

	sess, err := store.Start(ctx, a.Paths.WorkspaceRoot)
	if err != nil {
		return ports.SessionStatus{}, recordError(span, err)
	}
	return statusOf(sess), nil
}

// StopSession ends the active session and reports its final state.
func (a *App) StopSession(ctx context.Context) (ports.SessionStatus, error) {
	ctx, span := observability.Tracer.Start(ctx, "App.StopSession")
	defer span.End()

	store, err := a.sessionStore(false)
	if err != nil {
		return ports.SessionStatus{}, recordError(span, err)
	}
	if store == nil {
		if !a.Config.Session.IsEnabled() {
			return ports.SessionStatus{}, recordError(span, sessionsDisabled())
		}
		return ports.SessionStatus{}, recordError(span, errors.New(errors.CodeNotFound, "no active session"))
	}

	sess, err := store.Stop(ctx)
	if err != nil {
		return ports.SessionStatus{}, recordError(span, err)
	}
	return statusOf(sess), nil
}

// Status reports the persisted active session. With sessions disabled or
// never started it reports an inactive status.
func (a *App) Status(ctx context.Context) (ports.SessionStatus, error) {
	store, err := a.sessionStore(false)
	if err != nil || store == nil {
		return ports.SessionStatus{}, err
	}
	sess, ok, err := store.Active(ctx)
	if err != nil {
		return ports.SessionStatus{}, err
	}
	if !ok {
		return ports.SessionStatus{}, nil
	}
	return statusOf(sess), nil
}

// DiffCount is the active session's diff counter, 0 without one.
func (a *App) DiffCount(ctx context.Context) (int, error) {
	status, err := a.Status(ctx)
	if err != nil {
		return 0, err
	}
	return status.DiffCount, nil
}

func statusOf(s *session.Session) ports.SessionStatus {
	return ports.SessionStatus{
		Active:        s.Active,
		SessionID:     s.ID,
		WorkspacePath: s.WorkspacePath,
		StartedAt:     s.StartedAt,
		DiffCount:     s.DiffCount,
	}
}
