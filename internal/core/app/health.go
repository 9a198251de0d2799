package app

import (
	"context"
	"fmt"
	"time"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

// Health reports readiness for the observability server. The service is
// up once a graph has been published.
func (a *App) Health(ctx context.Context) (any, bool) {
	status := HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}
	ok := true

	if g, built := a.snapshot.Current(); built {
		status.Components["graph"] = fmt.Sprintf("ok (%d files, %d edges)", g.NodeCount(), g.EdgeCount())
	} else {
		status.Status = "down"
		status.Components["graph"] = "not built"
		ok = false
	}

	switch {
	case !a.Config.Session.IsEnabled():
		status.Components["session_store"] = "disabled"
	default:
		if _, err := a.sessionStore(false); err != nil {
			if ok {
				status.Status = "degraded"
			}
			status.Components["session_store"] = err.Error()
		} else {
			status.Components["session_store"] = "ok"
		}
	}

	if err := ctx.Err(); err != nil {
		status.Status = "down"
		ok = false
	}
	return status, ok
}
