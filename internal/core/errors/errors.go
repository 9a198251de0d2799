package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type ErrorCode string

const (
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeValidationError  ErrorCode = "VALIDATION_ERROR"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeInternal         ErrorCode = "INTERNAL_ERROR"
	CodeNotSupported     ErrorCode = "NOT_SUPPORTED"
	CodeIOFailure        ErrorCode = "IO_FAILURE"
	CodeGraphNotBuilt    ErrorCode = "GRAPH_NOT_BUILT"
	CodePermissionDenied ErrorCode = "PERMISSION_DENIED"
)

// Context keys shared across packages.
const (
	CtxPath      = "path"
	CtxOperation = "operation"
	CtxExtension = "extension"
	CtxSession   = "session"
)

// DomainError carries a stable code so callers branch on IsCode instead of
// message text.
type DomainError struct {
	Code    ErrorCode
	Message string
	Err     error
	Context map[string]any
}

func (e *DomainError) WithContext(key string, value any) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Error renders "[CODE] message: cause (k=v, ...)" with context keys sorted.
func (e *DomainError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Message)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if len(e.Context) == 0 {
		return b.String()
	}

	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, e.Context[k]))
	}
	fmt.Fprintf(&b, " (%s)", strings.Join(pairs, ", "))
	return b.String()
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func New(code ErrorCode, msg string) error {
	return &DomainError{Code: code, Message: msg}
}

func Wrap(err error, code ErrorCode, msg string) error {
	return &DomainError{Code: code, Message: msg, Err: err}
}

// UnsupportedExtension reports that no scanner is registered for ext.
func UnsupportedExtension(ext string) error {
	return (&DomainError{
		Code:    CodeNotSupported,
		Message: fmt.Sprintf("no scanner available for extension: %q", ext),
	}).WithContext(CtxExtension, ext)
}

// GraphNotBuilt reports an impact query issued before any graph build.
func GraphNotBuilt() error {
	return &DomainError{
		Code:    CodeGraphNotBuilt,
		Message: "dependency graph not built; build the graph before analyzing impact",
	}
}

// IOFailure wraps a filesystem failure on path.
func IOFailure(path string, err error) error {
	return (&DomainError{Code: CodeIOFailure, Message: "i/o failure", Err: err}).WithContext(CtxPath, path)
}

// AddContext attaches key/value context, wrapping non-domain errors as internal.
func AddContext(err error, key string, value any) error {
	var de *DomainError
	if errors.As(err, &de) {
		de.WithContext(key, value)
		return err
	}
	return (&DomainError{Code: CodeInternal, Message: "unexpected error", Err: err}).WithContext(key, value)
}

// CodeOf returns the code of the outermost DomainError in err's chain, or ""
// for errors that carry none.
func CodeOf(err error) ErrorCode {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

func IsCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}
