// Package search executes catalog searches against remote OGC services.
package search

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/zjrosen/atlas/internal/catalog"
)

// Executor runs one catalog search.
type Executor interface {
	Search(ctx context.Context, req catalog.SearchRequest) (*catalog.Result, error)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, req catalog.SearchRequest) (*catalog.Result, error)

func (f ExecutorFunc) Search(ctx context.Context, req catalog.SearchRequest) (*catalog.Result, error) {
	return f(ctx, req)
}

// Error codes surfaced to the view for localized messages.
const (
	CodeTimeout         = "timeout"
	CodeHTTP            = "http"
	CodeParse           = "parse"
	CodeService         = "service"
	CodeUnsupportedType = "unsupportedType"
)

// Error is a failed search with a stable code.
type Error struct {
	Code string
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Code extracts the error code from err. Errors not produced by this package
// report CodeHTTP, and context deadlines report CodeTimeout.
func Code(err error) string {
	if err == nil {
		return ""
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	if isTimeout(err) {
		return CodeTimeout
	}
	return CodeHTTP
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
