// Package cmdlog wraps CLI commands with run/error counters and one log line.
package cmdlog

import (
	"errors"
	"time"

	"tutorly/internal/logging"
	"tutorly/internal/metrics"
	"tutorly/internal/model"
	"tutorly/internal/siteclient"
)

// Run executes one CLI command. Failures the user can act on (a locked
// control, a bad target, an unreachable site) are logged at warn.
func Run(cmd string, f func() error) error {
	metrics.IncCommandRun(cmd)
	start := time.Now()
	err := f()
	fields := map[string]any{"elapsed_ms": time.Since(start).Milliseconds()}
	if err == nil {
		logging.Info(cmd+"_ok", fields)
		return nil
	}
	metrics.IncCommandError(cmd)
	fields["error"] = err.Error()
	if kind := errorKind(err); kind != "" {
		fields["kind"] = kind
		logging.Warn(cmd+"_error", fields)
		return err
	}
	logging.Error(cmd+"_error", fields)
	return err
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, model.ErrPending):
		return "pending"
	case errors.Is(err, model.ErrUnbound), errors.Is(err, model.ErrInvalidTarget):
		return "target"
	case errors.Is(err, siteclient.ErrTransport):
		return "transport"
	}
	return ""
}
