package gen

import (
	"errors"
	"slices"
	"sync"

	"github.com/rs/zerolog"
)

// Reporter receives diagnostics raised while building entity models.
// Reporting never aborts a build.
type Reporter interface {
	Report(err *SchemaError)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(*SchemaError)

// Report calls f(err).
func (f ReporterFunc) Report(err *SchemaError) { f(err) }

// Collector is a Reporter that keeps diagnostics in memory.
// It is safe for concurrent use.
type Collector struct {
	mu   sync.Mutex
	errs []*SchemaError
}

// Report implements Reporter.
func (c *Collector) Report(err *SchemaError) {
	c.mu.Lock()
	c.errs = append(c.errs, err)
	c.mu.Unlock()
}

// Errors returns the collected diagnostics in report order.
func (c *Collector) Errors() []*SchemaError {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.errs)
}

// Len returns the number of collected diagnostics.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.errs)
}

// Err joins the collected diagnostics, or returns nil if there are none.
func (c *Collector) Err() error {
	return joinErrors(c.Errors())
}

func joinErrors(errs []*SchemaError) error {
	if len(errs) == 0 {
		return nil
	}
	all := make([]error, len(errs))
	for i, err := range errs {
		all[i] = err
	}
	return errors.Join(all...)
}

// LogReporter logs each diagnostic at error level and forwards it to Next,
// if set.
type LogReporter struct {
	Logger zerolog.Logger
	Next   Reporter
}

// NewLogReporter returns a LogReporter writing to l and forwarding to next.
func NewLogReporter(l zerolog.Logger, next Reporter) *LogReporter {
	return &LogReporter{Logger: l, Next: next}
}

// Report implements Reporter.
func (r *LogReporter) Report(err *SchemaError) {
	ev := r.Logger.Error().Str("entity", err.Type)
	if err.Field != "" {
		ev = ev.Str("field", err.Field)
	}
	if err.Pos != "" {
		ev = ev.Str("pos", err.Pos)
	}
	if kind := err.Kind(); kind != nil {
		ev = ev.Str("kind", kind.Error())
	}
	msg := err.Message
	if msg == "" && err.Cause != nil {
		msg = err.Cause.Error()
	}
	ev.Msg(msg)
	if r.Next != nil {
		r.Next.Report(err)
	}
}
