// Package diag provides the non-fatal diagnostics sink shared by the rule
// evaluator and its collaborators. Fatal conditions use pkg/errors instead;
// everything reported here lets the run continue.
package diag

import (
	"fmt"

	"github.com/tunafish2k/minipatch/pkg/logging"
)

// Diagnostic is a single non-fatal finding tied to a path context.
type Diagnostic struct {
	// Path is the relative path the finding applies to, empty for
	// findings without a path context.
	Path string
	// Reason describes what went wrong.
	Reason string
}

func (d Diagnostic) String() string {
	if d.Path == "" {
		return d.Reason
	}
	return fmt.Sprintf("%s: %s", d.Path, d.Reason)
}

// Sink collects diagnostics in report order and mirrors them to the log.
type Sink struct {
	entries []Diagnostic
}

// NewSink creates an empty diagnostics sink.
func NewSink() *Sink {
	return &Sink{}
}

// Report records a diagnostic and logs it as a warning.
func (s *Sink) Report(path, format string, args ...interface{}) {
	d := Diagnostic{Path: path, Reason: fmt.Sprintf(format, args...)}
	s.entries = append(s.entries, d)

	logger := logging.GetLogger("diag")
	logger.Warn().Str("path", path).Msg(d.Reason)
}

// Entries returns the collected diagnostics in report order.
func (s *Sink) Entries() []Diagnostic {
	return s.entries
}

// Len returns the number of collected diagnostics.
func (s *Sink) Len() int {
	return len(s.entries)
}
