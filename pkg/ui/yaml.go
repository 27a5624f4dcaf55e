package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/arthur-debert/mmv/pkg/types"
	"gopkg.in/yaml.v3"
)

// Report is the document a YAMLReporter writes
type Report struct {
	Messages   []string         `yaml:"messages,omitempty"`
	Operations []types.OpRecord `yaml:"operations"`
}

// YAMLReporter collects messages and operations and writes them as one
// YAML document on Flush. Diagnostics still go to the error output as
// they happen.
type YAMLReporter struct {
	mu     sync.Mutex
	out    io.Writer
	errw   io.Writer
	report Report
	// flushed is set once a document was written
	flushed bool
}

// NewYAMLReporter creates a reporter writing its document to out
func NewYAMLReporter(out, errw io.Writer) *YAMLReporter {
	return &YAMLReporter{out: out, errw: errw}
}

func (r *YAMLReporter) Line(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.report.Messages = append(r.report.Messages, fmt.Sprintf(format, args...))
}

func (r *YAMLReporter) Warn(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintf(r.errw, format+"\n", args...)
}

func (r *YAMLReporter) Error(format string, args ...interface{}) {
	r.Warn(format, args...)
}

func (r *YAMLReporter) Operation(rec types.OpRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.report.Operations = append(r.report.Operations, rec)
}

func (r *YAMLReporter) Redirect(w io.Writer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.out = w
}

// Flush writes what was collected so far and starts a new document.
// After the first document, nothing is written until more is collected.
func (r *YAMLReporter) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.flushed && len(r.report.Messages) == 0 && len(r.report.Operations) == 0 {
		return nil
	}

	if r.report.Operations == nil {
		r.report.Operations = []types.OpRecord{}
	}
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(r.report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	r.report = Report{}
	r.flushed = true
	return enc.Close()
}
