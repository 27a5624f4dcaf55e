package testutil

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/arthur-debert/mmv/pkg/types"
)

// Recorder is a Reporter that keeps everything it is told
type Recorder struct {
	mu sync.Mutex

	Lines      []string
	Warnings   []string
	Errors     []string
	Operations []types.OpRecord

	// Redirected is the last writer passed to Redirect
	Redirected io.Writer
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Line(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Lines = append(r.Lines, fmt.Sprintf(format, args...))
}

func (r *Recorder) Warn(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *Recorder) Error(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Recorder) Operation(rec types.OpRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Operations = append(r.Operations, rec)
}

func (r *Recorder) Redirect(w io.Writer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Redirected = w
}

func (r *Recorder) Flush() error {
	return nil
}

// Output joins every line, warning and error, one per line
func (r *Recorder) Output() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []string
	all = append(all, r.Lines...)
	all = append(all, r.Warnings...)
	all = append(all, r.Errors...)
	return strings.Join(all, "\n")
}

// ScriptedPrompter answers questions from a script and records them.
// Running out of answers is a test failure reported as an error.
type ScriptedPrompter struct {
	Answers []bool
	Replies []string
	Asked   []string
}

// NewScriptedPrompter creates a prompter answering yes/no questions in order
func NewScriptedPrompter(answers ...bool) *ScriptedPrompter {
	return &ScriptedPrompter{Answers: answers}
}

func (p *ScriptedPrompter) YesNo(prompt string) (bool, error) {
	p.Asked = append(p.Asked, prompt)
	if len(p.Answers) == 0 {
		return false, fmt.Errorf("unexpected question: %s", prompt)
	}
	a := p.Answers[0]
	p.Answers = p.Answers[1:]
	return a, nil
}

func (p *ScriptedPrompter) Ask(prompt string) (string, error) {
	p.Asked = append(p.Asked, prompt)
	if len(p.Replies) == 0 {
		return "", fmt.Errorf("unexpected question: %s", prompt)
	}
	r := p.Replies[0]
	p.Replies = p.Replies[1:]
	return r, nil
}
