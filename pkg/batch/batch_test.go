// TEST TYPE: Integration Test
// DEPENDENCIES: real filesystem in a temp directory
// PURPOSE: Test whole runs: going on after errors, delete questions and exit status

package batch_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/arthur-debert/mmv/pkg/batch"
	"github.com/arthur-debert/mmv/pkg/executor"
	"github.com/arthur-debert/mmv/pkg/testutil"
	"github.com/arthur-debert/mmv/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	env      *testutil.TestEnvironment
	rec      *testutil.Recorder
	prompter *testutil.ScriptedPrompter
	opts     batch.Options
}

func newFixture(t *testing.T, files ...string) *fixture {
	t.Helper()
	f := &fixture{
		env:      testutil.NewTestEnvironment(t, testutil.EnvIsolated),
		rec:      testutil.NewRecorder(),
		prompter: testutil.NewScriptedPrompter(),
	}
	for _, name := range files {
		f.env.WriteFile(name, name)
	}
	run := types.DefaultOptions()
	run.RetryDelay = 0
	f.opts = batch.Options{
		Run:      run,
		Reporter: f.rec,
		Prompter: f.prompter,
		FS:       f.env.FS,
	}
	return f
}

func (f *fixture) run(pairs ...batch.PatternPair) batch.ExitStatus {
	return batch.Run(context.Background(), pairs, f.opts)
}

func pair(from, to string) batch.PatternPair {
	return batch.PatternPair{From: from, To: to}
}

func TestRunSwap(t *testing.T) {
	f := newFixture(t, "a", "b")

	status := f.run(pair("a", "b"), pair("b", "a"))

	assert.Equal(t, batch.ExitOK, status)
	assert.Equal(t, "b", f.env.ReadFile("a"))
	assert.Equal(t, "a", f.env.ReadFile("b"))
	assert.Empty(t, f.prompter.Asked)
	assert.Equal(t, []string{"a", "b"}, f.env.Names("."))
}

func TestRunAsksBeforeDeleting(t *testing.T) {
	tests := []struct {
		name    string
		answer  bool
		wantB   string
		wantA   bool
		warning string
	}{
		{name: "yes replaces", answer: true, wantB: "a.txt", wantA: false},
		{name: "no keeps", answer: false, wantB: "b.txt", wantA: true, warning: "Nothing done."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "a.txt", "b.txt")
			f.prompter.Answers = []bool{tt.answer}

			status := f.run(pair("a.txt", "b.txt"))

			assert.Equal(t, batch.ExitOK, status)
			assert.Equal(t, []string{"a.txt -> b.txt : delete old b.txt? "}, f.prompter.Asked)
			assert.Equal(t, tt.wantB, f.env.ReadFile("b.txt"))
			assert.Equal(t, tt.wantA, f.env.Exists("a.txt"))
			if tt.warning != "" {
				assert.Contains(t, f.rec.Warnings, tt.warning)
			}
		})
	}
}

func TestRunPreApprovedDelete(t *testing.T) {
	f := newFixture(t, "a.txt", "b.txt")

	status := f.run(batch.PatternPair{From: "a.txt", To: "b.txt", DeleteOK: true})

	assert.Equal(t, batch.ExitOK, status)
	assert.Empty(t, f.prompter.Asked)
	assert.Equal(t, "a.txt", f.env.ReadFile("b.txt"))
}

func TestRunUnansweredDeleteAborts(t *testing.T) {
	f := newFixture(t, "a.txt", "b.txt")

	status := f.run(pair("a.txt", "b.txt"))

	assert.Equal(t, batch.ExitAborted, status)
	assert.Equal(t, []string{"Aborting, nothing done."}, f.rec.Warnings)
	assert.True(t, f.env.Exists("a.txt"))
}

func TestRunGoOnOrDie(t *testing.T) {
	tests := []struct {
		name         string
		bad          types.BadStyle
		answers      []bool
		wantStatus   batch.ExitStatus
		wantDone     bool
		wantWarnings []string
		wantAsked    []string
	}{
		{
			name:         "abort",
			bad:          types.BadAbort,
			wantStatus:   batch.ExitAborted,
			wantWarnings: []string{"Not everything specified can be done. Aborting."},
		},
		{
			name:         "skip",
			bad:          types.BadSkip,
			wantStatus:   batch.ExitOK,
			wantDone:     true,
			wantWarnings: []string{"Not everything specified can be done. Proceeding with the rest."},
		},
		{
			name:       "ask yes",
			bad:        types.BadAsk,
			answers:    []bool{true},
			wantStatus: batch.ExitOK,
			wantDone:   true,
			wantAsked:  []string{"Not everything specified can be done. Proceed with the rest? "},
		},
		{
			name:       "ask no",
			bad:        types.BadAsk,
			answers:    []bool{false},
			wantStatus: batch.ExitAborted,
			wantAsked:  []string{"Not everything specified can be done. Proceed with the rest? "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "x.c")
			f.opts.Run.Bad = tt.bad
			f.prompter.Answers = tt.answers

			status := f.run(pair("*.c", "#1.h"), pair("nomatch*", "y"))

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, []string{"nomatch* -> y : no match."}, f.rec.Lines)
			assert.Equal(t, tt.wantWarnings, f.rec.Warnings)
			assert.Equal(t, tt.wantAsked, f.prompter.Asked)
			assert.Equal(t, tt.wantDone, f.env.Exists("x.h"))
			assert.Equal(t, !tt.wantDone, f.env.Exists("x.c"))
		})
	}
}

func TestRunNothingPossible(t *testing.T) {
	f := newFixture(t, "x.c")

	status := f.run(pair("nomatch*", "y"))

	assert.Equal(t, batch.ExitAborted, status)
	assert.Equal(t, []string{"Nothing done."}, f.rec.Warnings)
	assert.Empty(t, f.prompter.Asked)
}

func TestRunNothingToDoIsNotAnError(t *testing.T) {
	f := newFixture(t)

	status := f.run()

	assert.Equal(t, batch.ExitOK, status)
	assert.Equal(t, []string{"Nothing done."}, f.rec.Warnings)
}

func TestRunCancelledBeforeExecution(t *testing.T) {
	f := newFixture(t, "a")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	status := batch.Run(ctx, []batch.PatternPair{pair("a", "b")}, f.opts)

	assert.Equal(t, batch.ExitAborted, status)
	assert.Equal(t, []string{"Aborting, nothing done."}, f.rec.Warnings)
	assert.True(t, f.env.Exists("a"))
}

func TestRunDryRun(t *testing.T) {
	f := newFixture(t, "1.txt", "2.txt")
	f.opts.Run.DryRun = true

	status := f.run(pair("*.txt", "#1.md"))

	assert.Equal(t, batch.ExitOK, status)
	assert.Equal(t, []types.OpRecord{
		{From: "1.txt", To: "1.md"},
		{From: "2.txt", To: "2.md"},
	}, f.rec.Operations)
	assert.Equal(t, []string{"1.txt", "2.txt"}, f.env.Names("."))
}

func TestRunOnExecute(t *testing.T) {
	f := newFixture(t, "a")
	calls := 0
	f.opts.OnExecute = func() { calls++ }

	require.Equal(t, batch.ExitOK, f.run(pair("a", "b")))
	assert.Equal(t, 1, calls)

	calls = 0
	require.Equal(t, batch.ExitAborted, f.run(pair("missing", "b")))
	assert.Equal(t, 1, calls, "planning ended normally, so execution started")

	calls = 0
	f.opts.Run.Bad = types.BadAbort
	f.env.WriteFile("c", "c")
	require.Equal(t, batch.ExitAborted, f.run(pair("c", "d"), pair("missing", "b")))
	assert.Zero(t, calls)
}

type brokenApplier struct{}

func (brokenApplier) Apply(ctx context.Context, kind executor.Kind, src, dst string, opts executor.ApplyOptions) error {
	return fmt.Errorf("%s %s -> %s: device on fire", kind, src, dst)
}

func TestRunExecutionFailure(t *testing.T) {
	f := newFixture(t, "a", "b")
	f.opts.Run.Bad = types.BadSkip
	f.opts.Applier = brokenApplier{}

	status := f.run(pair("a", "x"), pair("b", "y"))

	assert.Equal(t, batch.ExitFailed, status)
	assert.Equal(t, []string{"a -> x has failed."}, f.rec.Errors)
	assert.Contains(t, f.rec.Lines, "The following left undone:")
	require.Len(t, f.rec.Operations, 2)
	assert.False(t, f.rec.Operations[0].Done)
	assert.True(t, f.env.Exists("a"))
}

func TestRunFromListing(t *testing.T) {
	f := newFixture(t, "one", "two")

	pairs, err := batch.ReadPatterns(strings.NewReader("one -> uno\ntwo => dos\n"), f.rec)
	require.NoError(t, err)

	assert.Equal(t, batch.ExitOK, f.run(pairs...))
	assert.Equal(t, []string{"dos", "uno"}, f.env.Names("."))
}
