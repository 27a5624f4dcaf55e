package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"

	"github.com/arthur-debert/mmv/internal/version"
	"github.com/arthur-debert/mmv/pkg/batch"
	"github.com/arthur-debert/mmv/pkg/cobrax/topics"
	"github.com/arthur-debert/mmv/pkg/errors"
	"github.com/arthur-debert/mmv/pkg/logging"
	"github.com/arthur-debert/mmv/pkg/paths"
	"github.com/arthur-debert/mmv/pkg/types"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// environment is what a command tree needs from the process it runs in
type environment struct {
	// program is the name mmv was invoked as
	program string

	// prompter answers questions; nil reads replies from the terminal
	prompter types.Prompter

	// fs is the filesystem batches work on; nil is the OS filesystem
	fs types.FS

	// onExecute is called once planning is over
	onExecute func()

	status batch.ExitStatus
}

// NewRootCmd creates the command tree for a process invoked as program
func NewRootCmd(program string) *cobra.Command {
	return newRootCmd(&environment{program: program})
}

func newRootCmd(env *environment) *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	name := env.program
	if name == "" {
		name = "mmv"
	}
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:     name + " [flags] [from to]",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgRootExample,
		Version: version.Version,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return errors.New(errors.ErrInvalidInput, MsgErrArgs)
			}
			return nil
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(f.logVerbosity, paths.New().LogFilePath())
			logging.LogCommand(cmd.Name(), args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := runBatch(cmd, args, f, env)
			env.status = status
			return err
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	f.bindPersistent(rootCmd)
	f.bindBatch(rootCmd)
	rootCmd.Flags().BoolP("version", "V", false, MsgFlagVersion)
	rootCmd.SetVersionTemplate(fmt.Sprintf(MsgVersion, name, version.Version, version.Commit, version.Date))
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	var tm *topics.TopicManager
	rootCmd.AddCommand(newVersionCmd(name))
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newConfigCmd(f, env))
	rootCmd.AddCommand(newTopicsCmd(func() *topics.TopicManager { return tm }))

	renderer := topics.NewGlamourRenderer(func() bool {
		return helpColor(rootCmd, f, env)
	})
	var err error
	tm, err = topics.Initialize(rootCmd, topicFiles, "topics", topics.Options{
		Extensions: []string{".md"},
		Renderer:   renderer,
	})
	if err != nil {
		log.Warn().Err(err).Msg("help topics unavailable")
	}

	return rootCmd
}

// Run executes the command line args for a process invoked as program
// and returns its exit status
func Run(program string, args []string) int {
	env := &environment{program: filepath.Base(program)}
	rootCmd := newRootCmd(env)
	rootCmd.SetArgs(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	guard := &interruptGuard{out: os.Stderr, exit: os.Exit}
	env.onExecute = guard.executionStarted
	finished := guard.watch(ctx)
	defer finished()

	return execute(ctx, rootCmd, env)
}

func execute(ctx context.Context, rootCmd *cobra.Command, env *environment) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintf(rootCmd.ErrOrStderr(), "%s: %s\n", rootCmd.Name(), describe(err))
		if env.status == batch.ExitOK {
			return int(batch.ExitAborted)
		}
	}
	return int(env.status)
}

// describe renders err without error codes, causes included
func describe(err error) string {
	var coded *errors.Error
	if !stderrors.As(err, &coded) {
		return err.Error()
	}
	if coded.Wrapped == nil {
		return coded.Message
	}
	return coded.Message + ": " + describe(coded.Wrapped)
}

// interruptGuard ends the process on an interrupt that arrives before
// anything was done. Once execution started, interrupts are left to the
// executor, which stops at the next operation.
type interruptGuard struct {
	mu        sync.Mutex
	executing bool
	out       io.Writer
	exit      func(int)
}

func (g *interruptGuard) executionStarted() {
	g.mu.Lock()
	g.executing = true
	g.mu.Unlock()
}

// watch waits for ctx in the background. The returned func stops waiting
// and must be called before ctx is cancelled for any other reason.
func (g *interruptGuard) watch(ctx context.Context) func() {
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-ctx.Done():
			g.interrupted()
		case <-done:
		}
	}()
	return func() {
		close(done)
		wg.Wait()
	}
}

func (g *interruptGuard) interrupted() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.executing {
		return
	}
	_, _ = fmt.Fprintln(g.out, MsgAborting)
	g.exit(int(batch.ExitAborted))
}
