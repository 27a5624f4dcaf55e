package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/mmv/pkg/batch"
	"github.com/arthur-debert/mmv/pkg/config"
	"github.com/arthur-debert/mmv/pkg/logging"
	"github.com/arthur-debert/mmv/pkg/paths"
	"github.com/arthur-debert/mmv/pkg/types"
	"github.com/arthur-debert/mmv/pkg/ui"
	"github.com/spf13/cobra"
)

// loadConfig merges the configuration layers with the flags the user gave
func loadConfig(cmd *cobra.Command, f *flags, env *environment) (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{
		File:      f.configFile,
		Program:   env.program,
		Overrides: f.overrides(cmd),
	})
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}
	return cfg, nil
}

// runBatch plans and performs the batch given on the command line, or
// read from standard input when there are no patterns
func runBatch(cmd *cobra.Command, args []string, f *flags, env *environment) (batch.ExitStatus, error) {
	logger := logging.GetLogger("cmd.mmv")

	cfg, err := loadConfig(cmd, f, env)
	if err != nil {
		return batch.ExitAborted, err
	}
	opts := cfg.Options()
	opts.DryRun = f.dryRun
	opts.Home = paths.New().Home()

	out, errw := cmd.OutOrStdout(), cmd.ErrOrStderr()
	reporter, err := newReporter(cfg, out, errw)
	if err != nil {
		return batch.ExitAborted, err
	}

	var pairs []batch.PatternPair
	if len(args) == 2 {
		pairs = []batch.PatternPair{{From: args[0], To: args[1]}}
	} else {
		pairs, err = batch.ReadPatterns(cmd.InOrStdin(), reporter)
		if err != nil {
			return batch.ExitAborted, fmt.Errorf(MsgErrReadInput, err)
		}
	}

	prompter := env.prompter
	if prompter == nil {
		prompter = ui.NewConsole(errw)
	}

	logger.Info().
		Str("mode", string(opts.Mode)).
		Bool("dry_run", opts.DryRun).
		Int("pairs", len(pairs)).
		Msg("Starting batch")

	status := batch.Run(cmd.Context(), pairs, batch.Options{
		Run:         opts,
		Reporter:    reporter,
		Prompter:    prompter,
		FS:          env.fs,
		Interactive: isTerminal(out),
		OnExecute:   env.onExecute,
	})
	logger.Info().Int("status", int(status)).Msg("Batch finished")
	return status, nil
}

// newReporter picks the report format and coloring from the configuration
func newReporter(cfg *config.Config, out, errw io.Writer) (types.Reporter, error) {
	format, err := ui.ParseFormat(cfg.Output)
	if err != nil {
		return nil, fmt.Errorf(MsgErrOutput, err)
	}
	mode, err := ui.ParseColor(cfg.Color)
	if err != nil {
		return nil, fmt.Errorf(MsgErrColor, err)
	}

	if format == ui.FormatYAML {
		return ui.NewYAMLReporter(out, errw), nil
	}

	return ui.NewTextReporter(out, errw, useColor(mode, out)), nil
}

// useColor decides coloring for w; writers other than files only get
// colors when asked to always
func useColor(mode ui.ColorMode, w io.Writer) bool {
	if file, ok := w.(*os.File); ok {
		return ui.UseColor(mode, file)
	}
	return mode == ui.ColorAlways
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && ui.IsTerminal(file)
}
