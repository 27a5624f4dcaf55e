package cli

import (
	"embed"

	"github.com/arthur-debert/mmv/pkg/config"
	"github.com/arthur-debert/mmv/pkg/ui"
	"github.com/spf13/cobra"
)

// topicFiles holds the markdown help topics shown by "help <topic>"
//
//go:embed topics/*.md
var topicFiles embed.FS

// helpColor reports whether help topics may be colored. It follows the
// configured color mode, --color included, and standard output.
func helpColor(rootCmd *cobra.Command, f *flags, env *environment) bool {
	overrides := make(map[string]interface{})
	if rootCmd.PersistentFlags().Changed("color") {
		overrides["color"] = f.color
	}
	cfg, err := config.Load(config.LoadOptions{
		File:      f.configFile,
		Program:   env.program,
		Overrides: overrides,
	})
	if err != nil {
		return false
	}
	mode, err := ui.ParseColor(cfg.Color)
	if err != nil {
		return false
	}
	return useColor(mode, rootCmd.OutOrStdout())
}
