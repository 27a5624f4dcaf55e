package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Move, copy, append or link multiple files by wildcard patterns"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgConfigShort     = "Print the effective configuration"
	MsgTopicsShort     = "Display available documentation topics"
	MsgTopicsLong      = "Display a list of all available help topics that provide additional documentation beyond command help."

	// Flag descriptions
	MsgFlagMove      = "Rename sources; moving across devices is an error"
	MsgFlagCopyDel   = "Rename sources, copying then deleting across devices (default)"
	MsgFlagRename    = "Rename sources in place; targets may not contain a directory"
	MsgFlagCopy      = "Copy sources, preserving permissions and times"
	MsgFlagOverwrite = "Copy sources over existing targets, keeping their permissions"
	MsgFlagAppend    = "Append the contents of sources to targets"
	MsgFlagZAppend   = "Truncate each target once, then append sources to it"
	MsgFlagHardlink  = "Create hard links to sources"
	MsgFlagSymlink   = "Create symbolic links to sources"
	MsgFlagForce     = "Delete existing targets without asking"
	MsgFlagProtect   = "Refuse any operation that would delete a target"
	MsgFlagGo        = "Skip what cannot be done and go on with the rest"
	MsgFlagTerminate = "Abort when anything cannot be done"
	MsgFlagHidden    = "Let wildcards match names starting with a dot"
	MsgFlagVerbose   = "Report every operation as it is done"
	MsgFlagDryRun    = "List what would be done without doing it"
	MsgFlagMakeDirs  = "Create missing target directories"
	MsgFlagExclude   = "Gitignore style glob skipped by ';' walks (repeatable)"
	MsgFlagConfig    = "Configuration file (default $XDG_CONFIG_HOME/mmv/config.toml)"
	MsgFlagOutput    = "Report format: text or yaml"
	MsgFlagColor     = "Color the report: auto, always or never"
	MsgFlagLog       = "Increase log verbosity (-L INFO, -LL DEBUG, -LLL TRACE)"
	MsgFlagHelp      = "Help for mmv"
	MsgFlagVersion   = "Print the version and exit"
	MsgFlagTemplate  = "Print the commented default configuration instead"

	// Errors
	MsgErrArgs       = "expected a from and a to pattern, or none to read pairs from standard input"
	MsgErrLoadConfig = "failed to load configuration: %w"
	MsgErrOutput     = "invalid --output: %w"
	MsgErrColor      = "invalid --color: %w"
	MsgErrReadInput  = "failed to read patterns: %w"

	// Messages
	MsgAborting = "Aborting, nothing done."
	MsgVersion  = "%s version %s\n  commit: %s\n  built:  %s\n"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/root-example.txt
	msgRootExampleRaw string
	MsgRootExample    = strings.TrimRight(msgRootExampleRaw, "\n")

	//go:embed msgs/config-long.txt
	msgConfigLongRaw string
	MsgConfigLong    = strings.TrimSpace(msgConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"
)
