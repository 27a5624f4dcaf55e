package cli

import (
	"github.com/arthur-debert/mmv/pkg/types"
	"github.com/spf13/cobra"
)

// modeFlags binds each mode flag to the mode it selects
var modeFlags = []struct {
	name      string
	shorthand string
	mode      types.Mode
	usage     string
}{
	{"move", "m", types.ModeMove, MsgFlagMove},
	{"copydel", "x", types.ModeCopyDel, MsgFlagCopyDel},
	{"rename", "r", types.ModeRename, MsgFlagRename},
	{"copy", "c", types.ModeCopy, MsgFlagCopy},
	{"overwrite", "o", types.ModeOverwrite, MsgFlagOverwrite},
	{"append", "a", types.ModeAppend, MsgFlagAppend},
	{"zappend", "z", types.ModeZAppend, MsgFlagZAppend},
	{"hardlink", "l", types.ModeHardlink, MsgFlagHardlink},
	{"symlink", "s", types.ModeSymlink, MsgFlagSymlink},
}

// flags holds what the command line sets
type flags struct {
	modes map[string]*bool

	force     bool
	protect   bool
	goOn      bool
	terminate bool

	hidden   bool
	verbose  bool
	dryRun   bool
	makeDirs bool
	exclude  []string

	configFile   string
	output       string
	color        string
	logVerbosity int
}

// bindPersistent registers the flags every command shares
func (f *flags) bindPersistent(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.configFile, "config", "", MsgFlagConfig)
	pf.StringVar(&f.output, "output", "", MsgFlagOutput)
	pf.StringVar(&f.color, "color", "", MsgFlagColor)
	pf.CountVarP(&f.logVerbosity, "log", "L", MsgFlagLog)
}

// bindBatch registers the flags of a rename batch. mmv has always used -h
// for hidden files, so help is only reachable as --help.
func (f *flags) bindBatch(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.Bool("help", false, MsgFlagHelp)

	f.modes = make(map[string]*bool, len(modeFlags))
	names := make([]string, 0, len(modeFlags))
	for _, m := range modeFlags {
		f.modes[m.name] = fl.BoolP(m.name, m.shorthand, false, m.usage)
		names = append(names, m.name)
	}
	cmd.MarkFlagsMutuallyExclusive(names...)

	fl.BoolVarP(&f.force, "force", "d", false, MsgFlagForce)
	fl.BoolVarP(&f.protect, "protect", "p", false, MsgFlagProtect)
	cmd.MarkFlagsMutuallyExclusive("force", "protect")

	fl.BoolVarP(&f.goOn, "go", "g", false, MsgFlagGo)
	fl.BoolVarP(&f.terminate, "terminate", "t", false, MsgFlagTerminate)
	cmd.MarkFlagsMutuallyExclusive("go", "terminate")

	fl.BoolVarP(&f.hidden, "hidden", "h", false, MsgFlagHidden)
	fl.BoolVarP(&f.verbose, "verbose", "v", false, MsgFlagVerbose)
	fl.BoolVarP(&f.dryRun, "dry-run", "n", false, MsgFlagDryRun)
	fl.BoolVarP(&f.makeDirs, "makedirs", "D", false, MsgFlagMakeDirs)
	fl.StringSliceVar(&f.exclude, "exclude", nil, MsgFlagExclude)
}

// overrides returns the configuration keys set by flags the user gave,
// so that unset flags leave the file and environment alone
func (f *flags) overrides(cmd *cobra.Command) map[string]interface{} {
	changed := cmd.Flags().Changed
	o := make(map[string]interface{})

	for _, m := range modeFlags {
		if p, ok := f.modes[m.name]; ok && changed(m.name) && *p {
			o["mode"] = string(m.mode)
		}
	}
	switch {
	case changed("force") && f.force:
		o["delete"] = string(types.DeleteForce)
	case changed("protect") && f.protect:
		o["delete"] = string(types.DeleteProtect)
	}
	switch {
	case changed("go") && f.goOn:
		o["bad"] = string(types.BadSkip)
	case changed("terminate") && f.terminate:
		o["bad"] = string(types.BadAbort)
	}

	bools := []struct {
		flag, key string
		value     bool
	}{
		{"hidden", "hidden", f.hidden},
		{"verbose", "verbose", f.verbose},
		{"makedirs", "makedirs", f.makeDirs},
	}
	for _, b := range bools {
		if changed(b.flag) {
			o[b.key] = b.value
		}
	}

	if changed("exclude") {
		o["match.exclude"] = f.exclude
	}
	if changed("output") {
		o["output"] = f.output
	}
	if changed("color") {
		o["color"] = f.color
	}
	return o
}
