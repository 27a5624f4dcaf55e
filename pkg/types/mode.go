package types

// Mode selects what is done with every matched source
type Mode string

const (
	// ModeMove renames sources; crossing a device is an error
	ModeMove Mode = "move"

	// ModeCopyDel renames sources, falling back to copy and delete across devices
	ModeCopyDel Mode = "copydel"

	// ModeRename renames sources in place; the target may not contain a path
	ModeRename Mode = "rename"

	// ModeCopy copies sources, preserving permissions and times
	ModeCopy Mode = "copy"

	// ModeOverwrite copies sources over existing targets, keeping the target's permissions
	ModeOverwrite Mode = "overwrite"

	// ModeAppend appends the contents of sources to targets
	ModeAppend Mode = "append"

	// ModeZAppend truncates each target once, then appends to it
	ModeZAppend Mode = "zappend"

	// ModeHardlink creates hard links to sources
	ModeHardlink Mode = "hardlink"

	// ModeSymlink creates symbolic links to sources
	ModeSymlink Mode = "symlink"
)

// IsMove reports whether sources are consumed by the operation
func (m Mode) IsMove() bool {
	return m == ModeMove || m == ModeCopyDel || m == ModeRename
}

// IsCopy reports whether the mode copies file contents into fresh targets
func (m Mode) IsCopy() bool {
	return m == ModeCopy || m == ModeOverwrite
}

// IsAppend reports whether the mode accumulates into targets
func (m Mode) IsAppend() bool {
	return m == ModeAppend || m == ModeZAppend
}

// IsLink reports whether the mode creates links
func (m Mode) IsLink() bool {
	return m == ModeHardlink || m == ModeSymlink
}

// KeepsTargetMode reports whether an existing target keeps its permissions
func (m Mode) KeepsTargetMode() bool {
	return m.IsAppend() || m == ModeOverwrite
}

// DeleteStyle controls what happens when a target already exists
type DeleteStyle string

const (
	// DeleteAsk prompts before each delete or overwrite
	DeleteAsk DeleteStyle = "ask"

	// DeleteForce deletes existing targets without asking
	DeleteForce DeleteStyle = "force"

	// DeleteProtect refuses any operation that would delete a target
	DeleteProtect DeleteStyle = "protect"
)

// BadStyle controls what happens when some operations cannot be done
type BadStyle string

const (
	// BadAsk asks whether to go on with the rest
	BadAsk BadStyle = "ask"

	// BadSkip silently goes on with the rest
	BadSkip BadStyle = "skip"

	// BadAbort gives up without doing anything
	BadAbort BadStyle = "abort"
)

// ProgramModes maps the names mmv may be installed under to their default mode
var ProgramModes = map[string]Mode{
	"mmv": ModeCopyDel,
	"mcp": ModeCopy,
	"mad": ModeAppend,
	"mln": ModeHardlink,
}
