// Package settings carries build metadata and per-invocation run settings
// for the exprsense CLI and the packages it drives.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "exprsense"

// VersionInformation is populated at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Source describes where the catalogs of a run come from.
type Source struct {
	FromAPI bool
	FromCli bool
	// ConfigFile is the user configuration merged over the embedded defaults.
	ConfigFile string
}

// Run holds the settings of a single invocation. It travels in the
// context so library code can read quiet and colour preferences without
// importing cmd.
type Run struct {
	MinLogLevel int8
	Source      Source
	IsQuiet     bool
	NoColor     bool
	ExitOnError bool
}

// NewCliParams returns the defaults used when exprsense is driven from the
// command line.
func NewCliParams() *Run {
	return &Run{
		Source:      Source{FromCli: true},
		ExitOnError: true,
	}
}

// NewAPIParams returns the defaults used when the library is embedded.
// Errors are returned to the caller instead of exiting.
func NewAPIParams() *Run {
	return &Run{
		MinLogLevel: -1,
		Source:      Source{FromAPI: true},
		IsQuiet:     true,
		NoColor:     true,
	}
}

// Verbose reports whether debug-level logging is enabled.
func (r *Run) Verbose() bool {
	return r != nil && r.MinLogLevel < 0
}
