// Package version holds the build information reported by "mmv version".
package version

// Build information set by ldflags, e.g.
// -X github.com/arthur-debert/mmv/internal/version.Version=v1.2.0
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
