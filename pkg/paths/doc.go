// Package paths locates the files mmv reads and writes outside of a batch:
// its configuration file and its log.
//
// Locations follow the XDG Base Directory specification:
//
//   - Config: $XDG_CONFIG_HOME/mmv/config.toml
//   - State:  $XDG_STATE_HOME/mmv (the log file lives here)
//
// # Environment Variables
//
//   - MMV_CONFIG: use this configuration file instead
//   - MMV_CONFIG_DIR: override the config directory
//   - MMV_STATE_DIR: override the state directory
//   - HOME: replaces a leading ~/ in patterns
package paths
