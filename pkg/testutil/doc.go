// Package testutil provides utilities for testing mmv components.
//
// Key components:
//   - TestEnvironment: a directory tree to run batches in, either in memory
//     (afero) or in a real temporary directory
//   - Recorder: a Reporter that keeps everything it is told
//   - ScriptedPrompter: a Prompter answering from a fixed script
//
// Usage guidelines:
//   - Planning tests should use EnvMemoryOnly for speed and isolation
//   - Executor and end to end tests use EnvIsolated, since renames, links
//     and device checks need a real filesystem
//   - All test data should be defined inline, not in external files
package testutil
