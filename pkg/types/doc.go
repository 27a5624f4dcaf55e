// Package types defines the core types and interfaces shared across mmv.
// This includes the operation mode enums, the run Options, and the
// collaborator interfaces (FS, Reporter, Prompter) that keep the planning
// core independent from the operating system and the terminal.
package types
