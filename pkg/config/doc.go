// Package config loads mmv's settings.
//
// Layers are merged in this order, later ones winning: the embedded
// defaults, the user file ($XDG_CONFIG_HOME/mmv/config.toml), MMV_*
// environment variables, the mode implied by the program name, and
// explicit overrides from the command line. The result is validated
// before it is turned into batch options.
package config
