package config

import (
	"os"

	"github.com/arthur-debert/mmv/pkg/errors"
	"github.com/arthur-debert/mmv/pkg/logging"
	"github.com/arthur-debert/mmv/pkg/paths"
	"github.com/arthur-debert/mmv/pkg/types"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix starts every environment variable mmv reads settings from
const EnvPrefix = "MMV_"

// envKeys maps environment variables to configuration keys
var envKeys = map[string]string{
	"MMV_MODE":                "mode",
	"MMV_DELETE":              "delete",
	"MMV_BAD":                 "bad",
	"MMV_HIDDEN":              "hidden",
	"MMV_MAKEDIRS":            "makedirs",
	"MMV_VERBOSE":             "verbose",
	"MMV_OUTPUT":              "output",
	"MMV_COLOR":               "color",
	"MMV_MATCH_EXCLUDE":       "match.exclude",
	"MMV_EXECUTE_RETRIES":     "execute.retries",
	"MMV_EXECUTE_RETRY_DELAY": "execute.retry_delay",
	"MMV_EXECUTE_TEMP_PREFIX": "execute.temp_prefix",
}

// LoadOptions selects the layers Load merges
type LoadOptions struct {
	// File is the configuration file to read. It must exist when set;
	// when empty the user file is read if there is one.
	File string

	// Program is the name mmv was invoked as; mcp, mad and mln imply a mode
	Program string

	// Overrides are explicit settings, keyed like the file
	Overrides map[string]interface{}
}

// Load merges every configuration layer and validates the result
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	path, required := opts.File, true
	if path == "" {
		path, required = paths.New().ConfigFile(), false
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path)
		}
		logger.Debug().Str("path", path).Msg("loaded config file")
	} else if required {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return envKeys[s]
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	if mode, ok := types.ProgramModes[opts.Program]; ok && opts.Program != "mmv" {
		if err := k.Set("mode", string(mode)); err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to set program mode")
		}
	}

	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal configuration")
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
