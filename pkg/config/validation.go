package config

import (
	"fmt"

	"github.com/arthur-debert/mmv/pkg/errors"
	"github.com/arthur-debert/mmv/pkg/pattern"
	"github.com/go-playground/validator/v10"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate validates the configuration using struct tags and custom rules
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return errors.Wrap(formatValidationError(err), errors.ErrConfigValid, "invalid configuration")
	}
	if err := validateCustomRules(cfg); err != nil {
		return errors.Wrap(err, errors.ErrConfigValid, "invalid configuration")
	}
	return nil
}

// validateCustomRules performs custom validation beyond struct tags
func validateCustomRules(cfg *Config) error {
	prefix := cfg.Execute.TempPrefix
	if prefix == "." || prefix == ".." {
		return fmt.Errorf("execute.temp_prefix: %q is not a usable file name", prefix)
	}
	// three digits follow the prefix
	if len(prefix)+3 > pattern.MaxNameLen {
		return fmt.Errorf("execute.temp_prefix: longer than %d characters", pattern.MaxNameLen-3)
	}
	return nil
}

// formatValidationError converts validator errors into user-friendly messages
func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrs) > 0 {
			e := validationErrs[0]
			return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
				e.Namespace(), e.Tag(), e.Value())
		}
	}
	return err
}
