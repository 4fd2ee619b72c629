package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// configValidator names fields by their config key, so errors read
// "poller.interval" instead of "Config.Poller.Interval"
var configValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		key, _, _ := strings.Cut(field.Tag.Get("mapstructure"), ",")
		if key == "" || key == "-" {
			return field.Name
		}
		return key
	})
	return v
})

// ValidateConfig checks every validate tag and reports all failures at once
func ValidateConfig(cfg *Config) error {
	err := configValidator().Struct(cfg)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	problems := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		key := strings.TrimPrefix(fe.Namespace(), "Config.")
		problems = append(problems, fmt.Errorf("%s failed validation: %s (value: '%v')", key, fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("validation failed: %w", errors.Join(problems...))
}
