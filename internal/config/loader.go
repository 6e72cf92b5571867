package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/openmedex/ftsmeta/internal/errs"
)

// Load reads configuration from environment variables, applies defaults
// for unset values, and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadStruct recursively populates struct fields from environment
// variables named by the field's env tag, falling back to envAlt and
// then to the default tag.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		if !fieldVal.CanSet() {
			continue
		}
		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		envName := field.Tag.Get("env")
		if envName == "" {
			continue
		}

		value := os.Getenv(envName)
		if value == "" {
			if alt := field.Tag.Get("envAlt"); alt != "" {
				value = os.Getenv(alt)
			}
		}
		if value == "" {
			value = field.Tag.Get("default")
		}
		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			return errs.Wrap(errs.ErrKindInvalidInput,
				fmt.Sprintf("invalid value for %s=%q", envName, value), err)
		}
	}
	return nil
}

// setField sets a reflect.Value from its string representation.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
			return nil
		}
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(i)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}
	return nil
}

// Validate checks the configuration, reporting every failure at once.
func (c *Config) Validate() error {
	var problems []string

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems,
			fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		problems = append(problems,
			fmt.Sprintf("LOG_FORMAT (%q) must be json or console", c.Logging.Format))
	}

	switch c.Source.Provider {
	case "local":
		if c.Source.Root == "" {
			problems = append(problems, "SOURCE_ROOT is required for the local provider")
		}
	case "minio":
		if c.Source.Endpoint == "" {
			problems = append(problems, "MINIO_ENDPOINT is required for the minio provider")
		}
		if c.Source.Bucket == "" {
			problems = append(problems, "MINIO_BUCKET is required for the minio provider")
		}
	default:
		problems = append(problems,
			fmt.Sprintf("SOURCE_PROVIDER (%q) must be local or minio", c.Source.Provider))
	}

	switch c.Database.Driver {
	case "postgres", "mysql":
	default:
		problems = append(problems,
			fmt.Sprintf("DATABASE_DRIVER (%q) must be postgres or mysql", c.Database.Driver))
	}
	if c.Database.MaxConns <= 0 {
		problems = append(problems, "DB_MAX_CONNS must be positive")
	}
	if c.Database.MinConns < 0 {
		problems = append(problems, "DB_MIN_CONNS must be non-negative")
	}
	if c.Database.MaxConns < c.Database.MinConns {
		problems = append(problems,
			fmt.Sprintf("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)",
				c.Database.MaxConns, c.Database.MinConns))
	}

	if len(problems) > 0 {
		return errs.New(errs.ErrKindInvalidInput,
			"config validation failed: "+strings.Join(problems, "; "))
	}
	return nil
}
