package config

import (
	"fmt"
	"strings"

	"otsproof/internal/logging"
	"otsproof/pkg/op"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// ValidateConfig performs comprehensive validation of the configuration.
func ValidateConfig(c *Config) error {
	var errs ValidationErrors

	if c.Version < 1 || c.Version > Version {
		errs = append(errs, ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (current: %d)", c.Version, Version),
		})
	}

	errs = append(errs, validateLogging(&c.Logging)...)
	errs = append(errs, validateInspect(&c.Inspect)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateLogging(l *LoggingConfig) ValidationErrors {
	var errs ValidationErrors

	if _, err := logging.ParseLevel(l.Level); err != nil {
		errs = append(errs, ValidationError{Field: "logging.level", Message: err.Error()})
	}
	if _, err := logging.ParseFormat(l.Format); err != nil {
		errs = append(errs, ValidationError{Field: "logging.format", Message: err.Error()})
	}
	switch strings.ToLower(l.Output) {
	case "stdout", "stderr":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.output",
			Message: fmt.Sprintf("must be stdout or stderr, got %q", l.Output),
		})
	}

	return errs
}

func validateInspect(i *InspectConfig) ValidationErrors {
	var errs ValidationErrors

	switch i.InputFormat {
	case InputHex, InputBinary:
	default:
		errs = append(errs, ValidationError{
			Field:   "inspect.input_format",
			Message: fmt.Sprintf("must be %s or %s, got %q", InputHex, InputBinary, i.InputFormat),
		})
	}

	if i.MaxInputSize <= 0 {
		errs = append(errs, ValidationError{
			Field:   "inspect.max_input_size",
			Message: "must be positive",
		})
	}

	if _, err := op.ParseChain(strings.Join(i.DefaultChain, ",")); err != nil {
		errs = append(errs, ValidationError{
			Field:   "inspect.default_chain",
			Message: err.Error(),
		})
	}

	return errs
}
