// internal/config/validation.go
package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a detailed validation error
type ValidationError struct {
	Field   string `json:"field"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

// validBackends lists the supported article store backends.
var validBackends = map[string]bool{
	"sqlite":     true,
	"postgresql": true,
	"mysql":      true,
	"mongodb":    true,
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []ValidationError

	if c.Name == "" {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "configuration name is required",
		})
	}

	if c.Request.TimeoutSeconds < 0 {
		errs = append(errs, ValidationError{
			Field:   "request.timeout_seconds",
			Value:   fmt.Sprintf("%d", c.Request.TimeoutSeconds),
			Message: "request timeout cannot be negative",
		})
	}

	if c.Validation.TimeoutSeconds < 0 {
		errs = append(errs, ValidationError{
			Field:   "validation.timeout_seconds",
			Value:   fmt.Sprintf("%d", c.Validation.TimeoutSeconds),
			Message: "validation timeout cannot be negative",
		})
	}

	if !validBackends[c.Storage.Backend] {
		errs = append(errs, ValidationError{
			Field:   "storage.backend",
			Value:   c.Storage.Backend,
			Message: "backend must be one of: sqlite, postgresql, mysql, mongodb",
		})
	}

	switch c.Storage.Backend {
	case "sqlite":
		if c.Storage.Path == "" {
			errs = append(errs, ValidationError{
				Field:   "storage.path",
				Message: "sqlite backend requires a database path",
			})
		}
	case "postgresql", "mysql", "mongodb":
		if c.Storage.DSN == "" {
			errs = append(errs, ValidationError{
				Field:   "storage.dsn",
				Message: fmt.Sprintf("%s backend requires a connection string", c.Storage.Backend),
			})
		}
	}

	for i, selector := range c.Discovery.LinkSelectors {
		if strings.TrimSpace(selector) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("discovery.link_selectors[%d]", i),
				Message: "selector cannot be blank",
			})
		}
	}

	if c.Discovery.CollectionPathPattern == "" {
		errs = append(errs, ValidationError{
			Field:   "discovery.collection_path_pattern",
			Message: "collection path pattern is required",
		})
	}

	if len(errs) == 0 {
		return nil
	}

	messages := make([]string, len(errs))
	for i, e := range errs {
		if e.Value != "" {
			messages[i] = fmt.Sprintf("%s: %s (got %q)", e.Field, e.Message, e.Value)
		} else {
			messages[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
		}
	}
	return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(messages, "\n  - "))
}
