// internal/config/types.go

// Package config provides configuration types for JournalScrapexter.
// It defines the settings needed to scrape journal article pages,
// discover article links from issue listings, persist records, and
// validate DOI links.
package config

import (
	"time"
)

// Config represents the main configuration structure.
type Config struct {
	// Name identifies this configuration
	Name string `yaml:"name" json:"name"`

	// Request settings for article and listing fetches
	Request RequestConfig `yaml:"request" json:"request"`

	// Discovery settings for issue/volume listing pages
	Discovery DiscoveryConfig `yaml:"discovery" json:"discovery"`

	// Validation settings for the DOI validator
	Validation ValidationConfig `yaml:"validation" json:"validation"`

	// Storage configuration for the article store
	Storage StorageConfig `yaml:"storage" json:"storage"`

	// Export configuration for Excel output
	Export ExportConfig `yaml:"export" json:"export"`

	// Server configuration for the REST API
	Server ServerConfig `yaml:"server,omitempty" json:"server,omitempty"`

	// Metrics configuration
	Metrics MetricsConfig `yaml:"metrics,omitempty" json:"metrics,omitempty"`

	// LogLevel controls logger verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level,omitempty" json:"log_level,omitempty"`
}

// RequestConfig defines HTTP fetch behavior.
type RequestConfig struct {
	// UserAgent identifies the scraper to the journal platform
	UserAgent string `yaml:"user_agent" json:"user_agent"`

	// TimeoutSeconds bounds each article or listing fetch
	TimeoutSeconds int `yaml:"timeout_seconds" json:"timeout_seconds"`
}

// Timeout returns the request timeout as a duration.
func (rc *RequestConfig) Timeout() time.Duration {
	return time.Duration(rc.TimeoutSeconds) * time.Second
}

// DiscoveryConfig defines how article links are found on listing pages.
type DiscoveryConfig struct {
	// LinkSelectors is the prioritized list of CSS selectors tried in
	// order; the first selector yielding at least one link wins
	LinkSelectors []string `yaml:"link_selectors" json:"link_selectors"`

	// CollectionPathPattern marks a submitted URL as an issue/volume
	// listing rather than a single article
	CollectionPathPattern string `yaml:"collection_path_pattern" json:"collection_path_pattern"`

	// HeadingSelectors are the heading ranks scanned, in order, for
	// volume/issue text on listing pages
	HeadingSelectors []string `yaml:"heading_selectors" json:"heading_selectors"`
}

// ValidationConfig defines DOI validation behavior.
type ValidationConfig struct {
	// TimeoutSeconds bounds each DOI resolution request
	TimeoutSeconds int `yaml:"timeout_seconds" json:"timeout_seconds"`
}

// Timeout returns the validation timeout as a duration.
func (vc *ValidationConfig) Timeout() time.Duration {
	return time.Duration(vc.TimeoutSeconds) * time.Second
}

// StorageConfig defines the article store backend.
type StorageConfig struct {
	// Backend is one of: sqlite, postgresql, mysql, mongodb
	Backend string `yaml:"backend" json:"backend"`

	// Path is the database file path (sqlite)
	Path string `yaml:"path,omitempty" json:"path,omitempty"`

	// DSN is the connection string (postgresql, mysql, mongodb)
	DSN string `yaml:"dsn,omitempty" json:"dsn,omitempty"`

	// Table is the table name (SQL backends)
	Table string `yaml:"table,omitempty" json:"table,omitempty"`

	// Database and Collection name the MongoDB target
	Database   string `yaml:"database,omitempty" json:"database,omitempty"`
	Collection string `yaml:"collection,omitempty" json:"collection,omitempty"`
}

// ExportConfig defines Excel export behavior.
type ExportConfig struct {
	// SheetName is the worksheet name in exported files
	SheetName string `yaml:"sheet_name" json:"sheet_name"`

	// LinkColumn is the header of the URL column read from uploads
	LinkColumn string `yaml:"link_column" json:"link_column"`
}

// ServerConfig defines the REST API listener.
type ServerConfig struct {
	// ListenAddress is the host:port the API binds to
	ListenAddress string `yaml:"listen_address" json:"listen_address"`
}

// MetricsConfig defines Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled toggles metric registration
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Namespace prefixes all metric names
	Namespace string `yaml:"namespace" json:"namespace"`
}
