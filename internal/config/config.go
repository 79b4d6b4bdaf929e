// internal/config/config.go
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(filename string) (*Config, error) {
	if filename == "" {
		return nil, fmt.Errorf("configuration filename cannot be empty")
	}

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", filename)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %v", err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes loads configuration from YAML bytes
func LoadFromBytes(data []byte) (*Config, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("configuration data cannot be empty")
	}

	// Substitute environment variables
	expandedData := expandEnvironmentVariables(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML configuration: %v", err)
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %v", err)
	}

	return &config, nil
}

// LoadFromReader loads configuration from an io.Reader
func LoadFromReader(reader io.Reader) (*Config, error) {
	if reader == nil {
		return nil, fmt.Errorf("reader cannot be nil")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read from reader: %v", err)
	}

	return LoadFromBytes(data)
}

// SaveToFile saves configuration to a YAML file
func SaveToFile(config *Config, filename string) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %v", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration to YAML: %v", err)
	}

	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write configuration file: %v", err)
	}

	return nil
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	config := &Config{Name: "journal-scraper"}
	applyDefaults(config)
	return config
}

// GenerateTemplate generates a template configuration
func GenerateTemplate() Config {
	config := Config{
		Name: "journal-scraper",
		Storage: StorageConfig{
			Backend: "sqlite",
			Path:    "journal_data.db",
		},
	}
	applyDefaults(&config)
	return config
}

// expandEnvironmentVariables expands ${VAR} references in configuration content
func expandEnvironmentVariables(content string) string {
	return os.ExpandEnv(content)
}

// applyDefaults applies default values to the configuration
func applyDefaults(config *Config) {
	if config.Request.UserAgent == "" {
		config.Request.UserAgent = "JournalScrapexter/1.0"
	}
	if config.Request.TimeoutSeconds == 0 {
		config.Request.TimeoutSeconds = 20
	}

	if len(config.Discovery.LinkSelectors) == 0 {
		config.Discovery.LinkSelectors = []string{
			"div.article-summary.media h3.media-heading a",
			"div.obj_article_summary h3.title a",
			"ul.cmn_article_list a",
			"h3.media-heading a",
		}
	}
	if config.Discovery.CollectionPathPattern == "" {
		config.Discovery.CollectionPathPattern = "/issue/view/"
	}
	if len(config.Discovery.HeadingSelectors) == 0 {
		config.Discovery.HeadingSelectors = []string{"h1", "h2", "h3", "h4"}
	}

	if config.Validation.TimeoutSeconds == 0 {
		config.Validation.TimeoutSeconds = 10
	}

	if config.Storage.Backend == "" {
		config.Storage.Backend = "sqlite"
	}
	if config.Storage.Backend == "sqlite" && config.Storage.Path == "" {
		config.Storage.Path = "journal_data.db"
	}
	if config.Storage.Table == "" {
		config.Storage.Table = "articles"
	}
	if config.Storage.Database == "" {
		config.Storage.Database = "journal_scraper"
	}
	if config.Storage.Collection == "" {
		config.Storage.Collection = "articles"
	}

	if config.Export.SheetName == "" {
		config.Export.SheetName = "ScrapedData"
	}
	if config.Export.LinkColumn == "" {
		config.Export.LinkColumn = "Website Link"
	}

	if config.Server.ListenAddress == "" {
		config.Server.ListenAddress = ":8080"
	}

	if config.Metrics.Namespace == "" {
		config.Metrics.Namespace = "journalscrapexter"
	}

	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
}
