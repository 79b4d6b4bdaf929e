// cmd/journalscrapexter/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/valpere/JournalScrapexter/internal/config"
	"github.com/valpere/JournalScrapexter/internal/input"
	"github.com/valpere/JournalScrapexter/internal/output"
	"github.com/valpere/JournalScrapexter/internal/pipeline"
	"github.com/valpere/JournalScrapexter/internal/scraper"
	"github.com/valpere/JournalScrapexter/internal/storage"
	"github.com/valpere/JournalScrapexter/internal/utils"
	"github.com/valpere/JournalScrapexter/internal/validator"
)

// Version information (set by build flags)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// components bundles everything a command needs against one store.
type components struct {
	config    *config.Config
	store     storage.Store
	processor *pipeline.Processor
	validator *validator.Validator
	exporter  *output.Exporter
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "scrape":
		linksFile := positionalArg(os.Args[2:])
		if linksFile == "" {
			fmt.Fprintf(os.Stderr, "Error: links file required\n")
			fmt.Fprintf(os.Stderr, "Usage: journalscrapexter scrape <links.txt|links.xlsx>\n")
			os.Exit(1)
		}
		runCommand(func(ctx context.Context, c *components) error {
			return runScrape(ctx, c, linksFile)
		})

	case "validate":
		runCommand(runValidate)

	case "export":
		outFile := positionalArg(os.Args[2:])
		if outFile == "" {
			fmt.Fprintf(os.Stderr, "Error: output file required\n")
			fmt.Fprintf(os.Stderr, "Usage: journalscrapexter export <out.xlsx>\n")
			os.Exit(1)
		}
		runCommand(func(ctx context.Context, c *components) error {
			return runExport(ctx, c, outFile)
		})

	case "template":
		template, err := generateTemplate()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(template)

	case "version", "--version":
		printVersion()

	case "help", "--help", "-h":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command '%s'\n", command)
		printUsage()
		os.Exit(1)
	}
}

// runCommand loads configuration, opens the store, and runs fn.
func runCommand(fn func(context.Context, *components) error) {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	c, err := buildComponents(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer c.store.Close()

	if err := fn(ctx, c); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	path := flagValue("-config")
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func buildComponents(ctx context.Context, cfg *config.Config) (*components, error) {
	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	level := utils.ParseLevel(cfg.LogLevel)
	if hasFlag("-v") || hasFlag("--verbose") {
		level = utils.DebugLevel
	}
	logger := utils.NewLoggerWithLevel(level)

	client := scraper.NewClient(scraper.ClientConfig{
		UserAgent: cfg.Request.UserAgent,
		Timeout:   cfg.Request.Timeout(),
	})
	articleScraper := scraper.NewScraper(client, scraper.ScraperConfig{
		LinkSelectors:    cfg.Discovery.LinkSelectors,
		HeadingSelectors: cfg.Discovery.HeadingSelectors,
		Logger:           logger.WithField("component", "scraper"),
	})

	return &components{
		config: cfg,
		store:  store,
		processor: pipeline.NewProcessor(articleScraper, store, pipeline.ProcessorConfig{
			CollectionPathPattern: cfg.Discovery.CollectionPathPattern,
			Logger:                logger.WithField("component", "pipeline"),
		}),
		validator: validator.New(store, validator.Config{
			Timeout:   cfg.Validation.Timeout(),
			UserAgent: cfg.Request.UserAgent,
			Logger:    logger.WithField("component", "validator"),
		}),
		exporter: output.NewExporter(output.ExporterConfig{
			SheetName: cfg.Export.SheetName,
			Logger:    logger.WithField("component", "excel-export"),
		}),
	}, nil
}

// runScrape reads links from a text or Excel file and processes them.
func runScrape(ctx context.Context, c *components, linksFile string) error {
	links, err := readLinks(linksFile, c.config.Export.LinkColumn)
	if err != nil {
		return err
	}
	if len(links) == 0 {
		return fmt.Errorf("no links found in %s", linksFile)
	}

	summary, err := c.processor.Process(ctx, pipeline.BatchRequest{URLs: links})
	if err != nil {
		return err
	}

	fmt.Printf("Processed %d links: %d new, %d updated, %d failed\n",
		summary.Submitted, summary.NewRecords, summary.UpdatedRecords, len(summary.Failed))
	for _, failed := range summary.Failed {
		fmt.Printf("  failed: %s (%s)\n", failed.Label(), failed.Reason)
	}
	return nil
}

// readLinks dispatches on the file extension: .xlsx workbooks are read
// through the configured link column, anything else as newline text.
func readLinks(path, linkColumn string) ([]string, error) {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return input.FromExcelFile(path, linkColumn)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read links file: %w", err)
	}
	return input.FromText(string(data)), nil
}

func runValidate(ctx context.Context, c *components) error {
	report, err := c.validator.ValidateUnchecked(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Validated %d articles\n", report.Checked)
	for remark, count := range report.Counts {
		fmt.Printf("  %s: %d\n", remark, count)
	}
	return nil
}

func runExport(ctx context.Context, c *components, outFile string) error {
	articles, err := c.store.AllArticles(ctx)
	if err != nil {
		return err
	}
	if err := c.exporter.ExportToFile(articles, outFile); err != nil {
		return err
	}
	fmt.Printf("Exported %d articles to %s\n", len(articles), outFile)
	return nil
}

func generateTemplate() (string, error) {
	template := config.GenerateTemplate()
	yamlData, err := yaml.Marshal(template)
	if err != nil {
		return "", fmt.Errorf("failed to marshal template to YAML: %w", err)
	}
	return string(yamlData), nil
}

// hasFlag checks if a flag is present in command line arguments
func hasFlag(flag string) bool {
	for _, arg := range os.Args {
		if arg == flag {
			return true
		}
	}
	return false
}

// positionalArg returns the first non-flag argument, skipping the value
// that follows a flag which takes one.
func positionalArg(args []string) string {
	for i := 0; i < len(args); i++ {
		if !strings.HasPrefix(args[i], "-") {
			return args[i]
		}
		if args[i] == "-config" {
			i++
		}
	}
	return ""
}

// flagValue returns the argument following a flag, if any.
func flagValue(flag string) string {
	for i, arg := range os.Args {
		if arg == flag && i+1 < len(os.Args) {
			return os.Args[i+1]
		}
	}
	return ""
}

// printUsage displays help information
func printUsage() {
	fmt.Println("JournalScrapexter - Journal Article Metadata Scraper")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  journalscrapexter scrape <links.txt|links.xlsx>  Scrape article or issue links")
	fmt.Println("  journalscrapexter validate                       Validate unchecked DOI links")
	fmt.Println("  journalscrapexter export <out.xlsx>              Export the article store to Excel")
	fmt.Println("  journalscrapexter template                       Generate configuration template")
	fmt.Println("  journalscrapexter version                        Show version information")
	fmt.Println("  journalscrapexter help                           Show this help message")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -config <file>                                   Configuration file")
	fmt.Println("  -v, --verbose                                    Enable verbose output")
}

// printVersion displays version information
func printVersion() {
	fmt.Printf("JournalScrapexter %s\n", version)
	fmt.Printf("Build time: %s\n", buildTime)
	fmt.Printf("Git commit: %s\n", gitCommit)
}
