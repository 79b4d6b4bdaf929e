// cmd/server/main.go

// The server command exposes the scraping pipeline as a REST API.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/valpere/JournalScrapexter/internal/config"
	"github.com/valpere/JournalScrapexter/internal/input"
	"github.com/valpere/JournalScrapexter/internal/monitoring"
	"github.com/valpere/JournalScrapexter/internal/output"
	"github.com/valpere/JournalScrapexter/internal/pipeline"
	"github.com/valpere/JournalScrapexter/internal/scraper"
	"github.com/valpere/JournalScrapexter/internal/storage"
	"github.com/valpere/JournalScrapexter/internal/utils"
	"github.com/valpere/JournalScrapexter/internal/validator"
)

// app bundles the components the HTTP handlers need.
type app struct {
	config    *config.Config
	store     storage.Store
	processor *pipeline.Processor
	validator *validator.Validator
	exporter  *output.Exporter
	metrics   *monitoring.Metrics
	logger    utils.Logger
}

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	listenAddr := flag.String("addr", "", "listen address (overrides configuration)")
	flag.Parse()

	logger := utils.NewComponentLogger("server")

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Errorf("failed to load configuration: %v", err)
		os.Exit(1)
	}

	application, err := newApp(context.Background(), cfg)
	if err != nil {
		logger.Errorf("failed to initialize: %v", err)
		os.Exit(1)
	}
	defer application.store.Close()

	addr := cfg.Server.ListenAddress
	if *listenAddr != "" {
		addr = *listenAddr
	}

	logger.Infof("listening on %s", addr)
	server := &http.Server{
		Addr:         addr,
		Handler:      application.setupRoutes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
	}
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Errorf("server stopped: %v", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(path)
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	logger := utils.NewLoggerWithLevel(utils.ParseLevel(cfg.LogLevel))

	var metrics *monitoring.Metrics
	if cfg.Metrics.Enabled {
		metrics = monitoring.NewMetrics(cfg.Metrics.Namespace)
	}

	client := scraper.NewClient(scraper.ClientConfig{
		UserAgent: cfg.Request.UserAgent,
		Timeout:   cfg.Request.Timeout(),
	})
	articleScraper := scraper.NewScraper(client, scraper.ScraperConfig{
		LinkSelectors:    cfg.Discovery.LinkSelectors,
		HeadingSelectors: cfg.Discovery.HeadingSelectors,
		Logger:           logger.WithField("component", "scraper"),
	})

	return &app{
		config: cfg,
		store:  store,
		processor: pipeline.NewProcessor(articleScraper, store, pipeline.ProcessorConfig{
			CollectionPathPattern: cfg.Discovery.CollectionPathPattern,
			Metrics:               metrics,
			Logger:                logger.WithField("component", "pipeline"),
		}),
		validator: validator.New(store, validator.Config{
			Timeout:   cfg.Validation.Timeout(),
			UserAgent: cfg.Request.UserAgent,
			Metrics:   metrics,
			Logger:    logger.WithField("component", "validator"),
		}),
		exporter: output.NewExporter(output.ExporterConfig{
			SheetName: cfg.Export.SheetName,
			Metrics:   metrics,
			Logger:    logger.WithField("component", "excel-export"),
		}),
		metrics: metrics,
		logger:  logger.WithField("component", "api"),
	}, nil
}

func (a *app) setupRoutes() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", a.healthHandler).Methods("GET")
	if a.metrics != nil {
		r.Handle("/metrics", a.metrics.Handler()).Methods("GET")
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/batches", a.createBatchHandler).Methods("POST")
	api.HandleFunc("/articles", a.listArticlesHandler).Methods("GET")
	api.HandleFunc("/articles", a.deleteArticlesHandler).Methods("DELETE")
	api.HandleFunc("/validate", a.validateHandler).Methods("POST")
	api.HandleFunc("/export", a.exportHandler).Methods("GET")

	return r
}

func (a *app) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// createBatchHandler accepts either a JSON body {"urls": [...]} or a
// newline-delimited text body of links.
func (a *app) createBatchHandler(w http.ResponseWriter, r *http.Request) {
	urls, err := readBatchURLs(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(urls) == 0 {
		writeError(w, http.StatusBadRequest, "no URLs submitted")
		return
	}

	summary, err := a.processor.Process(r.Context(), pipeline.BatchRequest{URLs: urls})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type failedEntry struct {
		Link   string `json:"link"`
		Reason string `json:"reason"`
	}
	failed := make([]failedEntry, 0, len(summary.Failed))
	for _, f := range summary.Failed {
		failed = append(failed, failedEntry{Link: f.Label(), Reason: f.Reason})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"submitted":       summary.Submitted,
		"processed":       summary.Processed,
		"new_records":     summary.NewRecords,
		"updated_records": summary.UpdatedRecords,
		"failed":          failed,
	})
}

func readBatchURLs(r *http.Request) ([]string, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		var request pipeline.BatchRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			return nil, fmt.Errorf("invalid JSON body: %w", err)
		}
		return request.URLs, nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	return input.FromText(string(body)), nil
}

func (a *app) listArticlesHandler(w http.ResponseWriter, r *http.Request) {
	articles, err := a.store.AllArticles(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total":    len(articles),
		"articles": articles,
	})
}

// deleteArticlesHandler removes the URLs in the JSON body, or every
// record when ?all=true.
func (a *app) deleteArticlesHandler(w http.ResponseWriter, r *http.Request) {
	var deleted int64
	var err error

	if r.URL.Query().Get("all") == "true" {
		deleted, err = a.store.DeleteAll(r.Context())
	} else {
		var request struct {
			URLs []string `json:"urls"`
		}
		if decodeErr := json.NewDecoder(r.Body).Decode(&request); decodeErr != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if len(request.URLs) == 0 {
			writeError(w, http.StatusBadRequest, "no URLs to delete")
			return
		}
		deleted, err = a.store.DeleteByURLs(r.Context(), request.URLs)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": deleted})
}

func (a *app) validateHandler(w http.ResponseWriter, r *http.Request) {
	report, err := a.validator.ValidateUnchecked(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (a *app) exportHandler(w http.ResponseWriter, r *http.Request) {
	articles, err := a.store.AllArticles(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="journal_articles.xlsx"`)
	if err := a.exporter.ExportTo(articles, w); err != nil {
		a.logger.Errorf("export failed: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
