// cmd/server/server_test.go
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/valpere/JournalScrapexter/internal/config"
	"github.com/valpere/JournalScrapexter/internal/output"
	"github.com/valpere/JournalScrapexter/internal/pipeline"
	"github.com/valpere/JournalScrapexter/internal/scraper"
	"github.com/valpere/JournalScrapexter/internal/storage"
	"github.com/valpere/JournalScrapexter/internal/utils"
	"github.com/valpere/JournalScrapexter/internal/validator"
	"github.com/valpere/JournalScrapexter/pkg/types"
)

// stubScraper serves canned records so handler tests avoid real HTTP
// scraping.
type stubScraper struct {
	articles map[string]*types.ArticleRecord
	listings map[string]*scraper.ListingResult
}

func (s *stubScraper) ScrapeArticle(_ context.Context, pageURL, _ string) (*types.ArticleRecord, error) {
	record, ok := s.articles[pageURL]
	if !ok {
		return nil, errors.New("fetch failed: status 404")
	}
	copied := *record
	return &copied, nil
}

func (s *stubScraper) DiscoverListing(_ context.Context, listingURL string) (*scraper.ListingResult, error) {
	result, ok := s.listings[listingURL]
	if !ok {
		return nil, errors.New("fetch failed: status 500")
	}
	return result, nil
}

func testArticle(url string) *types.ArticleRecord {
	return &types.ArticleRecord{
		URL:              url,
		JournalName:      "Journal of Testing",
		PaperTitle:       "A Study of Things",
		Authors:          "Alice Smith",
		Year:             "2023",
		VolumeIssue:      "4(1)",
		RawDOI:           "10.1234/x",
		DOIURL:           "https://doi.org/10.1234/x",
		ValidationRemark: types.RemarkNotChecked,
	}
}

func newTestApp(t *testing.T, stub *stubScraper) *app {
	t.Helper()
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"), "articles")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := config.Default()
	return &app{
		config:    cfg,
		store:     store,
		processor: pipeline.NewProcessor(stub, store, pipeline.ProcessorConfig{}),
		validator: validator.New(store, validator.Config{Timeout: 2 * time.Second}),
		exporter:  output.NewExporter(output.ExporterConfig{SheetName: cfg.Export.SheetName}),
		logger:    utils.NewComponentLogger("test"),
	}
}

func setupTestServer(t *testing.T, stub *stubScraper) (*httptest.Server, *app) {
	application := newTestApp(t, stub)
	server := httptest.NewServer(application.setupRoutes())
	t.Cleanup(server.Close)
	return server, application
}

func TestHealthEndpoint(t *testing.T) {
	server, _ := setupTestServer(t, &stubScraper{})

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("health check failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
}

func TestCreateBatch(t *testing.T) {
	stub := &stubScraper{articles: map[string]*types.ArticleRecord{
		"https://example.org/article/view/1": testArticle("https://example.org/article/view/1"),
	}}
	server, application := setupTestServer(t, stub)

	body, _ := json.Marshal(map[string][]string{"urls": {
		"https://example.org/article/view/1",
		"https://example.org/article/view/404",
	}})
	resp, err := http.Post(server.URL+"/api/v1/batches", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("batch request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected status 200, got %d: %s", resp.StatusCode, raw)
	}

	var summary struct {
		NewRecords int `json:"new_records"`
		Failed     []struct {
			Link string `json:"link"`
		} `json:"failed"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		t.Fatalf("failed to decode summary: %v", err)
	}
	if summary.NewRecords != 1 {
		t.Errorf("new_records = %d, want 1", summary.NewRecords)
	}
	if len(summary.Failed) != 1 || summary.Failed[0].Link != "https://example.org/article/view/404" {
		t.Errorf("unexpected failed list: %+v", summary.Failed)
	}

	articles, err := application.store.AllArticles(context.Background())
	if err != nil {
		t.Fatalf("AllArticles failed: %v", err)
	}
	if len(articles) != 1 {
		t.Errorf("stored %d articles, want 1", len(articles))
	}
}

func TestCreateBatchFromTextBody(t *testing.T) {
	stub := &stubScraper{articles: map[string]*types.ArticleRecord{
		"https://example.org/article/view/1": testArticle("https://example.org/article/view/1"),
	}}
	server, _ := setupTestServer(t, stub)

	body := "https://example.org/article/view/1\n"
	resp, err := http.Post(server.URL+"/api/v1/batches", "text/plain", strings.NewReader(body))
	if err != nil {
		t.Fatalf("batch request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
}

func TestCreateBatchRejectsEmptyBody(t *testing.T) {
	server, _ := setupTestServer(t, &stubScraper{})

	resp, err := http.Post(server.URL+"/api/v1/batches", "text/plain", strings.NewReader(""))
	if err != nil {
		t.Fatalf("batch request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", resp.StatusCode)
	}
}

func TestListArticles(t *testing.T) {
	server, application := setupTestServer(t, &stubScraper{})
	ctx := context.Background()
	if err := application.store.UpsertArticle(ctx, testArticle("https://example.org/article/view/1")); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	resp, err := http.Get(server.URL + "/api/v1/articles")
	if err != nil {
		t.Fatalf("list request failed: %v", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Total    int                   `json:"total"`
		Articles []types.ArticleRecord `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if payload.Total != 1 || len(payload.Articles) != 1 {
		t.Errorf("total = %d, articles = %d, want 1/1", payload.Total, len(payload.Articles))
	}
}

func TestDeleteArticlesByURL(t *testing.T) {
	server, application := setupTestServer(t, &stubScraper{})
	ctx := context.Background()
	for _, url := range []string{
		"https://example.org/article/view/1",
		"https://example.org/article/view/2",
	} {
		if err := application.store.UpsertArticle(ctx, testArticle(url)); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
	}

	body, _ := json.Marshal(map[string][]string{"urls": {"https://example.org/article/view/1"}})
	request, _ := http.NewRequest(http.MethodDelete, server.URL+"/api/v1/articles", bytes.NewReader(body))
	resp, err := http.DefaultClient.Do(request)
	if err != nil {
		t.Fatalf("delete request failed: %v", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Deleted int64 `json:"deleted"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if payload.Deleted != 1 {
		t.Errorf("deleted = %d, want 1", payload.Deleted)
	}
}

func TestDeleteAllArticles(t *testing.T) {
	server, application := setupTestServer(t, &stubScraper{})
	ctx := context.Background()
	if err := application.store.UpsertArticle(ctx, testArticle("https://example.org/article/view/1")); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	request, _ := http.NewRequest(http.MethodDelete, server.URL+"/api/v1/articles?all=true", nil)
	resp, err := http.DefaultClient.Do(request)
	if err != nil {
		t.Fatalf("delete request failed: %v", err)
	}
	defer resp.Body.Close()

	articles, err := application.store.AllArticles(ctx)
	if err != nil {
		t.Fatalf("AllArticles failed: %v", err)
	}
	if len(articles) != 0 {
		t.Errorf("expected empty store, got %d articles", len(articles))
	}
}

func TestValidateEndpoint(t *testing.T) {
	server, application := setupTestServer(t, &stubScraper{})
	ctx := context.Background()

	record := testArticle("https://example.org/article/view/1")
	record.ValidationRemark = types.RemarkMatch
	if err := application.store.UpsertArticle(ctx, record); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	resp, err := http.Post(server.URL+"/api/v1/validate", "application/json", nil)
	if err != nil {
		t.Fatalf("validate request failed: %v", err)
	}
	defer resp.Body.Close()

	var report validator.Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("failed to decode report: %v", err)
	}
	if report.Checked != 0 {
		t.Errorf("Checked = %d, want 0 (no unchecked articles)", report.Checked)
	}
}

func TestExportEndpoint(t *testing.T) {
	server, application := setupTestServer(t, &stubScraper{})
	ctx := context.Background()
	if err := application.store.UpsertArticle(ctx, testArticle("https://example.org/article/view/1")); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	resp, err := http.Get(server.URL + "/api/v1/export")
	if err != nil {
		t.Fatalf("export request failed: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Content-Type"); !strings.Contains(got, "spreadsheetml") {
		t.Errorf("Content-Type = %q", got)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	workbook, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("response is not a valid workbook: %v", err)
	}
	defer workbook.Close()

	rows, err := workbook.GetRows("ScrapedData")
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("expected header + 1 row, got %d", len(rows))
	}
}
