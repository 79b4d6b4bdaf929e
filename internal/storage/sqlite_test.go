// internal/storage/sqlite_test.go
package storage

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/valpere/JournalScrapexter/pkg/types"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"), "articles")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRecord(url string) *types.ArticleRecord {
	return &types.ArticleRecord{
		URL:              url,
		JournalName:      "Journal of Testing",
		PaperTitle:       "A Study of Things",
		Authors:          "Alice Smith, Bob Jones",
		Year:             "2023",
		Month:            "Mar",
		VolumeIssue:      "4(1)",
		ArticleType:      "Research Articles",
		PageRange:        "10–20",
		Abstract:         "We studied things.",
		Keywords:         "testing, things",
		RawDOI:           "10.1234/x",
		DOIURL:           "https://doi.org/10.1234/x",
		APACitation:      "Smith, A., & Jones, B. (2023). A Study of Things.",
		IEEECitation:     `A. Smith and B. Jones, "A Study of Things,"`,
		ValidationRemark: types.RemarkNotChecked,
	}
}

func TestUpsertAndRetrieve(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	record := sampleRecord("https://example.org/article/view/1")
	if err := store.UpsertArticle(ctx, record); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	articles, err := store.AllArticles(ctx)
	if err != nil {
		t.Fatalf("AllArticles failed: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}

	got := articles[0]
	if got.URL != record.URL {
		t.Errorf("URL = %q, want %q", got.URL, record.URL)
	}
	if got.PaperTitle != record.PaperTitle {
		t.Errorf("PaperTitle = %q, want %q", got.PaperTitle, record.PaperTitle)
	}
	if got.ValidationRemark != types.RemarkNotChecked {
		t.Errorf("ValidationRemark = %q, want %q", got.ValidationRemark, types.RemarkNotChecked)
	}
}

func TestUpsertReplacesExistingRow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	url := "https://example.org/article/view/1"
	if err := store.UpsertArticle(ctx, sampleRecord(url)); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	updated := sampleRecord(url)
	updated.PaperTitle = "A Revised Study of Things"
	if err := store.UpsertArticle(ctx, updated); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	articles, err := store.AllArticles(ctx)
	if err != nil {
		t.Fatalf("AllArticles failed: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected 1 article after replace, got %d", len(articles))
	}
	if articles[0].PaperTitle != "A Revised Study of Things" {
		t.Errorf("PaperTitle = %q, want replaced title", articles[0].PaperTitle)
	}
}

func TestUpsertRequiresURL(t *testing.T) {
	store := newTestStore(t)
	if err := store.UpsertArticle(context.Background(), &types.ArticleRecord{}); err == nil {
		t.Error("expected error for record without URL")
	}
}

func TestUncheckedArticles(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	checked := sampleRecord("https://example.org/article/view/1")
	checked.ValidationRemark = types.RemarkMatch
	unchecked := sampleRecord("https://example.org/article/view/2")

	for _, record := range []*types.ArticleRecord{checked, unchecked} {
		if err := store.UpsertArticle(ctx, record); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
	}

	articles, err := store.UncheckedArticles(ctx)
	if err != nil {
		t.Fatalf("UncheckedArticles failed: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected 1 unchecked article, got %d", len(articles))
	}
	if articles[0].URL != unchecked.URL {
		t.Errorf("unchecked URL = %q, want %q", articles[0].URL, unchecked.URL)
	}
}

func TestArticleURLs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	urls := []string{
		"https://example.org/article/view/1",
		"https://example.org/article/view/2",
	}
	for _, url := range urls {
		if err := store.UpsertArticle(ctx, sampleRecord(url)); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
	}

	stored, err := store.ArticleURLs(ctx)
	if err != nil {
		t.Fatalf("ArticleURLs failed: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 URLs, got %d", len(stored))
	}
	for _, url := range urls {
		if !stored[url] {
			t.Errorf("missing URL %q", url)
		}
	}
}

func TestUpdateRemark(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	url := "https://example.org/article/view/1"
	if err := store.UpsertArticle(ctx, sampleRecord(url)); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	if err := store.UpdateRemark(ctx, url, types.RemarkMatch, "2026-08-29"); err != nil {
		t.Fatalf("UpdateRemark failed: %v", err)
	}

	articles, err := store.AllArticles(ctx)
	if err != nil {
		t.Fatalf("AllArticles failed: %v", err)
	}
	if articles[0].ValidationRemark != types.RemarkMatch {
		t.Errorf("ValidationRemark = %q, want %q", articles[0].ValidationRemark, types.RemarkMatch)
	}
	if articles[0].LastValidated != "2026-08-29" {
		t.Errorf("LastValidated = %q, want 2026-08-29", articles[0].LastValidated)
	}
}

func TestUpdateRemarkUnknownURL(t *testing.T) {
	store := newTestStore(t)
	err := store.UpdateRemark(context.Background(), "https://example.org/missing", types.RemarkMatch, "2026-08-29")
	if err == nil {
		t.Error("expected error for unknown URL")
	}
}

func TestUpdateRemarkRejectsInvalidValue(t *testing.T) {
	store := newTestStore(t)
	err := store.UpdateRemark(context.Background(), "https://example.org/a", types.ValidationRemark("Bogus"), "2026-08-29")
	if err == nil {
		t.Error("expected error for invalid remark")
	}
}

func TestDeleteByURLs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i, url := range []string{
		"https://example.org/article/view/1",
		"https://example.org/article/view/2",
		"https://example.org/article/view/3",
	} {
		record := sampleRecord(url)
		record.Year = string(rune('0' + i))
		if err := store.UpsertArticle(ctx, record); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
	}

	deleted, err := store.DeleteByURLs(ctx, []string{
		"https://example.org/article/view/1",
		"https://example.org/article/view/3",
		"https://example.org/article/view/99",
	})
	if err != nil {
		t.Fatalf("DeleteByURLs failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	remaining, err := store.AllArticles(ctx)
	if err != nil {
		t.Fatalf("AllArticles failed: %v", err)
	}
	if len(remaining) != 1 || remaining[0].URL != "https://example.org/article/view/2" {
		t.Errorf("unexpected remaining articles: %+v", remaining)
	}
}

func TestDeleteAll(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, url := range []string{
		"https://example.org/article/view/1",
		"https://example.org/article/view/2",
	} {
		if err := store.UpsertArticle(ctx, sampleRecord(url)); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
	}

	deleted, err := store.DeleteAll(ctx)
	if err != nil {
		t.Fatalf("DeleteAll failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	remaining, err := store.AllArticles(ctx)
	if err != nil {
		t.Fatalf("AllArticles failed: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("expected empty store, got %d articles", len(remaining))
	}
}

func TestUpsertQueryShapes(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		marker string
	}{
		{"postgres", buildPostgresUpsert("articles"), "ON CONFLICT (url) DO UPDATE SET"},
		{"mysql", buildMySQLUpsert("articles"), "ON DUPLICATE KEY UPDATE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.query, "INSERT INTO articles") || !strings.Contains(tt.query, tt.marker) {
				t.Errorf("query missing expected clauses: %s", tt.query)
			}
		})
	}
}
