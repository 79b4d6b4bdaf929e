// internal/validator/validator_test.go
package validator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/valpere/JournalScrapexter/internal/storage"
	"github.com/valpere/JournalScrapexter/pkg/types"
)

func checkedRecord(articleURL, doiURL string) *types.ArticleRecord {
	return &types.ArticleRecord{
		URL:              articleURL,
		JournalName:      "Journal of Testing",
		PaperTitle:       "A Study of Things",
		Authors:          "Alice Smith",
		Year:             "2023",
		RawDOI:           "10.1234/x",
		DOIURL:           doiURL,
		ValidationRemark: types.RemarkNotChecked,
	}
}

func TestClassify(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/doi/match", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/article/view/1", http.StatusFound)
	})
	mux.HandleFunc("/doi/mismatch", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/article/view/2", http.StatusFound)
	})
	mux.HandleFunc("/doi/gone", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/doi/pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
	})
	mux.HandleFunc("/doi/pdf-at-article", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/article/view/1", http.StatusFound)
	})
	mux.HandleFunc("/article/view/1", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-PDF") != "" {
			w.Header().Set("Content-Type", "application/pdf")
		}
	})
	mux.HandleFunc("/article/view/2", func(w http.ResponseWriter, r *http.Request) {})
	server := httptest.NewServer(mux)
	defer server.Close()

	validator := New(nil, Config{Timeout: 2 * time.Second})
	articleURL := server.URL + "/article/view/1"

	tests := []struct {
		name   string
		doiURL string
		want   types.ValidationRemark
	}{
		{"redirect to article page", server.URL + "/doi/match", types.RemarkMatch},
		{"redirect elsewhere", server.URL + "/doi/mismatch", types.RemarkMismatch},
		{"not found", server.URL + "/doi/gone", types.RemarkNotFound},
		{"pdf response", server.URL + "/doi/pdf", types.RemarkPDF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := checkedRecord(articleURL, tt.doiURL)
			if got := validator.Classify(context.Background(), record); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifyPDFTakesPriorityOverMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
	}))
	defer server.Close()

	// The DOI resolves directly to the article URL, but the response is
	// a PDF; the PDF remark wins.
	record := checkedRecord(server.URL, server.URL)
	validator := New(nil, Config{Timeout: 2 * time.Second})
	if got := validator.Classify(context.Background(), record); got != types.RemarkPDF {
		t.Errorf("Classify() = %q, want %q", got, types.RemarkPDF)
	}
}

func TestClassifyMatchIgnoresSchemeAndTrailingSlash(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/doi", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/article/view/1/", http.StatusFound)
	})
	mux.HandleFunc("/article/view/1/", func(w http.ResponseWriter, r *http.Request) {})
	server := httptest.NewServer(mux)
	defer server.Close()

	record := checkedRecord(server.URL+"/article/view/1", server.URL+"/doi")
	validator := New(nil, Config{Timeout: 2 * time.Second})
	if got := validator.Classify(context.Background(), record); got != types.RemarkMatch {
		t.Errorf("Classify() = %q, want %q", got, types.RemarkMatch)
	}
}

func TestClassifyTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	record := checkedRecord("https://example.org/article/view/1", server.URL)
	validator := New(nil, Config{Timeout: time.Second})
	if got := validator.Classify(context.Background(), record); got != types.RemarkLinkError {
		t.Errorf("Classify() = %q, want %q", got, types.RemarkLinkError)
	}
}

func TestClassifyMissingDOI(t *testing.T) {
	record := checkedRecord("https://example.org/article/view/1", "")
	record.RawDOI = types.DOINotFound
	validator := New(nil, Config{})
	if got := validator.Classify(context.Background(), record); got != types.RemarkLinkError {
		t.Errorf("Classify() = %q, want %q", got, types.RemarkLinkError)
	}
}

func TestValidateUnchecked(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/doi/1", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/article/view/1", http.StatusFound)
	})
	mux.HandleFunc("/doi/2", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/article/view/1", func(w http.ResponseWriter, r *http.Request) {})
	server := httptest.NewServer(mux)
	defer server.Close()

	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"), "articles")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	matching := checkedRecord(server.URL+"/article/view/1", server.URL+"/doi/1")
	broken := checkedRecord(server.URL+"/article/view/2", server.URL+"/doi/2")
	already := checkedRecord(server.URL+"/article/view/3", server.URL+"/doi/1")
	already.ValidationRemark = types.RemarkMatch
	for _, record := range []*types.ArticleRecord{matching, broken, already} {
		if err := store.UpsertArticle(ctx, record); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
	}

	validator := New(store, Config{Timeout: 2 * time.Second})
	validator.now = func() time.Time { return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC) }

	report, err := validator.ValidateUnchecked(ctx)
	if err != nil {
		t.Fatalf("ValidateUnchecked failed: %v", err)
	}

	if report.Checked != 2 {
		t.Errorf("Checked = %d, want 2", report.Checked)
	}
	if report.Counts[string(types.RemarkMatch)] != 1 || report.Counts[string(types.RemarkNotFound)] != 1 {
		t.Errorf("unexpected counts: %+v", report.Counts)
	}

	articles, err := store.AllArticles(ctx)
	if err != nil {
		t.Fatalf("AllArticles failed: %v", err)
	}
	remarks := make(map[string]types.ValidationRemark)
	dates := make(map[string]string)
	for _, article := range articles {
		remarks[article.URL] = article.ValidationRemark
		dates[article.URL] = article.LastValidated
	}

	if remarks[matching.URL] != types.RemarkMatch {
		t.Errorf("remark for %s = %q, want Match", matching.URL, remarks[matching.URL])
	}
	if remarks[broken.URL] != types.RemarkNotFound {
		t.Errorf("remark for %s = %q, want Not Found (404)", broken.URL, remarks[broken.URL])
	}
	if dates[matching.URL] != "2026-08-29" {
		t.Errorf("LastValidated = %q, want 2026-08-29", dates[matching.URL])
	}
	if dates[already.URL] != "" {
		t.Errorf("already-checked article should be untouched, got date %q", dates[already.URL])
	}
}
