// internal/validator/validator.go

// Package validator checks stored DOI links by resolving them through
// the DOI handle system and comparing the landing page against the
// article's source URL.
package validator

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/valpere/JournalScrapexter/internal/monitoring"
	"github.com/valpere/JournalScrapexter/internal/storage"
	"github.com/valpere/JournalScrapexter/internal/utils"
	"github.com/valpere/JournalScrapexter/pkg/types"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "JournalScrapexter/1.0"
	dateFormat       = "2006-01-02"
)

// Config configures a Validator.
type Config struct {
	Timeout   time.Duration
	UserAgent string
	Metrics   *monitoring.Metrics
	Logger    utils.Logger
}

// Validator resolves DOI links and writes remarks back to the store.
type Validator struct {
	httpClient *http.Client
	store      storage.Store
	userAgent  string
	metrics    *monitoring.Metrics
	logger     utils.Logger
	now        func() time.Time
}

// Result is the outcome for one validated article.
type Result struct {
	URL    string                 `json:"url"`
	Remark types.ValidationRemark `json:"remark"`
}

// Report summarizes one validation run.
type Report struct {
	Checked int            `json:"checked"`
	Results []Result       `json:"results,omitempty"`
	Counts  map[string]int `json:"counts,omitempty"`
}

// New creates a validator over the given store.
func New(store storage.Store, config Config) *Validator {
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	if config.UserAgent == "" {
		config.UserAgent = defaultUserAgent
	}
	if config.Logger == nil {
		config.Logger = utils.NewComponentLogger("validator")
	}
	return &Validator{
		// The default client follows redirects, which is exactly what
		// DOI resolution needs.
		httpClient: &http.Client{Timeout: config.Timeout},
		store:      store,
		userAgent:  config.UserAgent,
		metrics:    config.Metrics,
		logger:     config.Logger,
		now:        time.Now,
	}
}

// Classify resolves one record's DOI link and returns the remark. It
// never returns an error; failures classify as a remark.
func (v *Validator) Classify(ctx context.Context, record *types.ArticleRecord) types.ValidationRemark {
	if record.DOIURL == "" || !types.Found(record.RawDOI) {
		return types.RemarkLinkError
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodHead, record.DOIURL, nil)
	if err != nil {
		return types.RemarkLinkError
	}
	request.Header.Set("User-Agent", v.userAgent)

	response, err := v.httpClient.Do(request)
	if err != nil {
		return types.RemarkLinkError
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusNotFound {
		return types.RemarkNotFound
	}

	// A PDF landing page is reported as such even when the final URL
	// matches the article link.
	if strings.Contains(response.Header.Get("Content-Type"), "application/pdf") {
		return types.RemarkPDF
	}

	final := response.Request.URL.String()
	if utils.NormalizeLinkTarget(final) == utils.NormalizeLinkTarget(record.URL) {
		return types.RemarkMatch
	}
	return types.RemarkMismatch
}

// ValidateUnchecked classifies every record still marked "Not Checked"
// and writes the remark and validation date back through the store.
func (v *Validator) ValidateUnchecked(ctx context.Context) (*Report, error) {
	records, err := v.store.UncheckedArticles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load unchecked articles: %w", err)
	}

	report := &Report{Counts: make(map[string]int)}
	date := v.now().Format(dateFormat)

	for i := range records {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		record := &records[i]

		remark := v.Classify(ctx, record)
		v.metrics.ObserveValidation(string(remark))

		if err := v.store.UpdateRemark(ctx, record.URL, remark, date); err != nil {
			return report, fmt.Errorf("failed to record remark for %s: %w", record.URL, err)
		}

		report.Checked++
		report.Counts[string(remark)]++
		report.Results = append(report.Results, Result{URL: record.URL, Remark: remark})
		v.logger.Debugf("validated %s: %s", record.URL, remark)
	}

	v.logger.Infof("validated %d articles", report.Checked)
	return report, nil
}
