// internal/storage/sql.go
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/valpere/JournalScrapexter/pkg/types"
)

// articleColumns is the canonical column order shared by all SQL
// backends; scanArticle and recordArgs must stay in sync with it.
var articleColumns = []string{
	"url",
	"journal_name",
	"paper_title",
	"authors",
	"year",
	"month",
	"volume_issue",
	"article_type",
	"page_range",
	"abstract",
	"keywords",
	"raw_doi",
	"doi_url",
	"apa_citation",
	"ieee_citation",
	"validation_remark",
	"last_validated",
}

// sqlStore implements Store on top of database/sql. The backend files
// supply the connection, the upsert statement, and the placeholder
// style; everything else is dialect-neutral.
type sqlStore struct {
	db          *sql.DB
	table       string
	upsertSQL   string
	placeholder func(n int) string
}

func questionPlaceholder(int) string { return "?" }

func dollarPlaceholder(n int) string { return fmt.Sprintf("$%d", n) }

// placeholderList renders "?, ?, ..." or "$1, $2, ..." starting at from.
func placeholderList(style func(int) string, from, count int) string {
	parts := make([]string, count)
	for i := 0; i < count; i++ {
		parts[i] = style(from + i)
	}
	return strings.Join(parts, ", ")
}

func recordArgs(record *types.ArticleRecord) []interface{} {
	return []interface{}{
		record.URL,
		record.JournalName,
		record.PaperTitle,
		record.Authors,
		record.Year,
		record.Month,
		record.VolumeIssue,
		record.ArticleType,
		record.PageRange,
		record.Abstract,
		record.Keywords,
		record.RawDOI,
		record.DOIURL,
		record.APACitation,
		record.IEEECitation,
		string(record.ValidationRemark),
		record.LastValidated,
	}
}

func scanArticle(rows *sql.Rows) (types.ArticleRecord, error) {
	var record types.ArticleRecord
	var remark string
	err := rows.Scan(
		&record.URL,
		&record.JournalName,
		&record.PaperTitle,
		&record.Authors,
		&record.Year,
		&record.Month,
		&record.VolumeIssue,
		&record.ArticleType,
		&record.PageRange,
		&record.Abstract,
		&record.Keywords,
		&record.RawDOI,
		&record.DOIURL,
		&record.APACitation,
		&record.IEEECitation,
		&remark,
		&record.LastValidated,
	)
	record.ValidationRemark = types.ValidationRemark(remark)
	return record, err
}

func (s *sqlStore) UpsertArticle(ctx context.Context, record *types.ArticleRecord) error {
	if record == nil || record.URL == "" {
		return fmt.Errorf("article record requires a URL")
	}
	if record.ValidationRemark == "" {
		record.ValidationRemark = types.RemarkNotChecked
	}
	if _, err := s.db.ExecContext(ctx, s.upsertSQL, recordArgs(record)...); err != nil {
		return fmt.Errorf("failed to upsert article %s: %w", record.URL, err)
	}
	return nil
}

func (s *sqlStore) selectArticles(ctx context.Context, where string, args ...interface{}) ([]types.ArticleRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY url",
		strings.Join(articleColumns, ", "), s.table, where)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	var records []types.ArticleRecord
	for rows.Next() {
		record, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (s *sqlStore) AllArticles(ctx context.Context) ([]types.ArticleRecord, error) {
	return s.selectArticles(ctx, "")
}

func (s *sqlStore) UncheckedArticles(ctx context.Context) ([]types.ArticleRecord, error) {
	where := fmt.Sprintf(" WHERE validation_remark = %s", s.placeholder(1))
	return s.selectArticles(ctx, where, string(types.RemarkNotChecked))
}

func (s *sqlStore) ArticleURLs(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT url FROM %s", s.table))
	if err != nil {
		return nil, fmt.Errorf("failed to query article URLs: %w", err)
	}
	defer rows.Close()

	urls := make(map[string]bool)
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("failed to scan URL: %w", err)
		}
		urls[url] = true
	}
	return urls, rows.Err()
}

func (s *sqlStore) UpdateRemark(ctx context.Context, url string, remark types.ValidationRemark, date string) error {
	if !remark.IsValid() {
		return fmt.Errorf("invalid validation remark %q", remark)
	}
	query := fmt.Sprintf("UPDATE %s SET validation_remark = %s, last_validated = %s WHERE url = %s",
		s.table, s.placeholder(1), s.placeholder(2), s.placeholder(3))

	result, err := s.db.ExecContext(ctx, query, string(remark), date, url)
	if err != nil {
		return fmt.Errorf("failed to update remark for %s: %w", url, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("no stored article with URL %s", url)
	}
	return nil
}

func (s *sqlStore) DeleteByURLs(ctx context.Context, urls []string) (int64, error) {
	if len(urls) == 0 {
		return 0, nil
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE url IN (%s)",
		s.table, placeholderList(s.placeholder, 1, len(urls)))

	args := make([]interface{}, len(urls))
	for i, url := range urls {
		args[i] = url
	}
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete articles: %w", err)
	}
	return result.RowsAffected()
}

func (s *sqlStore) DeleteAll(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", s.table))
	if err != nil {
		return 0, fmt.Errorf("failed to delete articles: %w", err)
	}
	return result.RowsAffected()
}

func (s *sqlStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
