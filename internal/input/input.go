// internal/input/input.go

// Package input reads link lists for batch submission, either from
// pasted text or from an uploaded Excel workbook.
package input

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/valpere/JournalScrapexter/internal/utils"
)

// DefaultLinkColumn is the header of the URL column read from
// workbooks exported by this tool.
const DefaultLinkColumn = "Website Link"

// FromText extracts one link per non-blank line, order preserved.
func FromText(text string) []string {
	return utils.SplitLines(text)
}

// FromExcelFile reads links from the named column of the workbook's
// first sheet.
func FromExcelFile(path, column string) ([]string, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer file.Close()
	return linksFromWorkbook(file, column)
}

// FromExcelReader reads links from an in-memory workbook, typically an
// upload.
func FromExcelReader(r io.Reader, column string) ([]string, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	defer file.Close()
	return linksFromWorkbook(file, column)
}

func linksFromWorkbook(file *excelize.File, column string) ([]string, error) {
	if column == "" {
		column = DefaultLinkColumn
	}

	sheet := file.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	columnIndex := -1
	for i, header := range rows[0] {
		if strings.TrimSpace(header) == column {
			columnIndex = i
			break
		}
	}
	if columnIndex < 0 {
		return nil, fmt.Errorf("column %q not found in sheet %q", column, sheet)
	}

	var links []string
	for _, row := range rows[1:] {
		if columnIndex >= len(row) {
			continue
		}
		link := strings.TrimSpace(row[columnIndex])
		if link != "" {
			links = append(links, link)
		}
	}
	return links, nil
}
