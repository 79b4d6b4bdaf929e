// internal/output/excel.go

// Package output renders the article store into Excel workbooks.
package output

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/valpere/JournalScrapexter/internal/monitoring"
	"github.com/valpere/JournalScrapexter/internal/utils"
	"github.com/valpere/JournalScrapexter/pkg/types"
)

// exportColumns is the fixed worksheet column order.
var exportColumns = []string{
	"No_Y",
	"No_J",
	"Journal Name",
	"Year Published",
	"Volume",
	"Type",
	"Page",
	"Paper Title",
	"Full Authors",
	"Abstract",
	"Keywords",
	"DOI/Link Updated",
	"Remarks",
	"APA Citation",
	"Citation IEEE",
	"Website Link",
}

// columnWidths overrides the default width for the wide text columns.
var columnWidths = map[string]float64{
	"No_Y":             8,
	"No_J":             8,
	"Journal Name":     30,
	"Paper Title":      50,
	"Full Authors":     35,
	"Abstract":         60,
	"Keywords":         35,
	"DOI/Link Updated": 35,
	"APA Citation":     60,
	"Citation IEEE":    60,
	"Website Link":     40,
}

// ExporterConfig configures an Exporter.
type ExporterConfig struct {
	SheetName string
	Metrics   *monitoring.Metrics
	Logger    utils.Logger
}

// Exporter writes article records to a single styled worksheet.
type Exporter struct {
	sheetName string
	metrics   *monitoring.Metrics
	logger    utils.Logger
}

// NewExporter creates an Excel exporter.
func NewExporter(config ExporterConfig) *Exporter {
	if config.SheetName == "" {
		config.SheetName = "ScrapedData"
	}
	if config.Logger == nil {
		config.Logger = utils.NewComponentLogger("excel-export")
	}
	return &Exporter{
		sheetName: config.SheetName,
		metrics:   config.Metrics,
		logger:    config.Logger,
	}
}

// Export builds a workbook from the records. The caller owns the
// returned file and must Close it.
func (e *Exporter) Export(records []types.ArticleRecord) (*excelize.File, error) {
	sorted := make([]types.ArticleRecord, len(records))
	copy(sorted, records)
	sortRecords(sorted)

	file := excelize.NewFile()
	defaultSheet := file.GetSheetName(0)
	if defaultSheet != e.sheetName {
		file.SetSheetName(defaultSheet, e.sheetName)
	}

	if err := e.writeHeaders(file); err != nil {
		file.Close()
		return nil, err
	}

	yearSequence := make(map[string]int)
	journalSequence := make(map[string]int)
	for i, record := range sorted {
		yearSequence[record.Year]++
		journalKey := record.JournalName + "\x00" + record.VolumeIssue
		journalSequence[journalKey]++

		row := []interface{}{
			yearSequence[record.Year],
			journalSequence[journalKey],
			record.JournalName,
			record.Year,
			record.VolumeIssue,
			record.ArticleType,
			record.PageRange,
			record.PaperTitle,
			record.Authors,
			record.Abstract,
			record.Keywords,
			record.DOIURL,
			string(record.ValidationRemark),
			record.APACitation,
			record.IEEECitation,
			record.URL,
		}
		cell := "A" + strconv.Itoa(i+2)
		if err := file.SetSheetRow(e.sheetName, cell, &row); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := e.applyFormatting(file, len(sorted)); err != nil {
		file.Close()
		return nil, err
	}

	e.metrics.ObserveExport(len(sorted))
	e.logger.Infof("exported %d records", len(sorted))
	return file, nil
}

// ExportToFile builds the workbook and saves it to path.
func (e *Exporter) ExportToFile(records []types.ArticleRecord, path string) error {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return fmt.Errorf("export path must end with .xlsx")
	}
	file, err := e.Export(records)
	if err != nil {
		return err
	}
	defer file.Close()
	return file.SaveAs(path)
}

// ExportTo builds the workbook and streams it to w.
func (e *Exporter) ExportTo(records []types.ArticleRecord, w io.Writer) error {
	file, err := e.Export(records)
	if err != nil {
		return err
	}
	defer file.Close()
	return file.Write(w)
}

func (e *Exporter) writeHeaders(file *excelize.File) error {
	headers := make([]interface{}, len(exportColumns))
	for i, column := range exportColumns {
		headers[i] = column
	}
	if err := file.SetSheetRow(e.sheetName, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	style, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E0E0E0"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastColumn, err := excelize.ColumnNumberToName(len(exportColumns))
	if err != nil {
		return err
	}
	return file.SetCellStyle(e.sheetName, "A1", lastColumn+"1", style)
}

func (e *Exporter) applyFormatting(file *excelize.File, rowCount int) error {
	for i, column := range exportColumns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		width := 15.0
		if custom, ok := columnWidths[column]; ok {
			width = custom
		}
		if err := file.SetColWidth(e.sheetName, name, name, width); err != nil {
			return err
		}
	}

	lastColumn, err := excelize.ColumnNumberToName(len(exportColumns))
	if err != nil {
		return err
	}
	filterRange := fmt.Sprintf("A1:%s%d", lastColumn, rowCount+1)
	if err := file.AutoFilter(e.sheetName, filterRange, nil); err != nil {
		return err
	}

	return file.SetPanes(e.sheetName, &excelize.Panes{
		Freeze: true,
		YSplit: 1,
	})
}

// sortRecords orders records by numeric year, journal name, then
// volume. Records whose year is not numeric sort last.
func sortRecords(records []types.ArticleRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		yearI, yearJ := yearKey(records[i].Year), yearKey(records[j].Year)
		if yearI != yearJ {
			return yearI < yearJ
		}
		if records[i].JournalName != records[j].JournalName {
			return records[i].JournalName < records[j].JournalName
		}
		volumeI, volumeJ := volumeKey(records[i].VolumeIssue), volumeKey(records[j].VolumeIssue)
		if volumeI != volumeJ {
			return volumeI < volumeJ
		}
		return records[i].VolumeIssue < records[j].VolumeIssue
	})
}

const unknownSortKey = 1 << 30

func yearKey(year string) int {
	if value, err := strconv.Atoi(year); err == nil {
		return value
	}
	return unknownSortKey
}

// volumeKey extracts the leading volume number from "V(I)" or "V".
func volumeKey(volumeIssue string) int {
	digits := volumeIssue
	if open := strings.IndexByte(digits, '('); open >= 0 {
		digits = digits[:open]
	}
	if value, err := strconv.Atoi(strings.TrimSpace(digits)); err == nil {
		return value
	}
	return unknownSortKey
}
