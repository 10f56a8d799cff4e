// Package report builds the downloadable artifacts of a collection run:
// the summary table (xlsx and csv) and the combined ZIP bundle. Pure
// transformations, no I/O.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"dartgrab/internal/models"
)

const summarySheet = "Filings"

// SummaryHeader is the column order of the summary table
var SummaryHeader = []string{
	"company", "report_name", "accession_no", "submitted", "title", "dart_link", "zip_file",
}

// SummaryRow is one rendered line of the summary table. ZipFile is the
// bundle entry name, or a failure note when the archive download failed.
type SummaryRow struct {
	Company     string
	ReportName  string
	AccessionNo string
	Submitted   string
	Title       string
	DartLink    string
	ZipFile     string
}

func (r SummaryRow) fields() []string {
	return []string{r.Company, r.ReportName, r.AccessionNo, r.Submitted, r.Title, r.DartLink, r.ZipFile}
}

// BuildRows turns filing records into summary rows, sorted newest first
// and by report name within a day. zipNames maps accession number to the
// recorded bundle entry; filings missing from the map are marked failed.
func BuildRows(filings []models.FilingRecord, zipNames map[string]string) []SummaryRow {
	rows := make([]SummaryRow, 0, len(filings))
	for _, f := range filings {
		zipFile, ok := zipNames[f.AccessionNumber]
		if !ok {
			zipFile = fmt.Sprintf("%s.zip (download failed)", f.AccessionNumber)
		}
		rows = append(rows, SummaryRow{
			Company:     f.CorpName,
			ReportName:  f.ReportName,
			AccessionNo: f.AccessionNumber,
			Submitted:   f.SubmittedDate,
			Title:       f.Title,
			DartLink:    f.ViewerURL(),
			ZipFile:     zipFile,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Submitted != rows[j].Submitted {
			return rows[i].Submitted > rows[j].Submitted
		}
		return rows[i].ReportName < rows[j].ReportName
	})
	return rows
}

// BuildSummary renders the summary table as xlsx and csv bytes
func BuildSummary(filings []models.FilingRecord, zipNames map[string]string) (xlsxBytes, csvBytes []byte, err error) {
	rows := BuildRows(filings, zipNames)

	xlsxBytes, err = buildExcel(rows)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build excel summary: %w", err)
	}

	csvBytes, err = buildCSV(rows)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build csv summary: %w", err)
	}
	return xlsxBytes, csvBytes, nil
}

func buildExcel(rows []SummaryRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet, err := f.NewSheet(summarySheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(sheet)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	header := make([]interface{}, len(SummaryHeader))
	for i, h := range SummaryHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(summarySheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, row := range rows {
		cells := make([]interface{}, 0, len(SummaryHeader))
		for _, v := range row.fields() {
			cells = append(cells, v)
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(summarySheet, cell, &cells); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func buildCSV(rows []SummaryRow) ([]byte, error) {
	var buf bytes.Buffer

	// UTF-8 BOM so Excel on Windows detects the encoding and renders
	// Korean report names correctly
	buf.Write([]byte{0xEF, 0xBB, 0xBF})

	w := csv.NewWriter(&buf)
	if err := w.Write(SummaryHeader); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row.fields()); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SummaryFilename names the summary artifact for a collection run
func SummaryFilename(year string, company models.CompanyRecord, ext string) string {
	return models.SanitizeFilename(fmt.Sprintf("dart_summary_%s_%s", year, company.CorpName)) + ext
}

// BundleFilename names the combined ZIP artifact for a collection run
func BundleFilename(year string, company models.CompanyRecord) string {
	return models.SanitizeFilename(fmt.Sprintf("dart_%s_%s_%s_bundle", year, company.CorpName, company.CorpCode)) + ".zip"
}
