package models

import (
	"fmt"
	"strings"
)

const viewerURL = "https://dart.fss.or.kr/dsaf001/main.do?rcpNo="

// FilingRecord is one disclosure submission as returned by the DART list
// API. AccessionNumber (rcept_no) uniquely identifies the filing.
type FilingRecord struct {
	CorpCode        string // company the filing belongs to
	CorpName        string
	AccessionNumber string // rcept_no, 14 digits
	ReportName      string // report name with bracket annotations stripped
	Title           string // full report name as submitted (e.g. "[기재정정]사업보고서 (2023.12)")
	SubmittedDate   string // rcept_dt, YYYYMMDD
	FilerName       string // flr_nm
}

// ViewerURL returns the DART web viewer link for this filing
func (f FilingRecord) ViewerURL() string {
	return viewerURL + f.AccessionNumber
}

// ArchiveName returns the bundle entry name for this filing's ZIP,
// following the submission_date_report_name_accession convention. The raw
// report name is used so correction markers like [기재정정] stay visible in
// the filename.
func (f FilingRecord) ArchiveName() string {
	return SanitizeFilename(fmt.Sprintf("%s_%s_%s", f.SubmittedDate, f.Title, f.AccessionNumber)) + ".zip"
}

// SanitizeFilename makes a string safe to use as a filename on Windows,
// macOS and Linux: path and shell metacharacters become underscores, runs
// of whitespace collapse to a single underscore, and the result is capped
// at 120 runes.
func SanitizeFilename(name string) string {
	if name == "" {
		name = "unknown_report"
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case '\\', '/', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
	name = strings.Join(strings.Fields(name), "_")

	runes := []rune(name)
	if len(runes) > 120 {
		runes = runes[:120]
	}
	return string(runes)
}
