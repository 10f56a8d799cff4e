package models

import (
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "사업보고서", "사업보고서"},
		{"metacharacters", `a\b/c:d*e?f"g<h>i|j`, "a_b_c_d_e_f_g_h_i_j"},
		{"whitespace run", "분기보고서  (2023.03)", "분기보고서_(2023.03)"},
		{"tabs and newlines", "a\tb\nc", "a_b_c"},
		{"empty", "", "unknown_report"},
		{"leading and trailing space", "  보고서  ", "보고서"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.in); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeFilenameCapsLength(t *testing.T) {
	long := strings.Repeat("가", 300)
	got := SanitizeFilename(long)
	if n := len([]rune(got)); n != 120 {
		t.Errorf("SanitizeFilename() kept %d runes, want 120", n)
	}
}

func TestArchiveName(t *testing.T) {
	f := FilingRecord{
		AccessionNumber: "20230515000222",
		ReportName:      "분기보고서 (2023.03)",
		Title:           "분기보고서 (2023.03)",
		SubmittedDate:   "20230515",
	}

	want := "20230515_분기보고서_(2023.03)_20230515000222.zip"
	if got := f.ArchiveName(); got != want {
		t.Errorf("ArchiveName() = %q, want %q", got, want)
	}
}

// TestArchiveNameKeepsCorrectionMarker verifies a corrected filing's name
// carries the raw report name, so a report and its correction stay
// distinguishable in the bundle
func TestArchiveNameKeepsCorrectionMarker(t *testing.T) {
	original := FilingRecord{
		AccessionNumber: "20230301000111",
		ReportName:      "사업보고서 (2022.12)",
		Title:           "사업보고서 (2022.12)",
		SubmittedDate:   "20230301",
	}
	correction := FilingRecord{
		AccessionNumber: "20230310000222",
		ReportName:      "사업보고서 (2022.12)",
		Title:           "[기재정정]사업보고서 (2022.12)",
		SubmittedDate:   "20230310",
	}

	got := correction.ArchiveName()
	if !strings.Contains(got, "[기재정정]") {
		t.Errorf("ArchiveName() = %q, want the correction marker kept", got)
	}
	if got == original.ArchiveName() {
		t.Errorf("correction shares archive name with the original: %q", got)
	}
}

func TestViewerURL(t *testing.T) {
	f := FilingRecord{AccessionNumber: "20230515000222"}
	want := "https://dart.fss.or.kr/dsaf001/main.do?rcpNo=20230515000222"
	if got := f.ViewerURL(); got != want {
		t.Errorf("ViewerURL() = %q, want %q", got, want)
	}
}

func TestCompanyLabel(t *testing.T) {
	listed := CompanyRecord{CorpCode: "00126380", CorpName: "삼성전자", StockCode: "005930"}
	if got := listed.Label(); got != "삼성전자 (corp_code:00126380, stock:005930)" {
		t.Errorf("Label() = %q", got)
	}
	if !listed.Listed() {
		t.Error("Listed() = false for a company with a stock code")
	}

	unlisted := CompanyRecord{CorpCode: "00258999", CorpName: "삼성전자서비스"}
	if got := unlisted.Label(); got != "삼성전자서비스 (corp_code:00258999)" {
		t.Errorf("Label() = %q", got)
	}
	if unlisted.Listed() {
		t.Error("Listed() = true for a company without a stock code")
	}
}

func TestSessionResultHasResult(t *testing.T) {
	var nilSession *SessionResult
	if nilSession.HasResult() {
		t.Error("nil session reports a result")
	}
	if (&SessionResult{}).HasResult() {
		t.Error("empty session reports a result")
	}

	full := &SessionResult{Filings: []FilingRecord{{AccessionNumber: "1"}}}
	if !full.HasResult() {
		t.Error("populated session reports no result")
	}
}
