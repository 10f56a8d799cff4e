package corp

import (
	"strings"
	"testing"

	"dartgrab/internal/models"
)

func testMaster() []models.CompanyRecord {
	return []models.CompanyRecord{
		{CorpCode: "00126380", CorpName: "삼성전자", StockCode: "005930"},
		{CorpCode: "00258999", CorpName: "삼성전자서비스", StockCode: ""},
		{CorpCode: "00164742", CorpName: "현대자동차", StockCode: "005380"},
		{CorpCode: "00401731", CorpName: "삼성 전자판매", StockCode: ""},
		{CorpCode: "00113526", CorpName: "엘지전자", StockCode: "066570"},
	}
}

// TestSearchExactBeforePartial verifies the exact match on 삼성전자 sorts
// ahead of the longer 삼성전자서비스 substring match
func TestSearchExactBeforePartial(t *testing.T) {
	got := Search("삼성전자", testMaster())

	if len(got) < 2 {
		t.Fatalf("Search() returned %d results, want at least 2", len(got))
	}
	if got[0].CorpName != "삼성전자" {
		t.Errorf("first result = %q, want exact match 삼성전자", got[0].CorpName)
	}
	for _, c := range got[1:] {
		if c.CorpName == "삼성전자" {
			t.Errorf("exact match appears after partial matches")
		}
	}
}

// TestSearchWhitespaceInsensitive verifies queries and names compare with
// all whitespace stripped
func TestSearchWhitespaceInsensitive(t *testing.T) {
	tests := []struct {
		query    string
		wantName string
	}{
		{"삼성 전자", "삼성전자"},
		{"삼성전자판매", "삼성 전자판매"},
		{" 엘지전자 ", "엘지전자"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := Search(tt.query, testMaster())
			if len(got) == 0 {
				t.Fatalf("Search(%q) returned nothing", tt.query)
			}
			if got[0].CorpName != tt.wantName {
				t.Errorf("Search(%q)[0] = %q, want %q", tt.query, got[0].CorpName, tt.wantName)
			}
		})
	}
}

// TestSearchCaseInsensitive uses latin names since casefolding only
// affects cased scripts
func TestSearchCaseInsensitive(t *testing.T) {
	master := []models.CompanyRecord{
		{CorpCode: "1", CorpName: "NAVER", StockCode: "035420"},
		{CorpCode: "2", CorpName: "Kakao Games", StockCode: ""},
	}

	if got := Search("naver", master); len(got) != 1 || got[0].CorpName != "NAVER" {
		t.Errorf("Search(naver) = %v, want NAVER", got)
	}
	if got := Search("KAKAOGAMES", master); len(got) != 1 || got[0].CorpName != "Kakao Games" {
		t.Errorf("Search(KAKAOGAMES) = %v, want Kakao Games", got)
	}
}

// TestSearchListedBeforeUnlisted verifies the tier-internal ordering
func TestSearchListedBeforeUnlisted(t *testing.T) {
	master := []models.CompanyRecord{
		{CorpCode: "1", CorpName: "한빛소프트개발", StockCode: ""},
		{CorpCode: "2", CorpName: "한빛소프트", StockCode: "047080"},
		{CorpCode: "3", CorpName: "한빛소프트서비스", StockCode: "999999"},
	}

	got := Search("한빛", master)
	if len(got) != 3 {
		t.Fatalf("Search() returned %d results, want 3", len(got))
	}

	// All three are substring matches; the two listed ones come first
	if !got[0].Listed() || !got[1].Listed() {
		t.Errorf("listed companies should sort before unlisted: %v", got)
	}
	if got[2].Listed() {
		t.Errorf("unlisted company should sort last: %v", got[2])
	}
}

// TestSearchMatchesContainQuery checks the containment property for every
// returned row
func TestSearchMatchesContainQuery(t *testing.T) {
	queries := []string{"삼성", "전자", "자동차"}
	for _, q := range queries {
		for _, c := range Search(q, testMaster()) {
			name := normalizeName(c.CorpName)
			if !strings.Contains(name, normalizeName(q)) {
				t.Errorf("Search(%q) returned %q which does not contain the query", q, c.CorpName)
			}
		}
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	if got := Search("", testMaster()); len(got) != 0 {
		t.Errorf("Search(\"\") = %d results, want 0", len(got))
	}
	if got := Search("   ", testMaster()); len(got) != 0 {
		t.Errorf("Search(whitespace) = %d results, want 0", len(got))
	}
}

func TestSearchExactOnly(t *testing.T) {
	got := SearchExact("삼성전자", testMaster())
	if len(got) != 1 {
		t.Fatalf("SearchExact() = %d results, want 1", len(got))
	}
	if got[0].CorpName != "삼성전자" {
		t.Errorf("SearchExact()[0] = %q, want 삼성전자", got[0].CorpName)
	}
}

func TestSearchResultCap(t *testing.T) {
	master := make([]models.CompanyRecord, 0, 300)
	for i := 0; i < 300; i++ {
		master = append(master, models.CompanyRecord{
			CorpCode: string(rune('a' + i%26)),
			CorpName: "공통이름회사",
		})
	}

	if got := Search("공통이름", master); len(got) != maxResults {
		t.Errorf("Search() = %d results, want cap of %d", len(got), maxResults)
	}
}
