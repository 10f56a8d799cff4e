package models

import "fmt"

// CompanyRecord is one row of the DART corporate master (corpCode.xml).
// Records are immutable once loaded; the master cache replaces the whole
// slice on refresh.
type CompanyRecord struct {
	CorpCode  string `xml:"corp_code"`
	CorpName  string `xml:"corp_name"`
	StockCode string `xml:"stock_code"`
}

// Listed reports whether the company has a stock exchange code
func (c CompanyRecord) Listed() bool {
	return c.StockCode != ""
}

// Label formats the company for selection lists, matching the DART viewer
// convention of showing the corp code and, when present, the stock code
func (c CompanyRecord) Label() string {
	if c.Listed() {
		return fmt.Sprintf("%s (corp_code:%s, stock:%s)", c.CorpName, c.CorpCode, c.StockCode)
	}
	return fmt.Sprintf("%s (corp_code:%s)", c.CorpName, c.CorpCode)
}
