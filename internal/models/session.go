package models

// SessionResult holds the artifacts of one collection run. It is replaced
// wholesale by the next run and cleared when the master cache is cleared;
// a failed run leaves the previous result untouched.
type SessionResult struct {
	Company CompanyRecord
	Year    string
	Filings []FilingRecord

	SummaryXLSX []byte
	SummaryCSV  []byte
	Bundle      []byte

	// ArchiveNames maps accession number to the bundle entry actually
	// written; filings absent from the map failed to download
	ArchiveNames map[string]string

	Downloaded int
	Failed     int

	// PartialNote is set when the filing list was cut short by an API
	// error and the result covers only the pages fetched so far
	PartialNote string
}

// HasResult reports whether the session holds a completed collection
func (s *SessionResult) HasResult() bool {
	return s != nil && len(s.Filings) > 0
}
