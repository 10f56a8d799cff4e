package corp

import (
	"sort"
	"strings"
	"unicode"

	"dartgrab/internal/models"
)

// maxResults caps search output; the master holds ~100k companies and a
// short substring can match thousands of them
const maxResults = 200

const (
	rankExact     = 0
	rankSubstring = 1
)

// normalizeName lowercases a company name and strips all whitespace so
// "삼성 전자" and "삼성전자" compare equal
func normalizeName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type scoredMatch struct {
	company models.CompanyRecord
	rank    int
}

// Search returns companies whose name matches the query, exact matches
// before substring matches, listed companies before unlisted within each
// tier, names ascending within that. An empty query matches nothing.
func Search(query string, companies []models.CompanyRecord) []models.CompanyRecord {
	q := normalizeName(query)
	if q == "" {
		return nil
	}

	var matches []scoredMatch
	for _, c := range companies {
		name := normalizeName(c.CorpName)
		switch {
		case name == q:
			matches = append(matches, scoredMatch{company: c, rank: rankExact})
		case strings.Contains(name, q):
			matches = append(matches, scoredMatch{company: c, rank: rankSubstring})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].rank != matches[j].rank {
			return matches[i].rank < matches[j].rank
		}
		if matches[i].company.Listed() != matches[j].company.Listed() {
			return matches[i].company.Listed()
		}
		return matches[i].company.CorpName < matches[j].company.CorpName
	})

	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}

	result := make([]models.CompanyRecord, len(matches))
	for i, m := range matches {
		result[i] = m.company
	}
	return result
}

// SearchExact restricts Search to exact-name matches only
func SearchExact(query string, companies []models.CompanyRecord) []models.CompanyRecord {
	q := normalizeName(query)
	if q == "" {
		return nil
	}

	var result []models.CompanyRecord
	for _, c := range Search(query, companies) {
		if normalizeName(c.CorpName) == q {
			result = append(result, c)
		}
	}
	return result
}
