package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"dartgrab/internal/models"
)

// sanitizeInput removes null bytes and other invisible control characters
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0 || (r < 32 && r != '\t' && r != '\n' && r != '\r') {
			return -1
		}
		return r
	}, s)
}

// PromptForAPIKey prompts for the OpenDART API key
func PromptForAPIKey() (string, error) {
	var key string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("OpenDART API Key").
				Description("Issued at https://opendart.fss.or.kr/ (not stored)").
				EchoMode(huh.EchoModePassword).
				Value(&key).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("API key cannot be empty")
					}
					return nil
				}),
		),
	)

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("prompt cancelled: %w", err)
	}
	return strings.TrimSpace(sanitizeInput(key)), nil
}

// SearchInput holds one company-search request
type SearchInput struct {
	Query     string
	ExactOnly bool
}

// PromptForSearch asks for a company name query and the exact-only toggle
func PromptForSearch(defaultQuery string) (SearchInput, error) {
	in := SearchInput{Query: defaultQuery}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Company Search").
				Description("Company name, partial matches allowed (e.g. 삼성전자)").
				Placeholder("company name").
				Value(&in.Query).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("search query cannot be empty")
					}
					return nil
				}),
			huh.NewConfirm().
				Title("Exact matches only?").
				Affirmative("Yes").
				Negative("No").
				Value(&in.ExactOnly),
		),
	)

	if err := form.Run(); err != nil {
		return SearchInput{}, fmt.Errorf("prompt cancelled: %w", err)
	}
	in.Query = strings.TrimSpace(sanitizeInput(in.Query))
	return in, nil
}

// PromptForYear asks for the collection year (YYYY)
func PromptForYear(defaultYear string) (string, error) {
	year := defaultYear

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Filing Year").
				Description("Year to collect filings for (YYYY)").
				Placeholder(defaultYear).
				Value(&year).
				Validate(validateYear),
		),
	)

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("prompt cancelled: %w", err)
	}

	year = strings.TrimSpace(year)
	if year == "" {
		year = defaultYear
	}
	return year, nil
}

func validateYear(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil // use default
	}
	if len(s) != 4 {
		return fmt.Errorf("year must be 4 digits, e.g. 2024")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return fmt.Errorf("year must be 4 digits, e.g. 2024")
		}
	}
	return nil
}

// SelectCompany lets the user pick one company from the search results.
// The option carries the record itself, so the selection can never drift
// from the displayed row.
func SelectCompany(companies []models.CompanyRecord) (models.CompanyRecord, error) {
	if len(companies) == 0 {
		return models.CompanyRecord{}, fmt.Errorf("no companies to select from")
	}

	options := make([]huh.Option[models.CompanyRecord], len(companies))
	for i, c := range companies {
		options[i] = huh.NewOption(c.Label(), c)
	}

	var selected models.CompanyRecord
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[models.CompanyRecord]().
				Title(fmt.Sprintf("Select Company (%d matches)", len(companies))).
				Options(options...).
				Value(&selected),
		),
	)

	if err := form.Run(); err != nil {
		return models.CompanyRecord{}, fmt.Errorf("prompt cancelled: %w", err)
	}
	return selected, nil
}

// Action is one top-level menu choice
type Action int

const (
	ActionSearch Action = iota
	ActionBrowse
	ActionRefreshMaster
	ActionClearCache
	ActionQuit
)

// PromptForAction shows the main menu. Browse is offered only when a
// previous collection result is still held in the session.
func PromptForAction(hasResult bool) (Action, error) {
	options := []huh.Option[Action]{
		huh.NewOption("Search a company and collect filings", ActionSearch),
	}
	if hasResult {
		options = append(options, huh.NewOption("Browse last result", ActionBrowse))
	}
	options = append(options,
		huh.NewOption("Refresh company master", ActionRefreshMaster),
		huh.NewOption("Clear cached master", ActionClearCache),
		huh.NewOption("Quit", ActionQuit),
	)

	var action Action
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Action]().
				Title("dartgrab").
				Options(options...).
				Value(&action),
		),
	)

	if err := form.Run(); err != nil {
		return ActionQuit, nil // treat cancel as quit
	}
	return action, nil
}
