package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"dartgrab/internal/api"
	"dartgrab/internal/corp"
	"dartgrab/internal/db"
	"dartgrab/internal/models"
	"dartgrab/internal/report"
	"dartgrab/internal/ui"
)

const defaultDBPath = "dartgrab.db"

func main() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	keyFlag := flag.String("key", "", "OpenDART API key (falls back to DART_API_KEY)")
	yearFlag := flag.String("year", "", "Collection year YYYY (prompted when empty)")
	queryFlag := flag.String("query", "", "Company search query (prompted when empty)")
	dbPath := flag.String("db", defaultDBPath, "Path to the SQLite company-master snapshot")
	outDir := flag.String("out", ".", "Directory for summary and bundle artifacts")
	refreshFlag := flag.Bool("refresh", false, "Force a company master refresh on startup")
	flag.Parse()

	key := *keyFlag
	if key == "" {
		key = os.Getenv("DART_API_KEY")
	}
	if key == "" {
		var err error
		key, err = ui.PromptForAPIKey()
		if err != nil {
			ui.PrintError(err.Error())
			os.Exit(1)
		}
	}

	database, err := db.New(*dbPath)
	if err != nil {
		ui.PrintError(fmt.Sprintf("Failed to initialize database: %v", err))
		os.Exit(1)
	}
	defer database.Close()

	client := api.NewClientWithLogging(key, *dbPath)
	cache := corp.NewMasterCache(client, database, log.Default())

	ctx := context.Background()

	// Session state survives across menu actions; a failed collection
	// leaves the previous result in place
	var session *models.SessionResult

	forceRefresh := *refreshFlag
	query := *queryFlag
	year := *yearFlag

	// Flags short-circuit the menu on the first pass
	firstPass := query != ""

	for {
		action := ui.ActionSearch
		if !firstPass {
			action, err = ui.PromptForAction(session.HasResult())
			if err != nil {
				ui.PrintError(err.Error())
				os.Exit(1)
			}
		}
		firstPass = false

		switch action {
		case ui.ActionQuit:
			return

		case ui.ActionBrowse:
			if session.HasResult() {
				rows := report.BuildRows(session.Filings, session.ArchiveNames)
				title := fmt.Sprintf("%s - %s (%d filings)", session.Company.CorpName, session.Year, len(session.Filings))
				if err := ui.BrowseFilings(title, rows); err != nil {
					ui.PrintError(err.Error())
				}
			}

		case ui.ActionRefreshMaster:
			if err := refreshMaster(ctx, cache); err != nil {
				ui.PrintError(err.Error())
			}

		case ui.ActionClearCache:
			if err := cache.Clear(); err != nil {
				ui.PrintError(err.Error())
				continue
			}
			session = nil
			ui.PrintSuccess("Cached company master and session result cleared")

		case ui.ActionSearch:
			result, err := runCollection(ctx, client, cache, query, year, *outDir, forceRefresh)
			query, year = "", "" // flags apply to the first run only
			forceRefresh = false

			// A run that completed but failed to write its artifacts
			// still produced a browsable result; keep it
			session = latestSession(session, result)
			if err != nil {
				ui.PrintError(err.Error())
			}
		}
	}
}

// latestSession prefers a freshly completed collection over the previous
// one; a run that produced nothing leaves the old result in place
func latestSession(prev, next *models.SessionResult) *models.SessionResult {
	if next != nil {
		return next
	}
	return prev
}

// refreshMaster force-fetches the company master behind a spinner
func refreshMaster(ctx context.Context, cache *corp.MasterCache) error {
	var companies []models.CompanyRecord
	var fetchErr error
	err := ui.RunWithSpinner("Refreshing company master...", func() {
		companies, fetchErr = cache.Refresh(ctx)
	})
	if err != nil {
		return err
	}
	if fetchErr != nil {
		return fetchErr
	}
	ui.PrintSuccess(fmt.Sprintf("Company master refreshed (%d companies)", len(companies)))
	return nil
}

// runCollection performs one full search → select → collect → download →
// aggregate cycle and returns the finished session result
func runCollection(ctx context.Context, client *api.Client, cache *corp.MasterCache, query, year, outDir string, forceRefresh bool) (*models.SessionResult, error) {
	// 1) Company search against the cached master
	search := ui.SearchInput{Query: query}
	if query == "" {
		var err error
		search, err = ui.PromptForSearch("")
		if err != nil {
			return nil, err
		}
	}

	var master []models.CompanyRecord
	var masterErr error
	if err := ui.RunWithSpinner("Loading company master...", func() {
		master, masterErr = cache.Get(ctx, forceRefresh)
	}); err != nil {
		return nil, err
	}
	if masterErr != nil {
		return nil, masterErr
	}

	var candidates []models.CompanyRecord
	if search.ExactOnly {
		candidates = corp.SearchExact(search.Query, master)
	} else {
		candidates = corp.Search(search.Query, master)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no company matches %q: %w", search.Query, api.ErrEmptyResult)
	}

	company, err := ui.SelectCompany(candidates)
	if err != nil {
		return nil, err
	}
	ui.PrintSuccess(fmt.Sprintf("Selected: %s", company.Label()))

	// 2) Year
	if year == "" {
		year, err = ui.PromptForYear(fmt.Sprintf("%d", time.Now().Year()))
		if err != nil {
			return nil, err
		}
	}

	// 3) Filing list
	fmt.Println()
	fetch := client.FetchFilings(ctx, company.CorpCode, year, ui.PrintFetchProgress)
	fmt.Println()

	if fetch.Err != nil && len(fetch.Filings) == 0 {
		return nil, fmt.Errorf("failed to fetch filing list: %w", fetch.Err)
	}

	partialNote := ""
	if fetch.Err != nil {
		partialNote = fmt.Sprintf("filing list incomplete after page %d: %v", fetch.Pages, fetch.Err)
		ui.PrintError(partialNote)
		ui.PrintInfo(fmt.Sprintf("Continuing with %d filings collected so far", len(fetch.Filings)))
	}

	if len(fetch.Filings) == 0 {
		ui.PrintInfo(fmt.Sprintf("No filings for %s in %s", company.CorpName, year))
		return nil, nil
	}
	ui.PrintSuccess(fmt.Sprintf("Found %d filings for %s in %s", len(fetch.Filings), company.CorpName, year))

	// 4) Archive downloads
	entries := make(map[string][]byte)
	zipNames := make(map[string]string)
	failed := 0

	total := len(fetch.Filings)
	for i, f := range fetch.Filings {
		name := f.ArchiveName()
		ui.PrintDownloadProgress(i+1, total, name)

		content, err := client.DownloadFiling(ctx, f.AccessionNumber)
		if err != nil {
			var authErr *api.AuthError
			var quotaErr *api.QuotaError
			if errors.As(err, &authErr) || errors.As(err, &quotaErr) {
				// Key problems will fail every remaining download too
				fmt.Println()
				ui.PrintError(err.Error())
				failed += total - i
				break
			}
			log.Warn("Archive download failed", "accession", f.AccessionNumber, "error", err)
			failed++
			continue
		}
		entries[name] = content
		zipNames[f.AccessionNumber] = name
	}
	fmt.Println()

	// 5) Summary + bundle
	xlsxBytes, csvBytes, err := report.BuildSummary(fetch.Filings, zipNames)
	if err != nil {
		return nil, err
	}
	bundleBytes, err := report.BuildBundle(entries)
	if err != nil {
		return nil, err
	}

	session := &models.SessionResult{
		Company:      company,
		Year:         year,
		Filings:      fetch.Filings,
		SummaryXLSX:  xlsxBytes,
		SummaryCSV:   csvBytes,
		Bundle:       bundleBytes,
		ArchiveNames: zipNames,
		Downloaded:   len(entries),
		Failed:       failed,
		PartialNote:  partialNote,
	}

	if err := writeArtifacts(outDir, session); err != nil {
		return session, err
	}

	ui.PrintSuccess(fmt.Sprintf("Done: %d filings, %d archives downloaded, %d failed", len(fetch.Filings), session.Downloaded, session.Failed))

	rows := report.BuildRows(session.Filings, zipNames)
	title := fmt.Sprintf("%s - %s (%d filings)", company.CorpName, year, len(rows))
	if err := ui.BrowseFilings(title, rows); err != nil {
		ui.PrintError(err.Error())
	}
	return session, nil
}

// writeArtifacts saves the xlsx/csv summary and the combined bundle
func writeArtifacts(outDir string, s *models.SessionResult) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	artifacts := map[string][]byte{
		report.SummaryFilename(s.Year, s.Company, ".xlsx"): s.SummaryXLSX,
		report.SummaryFilename(s.Year, s.Company, ".csv"):  s.SummaryCSV,
		report.BundleFilename(s.Year, s.Company):           s.Bundle,
	}

	for name, data := range artifacts {
		path := filepath.Join(outDir, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		ui.PrintInfo("Wrote " + path)
	}
	return nil
}
