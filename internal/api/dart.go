package api

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"dartgrab/internal/models"
)

const (
	apiHost      = "https://opendart.fss.or.kr"
	userAgent    = "dartgrab/1.0"
	listPageSize = 100 // max allowed by list.json

	requestTimeout = 60 * time.Second
	maxRetries     = 3
	retryBaseWait  = 500 * time.Millisecond

	// ~12 requests/second keeps well under the DART daily quota pacing
	// and matches the original tool's inter-request sleep
	requestsPerSecond = 12
)

// Client talks to the OpenDART disclosure API. All requests are keyed by
// the caller-supplied API key and paced through a shared rate limiter.
type Client struct {
	httpClient *http.Client
	host       string
	apiKey     string
	limiter    *rate.Limiter
	logger     *log.Logger
}

// ClientOption allows for customization of the client
type ClientOption func(*Client)

// NewClient creates a new OpenDART client with a 60 second timeout
func NewClient(apiKey string, options ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		host:    apiHost,
		apiKey:  apiKey,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}

	for _, option := range options {
		option(c)
	}
	return c
}

// WithHost overrides the API host (used by tests)
func WithHost(host string) ClientOption {
	return func(c *Client) {
		c.host = host
	}
}

// WithLogger sets a logger for request and retry reporting
func WithLogger(logger *log.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClientWithLogging creates a client that logs API traffic to api.log
// in the same directory as the database
func NewClientWithLogging(apiKey string, dbPath string) *Client {
	logFile := filepath.Join(filepath.Dir(dbPath), "api.log")

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		// Fall back to a client without file logging
		return NewClient(apiKey)
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "API",
	})

	return NewClient(apiKey, WithLogger(logger))
}

// get performs a rate-limited GET against an API path with query params
func (c *Client) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	params.Set("crtfc_key", c.apiKey)
	reqURL := c.host + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	if c.logger != nil {
		c.logger.Info("GET", "endpoint", path, "params", redactKey(params))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("Request failed", "endpoint", path, "error", err)
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// apiResponse is one fully read API response
type apiResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// getWithRetry performs a GET, retrying transient failures (transport
// errors, short reads, 5xx) with a short backoff. Responses carrying a
// DART error envelope come back as a normal apiResponse; the caller maps
// those to typed errors.
func (c *Client) getWithRetry(ctx context.Context, path string, params url.Values) (*apiResponse, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := retryBaseWait << (attempt - 1)
			if c.logger != nil {
				c.logger.Warn("Retrying request", "endpoint", path, "attempt", attempt, "backoff", backoff)
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := c.get(ctx, path, params)
		if err != nil {
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			continue
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			lastErr = fmt.Errorf("%s returned status %d", path, resp.StatusCode)
			continue
		}

		return &apiResponse{
			StatusCode:  resp.StatusCode,
			ContentType: resp.Header.Get("Content-Type"),
			Body:        body,
		}, nil
	}

	return nil, fmt.Errorf("%s failed after %d retries: %w", path, maxRetries, lastErr)
}

// redactKey hides the API key in log output
func redactKey(params url.Values) string {
	clean := url.Values{}
	for k, vs := range params {
		if k == "crtfc_key" {
			clean.Set(k, "***")
			continue
		}
		clean[k] = vs
	}
	return clean.Encode()
}

// corpMasterDoc matches the CORPCODE.xml payload inside the corpCode.xml ZIP
type corpMasterDoc struct {
	List []struct {
		CorpCode  string `xml:"corp_code"`
		CorpName  string `xml:"corp_name"`
		StockCode string `xml:"stock_code"`
	} `xml:"list"`
}

// FetchCorpMaster downloads the full company master. The endpoint returns
// a ZIP containing one XML document with every registered corporation.
func (c *Client) FetchCorpMaster(ctx context.Context) ([]models.CompanyRecord, error) {
	resp, err := c.getWithRetry(ctx, "/api/corpCode.xml", url.Values{})
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("corpCode.xml returned status %d", resp.StatusCode)
	}

	// An invalid key yields a plain XML error envelope instead of a ZIP
	if !isZIPPayload(resp.Body) {
		if status, message, ok := parseEnvelope(resp.Body); ok {
			return nil, statusError(status, message)
		}
		return nil, &FormatError{
			ContentType: resp.ContentType,
			Cause:       inspectErrorBody(resp.ContentType, resp.Body),
		}
	}

	zr, err := zip.NewReader(bytes.NewReader(resp.Body), int64(len(resp.Body)))
	if err != nil {
		return nil, fmt.Errorf("failed to open corp master archive: %w", err)
	}
	if len(zr.File) == 0 {
		return nil, fmt.Errorf("corp master archive is empty")
	}

	fp, err := zr.File[0].Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", zr.File[0].Name, err)
	}
	defer fp.Close()

	xmlBytes, err := io.ReadAll(fp)
	if err != nil {
		return nil, fmt.Errorf("failed to read corp master XML: %w", err)
	}

	var doc corpMasterDoc
	if err := xml.Unmarshal(xmlBytes, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse corp master XML: %w", err)
	}

	companies := make([]models.CompanyRecord, 0, len(doc.List))
	for _, el := range doc.List {
		code := strings.TrimSpace(el.CorpCode)
		if code == "" {
			continue
		}
		companies = append(companies, models.CompanyRecord{
			CorpCode:  code,
			CorpName:  strings.TrimSpace(el.CorpName),
			StockCode: strings.TrimSpace(el.StockCode),
		})
	}

	if c.logger != nil {
		c.logger.Info("Corp master fetched", "companies", len(companies))
	}
	return companies, nil
}

// listResponse matches the list.json envelope
type listResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	PageNo     int    `json:"page_no"`
	TotalCount int    `json:"total_count"`
	TotalPage  int    `json:"total_page"`
	List       []struct {
		CorpCode  string `json:"corp_code"`
		CorpName  string `json:"corp_name"`
		StockCode string `json:"stock_code"`
		ReportNm  string `json:"report_nm"`
		RceptNo   string `json:"rcept_no"`
		FlrNm     string `json:"flr_nm"`
		RceptDt   string `json:"rcept_dt"`
	} `json:"list"`
}

// FetchResult holds the outcome of a paginated filing-list fetch. Filings
// may be partial when Err is non-nil: pages collected before the failure
// are kept rather than discarded.
type FetchResult struct {
	Filings []models.FilingRecord
	Pages   int
	Err     error
}

// FetchFilings collects every filing the company submitted in the given
// year, walking list.json pages until total_count is reached. The progress
// callback, if non-nil, is called with (fetched, page) after each page.
func (c *Client) FetchFilings(ctx context.Context, corpCode, year string, progress func(fetched, page int)) FetchResult {
	var all []models.FilingRecord
	seen := make(map[string]bool)
	page := 1

	for {
		resp, err := c.fetchListPage(ctx, corpCode, year, page)
		if err != nil {
			return FetchResult{Filings: all, Pages: page - 1, Err: err}
		}

		if resp.Status == statusNoData {
			break
		}
		if resp.Status != statusOK {
			return FetchResult{Filings: all, Pages: page - 1, Err: statusError(resp.Status, resp.Message)}
		}

		added := 0
		for _, it := range resp.List {
			rceptNo := strings.TrimSpace(it.RceptNo)
			if rceptNo == "" || seen[rceptNo] {
				continue
			}
			seen[rceptNo] = true
			added++

			title := strings.TrimSpace(it.ReportNm)
			all = append(all, models.FilingRecord{
				CorpCode:        strings.TrimSpace(it.CorpCode),
				CorpName:        strings.TrimSpace(it.CorpName),
				AccessionNumber: rceptNo,
				ReportName:      stripBracketTags(title),
				Title:           title,
				SubmittedDate:   strings.TrimSpace(it.RceptDt),
				FilerName:       strings.TrimSpace(it.FlrNm),
			})
		}

		if progress != nil {
			progress(len(all), page)
		}
		if c.logger != nil {
			c.logger.Info("Filing page fetched", "page", page, "pageFilings", len(resp.List), "total", resp.TotalCount)
		}

		// DART repeats the last page when page_no overruns, so an empty
		// or fully-duplicate page also ends the walk
		if len(all) >= resp.TotalCount || len(resp.List) == 0 || added == 0 {
			break
		}
		page++
	}

	return FetchResult{Filings: all, Pages: page}
}

// fetchListPage fetches one list.json page
func (c *Client) fetchListPage(ctx context.Context, corpCode, year string, page int) (*listResponse, error) {
	params := url.Values{}
	params.Set("corp_code", corpCode)
	params.Set("bgn_de", year+"0101")
	params.Set("end_de", year+"1231")
	params.Set("page_no", fmt.Sprintf("%d", page))
	params.Set("page_count", fmt.Sprintf("%d", listPageSize))

	resp, err := c.getWithRetry(ctx, "/api/list.json", params)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list.json returned status %d", resp.StatusCode)
	}

	var parsed listResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode list.json: %w", err)
	}
	return &parsed, nil
}

// DownloadFiling downloads the original-document ZIP for one filing.
// Non-ZIP responses (error envelopes, HTML error pages) are turned into a
// typed error with a readable cause instead of raw bytes.
func (c *Client) DownloadFiling(ctx context.Context, accessionNumber string) ([]byte, error) {
	params := url.Values{}
	params.Set("rcept_no", accessionNumber)

	resp, err := c.getWithRetry(ctx, "/api/document.xml", params)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusOK && isZIPPayload(resp.Body) {
		return resp.Body, nil
	}

	if status, message, ok := parseEnvelope(resp.Body); ok {
		switch status {
		case statusNoData:
			return nil, &FormatError{
				ContentType: resp.ContentType,
				Cause:       fmt.Sprintf("no document found for accession %s", accessionNumber),
			}
		default:
			return nil, statusError(status, message)
		}
	}

	return nil, &FormatError{
		ContentType: resp.ContentType,
		Cause:       inspectErrorBody(resp.ContentType, resp.Body),
	}
}

// isZIPPayload checks for the local-file-header magic. Tiny payloads are
// rejected as well: DART error envelopes are always short, real filing
// archives never are.
func isZIPPayload(b []byte) bool {
	return len(b) > 1000 && bytes.HasPrefix(b, []byte("PK\x03\x04"))
}

// envelopeDoc matches the XML/JSON error envelope shared by all endpoints
type envelopeDoc struct {
	Status  string `xml:"status" json:"status"`
	Message string `xml:"message" json:"message"`
}

// parseEnvelope tries to read a DART status envelope out of a body,
// whether XML (document.xml, corpCode.xml) or JSON (list.json)
func parseEnvelope(body []byte) (status, message string, ok bool) {
	trimmed := bytes.TrimSpace(body)

	var doc envelopeDoc
	if bytes.HasPrefix(trimmed, []byte("<")) {
		if err := xml.Unmarshal(trimmed, &doc); err == nil && doc.Status != "" {
			return doc.Status, doc.Message, true
		}
		return "", "", false
	}
	if bytes.HasPrefix(trimmed, []byte("{")) {
		if err := json.Unmarshal(trimmed, &doc); err == nil && doc.Status != "" {
			return doc.Status, doc.Message, true
		}
	}
	return "", "", false
}

// stripBracketTags removes leading DART annotations like [기재정정] or
// [첨부추가] from a report name, leaving the base report title
func stripBracketTags(name string) string {
	for strings.HasPrefix(name, "[") {
		end := strings.Index(name, "]")
		if end < 0 {
			break
		}
		name = strings.TrimSpace(name[end+1:])
	}
	if name == "" {
		return "unknown_report"
	}
	return name
}
