// Package table reads the raw address table. Three sources are supported:
// a local CSV file, a Google Sheet published to the web, and a private
// Google Sheet read through the Sheets API with a service account. All of
// them yield raw rows; interpreting the fields is the normalizer's job.
package table

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/jeanlaroche/PDFMail/internal/logger"
)

const sheetsAPIBase = "https://sheets.googleapis.com/v4/spreadsheets"

type sourceMode int

const (
	modeCSVFile sourceMode = iota
	modePublicSheet
	modeAPISheet
)

type Source struct {
	mode          sourceMode
	httpClient    *http.Client
	csvFile       string
	spreadsheetID string
	sheetName     string
	publicCSVURL  string
	ts            *tokenSource
}

// FromFile reads the table from a local CSV file.
func FromFile(path string) *Source {
	return &Source{
		mode:    modeCSVFile,
		csvFile: path,
	}
}

// FromSheet reads the table from a Google Sheet. Without a credentials file
// the sheet must be published ("anyone with the link can view") and is
// fetched through the CSV export endpoint; with one, the Sheets API is used
// with a service-account token.
func FromSheet(spreadsheetID, sheetName, credentialsFile string) (*Source, error) {
	if credentialsFile == "" {
		publicCSVURL := fmt.Sprintf(
			"https://docs.google.com/spreadsheets/d/%s/gviz/tq?tqx=out:csv&sheet=%s",
			url.PathEscape(spreadsheetID),
			url.QueryEscape(sheetName),
		)
		return &Source{
			mode:          modePublicSheet,
			httpClient:    &http.Client{},
			spreadsheetID: spreadsheetID,
			sheetName:     sheetName,
			publicCSVURL:  publicCSVURL,
		}, nil
	}

	ts, err := newTokenSource(credentialsFile)
	if err != nil {
		return nil, err
	}
	return &Source{
		mode:          modeAPISheet,
		httpClient:    &http.Client{},
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		ts:            ts,
	}, nil
}

// Rows returns the raw table rows from the configured source.
func (s *Source) Rows() ([][]string, error) {
	switch s.mode {
	case modeCSVFile:
		return s.rowsFromFile()
	case modePublicSheet:
		return s.rowsFromPublicSheet()
	default:
		return s.rowsFromAPI()
	}
}

func (s *Source) rowsFromFile() ([][]string, error) {
	data, err := os.ReadFile(s.csvFile)
	if err != nil {
		return nil, fmt.Errorf("cannot read address table: %w", err)
	}
	rows, err := parseCSV(data)
	if err != nil {
		return nil, fmt.Errorf("cannot parse address table %s: %w", s.csvFile, err)
	}
	logger.Debug("address table read", "path", s.csvFile, "rows", len(rows))
	return rows, nil
}

func (s *Source) rowsFromPublicSheet() ([][]string, error) {
	resp, err := s.httpClient.Get(s.publicCSVURL)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch published sheet: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"cannot fetch published sheet (HTTP %d); check that the sheet is shared as 'anyone with the link can view'",
			resp.StatusCode,
		)
	}

	rows, err := parseCSV(body)
	if err != nil {
		return nil, fmt.Errorf("cannot parse published sheet CSV: %w", err)
	}
	logger.Debug("published sheet read", "spreadsheet", s.spreadsheetID, "rows", len(rows))
	return rows, nil
}

type valuesResponse struct {
	Values [][]string `json:"values"`
}

func (s *Source) rowsFromAPI() ([][]string, error) {
	token, err := s.ts.getToken()
	if err != nil {
		return nil, err
	}

	readRange := s.sheetName + "!A1:ZZ"
	u := fmt.Sprintf("%s/%s/values/%s",
		sheetsAPIBase,
		s.spreadsheetID,
		url.PathEscape(readRange))

	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Sheets API error (HTTP %d): %s", resp.StatusCode, string(body))
	}

	var result valuesResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("cannot parse Sheets API response: %w", err)
	}
	logger.Debug("sheet read via API", "spreadsheet", s.spreadsheetID, "rows", len(result.Values))
	return result.Values, nil
}

// parseCSV parses comma-delimited data without enforcing a field count.
// Quote handling is lazy: spreadsheet exports leave stray " characters in
// fields and the normalizer strips them, so a malformed quote must not kill
// the read.
func parseCSV(data []byte) ([][]string, error) {
	// Strip a UTF-8 BOM so it doesn't leak into the first cell.
	if len(data) >= 3 && bytes.Equal(data[:3], []byte{0xEF, 0xBB, 0xBF}) {
		data = data[3:]
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader.ReadAll()
}
