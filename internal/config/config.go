package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

// Config holds every knob of a document run. Values come from the optional
// JSON config file and are overridden by command-line flags.
type Config struct {
	PerSheet        int     `json:"per_sheet" validate:"oneof=1 2"`
	SortByZip       bool    `json:"sort_by_zip"`
	MaxPages        int     `json:"max_pages" validate:"min=1"`
	HeaderLines     int     `json:"header_lines" validate:"min=0"`
	Margin          float64 `json:"margin" validate:"min=0"`
	XAdjust         float64 `json:"x_adjust"`
	YAdjust         float64 `json:"y_adjust"`
	FontSizeAdjust  int     `json:"font_size_adjust"`
	FontFile        string  `json:"font_file"`
	OutputFile      string  `json:"output_file"`
	SourceFile      string  `json:"source_file"`
	SourceDPI       float64 `json:"source_dpi" validate:"min=0"`
	BackOnly        bool    `json:"back_only"`
	TestMode        bool    `json:"test_mode"`
	SpreadsheetID   string  `json:"spreadsheet_id"`
	SheetName       string  `json:"sheet_name"`
	CredentialsFile string  `json:"credentials_file"`
}

func Default() *Config {
	return &Config{
		PerSheet:    1,
		MaxPages:    10000,
		HeaderLines: 1,
		Margin:      0.25,
		OutputFile:  "output.pdf",
		SourceDPI:   600,
		SheetName:   "Addresses",
	}
}

// Load reads a JSON config file on top of the defaults. An empty path just
// returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("malformed config file: %w", err)
	}
	return cfg, nil
}

// Validate rejects bad configuration before any processing starts.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
