package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/jeanlaroche/PDFMail/internal/address"
	"github.com/jeanlaroche/PDFMail/internal/config"
	"github.com/jeanlaroche/PDFMail/internal/extract"
	"github.com/jeanlaroche/PDFMail/internal/layout"
	"github.com/jeanlaroche/PDFMail/internal/logger"
	"github.com/jeanlaroche/PDFMail/internal/pdf"
	"github.com/jeanlaroche/PDFMail/internal/table"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "generate":
		cmdGenerate(args)
	case "extract":
		cmdExtract(args)
	case "list":
		cmdList(args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `PDFMail - merge a front/back image pair with an address list into a mailing PDF

Usage:
  PDFMail <command> [options]

Commands:
  generate     build the mailing PDF
  extract      pull the front/back images out of an existing document
  list         print the normalized address list for proofing
  help         show this message

generate:
  PDFMail generate [options] <front-image> <back-image> <addresses.csv>
  PDFMail generate -source doc.pdf [options] <addresses.csv>

  The CSV is expected to hold Name, Street, City, State/Province and
  ZIP/Postal Code fields, comma separated. With -npp 1 the sheets are
  landscape, one front page and one back page per recipient. With -npp 2
  the sheets are portrait with two recipients per sheet, ordered so that
  cutting the stack in half keeps zip order. A TTF font file is required
  (-font or font_file in the config file).

  Instead of a CSV file the table can come from a Google Sheet: pass
  -sheet <spreadsheetID> (published sheet), plus -credentials for a
  private sheet.

Examples:
  PDFMail generate -skip 1 -npp 2 -font times.ttf -o mail.pdf front.png back.png addresses.csv
  PDFMail generate -sort -f -1 -font times.ttf -source last_year.pdf addresses.csv
`)
}

func cmdGenerate(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	configPath := fs.String("config", "", "path to a JSON config file")
	npp := fs.Int("npp", 1, "number of prints per sheet: 1 or 2")
	sortZip := fs.Bool("sort", false, "sort addresses by zip code")
	np := fs.Int("np", 10000, "maximum number of sheets to produce")
	skip := fs.Int("skip", 1, "number of header lines to skip in the address table")
	margin := fs.Float64("margin", 0.25, "margin in inches")
	xAdjust := fs.Float64("x", 0, "horizontal address position adjustment, in +/- inches")
	yAdjust := fs.Float64("y", 0, "vertical address position adjustment, in +/- inches")
	fontAdjust := fs.Int("f", 0, "font size adjustment")
	outFile := fs.String("o", "output.pdf", "name of the output file")
	fontFile := fs.String("font", "", "path to a TTF font file for the address text")
	source := fs.String("source", "", "existing document to pull the front/back images from")
	backOnly := fs.Bool("back-only", false, "emit only the address-carrying back pages")
	testMode := fs.Bool("test", false, "order addresses longest-line-first to preview overflow")
	sheet := fs.String("sheet", "", "read the address table from this Google Sheet ID")
	credentials := fs.String("credentials", "", "service-account JSON for a private sheet")
	verbose := fs.Bool("v", false, "verbose logging")
	fs.Parse(args)

	setupLogging(*verbose)

	cfg, err := config.Load(*configPath)
	if err != nil {
		exitError(err)
	}
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "npp":
			cfg.PerSheet = *npp
		case "sort":
			cfg.SortByZip = *sortZip
		case "np":
			cfg.MaxPages = *np
		case "skip":
			cfg.HeaderLines = *skip
		case "margin":
			cfg.Margin = *margin
		case "x":
			cfg.XAdjust = *xAdjust
		case "y":
			cfg.YAdjust = *yAdjust
		case "f":
			cfg.FontSizeAdjust = *fontAdjust
		case "o":
			cfg.OutputFile = *outFile
		case "font":
			cfg.FontFile = *fontFile
		case "source":
			cfg.SourceFile = *source
		case "back-only":
			cfg.BackOnly = *backOnly
		case "test":
			cfg.TestMode = *testMode
		case "sheet":
			cfg.SpreadsheetID = *sheet
		case "credentials":
			cfg.CredentialsFile = *credentials
		}
	})

	if err := cfg.Validate(); err != nil {
		exitError(err)
	}
	if cfg.FontFile == "" {
		exitError(fmt.Errorf("a TTF font file is required (-font or font_file in the config file)"))
	}

	front, back, csvPath, err := positionalArgs(fs.Args(), cfg)
	if err != nil {
		exitError(err)
	}

	if cfg.SourceFile != "" {
		dir, err := os.MkdirTemp("", "pdfmail")
		if err != nil {
			exitError(err)
		}
		defer os.RemoveAll(dir)
		front, back, err = extract.FrontBack(cfg.SourceFile, cfg.SourceDPI, dir)
		if err != nil {
			exitError(err)
		}
	}

	addrs, err := readAddresses(csvPath, cfg)
	if err != nil {
		exitError(err)
	}

	units, err := layout.Group(addrs, cfg.PerSheet, cfg.SortByZip, cfg.TestMode, cfg.MaxPages)
	if err != nil {
		exitError(err)
	}

	sheetW, sheetH, err := layout.SheetSize(cfg.PerSheet)
	if err != nil {
		exitError(err)
	}
	spec, err := layout.For(layout.Params{
		PerSheet: cfg.PerSheet,
		Margin:   cfg.Margin,
		SheetW:   sheetW,
		SheetH:   sheetH,
		XAdjust:  cfg.XAdjust,
		YAdjust:  cfg.YAdjust,
	})
	if err != nil {
		exitError(err)
	}

	renderer, err := pdf.NewRenderer(cfg.FontFile, sheetW, sheetH, cfg.Margin,
		layout.FontSize(cfg.PerSheet, cfg.FontSizeAdjust))
	if err != nil {
		exitError(err)
	}

	asm := pdf.NewAssembler(renderer, spec, front, back, cfg.BackOnly)
	if err := asm.Run(units, cfg.OutputFile); err != nil {
		exitError(fmt.Errorf("assembling document: %w", err))
	}

	fmt.Printf("Wrote %s (%d sheets, %d addresses)\n", cfg.OutputFile, len(units), len(addrs))
}

func cmdExtract(args []string) {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	source := fs.String("source", "", "document to pull the front/back images from")
	dpi := fs.Float64("dpi", 600, "rasterization resolution")
	dir := fs.String("dir", ".", "directory to write front.png and back.png into")
	verbose := fs.Bool("v", false, "verbose logging")
	fs.Parse(args)

	setupLogging(*verbose)

	if *source == "" {
		exitError(fmt.Errorf("-source is required"))
	}

	front, back, err := extract.FrontBack(*source, *dpi, *dir)
	if err != nil {
		exitError(err)
	}
	fmt.Printf("Wrote %s and %s\n", front, back)
}

func cmdList(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	configPath := fs.String("config", "", "path to a JSON config file")
	sortZip := fs.Bool("sort", false, "sort addresses by zip code")
	skip := fs.Int("skip", 1, "number of header lines to skip in the address table")
	sheet := fs.String("sheet", "", "read the address table from this Google Sheet ID")
	credentials := fs.String("credentials", "", "service-account JSON for a private sheet")
	verbose := fs.Bool("v", false, "verbose logging")
	fs.Parse(args)

	setupLogging(*verbose)

	cfg, err := config.Load(*configPath)
	if err != nil {
		exitError(err)
	}
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "sort":
			cfg.SortByZip = *sortZip
		case "skip":
			cfg.HeaderLines = *skip
		case "sheet":
			cfg.SpreadsheetID = *sheet
		case "credentials":
			cfg.CredentialsFile = *credentials
		}
	})

	csvPath := ""
	if cfg.SpreadsheetID == "" {
		if len(fs.Args()) != 1 {
			exitError(fmt.Errorf("expected exactly one address table argument"))
		}
		csvPath = fs.Args()[0]
	}

	addrs, err := readAddresses(csvPath, cfg)
	if err != nil {
		exitError(err)
	}

	for i, a := range addrs {
		fmt.Printf("--- %d ---\n%s\n", i+1, a)
	}
	fmt.Printf("%d addresses\n", len(addrs))
}

// positionalArgs works out which positional arguments generate expects:
// front and back image paths unless they come from -source, and the CSV
// path unless the table comes from -sheet.
func positionalArgs(pos []string, cfg *config.Config) (front, back, csvPath string, err error) {
	want := 0
	needImages := cfg.SourceFile == ""
	needCSV := cfg.SpreadsheetID == ""
	if needImages {
		want += 2
	}
	if needCSV {
		want++
	}
	if len(pos) != want {
		return "", "", "", fmt.Errorf("expected %d positional argument(s), got %d (see 'PDFMail help')", want, len(pos))
	}
	if needImages {
		front, back = pos[0], pos[1]
		pos = pos[2:]
	}
	if needCSV {
		csvPath = pos[0]
	}
	return front, back, csvPath, nil
}

func readAddresses(csvPath string, cfg *config.Config) ([]string, error) {
	var src *table.Source
	var err error
	if cfg.SpreadsheetID != "" {
		src, err = table.FromSheet(cfg.SpreadsheetID, cfg.SheetName, cfg.CredentialsFile)
		if err != nil {
			return nil, err
		}
	} else {
		src = table.FromFile(csvPath)
	}

	rows, err := src.Rows()
	if err != nil {
		return nil, err
	}
	return address.Normalize(rows, cfg.HeaderLines, cfg.SortByZip)
}

func setupLogging(verbose bool) {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	logger.SetLogger(func(level logger.LogLevel, msg string, keyvals ...interface{}) {
		fields := logrus.Fields{}
		for i := 0; i+1 < len(keyvals); i += 2 {
			key, ok := keyvals[i].(string)
			if !ok {
				continue
			}
			fields[key] = keyvals[i+1]
		}
		if level == logger.ErrorLevel {
			log.WithFields(fields).Error(msg)
			return
		}
		log.WithFields(fields).Debug(msg)
	})
}

func exitError(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
