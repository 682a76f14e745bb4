// Package address turns raw table rows into the address blocks printed on
// the mail pieces. A well-formed row has five fields: name, street, city,
// state/province and zip/postal code. Rows exported from spreadsheets are
// frequently dirty: zip codes come out as ="12345" formulas, and a name
// containing a literal newline splits one record across two rows. Both are
// repaired here.
package address

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jeanlaroche/PDFMail/internal/logger"
	"github.com/jeanlaroche/PDFMail/internal/model"
)

// fieldsPerRecord is the arity of a complete address row.
const fieldsPerRecord = 5

// Records normalizes raw rows into address records. The first headerLines
// rows are skipped, every field is stripped of " and = characters, split
// rows are merged back together, and the result is optionally stable-sorted
// by zip code (string order, so leading zeros survive).
func Records(rows [][]string, headerLines int, sortByZip bool) ([]model.Address, error) {
	if headerLines > len(rows) {
		headerLines = len(rows)
	}

	cleaned := make([][]string, 0, len(rows)-headerLines)
	for _, row := range rows[headerLines:] {
		fields := make([]string, len(row))
		for i, f := range row {
			f = strings.ReplaceAll(f, `"`, "")
			f = strings.ReplaceAll(f, "=", "")
			fields[i] = f
		}
		cleaned = append(cleaned, fields)
	}

	repaired, err := repair(cleaned)
	if err != nil {
		return nil, err
	}

	if sortByZip {
		sort.SliceStable(repaired, func(i, j int) bool {
			return repaired[i].Zip < repaired[j].Zip
		})
	}
	return repaired, nil
}

// Normalize is Records rendered to the final address strings.
func Normalize(rows [][]string, headerLines int, sortByZip bool) ([]string, error) {
	recs, err := Records(rows, headerLines, sortByZip)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.String()
	}
	return out, nil
}

// repair merges rows that a line-based export split in two. A row with
// fewer than five fields is a fragment: its fields, newline-joined with one
// trailing newline, become a single combined field prepended to the next
// row. Fragments chain forward until the row reaches five fields. A
// fragment with no following row means the table ends mid-record, which is
// a format error rather than something to silently drop.
func repair(rows [][]string) ([]model.Address, error) {
	var out []model.Address
	pending := ""

	for _, row := range rows {
		if pending != "" {
			row = append([]string{pending}, row...)
			pending = ""
		}
		if len(row) < fieldsPerRecord {
			logger.Debug("merging fragment row forward", "fields", len(row))
			pending = strings.Join(row, "\n") + "\n"
			continue
		}
		out = append(out, toAddress(row))
	}

	if pending != "" {
		return nil, fmt.Errorf("address table ends mid-record: row %q has no following row to merge into", strings.TrimSuffix(pending, "\n"))
	}
	return out, nil
}

// toAddress maps a repaired row onto the five logical fields. Repaired rows
// can carry more than five fields; everything before the last four belongs
// to the name.
func toAddress(row []string) model.Address {
	n := len(row)
	return model.Address{
		Name:   strings.Join(row[:n-4], "\n"),
		Street: row[n-4],
		City:   row[n-3],
		State:  row[n-2],
		Zip:    row[n-1],
	}
}
