package layout

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jeanlaroche/PDFMail/internal/logger"
	"github.com/jeanlaroche/PDFMail/internal/model"
)

// Group decides which addresses go on which sheet, in final print order.
//
// maxUnits caps the number of sheets; the address list is truncated before
// pairing so that in 2-per-sheet cut-and-stack order the top halves of the
// sheets actually printed stay in consecutive zip order, immediately
// followed by the bottom halves.
//
// testMode reorders the addresses longest-line-first to preview worst-case
// text overflow; it takes precedence over zip order for pairing.
func Group(addresses []string, perSheet int, sortedByZip, testMode bool, maxUnits int) ([]model.PageUnit, error) {
	if perSheet != 1 && perSheet != 2 {
		return nil, fmt.Errorf("prints per sheet must be 1 or 2, got %d", perSheet)
	}

	addresses = append([]string(nil), addresses...)
	if testMode {
		worstFirst(addresses)
	}

	if perSheet == 1 {
		n := len(addresses)
		if maxUnits < n {
			n = maxUnits
		}
		units := make([]model.PageUnit, n)
		for i := 0; i < n; i++ {
			units[i] = model.PageUnit{Top: addresses[i]}
		}
		return units, nil
	}

	// Pad to an even count so the last sheet has a (blank) bottom half.
	if len(addresses)%2 == 1 {
		addresses = append(addresses, "")
	}

	k := len(addresses) / 2
	if maxUnits < k {
		k = maxUnits
	}

	units := make([]model.PageUnit, k)
	if sortedByZip && !testMode {
		// Cut-and-stack: after the sheets are cut in half, all top halves
		// come out in consecutive zip order, then all bottom halves.
		for i := 0; i < k; i++ {
			units[i] = model.PageUnit{Top: addresses[i], Bottom: addresses[k+i]}
		}
	} else {
		for i := 0; i < k; i++ {
			units[i] = model.PageUnit{Top: addresses[2*i], Bottom: addresses[2*i+1]}
		}
	}

	logger.Debug("addresses grouped", "perSheet", perSheet, "units", len(units))
	return units, nil
}

// worstFirst stable-sorts addresses by descending longest line.
func worstFirst(addresses []string) {
	sort.SliceStable(addresses, func(i, j int) bool {
		return maxLineLen(addresses[i]) > maxLineLen(addresses[j])
	})
}

func maxLineLen(address string) int {
	longest := 0
	for _, line := range strings.Split(address, "\n") {
		if n := utf8.RuneCountInString(line); n > longest {
			longest = n
		}
	}
	return longest
}
