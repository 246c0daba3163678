// Package batch extracts (spec, supply price) pairs from vendor text pasted
// out of a supplier storefront. The text is line oriented: a product spec
// line is followed by a "¥12.50" price line, usually with stock-count and
// filler lines in between that must be skipped.
package batch

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	domain "github.com/rwxiao/shop-pricer/pkg/types"
)

var (
	stockCountRe = regexp.MustCompile(`^\d+件可售$`)
	bareZeroRe   = regexp.MustCompile(`^0$`)
)

// Parse scans pasted vendor text and returns one ProductRow per spec line
// that is immediately followed by a ¥-prefixed price line. Lines that do not
// fit the spec→price adjacency are skipped; malformed input yields fewer
// rows, never an error. Row IDs are generated fresh on every parse.
func Parse(text string) []domain.ProductRow {
	lines := strings.Split(text, "\n")
	var rows []domain.ProductRow

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if !isSpecLine(line) {
			continue
		}
		if i+1 >= len(lines) {
			break
		}

		priceLine := strings.TrimSpace(lines[i+1])
		price, ok := parsePriceLine(priceLine)
		if !ok {
			continue
		}

		rows = append(rows, domain.ProductRow{
			ID:          uuid.NewString(),
			Spec:        line,
			SupplyPrice: price,
		})
	}

	return rows
}

// isSpecLine reports whether a trimmed line looks like a product spec:
// non-empty and not a price, stock-count, or bare-zero line.
func isSpecLine(line string) bool {
	if line == "" {
		return false
	}
	if strings.HasPrefix(line, "¥") {
		return false
	}
	if stockCountRe.MatchString(line) || bareZeroRe.MatchString(line) {
		return false
	}
	return true
}

// parsePriceLine extracts the numeric value from a "¥12.50" line.
// A ¥ line whose remainder does not parse counts as a zero price,
// matching how the storefront renders sold-out variants.
func parsePriceLine(line string) (float64, bool) {
	rest, ok := strings.CutPrefix(line, "¥")
	if !ok {
		return 0, false
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
	if err != nil || price < 0 {
		return 0, true
	}
	return price, true
}
