package report

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// fungalGenera is the closed set of genera seen in gut micobiota panels.
// Fungal rows carry only genus+species, so the genus list doubles as the row
// anchor.
var fungalGenera = []string{
	"Candida", "Saccharomyces", "Geotrichum", "Rhodotorula", "Aspergillus",
	"Penicillium", "Cryptococcus", "Malassezia", "Trichosporon", "Pichia",
	"Debaryomyces", "Kluyveromyces",
}

var fungalParsers = []*regexp.Regexp{
	// Separate quantity and percentage columns.
	regexp.MustCompile(`\b(` + strings.Join(fungalGenera, "|") + `)\s+(` + speciesToken +
		`)\s+(\d+)\s+(\d{1,3}(?:[.,]\d{1,2})?)\s*%`),
	// Flattened quantity+percentage run.
	regexp.MustCompile(`\b(` + strings.Join(fungalGenera, "|") + `)\s+(` + speciesToken +
		`)\s+(\d+[.,]\d{2})\s*%`),
	// Percentage only.
	regexp.MustCompile(`\b(` + strings.Join(fungalGenera, "|") + `)\s+(` + speciesToken +
		`)\s+(\d{1,3}[.,]\d{1,2})\s*%`),
}

// ParseFungal extracts fungal analysis rows from one page's raw text.
// Rows are deduplicated by full name (first occurrence wins) and sorted
// descending by percentage.
func ParseFungal(text string) []FungalEntry {
	seen := make(map[string]struct{})
	var entries []FungalEntry

	for i, re := range fungalParsers {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			entry, ok := buildFungalEntry(i, m)
			if !ok {
				continue
			}
			if _, dup := seen[entry.FullName]; dup {
				continue
			}
			seen[entry.FullName] = struct{}{}
			entries = append(entries, entry)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Percentage > entries[j].Percentage
	})
	return entries
}

func buildFungalEntry(parserIdx int, m []string) (FungalEntry, bool) {
	entry := FungalEntry{
		Genus:    m[1],
		Species:  m[2],
		FullName: m[1] + " " + m[2],
	}

	switch parserIdx {
	case 0:
		qty, _ := strconv.Atoi(m[3])
		pct, err := NormalizeDecimal(m[4])
		if err != nil || pct > 100 {
			return FungalEntry{}, false
		}
		entry.Quantity, entry.Percentage = qty, pct
	case 1:
		entry.Quantity, entry.Percentage, _ = splitQuantityPercent(m[3])
	case 2:
		pct, err := NormalizeDecimal(m[3])
		if err != nil || pct > 100 {
			return FungalEntry{}, false
		}
		entry.Percentage = pct
	}

	return entry, true
}
