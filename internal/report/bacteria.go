package report

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// The flattened page text of a taxonomy table carries no reconstructable
// column boundaries, so rows are recovered by matching progressively looser
// patterns over the whole text and re-deriving structure from rank
// vocabularies and numeric-format conventions. Pattern order encodes
// priority: the loose patterns only pick up rows the strict ones missed,
// enforced through the composite-key dedup.

const (
	rankToken    = `\p{Lu}[\p{L}]+`
	speciesToken = `[\p{Ll}][\p{L}.\-]+`
)

// candidateParser is one step of the fallback chain. Each pattern is applied
// globally over the full text; build converts a single match into an entry.
type candidateParser struct {
	name    string
	pattern *regexp.Regexp
	build   func(v *Vocabulary, m []string) (BacterialEntry, bool)
}

var bacterialParsers = []candidateParser{
	{
		// Exact Bacteria/Archaea prefix, fully tokenized row with separate
		// quantity and percentage columns.
		name: "strict-tokenized",
		pattern: regexp.MustCompile(
			`\b(Bacteria|Archaea)\s+(` + rankToken + `)\s+(` + rankToken + `)\s+(` + rankToken +
				`)\s+(` + rankToken + `)\s+(` + rankToken + `)\s+(` + speciesToken +
				`)\s+(\d+)\s+(\d{1,3}(?:[.,]\d{1,2})?)\s*%`),
		build: func(v *Vocabulary, m []string) (BacterialEntry, bool) {
			pct, err := NormalizeDecimal(m[9])
			if err != nil || pct > 100 {
				return BacterialEntry{}, false
			}
			qty, _ := strconv.Atoi(m[8])
			return BacterialEntry{
				Kingdom: m[1], Phylum: m[2], Class: m[3], Order: m[4],
				Family: m[5], Genus: m[6], Species: m[7],
				Quantity: qty, Percentage: pct,
			}, true
		},
	},
	{
		// Exact Bacteria/Archaea prefix where quantity and percentage were
		// flattened into a single digit run ("488917,50%").
		name: "strict-glued-numbers",
		pattern: regexp.MustCompile(
			`\b(Bacteria|Archaea)\s+((?:` + rankToken + `\s+){5})(` + speciesToken +
				`)\s+(\d+[.,]\d{2})\s*%`),
		build: func(v *Vocabulary, m []string) (BacterialEntry, bool) {
			qty, pct, _ := splitQuantityPercent(m[4])
			e := assignRanks(v, m[1], strings.Fields(m[2]), m[3])
			e.Quantity, e.Percentage = qty, pct
			return e, true
		},
	},
	{
		// Any capitalized kingdom token followed by 4-5 rank tokens.
		name: "generic-kingdom",
		pattern: regexp.MustCompile(
			`\b(` + rankToken + `)\s+((?:` + rankToken + `\s+){4,5})(` + speciesToken +
				`)\s+(\d+(?:[.,]\d{1,2})?)\s*%`),
		build: func(v *Vocabulary, m []string) (BacterialEntry, bool) {
			qty, pct, _ := splitQuantityPercent(m[4])
			e := assignRanks(v, m[1], strings.Fields(m[2]), m[3])
			e.Quantity, e.Percentage = qty, pct
			return e, true
		},
	},
	{
		// Fully generic 4-token taxonomy with no kingdom column at all.
		name: "generic-taxonomy",
		pattern: regexp.MustCompile(
			`\b((?:` + rankToken + `\s+){4})(` + speciesToken +
				`)\s+(\d+(?:[.,]\d{1,2})?)\s*%`),
		build: func(v *Vocabulary, m []string) (BacterialEntry, bool) {
			qty, pct, _ := splitQuantityPercent(m[3])
			e := assignRanks(v, "", strings.Fields(m[1]), m[2])
			e.Quantity, e.Percentage = qty, pct
			return e, true
		},
	},
}

// ParseBacterial extracts all taxonomy rows from one page's raw text.
// The candidate parsers run in order over the entire text; the first parser to
// produce a given composite key wins. The result is sorted descending by
// percentage.
func ParseBacterial(text string, vocab *Vocabulary) []BacterialEntry {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}

	seen := make(map[string]struct{})
	var entries []BacterialEntry

	for _, p := range bacterialParsers {
		for _, m := range p.pattern.FindAllStringSubmatch(text, -1) {
			entry, ok := p.build(vocab, m)
			if !ok {
				continue
			}
			key := entry.Key()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			entries = append(entries, entry)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Percentage > entries[j].Percentage
	})
	return entries
}

// ParseBacterialLine parses a single pre-split taxonomy line, as produced by
// the line-oriented extraction path. Returns false for lines that carry no
// recognizable quantity/percentage suffix.
func ParseBacterialLine(line string, vocab *Vocabulary) (BacterialEntry, bool) {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}

	tokens := strings.Fields(strings.TrimSpace(line))
	if len(tokens) < 3 {
		return BacterialEntry{}, false
	}

	var qty int
	var pct float64

	last := tokens[len(tokens)-1]
	prev := tokens[len(tokens)-2]
	switch {
	case pctTokenRe.MatchString(last) && intTokenRe.MatchString(prev):
		qty, _ = strconv.Atoi(prev)
		pct, _ = NormalizeDecimal(strings.TrimSuffix(last, "%"))
		tokens = tokens[:len(tokens)-2]
	case numTokenRe.MatchString(last):
		// Quantity and percentage flattened into one run; recover both
		// positionally. Malformed runs degrade to zeros, not errors.
		qty, pct, _ = splitQuantityPercent(last)
		tokens = tokens[:len(tokens)-1]
	default:
		return BacterialEntry{}, false
	}

	kingdom := ""
	if len(tokens) > 0 && (tokens[0] == "Bacteria" || tokens[0] == "Archaea") {
		kingdom = tokens[0]
		tokens = tokens[1:]
	}

	species := ""
	if len(tokens) > 0 {
		if tail := tokens[len(tokens)-1]; tail != "" && strings.ToLower(tail[:1]) == tail[:1] {
			species = tail
			tokens = tokens[:len(tokens)-1]
		}
	}

	entry := assignRanks(vocab, kingdom, tokens, species)
	if entry.Species == "Unknown" && entry.Genus != "Unknown" {
		genus, sp := splitGenusSpecies(entry.Genus)
		entry.Genus, entry.Species = genus, sp
	}
	entry.Quantity, entry.Percentage = qty, pct
	return entry, true
}

var (
	pctTokenRe = regexp.MustCompile(`^\d{1,3}[.,]\d{1,2}%?$`)
	intTokenRe = regexp.MustCompile(`^\d+$`)
	numTokenRe = regexp.MustCompile(`^\d+(?:[.,]\d{1,2})?%?$`)
)

// quantityPercentPatterns recover quantity and percentage from a flattened
// digit run. The 4-digit-quantity form is an observed vendor convention, not a
// guaranteed contract, so the looser widths only apply when it fails.
var quantityPercentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(\d{4})(\d{1,2}[.,]\d{2})$`),
	regexp.MustCompile(`^(\d{3,5})(\d{1,2}[.,]\d{2})$`),
	regexp.MustCompile(`^(\d{1,3}(?:[.,]\d{1,2})?)$`),
}

// splitQuantityPercent splits a run like "488917,50" into quantity 4889 and
// percentage 17.50. Runs with no quantity-looking prefix yield quantity 0;
// unparseable runs yield zeros with ok=false.
func splitQuantityPercent(blob string) (int, float64, bool) {
	blob = strings.TrimSuffix(strings.TrimSpace(blob), "%")

	for _, re := range quantityPercentPatterns {
		m := re.FindStringSubmatch(blob)
		if m == nil {
			continue
		}

		qty := 0
		pctStr := m[1]
		if len(m) == 3 {
			qty, _ = strconv.Atoi(m[1])
			pctStr = m[2]
		}

		pct, err := NormalizeDecimal(pctStr)
		if err != nil || pct > 100 {
			continue
		}
		return qty, pct, true
	}
	return 0, 0, false
}

// assignRanks distributes flattened taxonomy tokens over phylum→genus.
// Tokens are consumed front-first: vocabulary membership decides the rank when
// it can, suffix morphology ("-ales", "-aceae") when it can't, and position as
// the last resort.
func assignRanks(vocab *Vocabulary, kingdom string, tokens []string, species string) BacterialEntry {
	e := BacterialEntry{
		Kingdom: orUnknown(kingdom), Phylum: "Unknown", Class: "Unknown",
		Order: "Unknown", Family: "Unknown", Genus: "Unknown",
		Species: orUnknown(species),
	}

	if e.Kingdom == "Unknown" && len(tokens) > 0 &&
		(tokens[0] == "Bacteria" || tokens[0] == "Archaea") {
		e.Kingdom = tokens[0]
		tokens = tokens[1:]
	}

	ranks := []*string{&e.Phylum, &e.Class, &e.Order, &e.Family, &e.Genus}
	next := 0
	for _, tok := range tokens {
		if next >= len(ranks) {
			break
		}

		idx := next
		switch {
		case vocab.IsPhylum(tok):
			idx = 0
		case vocab.IsClass(tok):
			idx = 1
		case vocab.IsOrder(tok) || strings.HasSuffix(tok, "ales"):
			idx = 2
		case strings.HasSuffix(tok, "aceae"):
			idx = 3
		}
		if idx < next {
			idx = next
		}

		*ranks[idx] = tok
		next = idx + 1
	}

	return e
}

// genusSuffixes are tried longest-first so "-bacter" wins over "-er"-like
// accidental overlaps in glued genus+species runs.
var genusSuffixes = []string{"coccus", "bacter", "vibrio", "ella", "ium"}

// splitGenusSpecies splits a glued genus+species run ("Blautiaobeum") using
// genus suffix morphology, falling back to a fixed character offset.
func splitGenusSpecies(s string) (genus, species string) {
	lower := strings.ToLower(s)
	for _, suf := range genusSuffixes {
		idx := strings.Index(lower, suf)
		if idx < 0 {
			continue
		}
		cut := idx + len(suf)
		if cut < len(s)-1 {
			return s[:cut], strings.ToLower(s[cut:])
		}
	}

	// No recognized suffix: take the first 4-10 characters as the genus.
	cut := len(s) / 2
	if cut < 4 {
		cut = 4
	}
	if cut > 10 {
		cut = 10
	}
	if cut >= len(s)-1 {
		return s, "Unknown"
	}
	return s[:cut], strings.ToLower(s[cut:])
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}
