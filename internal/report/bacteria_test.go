package report

import "testing"

func TestParseBacterialTokenizedRow(t *testing.T) {
	text := "Bacteria Firmicutes Clostridia Clostridiales Lachnospiraceae Blautia obeum 4889 17,50%"

	entries := ParseBacterial(text, nil)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	e := entries[0]
	if e.Kingdom != "Bacteria" || e.Phylum != "Firmicutes" || e.Class != "Clostridia" {
		t.Fatalf("unexpected upper ranks: %+v", e)
	}
	if e.Order != "Clostridiales" || e.Family != "Lachnospiraceae" {
		t.Fatalf("unexpected mid ranks: %+v", e)
	}
	if e.Genus != "Blautia" || e.Species != "obeum" {
		t.Fatalf("unexpected genus/species: %+v", e)
	}
	if e.Quantity != 4889 || e.Percentage != 17.5 {
		t.Fatalf("unexpected numbers: qty=%d pct=%v", e.Quantity, e.Percentage)
	}
}

func TestParseBacterialGluedNumbers(t *testing.T) {
	// Quantity and percentage flattened into one digit run by the PDF layout.
	text := "Bacteria Firmicutes Clostridia Clostridiales Lachnospiraceae Blautia obeum 488917,50%"

	entries := ParseBacterial(text, nil)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	e := entries[0]
	if e.Quantity != 4889 {
		t.Fatalf("expected quantity 4889, got %d", e.Quantity)
	}
	if e.Percentage != 17.5 {
		t.Fatalf("expected percentage 17.5, got %v", e.Percentage)
	}
	if e.Genus != "Blautia" || e.Species != "obeum" {
		t.Fatalf("unexpected genus/species: %+v", e)
	}
}

func TestParseBacterialDedupAcrossParsers(t *testing.T) {
	// The same row repeated; loose parsers must not re-emit what a strict
	// parser already produced.
	text := "Bacteria Firmicutes Clostridia Clostridiales Lachnospiraceae Blautia obeum 4889 17,50% " +
		"Bacteria Firmicutes Clostridia Clostridiales Lachnospiraceae Blautia obeum 4889 17,50%"

	entries := ParseBacterial(text, nil)
	if len(entries) != 1 {
		t.Fatalf("expected 1 deduplicated entry, got %d", len(entries))
	}
}

func TestParseBacterialSortedByPercentage(t *testing.T) {
	text := "Bacteria Firmicutes Clostridia Clostridiales Lachnospiraceae Blautia obeum 100 5,00% " +
		"Bacteria Bacteroidetes Bacteroidia Bacteroidales Bacteroidaceae Bacteroides fragilis 200 25,00% " +
		"Bacteria Firmicutes Bacilli Lactobacillales Lactobacillaceae Lactobacillus acidophilus 150 12,00%"

	entries := ParseBacterial(text, nil)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Percentage > entries[i-1].Percentage {
			t.Fatalf("entries not sorted descending: %v before %v",
				entries[i-1].Percentage, entries[i].Percentage)
		}
	}
	if entries[0].Genus != "Bacteroides" {
		t.Fatalf("expected Bacteroides first, got %s", entries[0].Genus)
	}
}

func TestParseBacterialRejectsPercentageOver100(t *testing.T) {
	text := "Bacteria Firmicutes Clostridia Clostridiales Lachnospiraceae Blautia obeum 4889 250,00%"
	if entries := ParseBacterial(text, nil); len(entries) != 0 {
		t.Fatalf("expected no entries for >100%% row, got %d", len(entries))
	}
}

func TestParseBacterialLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		ok      bool
		genus   string
		species string
		qty     int
		pct     float64
	}{
		{
			name: "separate columns",
			line: "Bacteria Firmicutes Clostridia Clostridiales Ruminococcaceae Faecalibacterium prausnitzii 3210 9,80%",
			ok:   true, genus: "Faecalibacterium", species: "prausnitzii", qty: 3210, pct: 9.8,
		},
		{
			name: "glued numbers",
			line: "Bacteria Firmicutes Clostridia Clostridiales Lachnospiraceae Blautia obeum 488917,50%",
			ok:   true, genus: "Blautia", species: "obeum", qty: 4889, pct: 17.5,
		},
		{
			name: "percentage only",
			line: "Bacteria Bacteroidetes Bacteroidia Bacteroidales Prevotellaceae Prevotella copri 8,25%",
			ok:   true, genus: "Prevotella", species: "copri", qty: 0, pct: 8.25,
		},
		{
			name: "no numeric tail",
			line: "Bacteria Firmicutes Clostridia Clostridiales Lachnospiraceae Blautia obeum",
			ok:   false,
		},
		{
			name: "too short",
			line: "Bacteria 5,00%",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := ParseBacterialLine(tt.line, nil)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if e.Genus != tt.genus || e.Species != tt.species {
				t.Fatalf("genus/species = %s/%s, want %s/%s", e.Genus, e.Species, tt.genus, tt.species)
			}
			if e.Quantity != tt.qty || e.Percentage != tt.pct {
				t.Fatalf("qty/pct = %d/%v, want %d/%v", e.Quantity, e.Percentage, tt.qty, tt.pct)
			}
		})
	}
}

func TestSplitQuantityPercent(t *testing.T) {
	tests := []struct {
		in  string
		qty int
		pct float64
		ok  bool
	}{
		{"488917,50", 4889, 17.5, true},
		{"488917,50%", 4889, 17.5, true},
		{"12345,00", 1234, 5.0, true},
		{"17,50", 0, 17.5, true},
		{"99", 0, 99, true},
		{"abc", 0, 0, false},
		{"", 0, 0, false},
	}

	for _, tt := range tests {
		qty, pct, ok := splitQuantityPercent(tt.in)
		if ok != tt.ok || qty != tt.qty || pct != tt.pct {
			t.Errorf("splitQuantityPercent(%q) = (%d, %v, %v), want (%d, %v, %v)",
				tt.in, qty, pct, ok, tt.qty, tt.pct, tt.ok)
		}
	}
}

func TestAssignRanksVocabularyPlacement(t *testing.T) {
	vocab := DefaultVocabulary()

	// Missing class token: vocabulary membership must keep Clostridiales at
	// order rather than sliding it into the class slot.
	e := assignRanks(vocab, "Bacteria",
		[]string{"Firmicutes", "Clostridiales", "Lachnospiraceae", "Blautia"}, "obeum")

	if e.Phylum != "Firmicutes" {
		t.Fatalf("phylum = %s, want Firmicutes", e.Phylum)
	}
	if e.Class != "Unknown" {
		t.Fatalf("class = %s, want Unknown", e.Class)
	}
	if e.Order != "Clostridiales" || e.Family != "Lachnospiraceae" || e.Genus != "Blautia" {
		t.Fatalf("unexpected ranks: %+v", e)
	}
}

func TestSplitGenusSpecies(t *testing.T) {
	tests := []struct {
		in      string
		genus   string
		species string
	}{
		{"Campylobacterjejuni", "Campylobacter", "jejuni"},
		{"Streptococcusmutans", "Streptococcus", "mutans"},
		{"Prevotellacopri", "Prevotella", "copri"},
		// No recognized suffix: fixed-offset fallback.
		{"Blautiaobeum", "Blauti", "aobeum"},
	}

	for _, tt := range tests {
		genus, species := splitGenusSpecies(tt.in)
		if genus != tt.genus || species != tt.species {
			t.Errorf("splitGenusSpecies(%q) = (%s, %s), want (%s, %s)",
				tt.in, genus, species, tt.genus, tt.species)
		}
	}
}
