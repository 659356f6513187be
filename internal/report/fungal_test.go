package report

import "testing"

func TestParseFungal(t *testing.T) {
	text := "Candida albicans 1200 3,20% Saccharomyces cerevisiae 80045,10%"

	entries := ParseFungal(text)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(entries), entries)
	}

	// Sorted descending by percentage: Saccharomyces 5.10 first.
	if entries[0].FullName != "Saccharomyces cerevisiae" {
		t.Fatalf("first entry = %s, want Saccharomyces cerevisiae", entries[0].FullName)
	}
	if entries[0].Quantity != 8004 || entries[0].Percentage != 5.1 {
		t.Errorf("glued numbers split wrong: qty=%d pct=%v", entries[0].Quantity, entries[0].Percentage)
	}
	if entries[1].Quantity != 1200 || entries[1].Percentage != 3.2 {
		t.Errorf("tokenized row wrong: qty=%d pct=%v", entries[1].Quantity, entries[1].Percentage)
	}
}

func TestParseFungalDedup(t *testing.T) {
	text := "Candida albicans 1200 3,20% Candida albicans 999 9,90%"

	entries := ParseFungal(text)
	if len(entries) != 1 {
		t.Fatalf("expected 1 deduplicated entry, got %d", len(entries))
	}
	if entries[0].Quantity != 1200 {
		t.Errorf("duplicate overwrote first occurrence: qty=%d", entries[0].Quantity)
	}
}

func TestParseFungalUnknownGenusIgnored(t *testing.T) {
	if entries := ParseFungal("Fantasius imaginarius 100 5,00%"); len(entries) != 0 {
		t.Fatalf("expected no entries for unknown genus, got %d", len(entries))
	}
}
