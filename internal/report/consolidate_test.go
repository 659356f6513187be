package report

import "testing"

func TestConsolidateEmptyInput(t *testing.T) {
	r := Consolidate(nil)

	if r.PatientInfo == nil || r.FunctionalTests == nil || r.Biomarkers == nil || r.MicrobiotaOverview == nil {
		t.Fatalf("scalar sections must be non-nil maps: %+v", r)
	}
	if r.BacterialTaxonomy == nil || r.FungalAnalysis == nil {
		t.Fatalf("list sections must be non-nil slices")
	}
	if len(r.Metadata.PagesAnalyzed) != 0 {
		t.Fatalf("expected no page summaries, got %d", len(r.Metadata.PagesAnalyzed))
	}
}

func TestConsolidateScalarLastWriteWins(t *testing.T) {
	pages := []PageExtraction{
		{PageNumber: 1, Sections: Sections{PatientInfo: map[string]string{"name": "Maria", "protocol": "A-1"}}},
		{PageNumber: 2, Sections: Sections{PatientInfo: map[string]string{"name": "Maria da Silva"}}},
	}

	r := Consolidate(pages)
	if r.PatientInfo["name"] != "Maria da Silva" {
		t.Errorf("name = %q, want later page's value", r.PatientInfo["name"])
	}
	if r.PatientInfo["protocol"] != "A-1" {
		t.Errorf("protocol = %q, keys absent on later pages must survive", r.PatientInfo["protocol"])
	}
}

func TestConsolidateListDedupAndSort(t *testing.T) {
	blautia := BacterialEntry{
		Kingdom: "Bacteria", Phylum: "Firmicutes", Class: "Clostridia",
		Order: "Clostridiales", Family: "Lachnospiraceae", Genus: "Blautia",
		Species: "obeum", Quantity: 4889, Percentage: 17.5,
	}
	duplicate := blautia
	duplicate.Quantity = 9999 // same taxonomy, different numbers: still a dup

	bacteroides := BacterialEntry{
		Kingdom: "Bacteria", Phylum: "Bacteroidetes", Class: "Bacteroidia",
		Order: "Bacteroidales", Family: "Bacteroidaceae", Genus: "Bacteroides",
		Species: "fragilis", Quantity: 200, Percentage: 25.0,
	}

	pages := []PageExtraction{
		{PageNumber: 1, Sections: Sections{BacterialTaxonomy: []BacterialEntry{blautia}}},
		{PageNumber: 2, Sections: Sections{BacterialTaxonomy: []BacterialEntry{duplicate, bacteroides}}},
	}

	r := Consolidate(pages)
	if len(r.BacterialTaxonomy) != 2 {
		t.Fatalf("expected 2 entries after dedup, got %d", len(r.BacterialTaxonomy))
	}
	if r.BacterialTaxonomy[0].Genus != "Bacteroides" {
		t.Errorf("not sorted descending by percentage: first is %s", r.BacterialTaxonomy[0].Genus)
	}
	// First occurrence wins on duplicate keys.
	for _, e := range r.BacterialTaxonomy {
		if e.Genus == "Blautia" && e.Quantity != 4889 {
			t.Errorf("duplicate overwrote first occurrence: qty=%d", e.Quantity)
		}
	}
}

func TestConsolidatePageSummaries(t *testing.T) {
	pages := []PageExtraction{
		{
			PageNumber:    1,
			DetectedTypes: []ContentType{TypePatientInfo, TypeBiomarkers},
			Sections: Sections{
				PatientInfo: map[string]string{"name": "Maria"},
				Biomarkers:  map[string]Biomarker{"calprotectin": {Value: "45.00"}},
			},
		},
		{PageNumber: 2, DetectedTypes: []ContentType{TypeUnknown}},
	}

	r := Consolidate(pages)
	if len(r.Metadata.PagesAnalyzed) != 2 {
		t.Fatalf("expected 2 page summaries, got %d", len(r.Metadata.PagesAnalyzed))
	}
	if r.Metadata.PagesAnalyzed[0].SectionCount != 2 {
		t.Errorf("page 1 section count = %d, want 2", r.Metadata.PagesAnalyzed[0].SectionCount)
	}
	if r.Metadata.PagesAnalyzed[1].SectionCount != 0 {
		t.Errorf("page 2 section count = %d, want 0", r.Metadata.PagesAnalyzed[1].SectionCount)
	}
}
