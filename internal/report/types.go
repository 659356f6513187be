// Package report implements the lab-report extraction pipeline: page
// classification, section extraction, bacterial/fungal table parsing, and
// consolidation of per-page results into a single structured report.
package report

// ContentType tags a page with a category of content detected on it.
type ContentType string

const (
	TypePatientInfo        ContentType = "patient_info"
	TypeFunctionalTests    ContentType = "functional_tests"
	TypeBiomarkers         ContentType = "biomarkers"
	TypeMicrobiotaOverview ContentType = "microbiota_overview"
	TypeBacterialTaxonomy  ContentType = "bacterial_taxonomy"
	TypeFungalAnalysis     ContentType = "fungal_analysis"
	TypeResultsTable       ContentType = "results_table"
	TypeUnknown            ContentType = "unknown"
)

// PageExtraction holds everything extracted from a single page.
// It is created once per page during an extraction run and never mutated.
type PageExtraction struct {
	PageNumber    int           `json:"page_number"`
	RawText       string        `json:"raw_text"`
	DetectedTypes []ContentType `json:"detected_types"`
	Sections      Sections      `json:"sections"`
}

// Sections holds the structured data pulled out of one page, keyed by kind.
// Scalar sections are nil when nothing was found; list sections are empty.
type Sections struct {
	PatientInfo        map[string]string    `json:"patient_info,omitempty"`
	FunctionalTests    map[string]string    `json:"functional_tests,omitempty"`
	Biomarkers         map[string]Biomarker `json:"biomarkers,omitempty"`
	MicrobiotaOverview map[string]string    `json:"microbiota_overview,omitempty"`
	BacterialTaxonomy  []BacterialEntry     `json:"bacterial_taxonomy,omitempty"`
	FungalAnalysis     []FungalEntry        `json:"fungal_analysis,omitempty"`
}

// Count returns the number of non-empty sections on the page.
func (s Sections) Count() int {
	n := 0
	if len(s.PatientInfo) > 0 {
		n++
	}
	if len(s.FunctionalTests) > 0 {
		n++
	}
	if len(s.Biomarkers) > 0 {
		n++
	}
	if len(s.MicrobiotaOverview) > 0 {
		n++
	}
	if len(s.BacterialTaxonomy) > 0 {
		n++
	}
	if len(s.FungalAnalysis) > 0 {
		n++
	}
	return n
}

// BacterialEntry is one row of a taxonomy table, resolved kingdom→species.
// Unresolved ranks hold "Unknown". Quantity is 0 when the source line carried
// only a percentage.
type BacterialEntry struct {
	Kingdom    string  `json:"kingdom"`
	Phylum     string  `json:"phylum"`
	Class      string  `json:"class"`
	Order      string  `json:"order"`
	Family     string  `json:"family"`
	Genus      string  `json:"genus"`
	Species    string  `json:"species"`
	Quantity   int     `json:"quantity"`
	Percentage float64 `json:"percentage"`
}

// Key returns the composite dedup key over all seven taxonomic ranks.
func (e BacterialEntry) Key() string {
	return e.Kingdom + "|" + e.Phylum + "|" + e.Class + "|" + e.Order + "|" +
		e.Family + "|" + e.Genus + "|" + e.Species
}

// FungalEntry is one row of a fungal analysis table. FullName is the dedup key.
type FungalEntry struct {
	Genus      string  `json:"genus"`
	Species    string  `json:"species"`
	Quantity   int     `json:"quantity"`
	Percentage float64 `json:"percentage"`
	FullName   string  `json:"full_name"`
}

// Biomarker is a single measured value with its unit and, when present, the
// reference range found near the match. Absent biomarkers are omitted from the
// result map entirely.
type Biomarker struct {
	Value     string `json:"value"`
	Unit      string `json:"unit"`
	Reference string `json:"reference,omitempty"`
}

// PageSummary describes one analyzed page in the consolidated metadata.
type PageSummary struct {
	Page          int           `json:"page"`
	DetectedTypes []ContentType `json:"detected_types"`
	SectionCount  int           `json:"section_count"`
}

// Metadata describes the consolidation run.
type Metadata struct {
	PagesAnalyzed []PageSummary `json:"pages_analyzed"`
}

// ConsolidatedReport is the document-level merge of all page extractions.
// Scalar sections are last-write-wins across pages; list sections are
// deduplicated (first occurrence wins) and sorted descending by percentage.
type ConsolidatedReport struct {
	PatientInfo        map[string]string    `json:"patient_info"`
	FunctionalTests    map[string]string    `json:"functional_tests"`
	Biomarkers         map[string]Biomarker `json:"biomarkers"`
	MicrobiotaOverview map[string]string    `json:"microbiota_overview"`
	BacterialTaxonomy  []BacterialEntry     `json:"bacterial_taxonomy"`
	FungalAnalysis     []FungalEntry        `json:"fungal_analysis"`
	Metadata           Metadata             `json:"metadata"`
}
