package report

import "sort"

// Consolidate merges per-page extractions into a single document-level report.
// Scalar sections merge key-by-key with later pages overwriting earlier ones;
// list sections are concatenated in page order, deduplicated (first occurrence
// wins), and sorted descending by percentage. An empty input yields an empty
// report with non-nil maps, never nil.
func Consolidate(pages []PageExtraction) *ConsolidatedReport {
	r := &ConsolidatedReport{
		PatientInfo:        make(map[string]string),
		FunctionalTests:    make(map[string]string),
		Biomarkers:         make(map[string]Biomarker),
		MicrobiotaOverview: make(map[string]string),
		BacterialTaxonomy:  []BacterialEntry{},
		FungalAnalysis:     []FungalEntry{},
		Metadata:           Metadata{PagesAnalyzed: []PageSummary{}},
	}

	seenBacteria := make(map[string]struct{})
	seenFungi := make(map[string]struct{})

	for _, page := range pages {
		s := page.Sections

		for k, v := range s.PatientInfo {
			r.PatientInfo[k] = v
		}
		for k, v := range s.FunctionalTests {
			r.FunctionalTests[k] = v
		}
		for k, v := range s.Biomarkers {
			r.Biomarkers[k] = v
		}
		for k, v := range s.MicrobiotaOverview {
			r.MicrobiotaOverview[k] = v
		}

		for _, e := range s.BacterialTaxonomy {
			key := e.Key()
			if _, dup := seenBacteria[key]; dup {
				continue
			}
			seenBacteria[key] = struct{}{}
			r.BacterialTaxonomy = append(r.BacterialTaxonomy, e)
		}
		for _, e := range s.FungalAnalysis {
			if _, dup := seenFungi[e.FullName]; dup {
				continue
			}
			seenFungi[e.FullName] = struct{}{}
			r.FungalAnalysis = append(r.FungalAnalysis, e)
		}

		r.Metadata.PagesAnalyzed = append(r.Metadata.PagesAnalyzed, PageSummary{
			Page:          page.PageNumber,
			DetectedTypes: page.DetectedTypes,
			SectionCount:  s.Count(),
		})
	}

	sort.SliceStable(r.BacterialTaxonomy, func(i, j int) bool {
		return r.BacterialTaxonomy[i].Percentage > r.BacterialTaxonomy[j].Percentage
	})
	sort.SliceStable(r.FungalAnalysis, func(i, j int) bool {
		return r.FungalAnalysis[i].Percentage > r.FungalAnalysis[j].Percentage
	})

	return r
}
