package report

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pmcorreia/vitals/internal/pdf"
)

// Pipeline runs the full PDF-to-consolidated-report extraction: per-page text
// extraction, page classification, section extraction, and consolidation.
type Pipeline struct {
	vocab  *Vocabulary
	logger *slog.Logger
}

// NewPipeline builds a Pipeline. A nil vocabulary falls back to the built-in
// rank vocabularies.
func NewPipeline(vocab *Vocabulary, logger *slog.Logger) *Pipeline {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{vocab: vocab, logger: logger}
}

// Run extracts a consolidated report from the PDF at path. Pages that yield
// no text or no recognizable content are logged and carried through as
// unknown; only an unreadable document is an error.
func (p *Pipeline) Run(ctx context.Context, path string) (*ConsolidatedReport, []PageExtraction, error) {
	pages, err := pdf.ExtractPages(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to extract PDF text: %w", err)
	}

	extractions := make([]PageExtraction, 0, len(pages))
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		detected := Classify(page.Text)
		sections := ExtractSections(page.Text, detected, p.vocab)

		if len(detected) == 1 && detected[0] == TypeUnknown {
			p.logger.Debug("page matched no known content type",
				"page", page.Number, "chars", len(page.Text))
		}

		extractions = append(extractions, PageExtraction{
			PageNumber:    page.Number,
			RawText:       page.Text,
			DetectedTypes: detected,
			Sections:      sections,
		})
	}

	consolidated := Consolidate(extractions)
	p.logger.Info("report extraction complete",
		"pages", len(pages),
		"bacteria", len(consolidated.BacterialTaxonomy),
		"fungi", len(consolidated.FungalAnalysis),
		"biomarkers", len(consolidated.Biomarkers))

	return consolidated, extractions, nil
}
