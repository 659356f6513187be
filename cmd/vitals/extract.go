package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pmcorreia/vitals/internal/api"
	"github.com/pmcorreia/vitals/internal/config"
	"github.com/pmcorreia/vitals/internal/home"
	"github.com/pmcorreia/vitals/internal/report"
)

var (
	extractSave  bool
	extractPages bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <pdf-file>",
	Short: "Extract structured data from a lab report PDF",
	Long: `Run the report extraction pipeline on a lab report PDF locally,
without a running server.

Prints the consolidated report. With --save, the report and the original PDF
are stored in the vitals home directory, same as an upload through the API.

Examples:
  vitals extract report.pdf            # Extract and print
  vitals extract report.pdf --save     # Extract and store under ~/.vitals
  vitals extract report.pdf --pages    # Include per-page extractions`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pdfPath := args[0]
		if _, err := os.Stat(pdfPath); err != nil {
			return fmt.Errorf("cannot read %s: %w", pdfPath, err)
		}

		h, err := home.New(homeDir)
		if err != nil {
			return err
		}

		vocab, err := loadVocabulary(h)
		if err != nil {
			return err
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		}))
		pipeline := report.NewPipeline(vocab, logger)

		consolidated, pages, err := pipeline.Run(cmd.Context(), pdfPath)
		if err != nil {
			return fmt.Errorf("extraction failed: %w", err)
		}

		if extractSave {
			if err := h.EnsureExists(); err != nil {
				return err
			}
			id, err := report.NewStore(h).Save(consolidated, pdfPath, "")
			if err != nil {
				return fmt.Errorf("failed to save report: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Saved report %s\n", id)
		}

		if extractPages {
			return api.Output(map[string]any{
				"report": consolidated,
				"pages":  pages,
			})
		}
		return api.Output(consolidated)
	},
}

// loadVocabulary loads the taxonomy vocabulary, preferring the config
// override, then the home directory file, then built-in defaults.
func loadVocabulary(h *home.Dir) (*report.Vocabulary, error) {
	path := ""
	if cm, err := config.NewManager(cfgFile); err == nil {
		path = cm.Get().Extraction.VocabularyFile
	}
	if path == "" {
		path = h.VocabularyPath()
	}
	return report.LoadVocabulary(path)
}

func init() {
	extractCmd.Flags().BoolVar(&extractSave, "save", false, "store the report in the vitals home directory")
	extractCmd.Flags().BoolVar(&extractPages, "pages", false, "include per-page extraction results")
	rootCmd.AddCommand(extractCmd)
}
