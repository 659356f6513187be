package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/pmcorreia/vitals/internal/home"
)

// StoredReport is the on-disk envelope for one consolidated report.
type StoredReport struct {
	ID         string              `json:"id"`
	SourceFile string              `json:"source_file"`
	CreatedAt  time.Time           `json:"created_at"`
	Report     *ConsolidatedReport `json:"report"`
}

// Summary is the listing view of a stored report.
type Summary struct {
	ID             string    `json:"id"`
	SourceFile     string    `json:"source_file"`
	CreatedAt      time.Time `json:"created_at"`
	Pages          int       `json:"pages"`
	BacteriaCount  int       `json:"bacteria_count"`
	FungiCount     int       `json:"fungi_count"`
	BiomarkerCount int       `json:"biomarker_count"`
}

// Store persists consolidated reports under the home directory, one
// subdirectory per report holding report.json and the original PDF.
type Store struct {
	home *home.Dir
}

// NewStore builds a report store over the given home directory.
func NewStore(h *home.Dir) *Store {
	return &Store{home: h}
}

// Save writes a consolidated report and a copy of its source PDF, returning
// the new report's ID. sourceName overrides the recorded file name when the
// PDF sits in a staging location; empty means the path's base name.
func (s *Store) Save(report *ConsolidatedReport, pdfPath, sourceName string) (string, error) {
	if sourceName == "" {
		sourceName = filepath.Base(pdfPath)
	}

	id := uuid.New().String()
	if err := s.home.EnsureReportDir(id); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	stored := StoredReport{
		ID:         id,
		SourceFile: sourceName,
		CreatedAt:  time.Now().UTC(),
		Report:     report,
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(s.home.ReportJSONPath(id), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	if err := copyFile(pdfPath, s.home.ReportPDFPath(id)); err != nil {
		return "", fmt.Errorf("failed to archive source PDF: %w", err)
	}

	return id, nil
}

// Get loads one stored report by ID.
func (s *Store) Get(id string) (*StoredReport, error) {
	data, err := os.ReadFile(s.home.ReportJSONPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("report %s not found", id)
		}
		return nil, fmt.Errorf("failed to read report %s: %w", id, err)
	}

	var stored StoredReport
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to parse report %s: %w", id, err)
	}
	return &stored, nil
}

// List returns summaries of all stored reports, newest first.
func (s *Store) List() ([]Summary, error) {
	entries, err := os.ReadDir(s.home.ReportsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return []Summary{}, nil
		}
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	summaries := []Summary{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		stored, err := s.Get(entry.Name())
		if err != nil {
			continue
		}

		sum := Summary{
			ID:         stored.ID,
			SourceFile: stored.SourceFile,
			CreatedAt:  stored.CreatedAt,
		}
		if stored.Report != nil {
			sum.Pages = len(stored.Report.Metadata.PagesAnalyzed)
			sum.BacteriaCount = len(stored.Report.BacterialTaxonomy)
			sum.FungiCount = len(stored.Report.FungalAnalysis)
			sum.BiomarkerCount = len(stored.Report.Biomarkers)
		}
		summaries = append(summaries, sum)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
