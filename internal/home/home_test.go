package home

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("with explicit path", func(t *testing.T) {
		dir, err := New("/tmp/test-vitals")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dir.Path() != "/tmp/test-vitals" {
			t.Errorf("expected path /tmp/test-vitals, got %s", dir.Path())
		}
	})

	t.Run("with empty path uses default", func(t *testing.T) {
		dir, err := New("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, DefaultDirName)
		if dir.Path() != expected {
			t.Errorf("expected path %s, got %s", expected, dir.Path())
		}
	})
}

func TestDir_Paths(t *testing.T) {
	dir, _ := New("/tmp/test-vitals")

	t.Run("ConfigPath", func(t *testing.T) {
		expected := "/tmp/test-vitals/config.yaml"
		if dir.ConfigPath() != expected {
			t.Errorf("expected %s, got %s", expected, dir.ConfigPath())
		}
	})

	t.Run("VocabularyPath", func(t *testing.T) {
		expected := "/tmp/test-vitals/taxonomy.yaml"
		if dir.VocabularyPath() != expected {
			t.Errorf("expected %s, got %s", expected, dir.VocabularyPath())
		}
	})

	t.Run("ReportPaths", func(t *testing.T) {
		if got := dir.ReportJSONPath("abc"); got != "/tmp/test-vitals/reports/abc/report.json" {
			t.Errorf("unexpected report JSON path: %s", got)
		}
		if got := dir.ReportPDFPath("abc"); got != "/tmp/test-vitals/reports/abc/original.pdf" {
			t.Errorf("unexpected report PDF path: %s", got)
		}
	})

	t.Run("WhoopPath", func(t *testing.T) {
		expected := "/tmp/test-vitals/whoop"
		if dir.WhoopPath() != expected {
			t.Errorf("expected %s, got %s", expected, dir.WhoopPath())
		}
	})
}

func TestDir_EnsureExists(t *testing.T) {
	// Use a temp directory
	tmpDir := t.TempDir()
	vitalsDir := filepath.Join(tmpDir, "vitals-test")

	dir, err := New(vitalsDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Directory shouldn't exist yet
	if dir.Exists() {
		t.Error("directory should not exist before EnsureExists")
	}

	// Create it
	if err := dir.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists failed: %v", err)
	}

	// Now it should exist
	if !dir.Exists() {
		t.Error("directory should exist after EnsureExists")
	}

	// Data subdirectories should also exist
	for _, sub := range []string{dir.ReportsPath(), dir.WhoopPath()} {
		if _, err := os.Stat(sub); os.IsNotExist(err) {
			t.Errorf("%s should exist after EnsureExists", sub)
		}
	}
}

func TestDir_ConfigExists(t *testing.T) {
	tmpDir := t.TempDir()
	dir, _ := New(tmpDir)

	// Config doesn't exist
	if dir.ConfigExists() {
		t.Error("config should not exist initially")
	}

	// Create a config file
	configPath := dir.ConfigPath()
	if err := os.WriteFile(configPath, []byte("test: true\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Now it should exist
	if !dir.ConfigExists() {
		t.Error("config should exist after creation")
	}
}
