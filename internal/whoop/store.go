package whoop

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/pmcorreia/vitals/internal/home"
)

const (
	metadataFileName = "metadata.json"

	lockRetryInterval = 50 * time.Millisecond
	lockTimeout       = 2 * time.Second
	lockStaleAfter    = 30 * time.Second
)

// typeFileSchema validates the on-disk collection shape. Violations are
// logged, never fatal: the store still serves whatever it could parse.
const typeFileSchema = `{
  "type": "object",
  "required": ["records", "lastUpdate", "totalCount"],
  "properties": {
    "records": {"type": "array", "items": {"type": "object"}},
    "lastUpdate": {"type": "string"},
    "totalCount": {"type": "integer", "minimum": 0},
    "date_range": {
      "type": "object",
      "properties": {
        "earliest": {"type": "string"},
        "latest": {"type": "string"}
      }
    }
  }
}`

var compiledTypeFileSchema = jsonschema.MustCompileString("typefile.json", typeFileSchema)

// FileStore persists WHOOP collections as JSON files under the home
// directory, one file per data type plus metadata.json. Reads degrade to
// empty data on missing or corrupt files; writes take an exclusive lock file
// to keep concurrent syncs from interleaving.
type FileStore struct {
	home   *home.Dir
	logger *slog.Logger
}

// NewFileStore builds a store over the given home directory.
func NewFileStore(h *home.Dir, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{home: h, logger: logger}
}

func (s *FileStore) typePath(t DataType) string {
	return filepath.Join(s.home.WhoopPath(), t.FileName())
}

func (s *FileStore) metadataPath() string {
	return filepath.Join(s.home.WhoopPath(), metadataFileName)
}

// Load reads one collection file. A missing file yields an empty collection;
// a corrupt one is logged and likewise yields empty data rather than failing
// the sync.
func (s *FileStore) Load(t DataType) TypeFile {
	path := s.typePath(t)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read data file", "type", t, "error", err)
		}
		return emptyTypeFile()
	}

	var tf TypeFile
	if err := json.Unmarshal(data, &tf); err != nil {
		s.logger.Warn("corrupt data file, starting fresh", "type", t, "error", err)
		return emptyTypeFile()
	}

	s.validate(t, data)

	if tf.Records == nil {
		tf.Records = []Record{}
	}
	return tf
}

// validate checks the raw file against the collection schema, logging any
// violation without affecting the load.
func (s *FileStore) validate(t DataType, raw []byte) {
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return
	}
	if err := compiledTypeFileSchema.Validate(v); err != nil {
		s.logger.Warn("data file fails schema validation", "type", t, "error", err)
	}
}

// Save writes one collection file under an exclusive lock, recomputing the
// derived totalCount and date_range fields from the records.
func (s *FileStore) Save(t DataType, records []Record) error {
	tf := TypeFile{
		Records:    records,
		LastUpdate: time.Now().UTC().Format(time.RFC3339),
		TotalCount: len(records),
		DateRange:  dateRangeOf(records),
	}
	if tf.Records == nil {
		tf.Records = []Record{}
	}
	return s.writeLocked(s.typePath(t), tf)
}

// LoadMetadata reads metadata.json, yielding an empty metadata set when the
// file is missing or corrupt.
func (s *FileStore) LoadMetadata() Metadata {
	data, err := os.ReadFile(s.metadataPath())
	if err != nil {
		return emptyMetadata()
	}

	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		s.logger.Warn("corrupt metadata file, starting fresh", "error", err)
		return emptyMetadata()
	}
	if m.LastFetch == nil {
		m.LastFetch = map[string]string{}
	}
	if m.DateRanges == nil {
		m.DateRanges = map[string]DateRange{}
	}
	return m
}

func emptyMetadata() Metadata {
	return Metadata{
		LastFetch:  map[string]string{},
		DateRanges: map[string]DateRange{},
	}
}

// SaveMetadata writes metadata.json under an exclusive lock.
func (s *FileStore) SaveMetadata(m Metadata) error {
	return s.writeLocked(s.metadataPath(), m)
}

func (s *FileStore) writeLocked(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	unlock, err := acquireLock(path + ".lock")
	if err != nil {
		return err
	}
	defer unlock()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

// acquireLock creates a lock file exclusively, retrying until the timeout.
// Lock files older than lockStaleAfter are treated as leftovers from a
// crashed writer and broken.
func acquireLock(lockPath string) (func(), error) {
	deadline := time.Now().Add(lockTimeout)
	for {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			fmt.Fprintf(f, "%d", os.Getpid())
			f.Close()
			return func() { os.Remove(lockPath) }, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to create lock file: %w", err)
		}

		if info, statErr := os.Stat(lockPath); statErr == nil && time.Since(info.ModTime()) > lockStaleAfter {
			os.Remove(lockPath)
			continue
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("timed out waiting for lock %s", lockPath)
		}
		time.Sleep(lockRetryInterval)
	}
}

func emptyTypeFile() TypeFile {
	return TypeFile{Records: []Record{}}
}

// dateRangeOf derives the observed record time span, formatted RFC3339.
func dateRangeOf(records []Record) DateRange {
	var min, max time.Time
	for _, r := range records {
		ts := r.EffectiveTime()
		if ts.IsZero() {
			continue
		}
		if min.IsZero() || ts.Before(min) {
			min = ts
		}
		if ts.After(max) {
			max = ts
		}
	}
	if min.IsZero() {
		return DateRange{}
	}
	return DateRange{
		Earliest: min.UTC().Format(time.RFC3339),
		Latest:   max.UTC().Format(time.RFC3339),
	}
}
