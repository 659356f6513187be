// Package whoop implements incremental sync of WHOOP wearable data: a
// paginated rate-limited API client, an order-preserving record merger, and a
// JSON flat-file store under the home directory.
package whoop

import (
	"fmt"
	"time"
)

// DataType identifies one synced WHOOP collection.
type DataType string

const (
	TypeSleep    DataType = "sleep"
	TypeStrain   DataType = "strain"
	TypeRecovery DataType = "recovery"
)

// AllDataTypes is the fixed sync order.
var AllDataTypes = []DataType{TypeSleep, TypeStrain, TypeRecovery}

// ParseDataType validates a user-supplied data type string.
func ParseDataType(s string) (DataType, error) {
	switch DataType(s) {
	case TypeSleep, TypeStrain, TypeRecovery:
		return DataType(s), nil
	}
	return "", fmt.Errorf("unknown data type %q (want sleep, strain or recovery)", s)
}

// endpointPath maps a data type to its API collection path.
func (t DataType) endpointPath() string {
	switch t {
	case TypeSleep:
		return "/v1/activity/sleep"
	case TypeStrain:
		return "/v1/cycle"
	case TypeRecovery:
		return "/v1/recovery"
	}
	return ""
}

// FileName returns the on-disk file name for this collection.
func (t DataType) FileName() string {
	return string(t) + "-data.json"
}

// Record is one API record, kept schemaless so unknown upstream fields
// survive the round trip to disk untouched.
type Record map[string]any

// Key returns the record's dedup identity. Sleep and strain records carry
// "id"; recovery records are keyed by "cycle_id". Records with neither yield
// an empty key and are never deduplicated against each other.
func (r Record) Key(t DataType) string {
	keys := []string{"id", "cycle_id"}
	if t == TypeRecovery {
		keys = []string{"cycle_id", "id"}
	}
	for _, k := range keys {
		if v, ok := r[k]; ok {
			return fmt.Sprintf("%v", v)
		}
	}
	return ""
}

// EffectiveTime returns the record's timestamp for incremental-sync ordering:
// created_at when present, then start, then updated_at.
// Records with no parseable timestamp report the zero time.
func (r Record) EffectiveTime() time.Time {
	for _, k := range []string{"created_at", "start", "updated_at"} {
		s, ok := r[k].(string)
		if !ok {
			continue
		}
		if ts, err := time.Parse(time.RFC3339, s); err == nil {
			return ts
		}
		if ts, err := time.Parse("2006-01-02T15:04:05.999Z", s); err == nil {
			return ts
		}
	}
	return time.Time{}
}

// DateRange is the observed time span of one collection's records.
type DateRange struct {
	Earliest string `json:"earliest"`
	Latest   string `json:"latest"`
}

// TypeFile is the exact on-disk shape of one collection file. Field names are
// a compatibility contract with existing data files and must not change.
type TypeFile struct {
	Records    []Record  `json:"records"`
	LastUpdate string    `json:"lastUpdate"`
	TotalCount int       `json:"totalCount"`
	DateRange  DateRange `json:"date_range"`
}

// Metadata is the exact on-disk shape of metadata.json, tracking per-type
// last-fetch times and date ranges across all collections.
type Metadata struct {
	LastFetch  map[string]string    `json:"lastFetch"`
	DateRanges map[string]DateRange `json:"dateRanges"`
}
