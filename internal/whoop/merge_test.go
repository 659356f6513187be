package whoop

import (
	"testing"
	"time"
)

func rec(id string, created string) Record {
	return Record{"id": id, "created_at": created}
}

func TestMergeFreshWinsOnCollision(t *testing.T) {
	existing := []Record{
		{"id": "a", "created_at": "2024-06-01T00:00:00Z", "score": 10.0},
	}
	fresh := []Record{
		{"id": "a", "created_at": "2024-06-01T00:00:00Z", "score": 99.0},
	}

	merged := Merge(TypeSleep, fresh, existing)
	if len(merged) != 1 {
		t.Fatalf("expected 1 record, got %d", len(merged))
	}
	if merged[0]["score"] != 99.0 {
		t.Errorf("fresh record did not win: %v", merged[0])
	}
}

func TestMergeSortedNewestFirst(t *testing.T) {
	existing := []Record{
		rec("old", "2024-01-01T00:00:00Z"),
		rec("mid", "2024-03-01T00:00:00Z"),
	}
	fresh := []Record{
		rec("new", "2024-06-01T00:00:00Z"),
	}

	merged := Merge(TypeSleep, fresh, existing)
	if len(merged) != 3 {
		t.Fatalf("expected 3 records, got %d", len(merged))
	}
	want := []string{"new", "mid", "old"}
	for i, id := range want {
		if merged[i]["id"] != id {
			t.Fatalf("position %d = %v, want %s", i, merged[i]["id"], id)
		}
	}
}

func TestMergeKeylessRecordsKept(t *testing.T) {
	fresh := []Record{
		{"created_at": "2024-06-01T00:00:00Z"},
		{"created_at": "2024-06-02T00:00:00Z"},
	}

	merged := Merge(TypeSleep, fresh, nil)
	if len(merged) != 2 {
		t.Fatalf("keyless records deduplicated: got %d, want 2", len(merged))
	}
}

func TestMergeRecoveryKeyedByCycleID(t *testing.T) {
	existing := []Record{{"cycle_id": 42.0, "created_at": "2024-06-01T00:00:00Z"}}
	fresh := []Record{{"cycle_id": 42.0, "created_at": "2024-06-01T00:00:00Z", "fresh": true}}

	merged := Merge(TypeRecovery, fresh, existing)
	if len(merged) != 1 {
		t.Fatalf("expected 1 record, got %d", len(merged))
	}
	if merged[0]["fresh"] != true {
		t.Errorf("recovery collision not resolved in favour of fresh record")
	}
}

func TestRecordEffectiveTime(t *testing.T) {
	tests := []struct {
		name string
		r    Record
		want time.Time
	}{
		{
			name: "created_at preferred",
			r:    Record{"created_at": "2024-06-01T00:00:00Z", "start": "2024-01-01T00:00:00Z"},
			want: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "start fallback",
			r:    Record{"start": "2024-01-01T12:30:00Z"},
			want: time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC),
		},
		{
			name: "no timestamp",
			r:    Record{"id": "x"},
			want: time.Time{},
		},
		{
			name: "unparseable",
			r:    Record{"created_at": "yesterday"},
			want: time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.EffectiveTime(); !got.Equal(tt.want) {
				t.Fatalf("EffectiveTime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLatestTime(t *testing.T) {
	records := []Record{
		rec("a", "2024-01-01T00:00:00Z"),
		rec("b", "2024-06-01T00:00:00Z"),
		rec("c", "2024-03-01T00:00:00Z"),
	}
	want := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if got := LatestTime(records); !got.Equal(want) {
		t.Fatalf("LatestTime = %v, want %v", got, want)
	}
	if got := LatestTime(nil); !got.IsZero() {
		t.Fatalf("LatestTime(nil) = %v, want zero", got)
	}
}
