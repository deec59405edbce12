package collection

import (
	"fmt"
	"testing"
)

func makeRecords(n int) []Record {
	records := make([]Record, n)
	for i := range records {
		records[i] = Record{
			Artist: fmt.Sprintf("Artist %d", i+1),
			Title:  fmt.Sprintf("Title %d", i+1),
		}
	}
	return records
}

func TestRangeApplyDefaults(t *testing.T) {
	records := makeRecords(5)
	selected := Range{}.Apply(records)
	if len(selected) != 5 {
		t.Fatalf("Expected all 5 records, got %d", len(selected))
	}
}

func TestRangeApplySkip(t *testing.T) {
	records := makeRecords(5)
	selected := Range{Skip: 3}.Apply(records)
	if len(selected) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(selected))
	}
	if selected[0].Artist != "Artist 4" {
		t.Errorf("Expected first record to be 'Artist 4', got %q", selected[0].Artist)
	}
}

func TestRangeApplyLimit(t *testing.T) {
	records := makeRecords(5)
	selected := Range{Limit: 2}.Apply(records)
	if len(selected) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(selected))
	}
	if selected[1].Artist != "Artist 2" {
		t.Errorf("Expected last record to be 'Artist 2', got %q", selected[1].Artist)
	}
}

func TestRangeApplySkipAndLimit(t *testing.T) {
	// 5 rows, skip=2, limit=2: rows 3 and 4 are attempted, rows 1,2,5 are not.
	records := makeRecords(5)
	selected := Range{Skip: 2, Limit: 2}.Apply(records)
	if len(selected) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(selected))
	}
	if selected[0].Artist != "Artist 3" || selected[1].Artist != "Artist 4" {
		t.Errorf("Expected rows 3 and 4, got %q and %q", selected[0].Artist, selected[1].Artist)
	}
}

func TestRangeApplySkipPastEnd(t *testing.T) {
	records := makeRecords(3)
	selected := Range{Skip: 10}.Apply(records)
	if len(selected) != 0 {
		t.Fatalf("Expected no records, got %d", len(selected))
	}
}

func TestRangeApplyLimitExceedsLength(t *testing.T) {
	records := makeRecords(3)
	selected := Range{Limit: 10}.Apply(records)
	if len(selected) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(selected))
	}
}

func TestRangeApplyNegativeSkip(t *testing.T) {
	records := makeRecords(3)
	selected := Range{Skip: -1}.Apply(records)
	if len(selected) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(selected))
	}
}
