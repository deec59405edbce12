package collection

import "fmt"

// Record is one release parsed from the collection export.
type Record struct {
	Artist string
	Title  string
	Year   int // 0 = unknown
}

// Validate checks that the record carries enough information to search for.
func (r Record) Validate() error {
	if r.Artist == "" {
		return fmt.Errorf("missing artist")
	}
	if r.Title == "" {
		return fmt.Errorf("missing title")
	}
	return nil
}
