package collection

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Required header columns. Any other columns in the export are ignored.
const (
	columnArtist = "Artist"
	columnTitle  = "Title"
	columnYear   = "Year"
)

// LoadCSV reads a record collection export. The file must contain Artist,
// Title and Year columns; rows are returned in file order.
func LoadCSV(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse collection file: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("collection file %s is empty", path)
	}

	cols, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	records := recordsFromRows(rows[1:], cols)

	log.Debug().
		Str("file", path).
		Int("rows", len(rows)-1).
		Int("records", len(records)).
		Msg("Loaded collection file")

	return records, nil
}

// columnIndex holds the positions of the required columns in the header row.
type columnIndex struct {
	artist int
	title  int
	year   int
}

func mapHeader(header []string) (columnIndex, error) {
	cols := columnIndex{artist: -1, title: -1, year: -1}
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case columnArtist:
			cols.artist = i
		case columnTitle:
			cols.title = i
		case columnYear:
			cols.year = i
		}
	}

	var missing []string
	if cols.artist < 0 {
		missing = append(missing, columnArtist)
	}
	if cols.title < 0 {
		missing = append(missing, columnTitle)
	}
	if cols.year < 0 {
		missing = append(missing, columnYear)
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("collection file is missing required column(s): %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func recordsFromRows(rows [][]string, cols columnIndex) []Record {
	var records []Record
	for i, row := range rows {
		rec := Record{
			Artist: fieldAt(row, cols.artist),
			Title:  fieldAt(row, cols.title),
			Year:   parseYear(fieldAt(row, cols.year), i+1),
		}
		records = append(records, rec)
	}
	return records
}

// fieldAt safely extracts a trimmed field from a row at the given index.
func fieldAt(row []string, index int) string {
	if index < len(row) {
		return strings.TrimSpace(row[index])
	}
	return ""
}

// parseYear tolerates an empty or malformed year; the search just omits it.
func parseYear(raw string, rowNum int) int {
	if raw == "" {
		return 0
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 0 {
		log.Debug().
			Int("row", rowNum).
			Str("year", raw).
			Msg("Ignoring unparseable year value")
		return 0
	}
	return year
}
