package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"discogs_import/internal/collection"

	"github.com/rs/zerolog/log"
)

// Reader is the slice of the sheets client the source needs.
type Reader interface {
	ReadSheet(ctx context.Context, spreadsheetID, range_ string) ([][]interface{}, error)
}

// LoadCollection reads a record collection from a spreadsheet tab. The first
// row of the range is the header and must contain Artist, Title and Year
// columns; other columns are ignored.
func LoadCollection(ctx context.Context, client Reader, spreadsheetID, range_ string) ([]collection.Record, error) {
	rows, err := client.ReadSheet(ctx, spreadsheetID, range_)
	if err != nil {
		return nil, fmt.Errorf("failed to read collection sheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s has no data in range %s", spreadsheetID, range_)
	}

	records, err := recordsFromSheet(rows)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("spreadsheet_id", spreadsheetID).
		Str("range", range_).
		Int("rows", len(rows)-1).
		Int("records", len(records)).
		Msg("Loaded collection from sheet")

	return records, nil
}

func recordsFromSheet(rows [][]interface{}) ([]collection.Record, error) {
	artistCol, titleCol, yearCol := -1, -1, -1
	for i, cell := range rows[0] {
		switch strings.TrimSpace(cellString(cell)) {
		case "Artist":
			artistCol = i
		case "Title":
			titleCol = i
		case "Year":
			yearCol = i
		}
	}

	var missing []string
	if artistCol < 0 {
		missing = append(missing, "Artist")
	}
	if titleCol < 0 {
		missing = append(missing, "Title")
	}
	if yearCol < 0 {
		missing = append(missing, "Year")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("sheet header is missing required column(s): %s", strings.Join(missing, ", "))
	}

	var records []collection.Record
	for i, row := range rows[1:] {
		records = append(records, collection.Record{
			Artist: cellAt(row, artistCol),
			Title:  cellAt(row, titleCol),
			Year:   parseYearCell(cellAt(row, yearCol), i+1),
		})
	}
	return records, nil
}

// cellAt safely extracts a trimmed string from a row at the given index.
func cellAt(row []interface{}, index int) string {
	if index < len(row) && row[index] != nil {
		return strings.TrimSpace(cellString(row[index]))
	}
	return ""
}

func cellString(cell interface{}) string {
	return fmt.Sprintf("%v", cell)
}

func parseYearCell(raw string, rowNum int) int {
	if raw == "" {
		return 0
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 0 {
		log.Debug().
			Int("row", rowNum).
			Str("year", raw).
			Msg("Ignoring unparseable year cell")
		return 0
	}
	return year
}
