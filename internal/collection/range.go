package collection

import "github.com/rs/zerolog/log"

// Range narrows which rows of the collection are imported. Skip drops
// the first Skip rows; Limit caps how many of the remaining rows are
// attempted (0 = unlimited).
type Range struct {
	Skip  int
	Limit int
}

// Apply filters records down to the rows selected by the range. It is a
// pure pre-filter so it can be tested independently of the submission step.
func (rg Range) Apply(records []Record) []Record {
	skip := rg.Skip
	if skip < 0 {
		skip = 0
	}
	if skip >= len(records) {
		return nil
	}

	selected := records[skip:]
	if rg.Limit > 0 && rg.Limit < len(selected) {
		selected = selected[:rg.Limit]
	}

	if skip > 0 || rg.Limit > 0 {
		log.Debug().
			Int("skip", rg.Skip).
			Int("limit", rg.Limit).
			Int("total", len(records)).
			Int("selected", len(selected)).
			Msg("Applied row range filter")
	}

	return selected
}
