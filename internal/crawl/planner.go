package crawl

import (
	"time"

	"github.com/rs/zerolog"

	"horse.fit/lexwatch/internal/corpus"
	"horse.fit/lexwatch/internal/globaltime"
)

// Overrides widen the incremental window for one run.
type Overrides struct {
	// ForceFullFromEpoch rescans everything since the epoch start date.
	ForceFullFromEpoch bool `json:"force_full_from_epoch"`
	// ForceCurrentYear rescans from January 1 of the current year.
	ForceCurrentYear bool `json:"force_current_year"`
}

// PlanWindow computes the [from, to] date window for the next run. Without
// overrides the window starts the day after the watermark; a missing or
// unparsable watermark falls back to the epoch start. An unparsable
// watermark is a warning, never an error. from > to means the run is
// already up to date.
func PlanWindow(state corpus.State, overrides Overrides, epochStart time.Time, logger zerolog.Logger) (from, to time.Time) {
	today := globaltime.Today()

	switch {
	case overrides.ForceCurrentYear:
		return time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), today
	case overrides.ForceFullFromEpoch:
		return epochStart, today
	}

	if state.LastCheckedDate != nil && *state.LastCheckedDate != "" {
		last, err := time.Parse("2006-01-02", *state.LastCheckedDate)
		if err != nil {
			logger.Warn().
				Str("last_checked_date", *state.LastCheckedDate).
				Msg("unparsable watermark, falling back to epoch start")
			return epochStart, today
		}
		return last.AddDate(0, 0, 1), today
	}

	return epochStart, today
}
