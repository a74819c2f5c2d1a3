package crawl

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"horse.fit/lexwatch/internal/corpus"
	"horse.fit/lexwatch/internal/globaltime"
)

var testEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func mockToday(t *testing.T, day time.Time) {
	t.Helper()
	globaltime.SetMockTime(day)
	t.Cleanup(globaltime.ResetTime)
}

func stringPtr(s string) *string { return &s }

func TestPlanWindow_NoWatermark(t *testing.T) {
	mockToday(t, time.Date(2025, time.July, 15, 10, 30, 0, 0, time.UTC))

	from, to := PlanWindow(corpus.State{}, Overrides{}, testEpoch, zerolog.Nop())
	if !from.Equal(testEpoch) {
		t.Fatalf("expected window to start at the epoch, got %s", from)
	}
	if got := to.Format("2006-01-02"); got != "2025-07-15" {
		t.Fatalf("expected window to end today, got %s", got)
	}
}

func TestPlanWindow_WatermarkAdvancesOneDay(t *testing.T) {
	mockToday(t, time.Date(2025, time.July, 15, 10, 30, 0, 0, time.UTC))

	state := corpus.State{LastCheckedDate: stringPtr("2025-06-01")}
	from, to := PlanWindow(state, Overrides{}, testEpoch, zerolog.Nop())
	if got := from.Format("2006-01-02"); got != "2025-06-02" {
		t.Fatalf("expected window to start the day after the watermark, got %s", got)
	}
	if from.After(to) {
		t.Fatalf("expected a non-empty window, got from=%s to=%s", from, to)
	}
}

func TestPlanWindow_UpToDate(t *testing.T) {
	mockToday(t, time.Date(2025, time.July, 15, 10, 30, 0, 0, time.UTC))

	state := corpus.State{LastCheckedDate: stringPtr("2025-07-15")}
	from, to := PlanWindow(state, Overrides{}, testEpoch, zerolog.Nop())
	if !from.After(to) {
		t.Fatalf("expected from after to when the watermark is today, got from=%s to=%s", from, to)
	}
}

func TestPlanWindow_UnparsableWatermark(t *testing.T) {
	mockToday(t, time.Date(2025, time.July, 15, 10, 30, 0, 0, time.UTC))

	state := corpus.State{LastCheckedDate: stringPtr("yesterday-ish")}
	from, _ := PlanWindow(state, Overrides{}, testEpoch, zerolog.Nop())
	if !from.Equal(testEpoch) {
		t.Fatalf("expected fallback to the epoch start, got %s", from)
	}
}

func TestPlanWindow_ForceCurrentYear(t *testing.T) {
	mockToday(t, time.Date(2025, time.July, 15, 10, 30, 0, 0, time.UTC))

	state := corpus.State{LastCheckedDate: stringPtr("2025-07-10")}
	from, to := PlanWindow(state, Overrides{ForceCurrentYear: true}, testEpoch, zerolog.Nop())
	if got := from.Format("2006-01-02"); got != "2025-01-01" {
		t.Fatalf("expected January 1 of the current year, got %s", got)
	}
	if got := to.Format("2006-01-02"); got != "2025-07-15" {
		t.Fatalf("expected window to end today, got %s", got)
	}
}

func TestPlanWindow_ForceFullFromEpoch(t *testing.T) {
	mockToday(t, time.Date(2025, time.July, 15, 10, 30, 0, 0, time.UTC))

	state := corpus.State{LastCheckedDate: stringPtr("2025-07-10")}
	from, _ := PlanWindow(state, Overrides{ForceFullFromEpoch: true}, testEpoch, zerolog.Nop())
	if !from.Equal(testEpoch) {
		t.Fatalf("expected the full window from the epoch, got %s", from)
	}
}
