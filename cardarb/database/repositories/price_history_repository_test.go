package repositories

import (
	"testing"
	"time"

	"github.com/ellavondegurechaff/cardarb/cardarb/database/models"
)

func TestStampObservation_SameDayConverges(t *testing.T) {
	morning := &models.PriceObservation{
		CardVariantID: 1,
		Source:        models.SourceBuylist,
		ObservedAt:    time.Date(2024, 6, 15, 1, 0, 0, 0, time.UTC),
	}
	evening := &models.PriceObservation{
		CardVariantID: 1,
		Source:        models.SourceBuylist,
		ObservedAt:    time.Date(2024, 6, 15, 23, 59, 59, 0, time.UTC),
	}

	stampObservation(morning)
	stampObservation(evening)

	if !morning.ObservedDay.Equal(evening.ObservedDay) {
		t.Errorf("same-day observations stamped to %v and %v, want one key",
			morning.ObservedDay, evening.ObservedDay)
	}
	if morning.IngestedAt.IsZero() {
		t.Error("stampObservation() left IngestedAt unset")
	}
}

func TestStampObservation_DayBoundary(t *testing.T) {
	before := &models.PriceObservation{
		ObservedAt: time.Date(2024, 6, 15, 23, 59, 0, 0, time.UTC),
	}
	after := &models.PriceObservation{
		ObservedAt: time.Date(2024, 6, 16, 0, 1, 0, 0, time.UTC),
	}

	stampObservation(before)
	stampObservation(after)

	if before.ObservedDay.Equal(after.ObservedDay) {
		t.Error("observations across the UTC midnight stamped to one key, want two")
	}
	if !after.ObservedDay.Equal(time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ObservedDay = %v, want 2024-06-16", after.ObservedDay)
	}
}

func TestStampObservation_KeepsIngestedAt(t *testing.T) {
	preset := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)
	obs := &models.PriceObservation{
		ObservedAt: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
		IngestedAt: preset,
	}

	stampObservation(obs)

	if !obs.IngestedAt.Equal(preset) {
		t.Errorf("IngestedAt = %v, want the preset %v kept", obs.IngestedAt, preset)
	}
}

func TestRecordOutcome(t *testing.T) {
	seen := map[int64]struct{}{}

	// First write of the day inserts; replaying the same key the same day
	// updates in place instead of growing the ledger.
	if got := recordOutcome(seen, 1); got != RecordInserted {
		t.Errorf("first write = %v, want RecordInserted", got)
	}
	if got := recordOutcome(seen, 1); got != RecordUpdated {
		t.Errorf("replayed write = %v, want RecordUpdated", got)
	}
	if got := recordOutcome(seen, 2); got != RecordInserted {
		t.Errorf("different variant = %v, want RecordInserted", got)
	}

	// Keys already present before the run count as updates immediately.
	preloaded := map[int64]struct{}{7: {}}
	if got := recordOutcome(preloaded, 7); got != RecordUpdated {
		t.Errorf("pre-existing key = %v, want RecordUpdated", got)
	}
}
