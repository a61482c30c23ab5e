package services

import (
	"strings"
	"time"

	"go-grocery/models"
)

// BatchStrategy decides which delivery batch a new order is assigned to.
// Two strategies exist: a static default and a time-of-day match against
// the configured delivery slots. Which one is live is a deployment choice
// (BATCH_STRATEGY env var).
type BatchStrategy interface {
	Batch(now time.Time, slots []models.DeliverySlot) string
}

// StaticBatch assigns every order to a fixed batch regardless of time.
type StaticBatch struct {
	Name string
}

func (s StaticBatch) Batch(time.Time, []models.DeliverySlot) string {
	return s.Name
}

// SlotWindowBatch matches the current time-of-day against each active
// slot's [start, end) window and assigns the first match. Falls back to
// Morning when no window matches or a slot's times cannot be parsed.
type SlotWindowBatch struct{}

func (SlotWindowBatch) Batch(now time.Time, slots []models.DeliverySlot) string {
	minutes := now.Hour()*60 + now.Minute()
	for _, slot := range slots {
		if !slot.IsActive {
			continue
		}
		start, err := parseClock(slot.StartTime)
		if err != nil {
			continue
		}
		end, err := parseClock(slot.EndTime)
		if err != nil {
			continue
		}
		if minutes >= start && minutes < end {
			return slot.Name
		}
	}
	return models.BatchMorning
}

// parseClock converts a 12-hour clock string ("07:30 AM") to minutes since
// midnight.
func parseClock(s string) (int, error) {
	t, err := time.Parse("03:04 PM", strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// NormalizeBatch capitalizes a caller-supplied batch name ("morning" ->
// "Morning") so filters match the stored form.
func NormalizeBatch(batch string) string {
	if batch == "" {
		return ""
	}
	return strings.ToUpper(batch[:1]) + strings.ToLower(batch[1:])
}
