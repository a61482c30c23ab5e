package services

import (
	"testing"
	"time"

	"go-grocery/models"

	"github.com/stretchr/testify/assert"
)

func slotFixture(name, start, end string, active bool) models.DeliverySlot {
	return models.DeliverySlot{Name: name, StartTime: start, EndTime: end, IsActive: active}
}

func clock(hour, minute int) time.Time {
	return time.Date(2026, 8, 28, hour, minute, 0, 0, time.UTC)
}

func TestStaticBatch(t *testing.T) {
	strategy := StaticBatch{Name: models.BatchMorning}
	assert.Equal(t, models.BatchMorning, strategy.Batch(clock(6, 0), nil))
	assert.Equal(t, models.BatchMorning, strategy.Batch(clock(18, 0), nil))
}

func TestSlotWindowBatch(t *testing.T) {
	slots := []models.DeliverySlot{
		slotFixture(models.BatchMorning, "06:00 AM", "11:00 AM", true),
		slotFixture(models.BatchEvening, "04:00 PM", "09:00 PM", true),
	}
	strategy := SlotWindowBatch{}

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{name: "inside morning window", now: clock(7, 30), want: models.BatchMorning},
		{name: "inside evening window", now: clock(17, 0), want: models.BatchEvening},
		{name: "window start is inclusive", now: clock(6, 0), want: models.BatchMorning},
		{name: "window end is exclusive", now: clock(11, 0), want: models.BatchMorning},
		{name: "between windows falls back to morning", now: clock(13, 0), want: models.BatchMorning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, strategy.Batch(tt.now, slots))
		})
	}
}

func TestSlotWindowBatchSkipsInactiveSlots(t *testing.T) {
	slots := []models.DeliverySlot{
		slotFixture(models.BatchEvening, "04:00 PM", "09:00 PM", false),
	}
	assert.Equal(t, models.BatchMorning, SlotWindowBatch{}.Batch(clock(17, 0), slots))
}

func TestSlotWindowBatchSkipsUnparseableSlots(t *testing.T) {
	slots := []models.DeliverySlot{
		slotFixture(models.BatchEvening, "16:00", "21:00", true),
	}
	assert.Equal(t, models.BatchMorning, SlotWindowBatch{}.Batch(clock(17, 0), slots))
}

func TestParseClock(t *testing.T) {
	minutes, err := parseClock("07:30 AM")
	assert.NoError(t, err)
	assert.Equal(t, 7*60+30, minutes)

	minutes, err = parseClock("12:00 AM")
	assert.NoError(t, err)
	assert.Equal(t, 0, minutes)

	minutes, err = parseClock("09:15 PM")
	assert.NoError(t, err)
	assert.Equal(t, 21*60+15, minutes)

	_, err = parseClock("21:15")
	assert.Error(t, err)
}

func TestNormalizeBatch(t *testing.T) {
	assert.Equal(t, "Morning", NormalizeBatch("morning"))
	assert.Equal(t, "Evening", NormalizeBatch("EVENING"))
	assert.Equal(t, "Morning", NormalizeBatch("Morning"))
	assert.Equal(t, "", NormalizeBatch(""))
}
