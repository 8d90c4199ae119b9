package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllSlots(t *testing.T) {
	slots := AllSlots()

	assert.Len(t, slots, SlotsPerDay)
	assert.Equal(t, "09:00", slots[0])
	assert.Equal(t, "20:30", slots[len(slots)-1])
}

func TestDisabledSlotsSunday(t *testing.T) {
	disabled := DisabledSlots(time.Sunday)

	assert.Len(t, disabled, SlotsPerDay)
	for _, s := range AllSlots() {
		assert.True(t, disabled[s], "slot %s should be disabled on Sunday", s)
	}
}

func TestDisabledSlotsSaturday(t *testing.T) {
	disabled := DisabledSlots(time.Saturday)

	assert.False(t, disabled["09:00"])
	assert.False(t, disabled["12:00"])
	assert.True(t, disabled["12:30"])
	assert.True(t, disabled["20:30"])
}

func TestDisabledSlotsWeekdays(t *testing.T) {
	for wd := time.Monday; wd <= time.Friday; wd++ {
		disabled := DisabledSlots(wd)

		for _, s := range AllSlots() {
			if s < "16:00" {
				assert.True(t, disabled[s], "%v %s should be disabled", wd, s)
			} else {
				assert.False(t, disabled[s], "%v %s should be open", wd, s)
			}
		}
	}
}

func TestSlotBookable(t *testing.T) {
	tests := []struct {
		name    string
		weekday time.Weekday
		hour    int
		minute  int
		want    bool
	}{
		{"weekday evening", time.Monday, 17, 0, true},
		{"weekday afternoon before opening", time.Monday, 15, 30, false},
		{"weekday exactly at opening", time.Friday, 16, 0, true},
		{"saturday morning", time.Saturday, 9, 0, true},
		{"saturday noon close", time.Saturday, 12, 30, false},
		{"sunday", time.Sunday, 10, 0, false},
		{"before business hours", time.Saturday, 8, 30, false},
		{"at closing", time.Monday, 21, 0, false},
		{"off-grid minute", time.Monday, 17, 15, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SlotBookable(tt.weekday, tt.hour, tt.minute))
		})
	}
}

func TestIsBookableConvertsToJST(t *testing.T) {
	// 2025-03-10 08:00 UTC is Monday 17:00 JST, an open slot.
	monday := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
	assert.True(t, IsBookable(monday))

	// 2025-03-09 08:00 UTC is Sunday 17:00 JST.
	sunday := time.Date(2025, time.March, 9, 8, 0, 0, 0, time.UTC)
	assert.False(t, IsBookable(sunday))
}
