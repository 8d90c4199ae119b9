package render

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanamaru-english/class-api/internal/model"
	"github.com/hanamaru-english/class-api/internal/schedule"
)

func TestMonthCalendar(t *testing.T) {
	classes := []*model.ClassInstance{
		{
			ID:        1,
			ClassCode: "C-AAAA0001",
			Status:    model.ClassStatusBooked,
			StartsAt:  time.Date(2025, time.March, 5, 17, 0, 0, 0, schedule.JST),
		},
		{
			ID:        2,
			ClassCode: "C-BBBB0002",
			Status:    model.ClassStatusCanceledByCustomer,
			StartsAt:  time.Date(2025, time.March, 12, 18, 30, 0, 0, schedule.JST),
		},
		{
			ID:          3,
			ClassCode:   "C-CCCC0003",
			Status:      model.ClassStatusPending,
			IsFreeTrial: true,
			StartsAt:    time.Date(2025, time.March, 29, 10, 0, 0, 0, schedule.JST),
		},
	}

	data, err := MonthCalendar(2025, time.March, classes)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, imageWidth, img.Bounds().Dx())
	assert.Equal(t, imageHeight, img.Bounds().Dy())
}

func TestMonthCalendarEmptyMonth(t *testing.T) {
	data, err := MonthCalendar(2025, time.February, nil)
	require.NoError(t, err)

	_, err = png.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
}

func TestMonthCalendarIgnoresOutOfMonthClasses(t *testing.T) {
	classes := []*model.ClassInstance{
		{ID: 1, ClassCode: "C-OUT00001", Status: model.ClassStatusBooked,
			StartsAt: time.Date(2025, time.April, 1, 17, 0, 0, 0, schedule.JST)},
	}

	data, err := MonthCalendar(2025, time.March, classes)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
