// Package render draws the admin month-calendar image.
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/hanamaru-english/class-api/internal/model"
	"github.com/hanamaru-english/class-api/internal/schedule"
)

const (
	imageWidth   = 1400
	imageHeight  = 1000
	headerHeight = 80
	dayLabelH    = 36
	cellPadding  = 6
	entryLineH   = 16
	maxEntries   = 8 // per day cell; the rest collapses into "+N more"
)

var (
	bgColor       = color.RGBA{245, 246, 248, 255}
	gridColor     = color.NRGBA{180, 184, 188, 255}
	textColor     = color.RGBA{60, 64, 68, 255}
	dayNumColor   = color.RGBA{110, 115, 120, 255}
	sundayColor   = color.NRGBA{235, 225, 225, 255}
	saturdayColor = color.NRGBA{225, 232, 240, 255}

	bookedColor   = color.RGBA{133, 193, 85, 255}
	rebookedColor = color.RGBA{120, 170, 220, 255}
	canceledColor = color.RGBA{158, 158, 158, 255}
	trialColor    = color.RGBA{255, 182, 108, 255}
)

func entryColor(class *model.ClassInstance) color.RGBA {
	if class.IsFreeTrial {
		return trialColor
	}
	switch class.Status {
	case model.ClassStatusBooked:
		return bookedColor
	case model.ClassStatusRebooked:
		return rebookedColor
	case model.ClassStatusCanceledByCustomer, model.ClassStatusCanceledByInstructor, model.ClassStatusDeclined:
		return canceledColor
	default:
		return bookedColor
	}
}

// MonthCalendar renders the month's classes as a PNG calendar grid.
func MonthCalendar(year int, month time.Month, classes []*model.ClassInstance) ([]byte, error) {
	start, end := schedule.MonthBounds(year, month)

	// Bucket classes per JST day.
	byDay := make(map[int][]*model.ClassInstance)
	for _, class := range classes {
		jst := class.StartsAt.In(schedule.JST)
		if jst.Before(start) || !jst.Before(end) {
			continue
		}
		byDay[jst.Day()] = append(byDay[jst.Day()], class)
	}

	daysInMonth := end.AddDate(0, 0, -1).Day()
	firstWeekday := int(start.Weekday())
	weeks := (firstWeekday + daysInMonth + 6) / 7

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(bgColor)
	dc.Clear()

	dc.SetColor(textColor)
	dc.DrawStringAnchored(fmt.Sprintf("%s %d", month.String(), year),
		imageWidth/2, headerHeight/2, 0.5, 0.5)

	cellW := float64(imageWidth) / 7
	gridTop := float64(headerHeight + dayLabelH)
	cellH := (float64(imageHeight) - gridTop) / float64(weeks)

	dayNames := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	for i, name := range dayNames {
		dc.SetColor(dayNumColor)
		dc.DrawStringAnchored(name, float64(i)*cellW+cellW/2, float64(headerHeight)+dayLabelH/2, 0.5, 0.5)
	}

	for day := 1; day <= daysInMonth; day++ {
		idx := firstWeekday + day - 1
		col := idx % 7
		row := idx / 7
		x := float64(col) * cellW
		y := gridTop + float64(row)*cellH

		switch time.Weekday(col) {
		case time.Sunday:
			dc.SetColor(sundayColor)
			dc.DrawRectangle(x, y, cellW, cellH)
			dc.Fill()
		case time.Saturday:
			dc.SetColor(saturdayColor)
			dc.DrawRectangle(x, y, cellW, cellH)
			dc.Fill()
		}

		dc.SetColor(dayNumColor)
		dc.DrawString(fmt.Sprintf("%d", day), x+cellPadding, y+cellPadding+10)

		entries := byDay[day]
		shown := entries
		if len(shown) > maxEntries {
			shown = shown[:maxEntries]
		}
		for i, class := range shown {
			ey := y + cellPadding + 14 + float64(i+1)*entryLineH
			dc.SetColor(entryColor(class))
			dc.DrawRectangle(x+cellPadding, ey-9, 8, 8)
			dc.Fill()

			dc.SetColor(textColor)
			label := fmt.Sprintf("%s %s", class.StartsAt.In(schedule.JST).Format("15:04"), class.ClassCode)
			dc.DrawString(label, x+cellPadding+12, ey)
		}
		if extra := len(entries) - maxEntries; extra > 0 {
			ey := y + cellPadding + 14 + float64(maxEntries+1)*entryLineH
			dc.SetColor(dayNumColor)
			dc.DrawString(fmt.Sprintf("+%d more", extra), x+cellPadding, ey)
		}
	}

	// Grid lines last, over the cell fills.
	dc.SetColor(gridColor)
	dc.SetLineWidth(1)
	for i := 0; i <= 7; i++ {
		x := float64(i) * cellW
		dc.DrawLine(x, gridTop, x, float64(imageHeight))
	}
	for i := 0; i <= weeks; i++ {
		y := gridTop + float64(i)*cellH
		dc.DrawLine(0, y, imageWidth, y)
	}
	dc.Stroke()

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode calendar png: %w", err)
	}
	return buf.Bytes(), nil
}
