// Package calendar provides the pure slot and month-layout computations for
// the interview scheduler. Nothing in this package touches persistence; every
// function is deterministic for a given input.
package calendar

import (
	"fmt"
	"time"
)

// Opening hours for interview slots. Slots run every 30 minutes starting at
// the opening hour; the closing hour admits only its first half hour, so the
// last bookable slot is 21:00.
const (
	openingHour = 19
	closingHour = 21
	slotStep    = 30
)

// DateLayout is the canonical key format for calendar dates.
const DateLayout = "2006-01-02"

// Cell is a single day position inside a month grid. Padding cells before the
// first day and after the last day of the month carry Day == 0.
type Cell struct {
	Day     int    `json:"day"`
	DateKey string `json:"date_key,omitempty"`
	Empty   bool   `json:"empty"`
}

// Week is one Monday-start row of a month grid.
type Week [7]Cell

// Slots returns the fixed bookable time labels for any weekday.
//
// Changing opening hours means changing the package constants above; the
// schedule is configuration, not per-day state.
func Slots() []string {
	slots := make([]string, 0, 5)
	for hour := openingHour; hour <= closingHour; hour++ {
		for minute := 0; minute < 60; minute += slotStep {
			if hour == closingHour && minute >= slotStep {
				break
			}
			slots = append(slots, fmt.Sprintf("%02d:%02d", hour, minute))
		}
	}
	return slots
}

// Weekdays returns the Monday-Friday day numbers of the given month in
// ascending order.
func Weekdays(year int, month time.Month) []int {
	days := make([]int, 0, 23)
	for day := 1; day <= daysIn(year, month); day++ {
		switch time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Weekday() {
		case time.Saturday, time.Sunday:
			continue
		default:
			days = append(days, day)
		}
	}
	return days
}

// MonthGrid lays out the month as Monday-start weeks of seven cells. Cells
// outside the month are empty padding so callers can render a rectangular
// calendar without further bookkeeping.
func MonthGrid(year int, month time.Month) []Week {
	offset := mondayOffset(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday())
	total := daysIn(year, month)

	weeks := make([]Week, 0, 6)
	var current Week
	for i := range current {
		current[i] = Cell{Empty: true}
	}

	position := offset
	for day := 1; day <= total; day++ {
		current[position] = Cell{
			Day:     day,
			DateKey: DateKey(year, month, day),
		}
		position++
		if position == 7 {
			weeks = append(weeks, current)
			for i := range current {
				current[i] = Cell{Empty: true}
			}
			position = 0
		}
	}
	if position > 0 {
		weeks = append(weeks, current)
	}
	return weeks
}

// DateKey formats a calendar date as its canonical YYYY-MM-DD key.
func DateKey(year int, month time.Month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}

// ParseDate parses a canonical date key. The zone is irrelevant for slot
// bookkeeping; dates are civil dates in the single implicit locale.
func ParseDate(key string) (time.Time, error) {
	return time.Parse(DateLayout, key)
}

// StartOfWeek returns the Monday that begins the week containing t, truncated
// to midnight in t's location.
func StartOfWeek(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -mondayOffset(day.Weekday()))
}

// mondayOffset maps a weekday to its distance from Monday: Monday is 0 and
// Sunday is 6.
func mondayOffset(weekday time.Weekday) int {
	return (int(weekday) + 6) % 7
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
