// Package calendar implements the booking-flow availability calendar: a
// month-view picker over the blackout set with a capped multi-date
// selection, and the trip selection value object that carries chosen
// dates and parks between booking steps.
package calendar

import (
	"errors"
	"time"

	"github.com/magicdayconcierge/booking-backend/pkg/datekey"
)

var (
	ErrNotSelectable       = errors.New("calendar: day is not selectable")
	ErrSelectionFull       = errors.New("calendar: selection is already at its day cap")
	ErrIncompleteSelection = errors.New("calendar: selection does not cover the required number of days")
)

// DayStatus classifies a calendar cell. The three ineligible reasons are
// distinct so the UI can label a blackout differently from an out-of-window
// day.
type DayStatus string

const (
	StatusSelectable    DayStatus = "selectable"
	StatusPast          DayStatus = "past"
	StatusBeyondHorizon DayStatus = "beyond_horizon"
	StatusBlackout      DayStatus = "blackout"
)

// Day is one rendered calendar cell
type Day struct {
	Date     datekey.Key `json:"date"`
	Day      int         `json:"day"`
	Status   DayStatus   `json:"status"`
	Selected bool        `json:"selected"`
}

// Picker holds the calendar widget state: the viewed month cursor, the
// selected day set (capped at numberOfDays) and the blackout set fetched
// once when the picker is built.
type Picker struct {
	today        datekey.Key
	horizon      datekey.Key // last selectable day, inclusive
	numberOfDays int
	viewMonth    time.Time // first day of the viewed month, midnight UTC
	selected     map[datekey.Key]struct{}
	blackout     map[datekey.Key]struct{}
}

// NewPicker builds a picker anchored at today. numberOfDays is the exact
// selection size the booking package requires; horizonDays bounds how far
// past today a day stays selectable.
func NewPicker(today time.Time, numberOfDays, horizonDays int, blackout []datekey.Key) *Picker {
	todayKey := datekey.FromTime(today)
	blackoutSet := make(map[datekey.Key]struct{}, len(blackout))
	for _, key := range blackout {
		blackoutSet[key] = struct{}{}
	}

	t := todayKey.Time()
	return &Picker{
		today:        todayKey,
		horizon:      todayKey.AddDays(horizonDays),
		numberOfDays: numberOfDays,
		viewMonth:    time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC),
		selected:     make(map[datekey.Key]struct{}),
		blackout:     blackoutSet,
	}
}

// Status classifies a day, evaluated fresh on every call. Past and horizon
// bounds win over blackout membership.
func (p *Picker) Status(day datekey.Key) DayStatus {
	if day.Before(p.today) {
		return StatusPast
	}
	if p.horizon.Before(day) {
		return StatusBeyondHorizon
	}
	if _, ok := p.blackout[day]; ok {
		return StatusBlackout
	}
	return StatusSelectable
}

// Select toggles a day's membership in the selection. Clicking an already
// selected day deselects it; clicking an ineligible day fails; clicking a
// new day while the selection is at cap fails rather than evicting an
// earlier choice.
func (p *Picker) Select(day datekey.Key) error {
	if _, ok := p.selected[day]; ok {
		delete(p.selected, day)
		return nil
	}
	if p.Status(day) != StatusSelectable {
		return ErrNotSelectable
	}
	if len(p.selected) >= p.numberOfDays {
		return ErrSelectionFull
	}
	p.selected[day] = struct{}{}
	return nil
}

// Selected returns the current selection in chronological order
func (p *Picker) Selected() []datekey.Key {
	keys := make([]datekey.Key, 0, len(p.selected))
	for key := range p.selected {
		keys = append(keys, key)
	}
	sortKeys(keys)
	return keys
}

// CanConfirm reports whether the selection covers exactly the required
// number of days.
func (p *Picker) CanConfirm() bool {
	return len(p.selected) == p.numberOfDays
}

// Confirm emits the sorted selection, or fails while it is incomplete
func (p *Picker) Confirm() ([]datekey.Key, error) {
	if !p.CanConfirm() {
		return nil, ErrIncompleteSelection
	}
	return p.Selected(), nil
}

// ViewMonth returns the first day of the viewed month
func (p *Picker) ViewMonth() time.Time {
	return p.viewMonth
}

// CanGoToPreviousMonth reports whether the view may move back without
// leaving the month containing today.
func (p *Picker) CanGoToPreviousMonth() bool {
	t := p.today.Time()
	currentMonth := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return p.viewMonth.After(currentMonth)
}

// CanGoToNextMonth reports whether the view may advance without passing
// the month containing the horizon boundary.
func (p *Picker) CanGoToNextMonth() bool {
	next := p.viewMonth.AddDate(0, 1, 0)
	return !next.After(p.horizon.Time())
}

// PreviousMonth moves the view back one month when allowed
func (p *Picker) PreviousMonth() bool {
	if !p.CanGoToPreviousMonth() {
		return false
	}
	p.viewMonth = p.viewMonth.AddDate(0, -1, 0)
	return true
}

// NextMonth advances the view one month when allowed
func (p *Picker) NextMonth() bool {
	if !p.CanGoToNextMonth() {
		return false
	}
	p.viewMonth = p.viewMonth.AddDate(0, 1, 0)
	return true
}

// SetViewMonth jumps the view to the month containing the given day,
// clamped to the navigable window.
func (p *Picker) SetViewMonth(year int, month time.Month) {
	target := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)

	t := p.today.Time()
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	h := p.horizon.Time()
	last := time.Date(h.Year(), h.Month(), 1, 0, 0, 0, 0, time.UTC)

	if target.Before(first) {
		target = first
	}
	if target.After(last) {
		target = last
	}
	p.viewMonth = target
}

// FirstWeekday returns the weekday of the viewed month's first day
// (Sunday = 0), for grid alignment.
func (p *Picker) FirstWeekday() int {
	return int(p.viewMonth.Weekday())
}

// MonthGrid renders every day of the viewed month with its status and
// selection flag.
func (p *Picker) MonthGrid() []Day {
	daysInMonth := p.viewMonth.AddDate(0, 1, -1).Day()
	grid := make([]Day, 0, daysInMonth)

	for dayNum := 1; dayNum <= daysInMonth; dayNum++ {
		key := datekey.FromTime(p.viewMonth.AddDate(0, 0, dayNum-1))
		_, selected := p.selected[key]
		grid = append(grid, Day{
			Date:     key,
			Day:      dayNum,
			Status:   p.Status(key),
			Selected: selected,
		})
	}

	return grid
}

// HasBlackoutsInWindow reports whether any blackout falls inside the
// selectable window. When true the UI surfaces the waiting-list entry
// point as a fallback for blocked visitors.
func (p *Picker) HasBlackoutsInWindow() bool {
	for key := range p.blackout {
		if !key.Before(p.today) && !p.horizon.Before(key) {
			return true
		}
	}
	return false
}

func sortKeys(keys []datekey.Key) {
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j].Before(keys[j-1]); j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
}
