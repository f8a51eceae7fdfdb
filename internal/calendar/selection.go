package calendar

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/magicdayconcierge/booking-backend/pkg/datekey"
)

var (
	ErrDayNotSelected = errors.New("calendar: day is not part of the trip")
	ErrParksFull      = errors.New("calendar: day is already at its park cap")
	ErrDuplicatePark  = errors.New("calendar: park already chosen for this day")
)

// DayPlan pairs one booked day with its chosen parks
type DayPlan struct {
	Date  datekey.Key `json:"date"`
	Parks []string    `json:"parks"`
}

// TripSelection carries the confirmed days and the parks chosen for each
// one between booking steps. Days are fixed at construction; parks are
// edited per day up to the cap.
type TripSelection struct {
	maxParks int
	order    []datekey.Key
	parks    map[datekey.Key][]string
}

// NewTripSelection builds a selection over confirmed days. Duplicate days
// collapse; order is normalized to chronological.
func NewTripSelection(days []datekey.Key, maxParks int) *TripSelection {
	parks := make(map[datekey.Key][]string, len(days))
	order := make([]datekey.Key, 0, len(days))
	for _, day := range days {
		if _, ok := parks[day]; ok {
			continue
		}
		parks[day] = nil
		order = append(order, day)
	}
	sortKeys(order)

	return &TripSelection{
		maxParks: maxParks,
		order:    order,
		parks:    parks,
	}
}

// Days returns the trip days in chronological order
func (s *TripSelection) Days() []datekey.Key {
	out := make([]datekey.Key, len(s.order))
	copy(out, s.order)
	return out
}

// Parks returns the parks chosen for a day, in pick order
func (s *TripSelection) Parks(day datekey.Key) []string {
	picked := s.parks[day]
	out := make([]string, len(picked))
	copy(out, picked)
	return out
}

// AddPark records a park choice for a day. Each day holds at most maxParks
// distinct parks.
func (s *TripSelection) AddPark(day datekey.Key, park string) error {
	picked, ok := s.parks[day]
	if !ok {
		return ErrDayNotSelected
	}
	for _, existing := range picked {
		if existing == park {
			return ErrDuplicatePark
		}
	}
	if len(picked) >= s.maxParks {
		return ErrParksFull
	}
	s.parks[day] = append(picked, park)
	return nil
}

// RemovePark drops a park choice from a day. Removing a park that is not
// chosen is a no-op.
func (s *TripSelection) RemovePark(day datekey.Key, park string) {
	picked, ok := s.parks[day]
	if !ok {
		return
	}
	for i, existing := range picked {
		if existing == park {
			s.parks[day] = append(picked[:i], picked[i+1:]...)
			return
		}
	}
}

// Complete reports whether every trip day has at least one park chosen
func (s *TripSelection) Complete() bool {
	for _, picked := range s.parks {
		if len(picked) == 0 {
			return false
		}
	}
	return len(s.parks) > 0
}

// Plans returns the per-day plans in chronological order
func (s *TripSelection) Plans() []DayPlan {
	plans := make([]DayPlan, 0, len(s.order))
	for _, day := range s.order {
		plans = append(plans, DayPlan{Date: day, Parks: s.Parks(day)})
	}
	return plans
}

// BookingDatesValue renders the selection in the checkout line-item
// property format: days joined with "|", each day a comma-joined list of
// the date followed by its parks.
func (s *TripSelection) BookingDatesValue() string {
	segments := make([]string, 0, len(s.order))
	for _, day := range s.order {
		parts := append([]string{string(day)}, s.parks[day]...)
		segments = append(segments, strings.Join(parts, ","))
	}
	return strings.Join(segments, "|")
}

// EncodeQuery serializes the selection into URL query values so the
// booking flow can carry it across page loads. Each day becomes one
// "day" parameter in the wire segment format.
func (s *TripSelection) EncodeQuery() url.Values {
	values := url.Values{}
	for _, day := range s.order {
		parts := append([]string{string(day)}, s.parks[day]...)
		values.Add("day", strings.Join(parts, ","))
	}
	return values
}

// DecodeQuery rebuilds a selection from query values produced by
// EncodeQuery. Park lists beyond the cap are rejected, not truncated.
func DecodeQuery(values url.Values, maxParks int) (*TripSelection, error) {
	plans, err := parseSegments(values["day"], maxParks)
	if err != nil {
		return nil, err
	}

	days := make([]datekey.Key, 0, len(plans))
	for _, plan := range plans {
		days = append(days, plan.Date)
	}
	selection := NewTripSelection(days, maxParks)
	for _, plan := range plans {
		for _, park := range plan.Parks {
			if err := selection.AddPark(plan.Date, park); err != nil {
				return nil, fmt.Errorf("day %s: %w", plan.Date, err)
			}
		}
	}
	return selection, nil
}

// ParseBookingDates decodes the checkout line-item property value back
// into per-day plans. The inverse of BookingDatesValue; also applied to
// inbound checkout webhooks.
func ParseBookingDates(value string, maxParks int) ([]DayPlan, error) {
	if strings.TrimSpace(value) == "" {
		return nil, fmt.Errorf("booking dates value is empty")
	}
	return parseSegments(strings.Split(value, "|"), maxParks)
}

func parseSegments(segments []string, maxParks int) ([]DayPlan, error) {
	plans := make([]DayPlan, 0, len(segments))
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		parts := strings.Split(segment, ",")
		date, err := datekey.Parse(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("segment %q: %w", segment, err)
		}

		var parks []string
		for _, park := range parts[1:] {
			park = strings.TrimSpace(park)
			if park == "" {
				continue
			}
			parks = append(parks, park)
		}
		if maxParks > 0 && len(parks) > maxParks {
			return nil, fmt.Errorf("segment %q: %d parks exceeds the cap of %d", segment, len(parks), maxParks)
		}

		plans = append(plans, DayPlan{Date: date, Parks: parks})
	}

	if len(plans) == 0 {
		return nil, fmt.Errorf("booking dates value has no usable segments")
	}
	return plans, nil
}
