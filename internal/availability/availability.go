// Package availability computes bookable slots and days. It is pure
// computation over records the caller already fetched: no I/O, no shared
// state, safe for concurrent use. Callers must still re-validate the chosen
// slot transactionally at booking-creation time; the calculator only
// presents non-conflicting choices at read time.
package availability

import (
	"time"

	"geoserv-bknd/internal/area"
	"geoserv-bknd/internal/geo"
	"geoserv-bknd/internal/models"
)

// Slots is the fixed daily slot enumeration, in presentation order. Every
// call site, including booking validation, references this slice rather
// than re-declaring the labels.
var Slots = []string{"7–9", "9–11", "11–1", "1–3", "3–5"}

// Result reason codes.
const (
	ReasonOutOfServiceArea = "OUT_OF_SERVICE_AREA"
	ReasonDayNotInSchedule = "DAY_NOT_IN_SCHEDULE"
	ReasonInvalidAddress   = "INVALID_ADDRESS"
)

const dateLayout = "2006-01-02"

// Result is the outcome of an availability query. AvailableSlots is set for
// single-day queries, AvailableDays/FullyBookedDays for horizon queries.
type Result struct {
	MatchedAreas    []*models.ServiceArea `json:"matched_areas"`
	AvailableSlots  []string              `json:"available_slots,omitempty"`
	AvailableDays   []string              `json:"available_days,omitempty"`
	FullyBookedDays []string              `json:"fully_booked_days,omitempty"`
	Reason          string                `json:"reason,omitempty"`
}

// ValidSlot reports whether label is one of the fixed slot labels.
func ValidSlot(label string) bool {
	for _, s := range Slots {
		if s == label {
			return true
		}
	}
	return false
}

// WeekdayUTC returns the three-letter weekday abbreviation of t's calendar
// day, evaluated at UTC midnight. All day math is pinned to UTC so results
// don't drift with the server's timezone.
func WeekdayUTC(t time.Time) string {
	return startOfDayUTC(t).Weekday().String()[:3]
}

func startOfDayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DaySlots lists the open slots for one calendar day.
//
// Areas are matched first; with no match the result is empty with
// OUT_OF_SERVICE_AREA. The day's weekday must appear in at least one
// matched area's available days, otherwise DAY_NOT_IN_SCHEDULE. Slots
// occupied by active bookings on that exact day are removed, preserving the
// fixed enumeration order.
func DaySlots(point geo.Point, areas []*models.ServiceArea, bookings []models.Booking, day time.Time, opts *area.MatchOptions) *Result {
	matched := area.Match(point, areas, opts)
	if len(matched) == 0 {
		return &Result{MatchedAreas: matched, AvailableSlots: []string{}, Reason: ReasonOutOfServiceArea}
	}

	allowed := allowedWeekdays(matched)
	if !allowed[WeekdayUTC(day)] {
		return &Result{MatchedAreas: matched, AvailableSlots: []string{}, Reason: ReasonDayNotInSchedule}
	}

	dayKey := startOfDayUTC(day).Format(dateLayout)
	booked := make(map[string]bool, len(Slots))
	for i := range bookings {
		b := &bookings[i]
		if b.IsActive() && b.DateKey() == dayKey {
			booked[b.Slot] = true
		}
	}

	open := make([]string, 0, len(Slots))
	for _, s := range Slots {
		if !booked[s] {
			open = append(open, s)
		}
	}
	return &Result{MatchedAreas: matched, AvailableSlots: open}
}

// OpenDays lists the bookable days within lookaheadDays of from (inclusive
// of from's own day). A day is bookable when its weekday is in the union of
// the matched areas' available days and its active-booking count has not
// reached the slot count. Fully booked days on allowed weekdays are reported
// separately. Days come back in chronological order.
func OpenDays(point geo.Point, areas []*models.ServiceArea, bookings []models.Booking, from time.Time, lookaheadDays int, opts *area.MatchOptions) *Result {
	matched := area.Match(point, areas, opts)
	if len(matched) == 0 {
		return &Result{MatchedAreas: matched, AvailableDays: []string{}, Reason: ReasonOutOfServiceArea}
	}

	allowed := allowedWeekdays(matched)

	// Day -> active booking count, computed once instead of per day.
	counts := make(map[string]int)
	for i := range bookings {
		if b := &bookings[i]; b.IsActive() {
			counts[b.DateKey()]++
		}
	}

	start := startOfDayUTC(from)
	open := make([]string, 0, lookaheadDays)
	full := []string{}
	for i := 0; i < lookaheadDays; i++ {
		day := start.AddDate(0, 0, i)
		if !allowed[day.Weekday().String()[:3]] {
			continue
		}
		key := day.Format(dateLayout)
		if counts[key] >= len(Slots) {
			full = append(full, key)
			continue
		}
		open = append(open, key)
	}

	return &Result{MatchedAreas: matched, AvailableDays: open, FullyBookedDays: full}
}

// allowedWeekdays unions the matched areas' available days. Areas with nil
// or empty AvailableDays contribute nothing: absent configuration blocks
// availability, it never means "all days".
func allowedWeekdays(areas []*models.ServiceArea) map[string]bool {
	allowed := make(map[string]bool)
	for _, a := range areas {
		for _, d := range a.AvailableDays {
			allowed[d] = true
		}
	}
	return allowed
}
