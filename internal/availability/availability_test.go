package availability

import (
	"testing"
	"time"

	"geoserv-bknd/internal/area"
	"geoserv-bknd/internal/geo"
	"geoserv-bknd/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func vancouverArea(days ...string) *models.ServiceArea {
	return &models.ServiceArea{
		Type:          models.AreaTypeRadius,
		CenterLat:     f(49.2827),
		CenterLng:     f(-123.1207),
		RadiusKm:      f(5),
		AvailableDays: days,
	}
}

func booking(day time.Time, slot string, status models.BookingStatus) models.Booking {
	return models.Booking{BookingDate: day, Slot: slot, Status: status}
}

// 2026-09-02 is a Wednesday.
var wednesday = time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

// a point ~3 km from the Vancouver center
var nearbyPoint = geo.Point{Lat: 49.2827, Lng: -123.08}

func TestWeekdayUTC(t *testing.T) {
	assert.Equal(t, "Wed", WeekdayUTC(wednesday))
	// Time-of-day never changes the answer; only the UTC calendar day does.
	assert.Equal(t, "Wed", WeekdayUTC(time.Date(2026, 9, 2, 23, 30, 0, 0, time.UTC)))
	loc := time.FixedZone("UTC-8", -8*3600)
	assert.Equal(t, "Wed", WeekdayUTC(time.Date(2026, 9, 2, 10, 0, 0, 0, loc)))
}

func TestValidSlot(t *testing.T) {
	for _, s := range Slots {
		assert.True(t, ValidSlot(s))
	}
	assert.False(t, ValidSlot("5–7"))
	assert.False(t, ValidSlot(""))
}

func TestDaySlotsNoAreas(t *testing.T) {
	res := DaySlots(nearbyPoint, nil, nil, wednesday, nil)

	assert.Empty(t, res.MatchedAreas)
	assert.Empty(t, res.AvailableSlots)
	assert.Equal(t, ReasonOutOfServiceArea, res.Reason)
}

func TestDaySlotsOutOfServiceArea(t *testing.T) {
	areas := []*models.ServiceArea{vancouverArea("Mon", "Wed", "Fri")}
	farPoint := geo.Point{Lat: 49.2827, Lng: -123.2582} // ~10 km west

	res := DaySlots(farPoint, areas, nil, wednesday, nil)

	assert.Empty(t, res.MatchedAreas)
	assert.Equal(t, ReasonOutOfServiceArea, res.Reason)
}

func TestDaySlotsDayNotInSchedule(t *testing.T) {
	areas := []*models.ServiceArea{vancouverArea("Mon", "Wed")}
	tuesday := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "Tue", WeekdayUTC(tuesday))

	res := DaySlots(nearbyPoint, areas, nil, tuesday, nil)

	assert.Len(t, res.MatchedAreas, 1)
	assert.Empty(t, res.AvailableSlots)
	assert.Equal(t, ReasonDayNotInSchedule, res.Reason)
}

func TestDaySlotsAllOpen(t *testing.T) {
	areas := []*models.ServiceArea{vancouverArea("Mon", "Wed", "Fri")}

	res := DaySlots(nearbyPoint, areas, nil, wednesday, nil)

	assert.Empty(t, res.Reason)
	assert.Equal(t, Slots, res.AvailableSlots)
}

func TestDaySlotsExcludesBooked(t *testing.T) {
	areas := []*models.ServiceArea{vancouverArea("Wed")}
	bookings := []models.Booking{
		booking(wednesday, "9–11", models.BookingConfirmed),
		booking(wednesday, "1–3", models.BookingPending),
		booking(wednesday.AddDate(0, 0, 7), "7–9", models.BookingConfirmed), // other day
	}

	res := DaySlots(nearbyPoint, areas, bookings, wednesday, nil)

	assert.Equal(t, []string{"7–9", "11–1", "3–5"}, res.AvailableSlots)
}

func TestDaySlotsCanceledFreesSlot(t *testing.T) {
	areas := []*models.ServiceArea{vancouverArea("Wed")}
	bookings := []models.Booking{
		booking(wednesday, "9–11", models.BookingCanceled),
		booking(wednesday, "3–5", models.BookingCompleted),
	}

	res := DaySlots(nearbyPoint, areas, bookings, wednesday, nil)

	assert.Contains(t, res.AvailableSlots, "9–11")
	assert.Contains(t, res.AvailableSlots, "3–5")
	assert.Equal(t, Slots, res.AvailableSlots)
}

func TestDaySlotsFullyBooked(t *testing.T) {
	areas := []*models.ServiceArea{vancouverArea("Wed")}
	bookings := make([]models.Booking, 0, len(Slots))
	for _, s := range Slots {
		bookings = append(bookings, booking(wednesday, s, models.BookingConfirmed))
	}

	res := DaySlots(nearbyPoint, areas, bookings, wednesday, nil)

	assert.Empty(t, res.Reason, "fully booked is not an error")
	assert.Empty(t, res.AvailableSlots)
}

func TestDaySlotsNilAvailableDays(t *testing.T) {
	a := vancouverArea()
	a.AvailableDays = nil

	res := DaySlots(nearbyPoint, []*models.ServiceArea{a}, nil, wednesday, nil)

	assert.Equal(t, ReasonDayNotInSchedule, res.Reason)
	assert.Empty(t, res.AvailableSlots)
}

func TestOpenDaysWeekendWindow(t *testing.T) {
	areas := []*models.ServiceArea{vancouverArea("Sat", "Sun")}
	monday := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "Mon", WeekdayUTC(monday))

	res := OpenDays(nearbyPoint, areas, nil, monday, 7, nil)

	assert.Equal(t, []string{"2026-09-05", "2026-09-06"}, res.AvailableDays)
	assert.Empty(t, res.FullyBookedDays)
	assert.Empty(t, res.Reason)
}

func TestOpenDaysNoAreas(t *testing.T) {
	res := OpenDays(nearbyPoint, nil, nil, wednesday, 30, nil)

	assert.Empty(t, res.AvailableDays)
	assert.Equal(t, ReasonOutOfServiceArea, res.Reason)
}

func TestOpenDaysSkipsFullyBookedDay(t *testing.T) {
	areas := []*models.ServiceArea{vancouverArea("Sat", "Sun")}
	monday := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	saturday := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)

	bookings := make([]models.Booking, 0, len(Slots))
	for _, s := range Slots {
		bookings = append(bookings, booking(saturday, s, models.BookingPending))
	}
	// Canceled extras must not count towards fullness on Sunday.
	sunday := saturday.AddDate(0, 0, 1)
	for _, s := range Slots {
		bookings = append(bookings, booking(sunday, s, models.BookingCanceled))
	}

	res := OpenDays(nearbyPoint, areas, bookings, monday, 7, nil)

	assert.Equal(t, []string{"2026-09-06"}, res.AvailableDays)
	assert.Equal(t, []string{"2026-09-05"}, res.FullyBookedDays)
}

func TestOpenDaysPartiallyBookedStaysOpen(t *testing.T) {
	areas := []*models.ServiceArea{vancouverArea("Sat")}
	monday := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	saturday := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)

	bookings := []models.Booking{
		booking(saturday, "7–9", models.BookingConfirmed),
		booking(saturday, "9–11", models.BookingPending),
	}

	res := OpenDays(nearbyPoint, areas, bookings, monday, 7, nil)

	assert.Equal(t, []string{"2026-09-05"}, res.AvailableDays)
}

func TestOpenDaysUnionsAreaDays(t *testing.T) {
	a1 := vancouverArea("Mon")
	a2 := vancouverArea("Wed")
	monday := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	res := OpenDays(nearbyPoint, []*models.ServiceArea{a1, a2}, nil, monday, 7, nil)

	assert.Equal(t, []string{"2026-08-31", "2026-09-02"}, res.AvailableDays)
}

func TestOpenDaysZeroLookahead(t *testing.T) {
	areas := []*models.ServiceArea{vancouverArea("Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun")}

	res := OpenDays(nearbyPoint, areas, nil, wednesday, 0, nil)

	assert.Empty(t, res.AvailableDays)
	assert.Empty(t, res.Reason)
}

// End-to-end scenario from the product side: one radius area, Mon/Wed/Fri,
// querying a nearby point on a Wednesday with no bookings.
func TestEndToEndRadiusScenario(t *testing.T) {
	areas := []*models.ServiceArea{vancouverArea("Mon", "Wed", "Fri")}

	near := geo.Point{Lat: 49.2827, Lng: -123.0795} // ~3 km east
	res := DaySlots(near, areas, nil, wednesday, nil)
	require.Empty(t, res.Reason)
	assert.Equal(t, Slots, res.AvailableSlots)

	far := geo.Point{Lat: 49.2827, Lng: -123.2582} // ~10 km west
	res = DaySlots(far, areas, nil, wednesday, nil)
	assert.Equal(t, ReasonOutOfServiceArea, res.Reason)
}

func TestDaySlotsZipArea(t *testing.T) {
	a := &models.ServiceArea{
		Type:          models.AreaTypeZip,
		ZipCodes:      []byte(`["V6B 1A1"]`),
		AvailableDays: []string{"Wed"},
	}

	res := DaySlots(nearbyPoint, []*models.ServiceArea{a}, nil, wednesday, &area.MatchOptions{ZipCode: "V6B 1A1"})
	require.Empty(t, res.Reason)
	assert.Equal(t, Slots, res.AvailableSlots)

	res = DaySlots(nearbyPoint, []*models.ServiceArea{a}, nil, wednesday, nil)
	assert.Equal(t, ReasonOutOfServiceArea, res.Reason)
}
