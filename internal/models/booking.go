package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCanceled  BookingStatus = "canceled"
)

// ActiveBookingStatuses are the statuses that occupy a slot. Canceled and
// completed bookings free the slot for rebooking and must be filtered out of
// every occupancy computation.
var ActiveBookingStatuses = []BookingStatus{BookingPending, BookingConfirmed}

// Booking is a customer reservation of one slot on one calendar day.
type Booking struct {
	bun.BaseModel `bun:"table:bookings,alias:b"`

	ID         uuid.UUID  `bun:",pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	CompanyID  uuid.UUID  `bun:"company_id,type:uuid,notnull" json:"company_id"`
	OfferingID *uuid.UUID `bun:"offering_id,type:uuid" json:"offering_id,omitempty"`

	CustomerName  string `bun:"customer_name,notnull" json:"customer_name"`
	CustomerEmail string `bun:"customer_email,notnull" json:"customer_email"`
	CustomerPhone string `bun:"customer_phone" json:"customer_phone,omitempty"`
	Address       string `bun:"address,notnull" json:"address"`

	Lat *float64 `bun:"lat" json:"lat,omitempty"`
	Lng *float64 `bun:"lng" json:"lng,omitempty"`

	BookingDate time.Time     `bun:"booking_date,type:date,notnull" json:"booking_date"`
	Slot        string        `bun:"slot,notnull" json:"slot"`
	Status      BookingStatus `bun:"status,notnull,default:'pending'" json:"status"`
	Notes       *string       `bun:"notes" json:"notes,omitempty"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// IsActive reports whether the booking occupies its slot.
func (b *Booking) IsActive() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

// DateKey returns the booking's calendar day as a UTC ISO date string.
func (b *Booking) DateKey() string {
	return b.BookingDate.UTC().Format("2006-01-02")
}
