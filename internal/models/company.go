package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Company is a tenant: the business that owns service areas, offerings and
// bookings.
type Company struct {
	bun.BaseModel `bun:"table:companies,alias:c"`

	ID           uuid.UUID  `bun:",pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	Name         string     `bun:"name,notnull" json:"name"`
	Slug         string     `bun:"slug,notnull,unique" json:"slug"`
	ContactEmail string     `bun:"contact_email,notnull" json:"contact_email"`
	Phone        *string    `bun:"phone" json:"phone,omitempty"`
	Active       bool       `bun:"active,notnull,default:true" json:"active"`
	CreatedAt    time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time  `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
	DeletedAt    *time.Time `bun:"deleted_at" json:"deleted_at,omitempty"`
}
