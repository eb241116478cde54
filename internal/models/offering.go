package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ServiceOffering is a bookable service a company provides (e.g. "Gutter
// cleaning, 2h").
type ServiceOffering struct {
	bun.BaseModel `bun:"table:service_offerings,alias:so"`

	ID          uuid.UUID `bun:",pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	CompanyID   uuid.UUID `bun:"company_id,type:uuid,notnull" json:"company_id"`
	Name        string    `bun:"name,notnull" json:"name"`
	Description *string   `bun:"description" json:"description,omitempty"`
	Duration    *string   `bun:"duration" json:"duration,omitempty"`
	PriceCents  int64     `bun:"price_cents,notnull,default:0" json:"price_cents"`
	Active      bool      `bun:"active,notnull,default:true" json:"active"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}
