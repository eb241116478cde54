package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AreaType discriminates the service-area variants. Only the payload fields
// belonging to the active type are meaningful; the rest stay null.
type AreaType string

const (
	AreaTypeRadius  AreaType = "RADIUS"
	AreaTypePolygon AreaType = "POLYGON"
	AreaTypeZip     AreaType = "ZIP"
)

// Weekday abbreviations accepted in AvailableDays.
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// ServiceArea is a geographic region a company serves. RADIUS areas carry
// center/radius, POLYGON areas a GeoJSON-interoperable ring set with [lng,
// lat] vertices, ZIP areas a postal-code list. AvailableDays gates which
// weekdays the area is served on; nil means no days configured.
type ServiceArea struct {
	bun.BaseModel `bun:"table:service_areas,alias:sa"`

	ID        uuid.UUID `bun:",pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	CompanyID uuid.UUID `bun:"company_id,type:uuid,notnull" json:"company_id"`
	Name      *string   `bun:"name" json:"name,omitempty"`
	Type      AreaType  `bun:"area_type,notnull" json:"type"`

	CenterLat *float64 `bun:"center_lat" json:"center_lat,omitempty"`
	CenterLng *float64 `bun:"center_lng" json:"center_lng,omitempty"`
	RadiusKm  *float64 `bun:"radius_km" json:"radius_km,omitempty"`

	// Polygon keeps the persisted payload raw: either a GeoJSON
	// {type, coordinates} object or a bare ring array, possibly
	// string-encoded. Normalization happens at evaluation time.
	Polygon json.RawMessage `bun:"polygon,type:jsonb" json:"polygon,omitempty"`

	// ZipCodes entries are bare strings or {"zipCode": "..."} objects.
	ZipCodes json.RawMessage `bun:"zip_codes,type:jsonb" json:"zip_codes,omitempty"`

	AvailableDays []string `bun:"available_days,array" json:"available_days,omitempty"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

var ErrInvalidArea = errors.New("invalid service area")

// Validate checks the payload for the active variant. Enforced on create and
// update; records that slipped in malformed still degrade to non-matching at
// evaluation time instead of failing the whole request.
func (a *ServiceArea) Validate() error {
	for _, d := range a.AvailableDays {
		if !validWeekday(d) {
			return fmt.Errorf("%w: unknown weekday %q", ErrInvalidArea, d)
		}
	}

	switch a.Type {
	case AreaTypeRadius:
		if a.CenterLat == nil || a.CenterLng == nil || a.RadiusKm == nil {
			return fmt.Errorf("%w: radius area requires center_lat, center_lng and radius_km", ErrInvalidArea)
		}
		if *a.RadiusKm <= 0 {
			return fmt.Errorf("%w: radius_km must be positive", ErrInvalidArea)
		}
	case AreaTypePolygon:
		if len(a.Polygon) == 0 {
			return fmt.Errorf("%w: polygon area requires a polygon payload", ErrInvalidArea)
		}
	case AreaTypeZip:
		if len(a.ZipCodes) == 0 {
			return fmt.Errorf("%w: zip area requires zip_codes", ErrInvalidArea)
		}
	default:
		return fmt.Errorf("%w: unknown area type %q", ErrInvalidArea, a.Type)
	}
	return nil
}

func validWeekday(d string) bool {
	for _, w := range Weekdays {
		if w == d {
			return true
		}
	}
	return false
}
