// Package area decides whether a geographic point is served by a company's
// service areas. It is the single source of truth for membership: booking
// intake and availability both call through here instead of re-implementing
// geometry checks.
package area

import (
	"encoding/json"
	"strings"

	"geoserv-bknd/internal/geo"
	"geoserv-bknd/internal/models"
)

// MatchOptions carries inputs the evaluator cannot derive itself. ZipCode is
// the customer's postal code, resolved by the caller (reverse geocoding);
// only ZIP-type areas consult it.
type MatchOptions struct {
	ZipCode string
}

// IsWithinArea reports whether point lies inside the area. Malformed or
// incomplete area records and unknown area types never match and never
// panic: one bad record must not abort evaluation of the rest of a
// company's areas.
func IsWithinArea(point geo.Point, a *models.ServiceArea, opts *MatchOptions) bool {
	if a == nil {
		return false
	}

	switch a.Type {
	case models.AreaTypeRadius:
		if a.CenterLat == nil || a.CenterLng == nil || a.RadiusKm == nil {
			return false
		}
		center := geo.Point{Lat: *a.CenterLat, Lng: *a.CenterLng}
		// Boundary is inclusive: a point exactly radius_km away matches.
		return geo.Distance(point, center) <= *a.RadiusKm

	case models.AreaTypePolygon:
		rings := geo.ExtractRings(a.Polygon)
		return geo.PointInPolygon(point, rings)

	case models.AreaTypeZip:
		if opts == nil || strings.TrimSpace(opts.ZipCode) == "" {
			return false
		}
		zip := strings.TrimSpace(opts.ZipCode)
		for _, candidate := range zipCodeSet(a.ZipCodes) {
			if candidate == zip {
				return true
			}
		}
		return false

	default:
		// Unrecognized types are non-matches, not errors, so area kinds
		// added later don't break existing deployments.
		return false
	}
}

// Match filters areas down to those containing point.
func Match(point geo.Point, areas []*models.ServiceArea, opts *MatchOptions) []*models.ServiceArea {
	matched := make([]*models.ServiceArea, 0, len(areas))
	for _, a := range areas {
		if IsWithinArea(point, a, opts) {
			matched = append(matched, a)
		}
	}
	return matched
}

// zipCodeSet normalizes the persisted zip payload. Entries are bare strings
// or {"zipCode": "..."} objects; anything else is skipped.
func zipCodeSet(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var entries []any
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}

	zips := make([]string, 0, len(entries))
	for _, e := range entries {
		switch v := e.(type) {
		case string:
			if z := strings.TrimSpace(v); z != "" {
				zips = append(zips, z)
			}
		case map[string]any:
			if s, ok := v["zipCode"].(string); ok {
				if z := strings.TrimSpace(s); z != "" {
					zips = append(zips, z)
				}
			}
		}
	}
	return zips
}
