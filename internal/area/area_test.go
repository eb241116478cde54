package area

import (
	"encoding/json"
	"testing"

	"geoserv-bknd/internal/geo"
	"geoserv-bknd/internal/models"

	"github.com/stretchr/testify/assert"
)

func f(v float64) *float64 { return &v }

func radiusArea(lat, lng, km float64) *models.ServiceArea {
	return &models.ServiceArea{
		Type:      models.AreaTypeRadius,
		CenterLat: f(lat),
		CenterLng: f(lng),
		RadiusKm:  f(km),
	}
}

func TestRadiusMembership(t *testing.T) {
	// Vancouver downtown, 5 km radius.
	a := radiusArea(49.2827, -123.1207, 5)

	near := geo.Point{Lat: 49.2700, Lng: -123.1000} // ~2 km away
	far := geo.Point{Lat: 49.2000, Lng: -123.0000}  // ~12 km away

	assert.True(t, IsWithinArea(near, a, nil))
	assert.False(t, IsWithinArea(far, a, nil))
}

func TestRadiusBoundaryInclusive(t *testing.T) {
	center := geo.Point{Lat: 0, Lng: 0}
	p := geo.Point{Lat: 0, Lng: 1}
	exact := geo.Distance(p, center)

	a := radiusArea(0, 0, exact)
	assert.True(t, IsWithinArea(p, a, nil), "point exactly on the radius must match")

	a.RadiusKm = f(exact - 0.001)
	assert.False(t, IsWithinArea(p, a, nil))
}

func TestRadiusMissingFields(t *testing.T) {
	p := geo.Point{Lat: 0, Lng: 0}

	cases := map[string]*models.ServiceArea{
		"no center lat": {Type: models.AreaTypeRadius, CenterLng: f(0), RadiusKm: f(5)},
		"no center lng": {Type: models.AreaTypeRadius, CenterLat: f(0), RadiusKm: f(5)},
		"no radius":     {Type: models.AreaTypeRadius, CenterLat: f(0), CenterLng: f(0)},
		"empty record":  {Type: models.AreaTypeRadius},
	}
	for name, a := range cases {
		assert.False(t, IsWithinArea(p, a, nil), name)
	}
}

func TestZipMembership(t *testing.T) {
	p := geo.Point{Lat: 0, Lng: 0}

	a := &models.ServiceArea{
		Type:     models.AreaTypeZip,
		ZipCodes: json.RawMessage(`["V6B 1A1", {"zipCode": "V5K 0A4"}, 42]`),
	}

	assert.True(t, IsWithinArea(p, a, &MatchOptions{ZipCode: "V6B 1A1"}), "bare string entry")
	assert.True(t, IsWithinArea(p, a, &MatchOptions{ZipCode: "V5K 0A4"}), "object-wrapped entry")
	assert.True(t, IsWithinArea(p, a, &MatchOptions{ZipCode: "  V6B 1A1  "}), "surrounding whitespace")
	assert.False(t, IsWithinArea(p, a, &MatchOptions{ZipCode: "V7C 2B2"}))
	assert.False(t, IsWithinArea(p, a, &MatchOptions{}), "missing zip input")
	assert.False(t, IsWithinArea(p, a, nil), "no options at all")
}

func TestZipEmptySet(t *testing.T) {
	p := geo.Point{Lat: 0, Lng: 0}
	opts := &MatchOptions{ZipCode: "V6B 1A1"}

	assert.False(t, IsWithinArea(p, &models.ServiceArea{Type: models.AreaTypeZip}, opts))
	assert.False(t, IsWithinArea(p, &models.ServiceArea{
		Type:     models.AreaTypeZip,
		ZipCodes: json.RawMessage(`[]`),
	}, opts))
	assert.False(t, IsWithinArea(p, &models.ServiceArea{
		Type:     models.AreaTypeZip,
		ZipCodes: json.RawMessage(`"broken`),
	}, opts))
}

func TestPolygonMembership(t *testing.T) {
	// GeoJSON object form with [lng, lat] vertices.
	a := &models.ServiceArea{
		Type:    models.AreaTypePolygon,
		Polygon: json.RawMessage(`{"type":"Polygon","coordinates":[[[-123.2,49.2],[-123.0,49.2],[-123.0,49.3],[-123.2,49.3],[-123.2,49.2]]]}`),
	}

	assert.True(t, IsWithinArea(geo.Point{Lat: 49.25, Lng: -123.1}, a, nil))
	assert.False(t, IsWithinArea(geo.Point{Lat: 49.35, Lng: -123.1}, a, nil))
	// lat/lng swapped must not match: the payload is lng-first.
	assert.False(t, IsWithinArea(geo.Point{Lat: -123.1, Lng: 49.25}, a, nil))
}

func TestPolygonRawArrayForm(t *testing.T) {
	a := &models.ServiceArea{
		Type:    models.AreaTypePolygon,
		Polygon: json.RawMessage(`[[[0,0],[10,0],[10,10],[0,10],[0,0]]]`),
	}

	assert.True(t, IsWithinArea(geo.Point{Lat: 5, Lng: 5}, a, nil))
	assert.False(t, IsWithinArea(geo.Point{Lat: 15, Lng: 5}, a, nil))
}

func TestPolygonMalformed(t *testing.T) {
	p := geo.Point{Lat: 5, Lng: 5}

	assert.False(t, IsWithinArea(p, &models.ServiceArea{Type: models.AreaTypePolygon}, nil))
	assert.False(t, IsWithinArea(p, &models.ServiceArea{
		Type:    models.AreaTypePolygon,
		Polygon: json.RawMessage(`{"coordinates":"garbage"}`),
	}, nil))
}

func TestUnknownAreaType(t *testing.T) {
	a := &models.ServiceArea{Type: "HEXGRID"}
	assert.False(t, IsWithinArea(geo.Point{Lat: 0, Lng: 0}, a, nil))
}

func TestNilArea(t *testing.T) {
	assert.False(t, IsWithinArea(geo.Point{Lat: 0, Lng: 0}, nil, nil))
}

func TestMatchFilters(t *testing.T) {
	p := geo.Point{Lat: 49.2827, Lng: -123.1207}

	inside := radiusArea(49.2827, -123.1207, 5)
	outside := radiusArea(48.0, -122.0, 5)
	broken := &models.ServiceArea{Type: models.AreaTypeRadius}

	matched := Match(p, []*models.ServiceArea{inside, outside, broken}, nil)
	assert.Equal(t, []*models.ServiceArea{inside}, matched)
}

func TestMatchEmptyInput(t *testing.T) {
	matched := Match(geo.Point{Lat: 1, Lng: 1}, nil, nil)
	assert.Empty(t, matched)
}
