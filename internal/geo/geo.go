package geo

import (
	"encoding/json"
	"math"
)

// EarthRadiusKm is the mean Earth radius used for great-circle math.
const EarthRadiusKm = 6371.0

// Point is a WGS 84 coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Distance returns the haversine great-circle distance between two points
// in kilometers. Total for finite inputs; identical points yield 0.
func Distance(p1, p2 Point) float64 {
	lat1 := p1.Lat * math.Pi / 180
	lat2 := p2.Lat * math.Pi / 180
	dLat := (p2.Lat - p1.Lat) * math.Pi / 180
	dLng := (p2.Lng - p1.Lng) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)

	a := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLng*sinLng
	// Rounding can push a a hair past 1 for near-antipodal points.
	if a > 1 {
		a = 1
	}

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// PointInRing reports whether p lies inside a closed ring of [lng, lat]
// vertices using even-odd ray casting. Points exactly on an edge resolve
// deterministically: a vertex or edge on the left side of the crossing test
// counts as inside, on the right side as outside. Rings with fewer than 3
// usable vertices never contain anything.
func PointInRing(p Point, ring [][]float64) bool {
	if len(ring) < 3 {
		return false
	}

	x, y := p.Lng, p.Lat
	inside := false
	j := len(ring) - 1
	for i := 0; i < len(ring); i++ {
		if len(ring[i]) < 2 || len(ring[j]) < 2 {
			return false
		}
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]

		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}

// PointInPolygon reports whether p is inside the first (outer) ring and
// outside every subsequent (hole) ring. An empty ring set contains nothing.
func PointInPolygon(p Point, rings [][][]float64) bool {
	if len(rings) == 0 {
		return false
	}
	if !PointInRing(p, rings[0]) {
		return false
	}
	for _, hole := range rings[1:] {
		if PointInRing(p, hole) {
			return false
		}
	}
	return true
}

// ExtractRings normalizes the persisted polygon payload into a ring set.
// Accepted forms: a GeoJSON-style {type, coordinates} object, a raw nested
// coordinate array, or a JSON string/byte encoding of either. Anything
// malformed yields nil, which downstream containment treats as no match.
func ExtractRings(raw any) [][][]float64 {
	switch v := raw.(type) {
	case nil:
		return nil
	case [][][]float64:
		return v
	case json.RawMessage:
		return unmarshalRings([]byte(v))
	case []byte:
		return unmarshalRings(v)
	case string:
		return unmarshalRings([]byte(v))
	case map[string]any:
		return coerceRings(v["coordinates"])
	case []any:
		return coerceRings(v)
	default:
		return nil
	}
}

func unmarshalRings(data []byte) [][][]float64 {
	if len(data) == 0 {
		return nil
	}
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil
	}
	// A JSON string value wrapping the actual payload is also accepted.
	if s, ok := parsed.(string); ok {
		return unmarshalRings([]byte(s))
	}
	return ExtractRings(parsed)
}

func coerceRings(v any) [][][]float64 {
	outer, ok := v.([]any)
	if !ok || len(outer) == 0 {
		return nil
	}

	rings := make([][][]float64, 0, len(outer))
	for _, r := range outer {
		rawRing, ok := r.([]any)
		if !ok {
			return nil
		}
		ring := make([][]float64, 0, len(rawRing))
		for _, c := range rawRing {
			rawCoord, ok := c.([]any)
			if !ok || len(rawCoord) < 2 {
				return nil
			}
			lng, okLng := toFloat(rawCoord[0])
			lat, okLat := toFloat(rawCoord[1])
			if !okLng || !okLat {
				return nil
			}
			ring = append(ring, []float64{lng, lat})
		}
		rings = append(rings, ring)
	}
	return rings
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
