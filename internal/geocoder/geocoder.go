package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"geoserv-bknd/internal/geo"

	"go.uber.org/zap"
)

// Geocoder resolves street addresses to coordinates and coordinates to
// postal codes. An unresolvable address is (nil, nil), not an error; callers
// treat it as "matches no service area".
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*geo.Point, error)
	ReverseZip(ctx context.Context, p geo.Point) (string, error)
}

// NominatimClient talks to a Nominatim-compatible geocoding endpoint.
type NominatimClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
	logr      *zap.Logger
}

func NewNominatim(baseURL, userAgent string, timeout time.Duration, logr *zap.Logger) *NominatimClient {
	return &NominatimClient{
		baseURL:   baseURL,
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
		logr:      logr,
	}
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

type reverseResult struct {
	Address struct {
		Postcode string `json:"postcode"`
	} `json:"address"`
}

// Geocode resolves an address to a point. Empty results and non-numeric
// coordinates resolve to (nil, nil).
func (c *NominatimClient) Geocode(ctx context.Context, address string) (*geo.Point, error) {
	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")

	var results []searchResult
	if err := c.getJSON(ctx, "/search", q, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}

	lat, errLat := strconv.ParseFloat(results[0].Lat, 64)
	lng, errLng := strconv.ParseFloat(results[0].Lon, 64)
	if errLat != nil || errLng != nil {
		c.logr.Warn("geocoder returned non-numeric coordinates", zap.String("address", address))
		return nil, nil
	}

	return &geo.Point{Lat: lat, Lng: lng}, nil
}

// ReverseZip resolves a point to its postal code, or "" when unknown.
func (c *NominatimClient) ReverseZip(ctx context.Context, p geo.Point) (string, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(p.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(p.Lng, 'f', -1, 64))
	q.Set("format", "json")

	var result reverseResult
	if err := c.getJSON(ctx, "/reverse", q, &result); err != nil {
		return "", err
	}
	return result.Address.Postcode, nil
}

func (c *NominatimClient) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build geocoder request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("geocoder request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode geocoder response: %w", err)
	}
	return nil
}
