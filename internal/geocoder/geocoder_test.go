package geocoder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"geoserv-bknd/internal/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *NominatimClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewNominatim(srv.URL, "geoserv-test", 2*time.Second, zap.NewNop())
}

func TestGeocodeResolves(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "geoserv-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		w.Write([]byte(`[{"lat": "49.2827", "lon": "-123.1207"}]`))
	})

	p, err := c.Geocode(context.Background(), "800 Robson St, Vancouver")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.InDelta(t, 49.2827, p.Lat, 1e-6)
	assert.InDelta(t, -123.1207, p.Lng, 1e-6)
}

func TestGeocodeUnresolvable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	p, err := c.Geocode(context.Background(), "nowhere at all")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestGeocodeBadCoordinates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lat": "not-a-number", "lon": "-123"}]`))
	})

	p, err := c.Geocode(context.Background(), "somewhere")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestGeocodeServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Geocode(context.Background(), "somewhere")
	assert.Error(t, err)
}

func TestReverseZip(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "49.2827", r.URL.Query().Get("lat"))
		w.Write([]byte(`{"address": {"postcode": "V6Z 2E7"}}`))
	})

	zip, err := c.ReverseZip(context.Background(), geo.Point{Lat: 49.2827, Lng: -123.1207})
	require.NoError(t, err)
	assert.Equal(t, "V6Z 2E7", zip)
}

func TestReverseZipUnknown(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"address": {}}`))
	})

	zip, err := c.ReverseZip(context.Background(), geo.Point{Lat: 0, Lng: 0})
	require.NoError(t, err)
	assert.Equal(t, "", zip)
}
