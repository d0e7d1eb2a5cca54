package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quicktrack/fleetcontrol-service-go/pkg/model"
)

func TestResolve_StoredAddressWins(t *testing.T) {
	r := NewAddressResolver()
	got := r.Resolve(context.Background(),
		"Hauptstr. 5", model.GeoPoint{Latitude: 52.52, Longitude: 13.405})
	assert.Equal(t, "Hauptstr. 5", got)
}

func TestResolve_NothingUsable(t *testing.T) {
	r := NewAddressResolver()
	assert.Empty(t, r.Resolve(context.Background(), "", model.NoPosition()))
}

func TestResolve_ReverseLookupCached(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.Write([]byte(`{"display_name":"Testweg, Berlin"}`)) //nolint:errcheck // test handler
		}))
	defer srv.Close()

	r := NewAddressResolver(WithGeocodeClient(NewClient(WithBaseURL(srv.URL))))
	point := model.GeoPoint{Latitude: 52.52, Longitude: 13.405}

	assert.Equal(t, "Testweg, Berlin", r.Resolve(context.Background(), "", point))
	// nearby coordinate hits the same rounded cache key
	nearby := model.GeoPoint{Latitude: 52.52002, Longitude: 13.40503}
	assert.Equal(t, "Testweg, Berlin", r.Resolve(context.Background(), "", nearby))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestResolve_FallbackToCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
	defer srv.Close()

	r := NewAddressResolver(WithGeocodeClient(NewClient(WithBaseURL(srv.URL))))
	got := r.Resolve(context.Background(), "",
		model.GeoPoint{Latitude: 52.52, Longitude: 13.405})
	assert.Equal(t, "52.52000, 13.40500", got)
}

func TestResolveSample(t *testing.T) {
	r := NewAddressResolver()
	got := r.ResolveSample(context.Background(), model.Sample{
		Address: "Hauptstr. 5",
		Point:   model.GeoPoint{Latitude: 52.52, Longitude: 13.405},
	})
	assert.Equal(t, "Hauptstr. 5", got)
}
