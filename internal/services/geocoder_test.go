package services_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AnshRaj112/campsite/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

func newTestGeocoder(t *testing.T, status int, body string) (*services.GoogleGeocoder, *[]*http.Request) {
	t.Helper()
	var requests []*http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	g, err := services.NewGoogleGeocoder("AIza-test-key", maps.WithBaseURL(srv.URL))
	require.NoError(t, err)
	return g, &requests
}

func TestGoogleGeocoder_FirstResult(t *testing.T) {
	g, requests := newTestGeocoder(t, http.StatusOK, `{
		"status": "OK",
		"results": [
			{"formatted_address": "Boulder, CO, USA", "geometry": {"location": {"lat": 40.01499, "lng": -105.27055}}},
			{"formatted_address": "Boulder, MT, USA", "geometry": {"location": {"lat": 46.23659, "lng": -112.12083}}}
		]
	}`)

	got, err := g.Geocode(context.Background(), "Boulder")
	require.NoError(t, err)
	assert.Equal(t, &services.GeocodeResult{Lat: 40.01499, Lng: -105.27055, FormattedAddress: "Boulder, CO, USA"}, got)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, "/maps/api/geocode/json", req.URL.Path)
	assert.Equal(t, "Boulder", req.URL.Query().Get("address"))
	assert.Equal(t, "AIza-test-key", req.URL.Query().Get("key"))
}

func TestGoogleGeocoder_ZeroResultsIsInvalidAddress(t *testing.T) {
	g, _ := newTestGeocoder(t, http.StatusOK, `{"status": "ZERO_RESULTS", "results": []}`)

	got, err := g.Geocode(context.Background(), "nowhere at all")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, services.ErrInvalidAddress)
}

func TestGoogleGeocoder_ProviderFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"request denied", http.StatusOK, `{"status": "REQUEST_DENIED", "error_message": "bad key", "results": []}`},
		{"server error", http.StatusInternalServerError, `oops`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newTestGeocoder(t, tt.status, tt.body)

			_, err := g.Geocode(context.Background(), "Boulder")
			var geoErr *services.GeocodeError
			require.ErrorAs(t, err, &geoErr)
			assert.Equal(t, "Boulder", geoErr.Address)
			assert.NotErrorIs(t, err, services.ErrInvalidAddress)
		})
	}
}
