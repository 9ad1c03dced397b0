package geocode

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"spark/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNominatimGeocoder_Geocode(t *testing.T) {
	var gotQuery, gotUserAgent, gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("q")
		gotUserAgent = r.Header.Get("User-Agent")
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"lat":"25.0375","lon":"121.5637","display_name":"Taipei"}]`)
	}))
	defer server.Close()

	geocoder := NewNominatimGeocoder(server.URL+"/", "spark-test", time.Second, discardLogger())

	coords, err := geocoder.Geocode(context.Background(), "Taipei 101")
	require.NoError(t, err)

	assert.InDelta(t, 25.0375, coords.Latitude, 1e-9)
	assert.InDelta(t, 121.5637, coords.Longitude, 1e-9)
	assert.Equal(t, "/search", gotPath)
	assert.Equal(t, "Taipei 101", gotQuery)
	assert.Equal(t, "spark-test", gotUserAgent)
}

func TestNominatimGeocoder_NoResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	}))
	defer server.Close()

	geocoder := NewNominatimGeocoder(server.URL, "", time.Second, discardLogger())

	_, err := geocoder.Geocode(context.Background(), "Nowhere")
	assert.ErrorIs(t, err, service.ErrPlaceNotFound)
}

func TestNominatimGeocoder_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, `{"not":"an array"`)
			},
		},
		{
			name: "unparsable latitude",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, `[{"lat":"north","lon":"1"}]`)
			},
		},
		{
			name: "out of range",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, `[{"lat":"95","lon":"1"}]`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			geocoder := NewNominatimGeocoder(server.URL, "", time.Second, discardLogger())

			_, err := geocoder.Geocode(context.Background(), "Somewhere")
			require.Error(t, err)
			assert.NotErrorIs(t, err, service.ErrPlaceNotFound)
		})
	}
}

func TestNominatimGeocoder_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	geocoder := NewNominatimGeocoder(server.URL, "", 50*time.Millisecond, discardLogger())

	start := time.Now()
	_, err := geocoder.Geocode(context.Background(), "Slow town")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
