// Package geocode resolves free-text place names to coordinates.
package geocode

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"spark/internal/domain/entity"
	"spark/internal/domain/service"

	"github.com/pkg/errors"
)

const maxResponseBytes = 1 << 20

// nominatimGeocoder queries a Nominatim-compatible /search endpoint.
type nominatimGeocoder struct {
	baseURL    string
	userAgent  string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

// nominatimPlace is one element of the /search JSON array. Coordinates are strings.
type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NewNominatimGeocoder creates a geocoder for baseURL. Every lookup is bounded by timeout.
func NewNominatimGeocoder(baseURL, userAgent string, timeout time.Duration, logger *slog.Logger) service.Geocoder {
	return &nominatimGeocoder{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		timeout:    timeout,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Geocode returns the first search result for place.
func (g *nominatimGeocoder) Geocode(ctx context.Context, place string) (entity.Coordinates, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	query := url.Values{}
	query.Set("q", place)
	query.Set("format", "json")
	query.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+query.Encode(), nil)
	if err != nil {
		return entity.Coordinates{}, errors.WithStack(err)
	}
	req.Header.Set("Accept", "application/json")
	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return entity.Coordinates{}, errors.Wrap(err, "geocoder request failed")
	}
	defer resp.Body.Close()

	g.logger.DebugContext(ctx, "Geocoder responded",
		slog.String("place", place),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return entity.Coordinates{}, errors.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&places); err != nil {
		return entity.Coordinates{}, errors.Wrap(err, "failed to decode geocoder response")
	}

	if len(places) == 0 {
		return entity.Coordinates{}, service.ErrPlaceNotFound
	}

	return parsePlace(places[0])
}

func parsePlace(place nominatimPlace) (entity.Coordinates, error) {
	lat, err := strconv.ParseFloat(place.Lat, 64)
	if err != nil {
		return entity.Coordinates{}, errors.Wrapf(err, "invalid latitude %q", place.Lat)
	}

	lon, err := strconv.ParseFloat(place.Lon, 64)
	if err != nil {
		return entity.Coordinates{}, errors.Wrapf(err, "invalid longitude %q", place.Lon)
	}

	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return entity.Coordinates{}, errors.Errorf("coordinates out of range: %f,%f", lat, lon)
	}

	return entity.Coordinates{Latitude: lat, Longitude: lon}, nil
}
