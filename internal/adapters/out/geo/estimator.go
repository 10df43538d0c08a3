// Package geo estimates road distances for the pricing advisor: free text
// places are geocoded with a Nominatim compatible search endpoint and routed
// with an OSRM compatible service.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultGeocoderURL = "https://nominatim.openstreetmap.org"
	DefaultRouterURL   = "http://router.project-osrm.org"
	DefaultUserAgent   = "loadboard/1.0"

	// countrySuffix narrows geocoding to the market the board serves.
	countrySuffix = ", India"
)

var (
	ErrPlaceNotFound = errors.New("place not found")
	ErrNoRoute       = errors.New("no route found")
)

type Config struct {
	GeocoderURL string
	RouterURL   string
	UserAgent   string
	Timeout     time.Duration
}

type point struct {
	lat, lon float64
}

// HTTPEstimator implements ports.DistanceEstimator over HTTP.
type HTTPEstimator struct {
	geocoderURL string
	routerURL   string
	userAgent   string
	client      *http.Client
}

func NewHTTPEstimator(cfg Config) *HTTPEstimator {
	if cfg.GeocoderURL == "" {
		cfg.GeocoderURL = DefaultGeocoderURL
	}
	if cfg.RouterURL == "" {
		cfg.RouterURL = DefaultRouterURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	return &HTTPEstimator{
		geocoderURL: strings.TrimRight(cfg.GeocoderURL, "/"),
		routerURL:   strings.TrimRight(cfg.RouterURL, "/"),
		userAgent:   cfg.UserAgent,
		client:      &http.Client{Timeout: cfg.Timeout},
	}
}

// EstimateKm geocodes both places and returns the driving distance in kilometres.
func (e *HTTPEstimator) EstimateKm(ctx context.Context, origin, destination string) (float64, error) {
	from, err := e.geocode(ctx, origin)
	if err != nil {
		return 0, fmt.Errorf("geocode origin: %w", err)
	}

	to, err := e.geocode(ctx, destination)
	if err != nil {
		return 0, fmt.Errorf("geocode destination: %w", err)
	}

	return e.route(ctx, from, to)
}

func (e *HTTPEstimator) geocode(ctx context.Context, place string) (point, error) {
	params := url.Values{}
	params.Set("q", place+countrySuffix)
	params.Set("format", "json")
	params.Set("limit", "1")

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := e.getJSON(ctx, e.geocoderURL+"/search?"+params.Encode(), &results); err != nil {
		return point{}, err
	}
	if len(results) == 0 {
		return point{}, fmt.Errorf("%w: %q", ErrPlaceNotFound, place)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return point{}, fmt.Errorf("parse latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return point{}, fmt.Errorf("parse longitude: %w", err)
	}

	return point{lat: lat, lon: lon}, nil
}

func (e *HTTPEstimator) route(ctx context.Context, from, to point) (float64, error) {
	endpoint := fmt.Sprintf("%s/route/v1/driving/%s,%s;%s,%s?overview=false",
		e.routerURL,
		formatCoord(from.lon), formatCoord(from.lat),
		formatCoord(to.lon), formatCoord(to.lat),
	)

	var body struct {
		Code   string `json:"code"`
		Routes []struct {
			Distance float64 `json:"distance"`
		} `json:"routes"`
	}
	if err := e.getJSON(ctx, endpoint, &body); err != nil {
		return 0, err
	}
	if body.Code != "Ok" || len(body.Routes) == 0 {
		return 0, fmt.Errorf("%w: router answered %q", ErrNoRoute, body.Code)
	}

	return body.Routes[0].Distance / 1000.0, nil
}

func (e *HTTPEstimator) getJSON(ctx context.Context, endpoint string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", req.URL.Path, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(target)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
