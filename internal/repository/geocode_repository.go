package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fakhrymubarak/parade-weather/internal/config"
	"github.com/fakhrymubarak/parade-weather/internal/model"
)

// GeocodeRepository resolves a free-text place name to coordinates.
type GeocodeRepository interface {
	Geocode(ctx context.Context, city string) (model.Coordinates, error)
}

type geocodeRepository struct {
	provider *providerClient
}

// NewGeocodeRepository creates a Nominatim-backed geocoder.
func NewGeocodeRepository(httpClient ...*http.Client) GeocodeRepository {
	var client *http.Client
	if len(httpClient) > 0 {
		client = httpClient[0]
	}
	return &geocodeRepository{
		provider: newProviderClient("nominatim", config.GetNominatimUserAgent(), client),
	}
}

// Geocode returns the first candidate Nominatim reports for city.
func (r *geocodeRepository) Geocode(ctx context.Context, city string) (model.Coordinates, error) {
	params := url.Values{
		"q":      {city},
		"format": {"json"},
		"limit":  {"1"},
	}
	resp, err := r.provider.get(ctx, config.GetNominatimApiUrl()+"?"+params.Encode())
	if err != nil {
		return model.Coordinates{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Coordinates{}, fmt.Errorf("%w: geocode status %d", ErrExternalAPI, resp.StatusCode)
	}

	var places []model.NominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return model.Coordinates{}, fmt.Errorf("%w: decode geocode: %v", ErrMalformedPayload, err)
	}
	if len(places) == 0 {
		return model.Coordinates{}, fmt.Errorf("%w: %q", ErrLocationNotFound, city)
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("%w: latitude %q", ErrMalformedPayload, places[0].Lat)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("%w: longitude %q", ErrMalformedPayload, places[0].Lon)
	}
	return model.Coordinates{Latitude: lat, Longitude: lon}, nil
}
