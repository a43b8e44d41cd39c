package model

// NominatimPlace is one candidate from the Nominatim search endpoint.
// Coordinates are encoded as strings by the provider.
type NominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
