package model

import "time"

// GeocodePoint is a cached geocoding result keyed by the normalized query
// string.
type GeocodePoint struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Provider  string    `json:"provider"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	CreatedAt time.Time `json:"created_at"`
}
