package model

// Location is a city within a country. Properties reference one location; the
// country is what the allocation aggregator groups by.
type Location struct {
	ID      string `json:"id"`
	City    string `json:"city"`
	Country string `json:"country"`
}
