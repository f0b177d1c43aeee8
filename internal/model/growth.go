package model

import "time"

// GrowthPoint is one month of an investor's cumulative invested capital.
// MonthIndex is zero based (0 = January).
type GrowthPoint struct {
	InvestorID string    `json:"investorId,omitempty"`
	Year       int       `json:"year"`
	MonthIndex int       `json:"monthIndex"`
	Month      string    `json:"month"`
	Value      float64   `json:"value"`
	UpdatedAt  time.Time `json:"updatedAt,omitzero"`
}

// MonthName returns the three letter English abbreviation for a zero based month index.
func MonthName(monthIndex int) string {
	return time.Month(monthIndex + 1).String()[:3]
}
