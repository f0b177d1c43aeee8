package model

import "time"

// AllocationEntry is the share of an investor's capital held in one country.
type AllocationEntry struct {
	InvestorID string    `json:"investorId,omitempty"`
	Country    string    `json:"country"`
	Percentage float64   `json:"percentage"`
	UpdatedAt  time.Time `json:"updatedAt,omitzero"`
}
