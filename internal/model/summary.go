package model

import "time"

// InvestmentSummary is the denormalized per-investor total. Only one step of
// history is retained: PercentChange compares against the total it replaced.
type InvestmentSummary struct {
	InvestorID      string    `json:"investorId"`
	TotalInvestment float64   `json:"totalInvestment"`
	PercentChange   float64   `json:"percentChange"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// RoiSummary is the per-investor average ROI over properties with a known ROI.
type RoiSummary struct {
	InvestorID string    `json:"investorId"`
	AverageRoi float64   `json:"averageRoi"`
	RoiChange  float64   `json:"roiChange"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// LedgerEntry is an append-only snapshot written whenever a recompute changes
// the total or the average ROI.
type LedgerEntry struct {
	ID              string    `json:"id"`
	InvestorID      string    `json:"investorId"`
	TotalInvestment float64   `json:"totalInvestment"`
	AverageRoi      float64   `json:"averageRoi"`
	RecordedAt      time.Time `json:"recordedAt"`
}
