package model

// Dashboard is the merged view-model handed to the presentation layer.
// Amounts and percentages are rounded to two decimals.
type Dashboard struct {
	InvestorID       string                `json:"investorId"`
	TotalInvestment  float64               `json:"totalInvestment"`
	InvestmentChange float64               `json:"investmentChange"`
	AverageRoi       float64               `json:"averageRoi"`
	RoiChange        float64               `json:"roiChange"`
	PropertiesCount  int                   `json:"propertiesCount"`
	Allocation       []DashboardAllocation `json:"allocation"`
	Growth           []DashboardGrowth     `json:"growth"`
	InvestorLevel    InvestorLevel         `json:"investorLevel"`
}

// DashboardAllocation is one country share in the dashboard.
type DashboardAllocation struct {
	Country    string  `json:"country"`
	Percentage float64 `json:"percentage"`
}

// DashboardGrowth is one month of the dashboard growth chart.
type DashboardGrowth struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

// RecomputeResult reports what a recompute wrote.
type RecomputeResult struct {
	InvestorID       string            `json:"investorId"`
	PropertiesCount  int               `json:"propertiesCount"`
	Summary          InvestmentSummary `json:"summary"`
	Roi              RoiSummary        `json:"roi"`
	Allocation       []AllocationEntry `json:"allocation"`
	Growth           []GrowthPoint     `json:"growth"`
	Level            InvestorLevel     `json:"level"`
	RemovedCountries []string          `json:"removedCountries"`
}
