package service

import (
	"fmt"
	"sort"

	"github.com/estatefolio/investor-dashboard/internal/apperrors"
	"github.com/estatefolio/investor-dashboard/internal/model"
)

// InvestmentAggregate is the result of summing an investor's property prices.
type InvestmentAggregate struct {
	Total         float64
	Previous      float64
	PercentChange float64
}

// RoiAggregate is the mean ROI over properties that report one.
type RoiAggregate struct {
	Average  float64
	Previous float64
	Change   float64
	Count    int // properties with a non-null ROI
}

// PercentChange compares current against previous.
// Unchanged values yield 0; growth from a zero previous value yields 100.
func PercentChange(current, previous float64) float64 {
	if current == previous {
		return 0
	}
	if previous == 0 {
		return 100
	}
	return (current - previous) / previous * 100
}

// AggregateInvestment sums property prices and compares the total with previousTotal.
// An empty list yields a zero total.
func AggregateInvestment(properties []model.Property, previousTotal float64) InvestmentAggregate {
	var total float64
	for _, p := range properties {
		total += p.Price
	}
	return InvestmentAggregate{
		Total:         total,
		Previous:      previousTotal,
		PercentChange: PercentChange(total, previousTotal),
	}
}

// AggregateRoi averages the non-null ROI percentages. Properties without an ROI
// count in neither numerator nor denominator; no ROI at all yields an average of 0.
// Change is the difference in percentage points against previousAverage.
func AggregateRoi(properties []model.Property, previousAverage float64) RoiAggregate {
	var sum float64
	var count int
	for _, p := range properties {
		if p.RoiPercentage == nil {
			continue
		}
		sum += *p.RoiPercentage
		count++
	}

	var average float64
	if count > 0 {
		average = sum / float64(count)
	}

	change := 0.0
	if average != previousAverage {
		change = average - previousAverage
	}

	return RoiAggregate{
		Average:  average,
		Previous: previousAverage,
		Change:   change,
		Count:    count,
	}
}

// AggregateAllocation groups capital by country and converts each group into a
// percentage of the total. countries maps location IDs to country names; a property
// whose location cannot be resolved is a data inconsistency.
//
// Entries are ordered by percentage descending, then country name.
func AggregateAllocation(properties []model.Property, countries map[string]string) ([]model.AllocationEntry, error) {
	sums := make(map[string]float64)
	var total float64
	for _, p := range properties {
		country, ok := countries[p.LocationID]
		if !ok || country == "" {
			return nil, fmt.Errorf("%w: property %s has unresolved location %s", apperrors.ErrDataInconsistency, p.ID, p.LocationID)
		}
		sums[country] += p.Price
		total += p.Price
	}

	entries := make([]model.AllocationEntry, 0, len(sums))
	for country, sum := range sums {
		percentage := 0.0
		if total > 0 {
			percentage = sum / total * 100
		}
		entries = append(entries, model.AllocationEntry{Country: country, Percentage: percentage})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Percentage != entries[j].Percentage {
			return entries[i].Percentage > entries[j].Percentage
		}
		return entries[i].Country < entries[j].Country
	})

	return entries, nil
}

// StaleCountries returns the stored countries missing from the freshly computed allocation.
func StaleCountries(stored []model.AllocationEntry, computed []model.AllocationEntry) []string {
	current := make(map[string]bool, len(computed))
	for _, e := range computed {
		current[e.Country] = true
	}

	var stale []string
	for _, e := range stored {
		if !current[e.Country] {
			stale = append(stale, e.Country)
		}
	}
	sort.Strings(stale)
	return stale
}

// PlanGrowth returns the growth rows to write for year, given the rows already stored
// for that year.
//
// Month slots before currentMonth that already exist are historical and left alone;
// missing ones are backfilled with previousTotal, the only earlier snapshot available.
// The currentMonth slot is always set to newTotal.
func PlanGrowth(existing []model.GrowthPoint, year, currentMonth int, previousTotal, newTotal float64) ([]model.GrowthPoint, error) {
	if currentMonth < 0 || currentMonth > 11 {
		return nil, fmt.Errorf("%w: %d", apperrors.ErrInvalidMonth, currentMonth)
	}

	stored := make(map[int]bool, len(existing))
	for _, p := range existing {
		if p.Year == year {
			stored[p.MonthIndex] = true
		}
	}

	writes := make([]model.GrowthPoint, 0, currentMonth+1)
	for month := 0; month < currentMonth; month++ {
		if stored[month] {
			continue
		}
		writes = append(writes, model.GrowthPoint{
			Year:       year,
			MonthIndex: month,
			Month:      model.MonthName(month),
			Value:      previousTotal,
		})
	}

	writes = append(writes, model.GrowthPoint{
		Year:       year,
		MonthIndex: currentMonth,
		Month:      model.MonthName(currentMonth),
		Value:      newTotal,
	})

	return writes, nil
}

// BuildGrowthSeries expands stored points into a January..throughMonth series.
// Months without a stored point carry the latest earlier value forward, starting at 0.
func BuildGrowthSeries(points []model.GrowthPoint, year, throughMonth int) []model.DashboardGrowth {
	byMonth := make(map[int]float64, len(points))
	for _, p := range points {
		if p.Year == year {
			byMonth[p.MonthIndex] = p.Value
		}
	}

	series := make([]model.DashboardGrowth, 0, throughMonth+1)
	var last float64
	for month := 0; month <= throughMonth; month++ {
		if v, ok := byMonth[month]; ok {
			last = v
		}
		series = append(series, model.DashboardGrowth{
			Month: model.MonthName(month),
			Value: round(last),
		})
	}
	return series
}
