package pricing

// Source represents the source of pricing information
type Source string

const (
	// SourceAPI indicates pricing data came from AWS API
	SourceAPI Source = "API"

	// SourceCache indicates pricing data came from cache
	SourceCache Source = "Cache"

	// SourceNA indicates pricing data is not available
	SourceNA Source = "N/A"
)

// MonthlyHours is the number of hours in a month (365 days / 12 months * 24 hours)
const MonthlyHours = 730.0

// Stats counts pricing lookups by outcome
type Stats struct {
	APICalls  int
	CacheHits int
	Failures  int
}

// Estimate is the on-demand cost of one instance type in one region
type Estimate struct {
	InstanceType string
	Region       string
	HourlyPrice  float64
	Source       Source
}

// MonthlyCost returns the estimated monthly cost of the estimate
func (e Estimate) MonthlyCost() float64 {
	return e.HourlyPrice * MonthlyHours
}
