package radar

import (
	"math"
	"strings"
	"time"
)

// SignalKey identifies one of the eight scoring signals
type SignalKey string

const (
	SignalFreshness    SignalKey = "freshness"
	SignalLowProposals SignalKey = "low_proposals"
	SignalTrust        SignalKey = "trust"
	SignalHireRate     SignalKey = "hire_rate"
	SignalBudget       SignalKey = "budget"
	SignalExpertise    SignalKey = "expertise"
	SignalGeo          SignalKey = "geo"
	SignalStack        SignalKey = "stack"
)

// SignalKeys lists the signals in the order reasons are reported
var SignalKeys = []SignalKey{
	SignalFreshness,
	SignalLowProposals,
	SignalTrust,
	SignalHireRate,
	SignalBudget,
	SignalExpertise,
	SignalGeo,
	SignalStack,
}

// euCountries score higher on the geo signal
var euCountries = map[string]bool{
	"poland":      true,
	"germany":     true,
	"france":      true,
	"spain":       true,
	"italy":       true,
	"netherlands": true,
	"romania":     true,
}

var northAmerica = map[string]bool{
	"united states":            true,
	"united states of america": true,
	"usa":                      true,
	"us":                       true,
	"canada":                   true,
}

// Signals holds the computed value of every signal, each in [0, 1]
type Signals map[SignalKey]float64

// ComputeSignals evaluates all eight signals for the job
func ComputeSignals(job Job, f Filters, now time.Time) Signals {
	return Signals{
		SignalFreshness:    freshnessSignal(job.AgeHours(now)),
		SignalLowProposals: lowProposalsSignal(job.Proposals),
		SignalTrust:        trustSignal(job),
		SignalHireRate:     hireRateSignal(job.HireRate),
		SignalBudget:       budgetSignal(job.Budget, f),
		SignalExpertise:    expertiseSignal(job.Experience),
		SignalGeo:          geoSignal(job.Country),
		SignalStack:        stackSignal(job.NormalizedStack, f),
	}
}

func freshnessSignal(ageHours float64) float64 {
	switch {
	case ageHours <= 24:
		return 1.0
	case ageHours <= 72:
		return 0.8
	case ageHours <= 168:
		return 0.6
	case ageHours <= 336:
		return 0.4
	default:
		return 0.2
	}
}

func lowProposalsSignal(proposals *int) float64 {
	if proposals == nil {
		return 0.5
	}
	switch p := *proposals; {
	case p <= 5:
		return 1.0
	case p <= 10:
		return 0.8
	case p <= 20:
		return 0.6
	default:
		return 0.3
	}
}

func trustSignal(job Job) float64 {
	payment := 0.2
	if job.IsPaymentVerified {
		payment = 1.0
	}

	spend := 0.4
	if job.TotalSpent != nil {
		switch s := *job.TotalSpent; {
		case s >= 100000:
			spend = 1.0
		case s >= 50000:
			spend = 0.9
		case s >= 10000:
			spend = 0.7
		case s >= 1000:
			spend = 0.5
		default:
			spend = 0.2
		}
	}

	return 0.5*payment + 0.5*spend
}

func hireRateSignal(rate *float64) float64 {
	if rate == nil {
		return 0.4
	}
	return clamp01(*rate / 100)
}

func expertiseSignal(level *Experience) float64 {
	if level == nil {
		return 0.5
	}
	switch *level {
	case ExperienceExpert:
		return 1.0
	case ExperienceIntermediate:
		return 0.7
	case ExperienceEntry:
		return 0.4
	default:
		return 0.5
	}
}

func geoSignal(country *string) float64 {
	if country == nil {
		return 0.6
	}
	c := strings.ToLower(strings.TrimSpace(*country))
	switch {
	case euCountries[c]:
		return 0.8
	case northAmerica[c]:
		return 0.6
	default:
		return 0.5
	}
}

// stackSignal is the fraction of include tags present in the job's stack.
// When include tags are also used as a hard filter this is always 1 for
// surviving jobs.
func stackSignal(stack []string, f Filters) float64 {
	if len(f.IncludeTags) == 0 {
		return 0.6
	}
	set := stackSet(stack)
	hits := 0
	for _, tag := range f.IncludeTags {
		if set[normalizeTag(tag)] {
			hits++
		}
	}
	return float64(hits) / float64(len(f.IncludeTags))
}

func budgetSignal(b Budget, f Filters) float64 {
	switch budget := b.(type) {
	case HourlyBudget:
		if f.HourlyMin == nil && f.HourlyMax == nil {
			return 0.5
		}
		minRate, maxRate := f.hourlyRange()
		width := math.Max(1, maxRate-minRate)
		return clamp01(hourlyOverlap(budget, minRate, maxRate) / width)
	case FixedBudget:
		switch a := budget.Amount; {
		case a < 100:
			return 0.3
		case a < 500:
			return 0.6
		case a > 2000:
			return 1.0
		default:
			return 0.8
		}
	default:
		return 0.5
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
