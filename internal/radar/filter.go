package radar

import (
	"math"
	"strings"
	"time"

	"github.com/samber/lo"
)

const (
	// unknownProposals is assumed when a posting hides its proposal count
	unknownProposals = 99

	// openHourlyMax bounds the desired hourly range when only a minimum is set
	openHourlyMax = 9999
)

// PassesFilters reports whether the job satisfies every configured filter.
// Unset filters never exclude a job. Evaluation stops at the first failure.
func PassesFilters(job Job, f Filters, apps Applications, now time.Time) bool {
	if f.VerifiedOnly && !job.IsPaymentVerified {
		return false
	}

	if f.MinSpent != nil && valueOr(job.TotalSpent, 0) < *f.MinSpent {
		return false
	}

	if f.MinHireRate != nil && valueOr(job.HireRate, 0) < *f.MinHireRate {
		return false
	}

	if f.MaxProposals != nil {
		proposals := unknownProposals
		if job.Proposals != nil {
			proposals = *job.Proposals
		}
		if proposals > *f.MaxProposals {
			return false
		}
	}

	if f.MaxAgeHours != nil && job.AgeHours(now) > *f.MaxAgeHours {
		return false
	}

	// Jobs without a tier are kept
	if len(f.ExpertiseLevels) > 0 && job.Experience != nil &&
		!lo.Contains(f.ExpertiseLevels, *job.Experience) {
		return false
	}

	if len(f.CountriesInclude) > 0 {
		if job.Country == nil || !containsFold(f.CountriesInclude, *job.Country) {
			return false
		}
	}

	if len(f.CountriesExclude) > 0 && job.Country != nil &&
		containsFold(f.CountriesExclude, *job.Country) {
		return false
	}

	if len(f.IncludeTags) > 0 || len(f.ExcludeTags) > 0 {
		stack := stackSet(job.NormalizedStack)

		if !lo.EveryBy(f.IncludeTags, func(tag string) bool { return stack[normalizeTag(tag)] }) {
			return false
		}
		if lo.SomeBy(f.ExcludeTags, func(tag string) bool { return stack[normalizeTag(tag)] }) {
			return false
		}
	}

	if f.MinBudget != nil {
		fixed, ok := job.Budget.(FixedBudget)
		if !ok || fixed.Amount < *f.MinBudget {
			return false
		}
	}

	if f.HourlyMin != nil || f.HourlyMax != nil {
		hourly, ok := job.Budget.(HourlyBudget)
		if !ok {
			return false
		}
		minRate, maxRate := f.hourlyRange()
		if hourlyOverlap(hourly, minRate, maxRate) <= 0 {
			return false
		}
	}

	if f.HideApplied && apps.StatusOf(job.ID) != AppNone {
		return false
	}

	return true
}

// hourlyRange returns the desired [min, max] hourly rate
func (f Filters) hourlyRange() (float64, float64) {
	return valueOr(f.HourlyMin, 0), valueOr(f.HourlyMax, openHourlyMax)
}

// hourlyOverlap is the width of the intersection of the job's rate range and
// [minRate, maxRate]; negative when they are disjoint.
func hourlyOverlap(b HourlyBudget, minRate, maxRate float64) float64 {
	return math.Min(b.Max, maxRate) - math.Max(b.Min, minRate)
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

func stackSet(stack []string) map[string]bool {
	set := make(map[string]bool, len(stack))
	for _, tag := range stack {
		set[normalizeTag(tag)] = true
	}
	return set
}

func containsFold(list []string, s string) bool {
	return lo.ContainsBy(list, func(item string) bool {
		return strings.EqualFold(strings.TrimSpace(item), strings.TrimSpace(s))
	})
}
