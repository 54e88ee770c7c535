// Package analytics aggregates a set of job postings into summary statistics.
package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/vijay-prabhu/jobradar/internal/radar"
)

// DefaultTopCountries is the number of countries kept in ByCountry
const DefaultTopCountries = 10

// activityDays is the length of the daily activity series
const activityDays = 14

// Proposal bucket labels, in display order
const (
	BucketFew     = "0-5"
	BucketSome    = "6-10"
	BucketMany    = "11-20"
	BucketCrowded = "21+"
	BucketUnknown = "unknown"
)

// ProposalBuckets lists the bucket labels in display order
var ProposalBuckets = []string{BucketFew, BucketSome, BucketMany, BucketCrowded, BucketUnknown}

// CountryStat is the number of jobs posted from one country
type CountryStat struct {
	Country string `json:"country"`
	Count   int    `json:"count"`
}

// ActivityStat is the number of jobs posted on one day
type ActivityStat struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Summary contains aggregate statistics for a set of jobs
type Summary struct {
	TotalJobs         int            `json:"total_jobs"`
	VerifiedShare     float64        `json:"verified_share_percent"`
	PostedLast24h     int            `json:"posted_last_24h"`
	ByExperience      map[string]int `json:"by_experience"`
	ByCountry         []CountryStat  `json:"by_country"`
	ByBudgetType      map[string]int `json:"by_budget_type"`
	AvgHourlyMidpoint *float64       `json:"avg_hourly_midpoint,omitempty"`
	MedianFixedBudget *float64       `json:"median_fixed_budget,omitempty"`
	ProposalBuckets   map[string]int `json:"proposal_buckets"`
	RecentActivity    []ActivityStat `json:"recent_activity"`
}

// Options tunes Summarize
type Options struct {
	TopCountries int
}

// Summarize computes statistics over jobs relative to now
func Summarize(jobs []radar.Job, now time.Time, opts Options) *Summary {
	top := opts.TopCountries
	if top <= 0 {
		top = DefaultTopCountries
	}

	s := &Summary{
		TotalJobs:       len(jobs),
		ByExperience:    map[string]int{},
		ByBudgetType:    map[string]int{},
		ProposalBuckets: map[string]int{},
	}
	for _, b := range ProposalBuckets {
		s.ProposalBuckets[b] = 0
	}

	countries := map[string]int{}
	activity := map[string]int{}
	var verified int
	var midpoints, fixed []float64

	for _, job := range jobs {
		if job.IsPaymentVerified {
			verified++
		}
		if age := job.AgeHours(now); age >= 0 && age <= 24 {
			s.PostedLast24h++
		}
		activity[job.CreatedAt.In(now.Location()).Format(time.DateOnly)]++

		if job.Experience != nil {
			s.ByExperience[string(*job.Experience)]++
		} else {
			s.ByExperience["unknown"]++
		}

		if job.Country != nil && strings.TrimSpace(*job.Country) != "" {
			countries[strings.TrimSpace(*job.Country)]++
		} else {
			countries["Unknown"]++
		}

		switch b := job.Budget.(type) {
		case radar.HourlyBudget:
			s.ByBudgetType["hourly"]++
			midpoints = append(midpoints, (b.Min+b.Max)/2)
		case radar.FixedBudget:
			s.ByBudgetType["fixed"]++
			fixed = append(fixed, b.Amount)
		default:
			s.ByBudgetType["none"]++
		}

		s.ProposalBuckets[proposalBucket(job.Proposals)]++
	}

	if len(jobs) > 0 {
		s.VerifiedShare = float64(verified) / float64(len(jobs)) * 100
	}
	if len(midpoints) > 0 {
		avg := lo.Sum(midpoints) / float64(len(midpoints))
		s.AvgHourlyMidpoint = &avg
	}
	if len(fixed) > 0 {
		med := median(fixed)
		s.MedianFixedBudget = &med
	}

	s.ByCountry = topCountries(countries, top)

	s.RecentActivity = make([]ActivityStat, 0, activityDays)
	for i := activityDays - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format(time.DateOnly)
		s.RecentActivity = append(s.RecentActivity, ActivityStat{Date: day, Count: activity[day]})
	}

	return s
}

func proposalBucket(p *int) string {
	if p == nil {
		return BucketUnknown
	}
	switch n := *p; {
	case n <= 5:
		return BucketFew
	case n <= 10:
		return BucketSome
	case n <= 20:
		return BucketMany
	default:
		return BucketCrowded
	}
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// topCountries returns the n most common countries, ties broken by name
func topCountries(counts map[string]int, n int) []CountryStat {
	stats := lo.MapToSlice(counts, func(country string, count int) CountryStat {
		return CountryStat{Country: country, Count: count}
	})
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Country < stats[j].Country
	})
	if len(stats) > n {
		stats = stats[:n]
	}
	return stats
}
