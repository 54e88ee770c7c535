package radar

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Get returns the weight for a signal. Negative weights count as zero.
func (w Weights) Get(key SignalKey) float64 {
	return math.Max(0, w.raw(key))
}

func (w Weights) raw(key SignalKey) float64 {
	var v float64
	switch key {
	case SignalFreshness:
		v = w.Freshness
	case SignalLowProposals:
		v = w.LowProposals
	case SignalTrust:
		v = w.Trust
	case SignalHireRate:
		v = w.HireRate
	case SignalBudget:
		v = w.Budget
	case SignalExpertise:
		v = w.Expertise
	case SignalGeo:
		v = w.Geo
	case SignalStack:
		v = w.Stack
	}
	return v
}

// Set changes the weight of one signal
func (w *Weights) Set(key SignalKey, v float64) error {
	switch key {
	case SignalFreshness:
		w.Freshness = v
	case SignalLowProposals:
		w.LowProposals = v
	case SignalTrust:
		w.Trust = v
	case SignalHireRate:
		w.HireRate = v
	case SignalBudget:
		w.Budget = v
	case SignalExpertise:
		w.Expertise = v
	case SignalGeo:
		w.Geo = v
	case SignalStack:
		w.Stack = v
	default:
		return fmt.Errorf("unknown signal %q", key)
	}
	return nil
}

// Negative returns the signals configured with a negative weight
func (w Weights) Negative() []SignalKey {
	var keys []SignalKey
	for _, key := range SignalKeys {
		if w.raw(key) < 0 {
			keys = append(keys, key)
		}
	}
	return keys
}

// Sum returns the total weight, or 1 when every weight is zero so that
// normalisation never divides by zero.
func (w Weights) Sum() float64 {
	var sum float64
	for _, key := range SignalKeys {
		sum += w.Get(key)
	}
	if sum == 0 {
		return 1
	}
	return sum
}

// Normalized returns weight/Sum for a signal
func (w Weights) Normalized(key SignalKey) float64 {
	return w.Get(key) / w.Sum()
}

// Result is the outcome of scoring a single job
type Result struct {
	Score   int      `json:"score"`
	Reasons []Reason `json:"reasons"`
}

// ComputeScore scores the job against the radar's weights. Reason points are
// rounded individually, so they need not add up to Score exactly.
func ComputeScore(job Job, r Radar, now time.Time) Result {
	signals := ComputeSignals(job, r.Filters, now)
	total := r.Weights.Sum()

	var weighted float64
	reasons := make([]Reason, 0, len(SignalKeys))
	for _, key := range SignalKeys {
		weight := r.Weights.Get(key)
		signal := signals[key]
		weighted += signal * weight

		reasons = append(reasons, Reason{
			Key:    key,
			Weight: weight,
			Signal: signal,
			Points: int(math.Round(weight / total * signal * 100)),
		})
	}

	score := int(math.Round(weighted / total * 100))
	return Result{
		Score:   min(100, max(0, score)),
		Reasons: reasons,
	}
}

// Run filters and scores jobs for the radar and returns matches ordered by
// score, highest first. Jobs with equal scores keep their input order.
func Run(jobs []Job, r Radar, apps Applications, now time.Time) []Match {
	matches := make([]Match, 0, len(jobs))
	for _, job := range jobs {
		if !PassesFilters(job, r.Filters, apps, now) {
			continue
		}

		res := ComputeScore(job, r, now)
		if r.Filters.MinScore != nil && res.Score < *r.Filters.MinScore {
			continue
		}

		matches = append(matches, Match{
			RadarID:    r.ID,
			JobID:      job.ID,
			Score:      res.Score,
			ComputedAt: now,
			Reasons:    res.Reasons,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}
