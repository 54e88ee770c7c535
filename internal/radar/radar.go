// Package radar scores job postings against saved, weighted matching profiles.
//
// A radar first applies its hard filters (PassesFilters) and then ranks the
// surviving jobs with eight weighted signals (ComputeScore). Both steps are
// pure: given the same jobs, radar and "now" they return the same result.
package radar

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of a radar
type Status string

const (
	StatusActive   Status = "active"
	StatusPaused   Status = "paused"
	StatusDisabled Status = "disabled"
)

// ParseStatus converts a raw string to a Status
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusActive, StatusPaused, StatusDisabled:
		return st, nil
	}
	return "", fmt.Errorf("unknown radar status %q", s)
}

// Frequency controls how often a radar is run by the scheduler
type Frequency string

const (
	FrequencyManual Frequency = "manual"
	FrequencyHourly Frequency = "hourly"
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

// ParseFrequency converts a raw string to a Frequency
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(s)
	switch f {
	case FrequencyManual, FrequencyHourly, FrequencyDaily, FrequencyWeekly:
		return f, nil
	}
	return "", fmt.Errorf("unknown schedule frequency %q", s)
}

// DefaultRunHour is used by daily and weekly schedules without an hour
const DefaultRunHour = 9

// Schedule describes when a radar runs
type Schedule struct {
	Frequency Frequency `json:"frequency"`
	Hour      *int      `json:"hour,omitempty"` // 0-23, local time
}

// CronSpec returns the 5-field cron expression for the schedule, or "" for
// manual schedules.
func (s Schedule) CronSpec() string {
	hour := DefaultRunHour
	if s.Hour != nil && *s.Hour >= 0 && *s.Hour <= 23 {
		hour = *s.Hour
	}

	switch s.Frequency {
	case FrequencyHourly:
		return "0 * * * *"
	case FrequencyDaily:
		return fmt.Sprintf("0 %d * * *", hour)
	case FrequencyWeekly:
		return fmt.Sprintf("0 %d * * 1", hour)
	default:
		return ""
	}
}

// Notifications configures what gets pushed after a run
type Notifications struct {
	Enabled  bool `json:"enabled"`
	MinScore int  `json:"min_score"`
}

// Filters holds the hard inclusion and exclusion rules. Nil pointers and
// empty slices mean "no constraint".
type Filters struct {
	VerifiedOnly     bool         `json:"verified_only,omitempty"`
	MinSpent         *float64     `json:"min_spent,omitempty"`
	MinHireRate      *float64     `json:"min_hire_rate,omitempty"`
	MaxProposals     *int         `json:"max_proposals,omitempty"`
	MaxAgeHours      *float64     `json:"max_age_hours,omitempty"`
	ExpertiseLevels  []Experience `json:"expertise_levels,omitempty"`
	CountriesInclude []string     `json:"countries_include,omitempty"`
	CountriesExclude []string     `json:"countries_exclude,omitempty"`
	IncludeTags      []string     `json:"include_tags,omitempty"`
	ExcludeTags      []string     `json:"exclude_tags,omitempty"`
	MinBudget        *float64     `json:"min_budget,omitempty"`
	HourlyMin        *float64     `json:"hourly_min,omitempty"`
	HourlyMax        *float64     `json:"hourly_max,omitempty"`
	HideApplied      bool         `json:"hide_applied,omitempty"`
	MinScore         *int         `json:"min_score,omitempty"`
}

// Weights are the relative importance of each signal
type Weights struct {
	Freshness    float64 `json:"freshness" toml:"freshness"`
	LowProposals float64 `json:"low_proposals" toml:"low_proposals"`
	Trust        float64 `json:"trust" toml:"trust"`
	HireRate     float64 `json:"hire_rate" toml:"hire_rate"`
	Budget       float64 `json:"budget" toml:"budget"`
	Expertise    float64 `json:"expertise" toml:"expertise"`
	Geo          float64 `json:"geo" toml:"geo"`
	Stack        float64 `json:"stack" toml:"stack"`
}

// DefaultWeights returns equal weights for all signals
func DefaultWeights() Weights {
	return Weights{
		Freshness:    1,
		LowProposals: 1,
		Trust:        1,
		HireRate:     1,
		Budget:       1,
		Expertise:    1,
		Geo:          1,
		Stack:        1,
	}
}

// Radar is a saved job-matching profile
type Radar struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Status        Status        `json:"status"`
	Schedule      Schedule      `json:"schedule"`
	Notifications Notifications `json:"notifications"`
	Filters       Filters       `json:"filters"`
	Weights       Weights       `json:"weights"`
	LastRunAt     *time.Time    `json:"last_run_at,omitempty"`
	LastRunCount  int           `json:"last_run_count"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// IsActive returns true when the radar should be run by the scheduler
func (r *Radar) IsActive() bool {
	return r.Status == StatusActive
}

// Reason is one signal's contribution to a match score
type Reason struct {
	Key    SignalKey `json:"key"`
	Weight float64   `json:"weight"`
	Signal float64   `json:"signal"`
	Points int       `json:"points"`
}

// Match is the scored outcome of running a radar against one job
type Match struct {
	RadarID    string    `json:"radar_id"`
	JobID      string    `json:"job_id"`
	Score      int       `json:"score"`
	ComputedAt time.Time `json:"computed_at"`
	Reasons    []Reason  `json:"reasons"`
}
