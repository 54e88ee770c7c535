package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobradar/internal/radar"
	"github.com/vijay-prabhu/jobradar/internal/source"
)

// radarOptions holds the filter, schedule and weight flags shared by
// 'radar create' and 'radar edit'. Only flags set on the command line are
// applied.
type radarOptions struct {
	verifiedOnly     bool
	minSpent         float64
	minHireRate      float64
	maxProposals     int
	maxAgeHours      float64
	expertise        []string
	countries        []string
	excludeCountries []string
	tags             []string
	excludeTags      []string
	minBudget        float64
	hourlyMin        float64
	hourlyMax        float64
	hideApplied      bool
	minScore         int

	schedule       string
	hour           int
	notify         bool
	notifyMinScore int
	weights        map[string]string
	clear          []string
}

func addRadarFlags(cmd *cobra.Command, o *radarOptions) {
	f := cmd.Flags()
	f.BoolVar(&o.verifiedOnly, "verified-only", false, "Only clients with a verified payment method")
	f.Float64Var(&o.minSpent, "min-spent", 0, "Minimum client total spend")
	f.Float64Var(&o.minHireRate, "min-hire-rate", 0, "Minimum client hire rate (0-100)")
	f.IntVar(&o.maxProposals, "max-proposals", 0, "Maximum number of proposals already sent")
	f.Float64Var(&o.maxAgeHours, "max-age-hours", 0, "Maximum posting age in hours")
	f.StringSliceVar(&o.expertise, "expertise", nil, "Allowed experience tiers (entry, intermediate, expert)")
	f.StringSliceVar(&o.countries, "countries", nil, "Only clients from these countries")
	f.StringSliceVar(&o.excludeCountries, "exclude-countries", nil, "Skip clients from these countries")
	f.StringSliceVar(&o.tags, "tags", nil, "Stack tags a job must all have")
	f.StringSliceVar(&o.excludeTags, "exclude-tags", nil, "Stack tags that disqualify a job")
	f.Float64Var(&o.minBudget, "min-budget", 0, "Minimum fixed-price budget")
	f.Float64Var(&o.hourlyMin, "hourly-min", 0, "Lower end of the acceptable hourly range")
	f.Float64Var(&o.hourlyMax, "hourly-max", 0, "Upper end of the acceptable hourly range")
	f.BoolVar(&o.hideApplied, "hide-applied", false, "Hide jobs you already acted on")
	f.IntVar(&o.minScore, "min-score", 0, "Drop matches scoring below this (0-100)")

	f.StringVar(&o.schedule, "schedule", "", "Run schedule (manual, hourly, daily, weekly)")
	f.IntVar(&o.hour, "hour", radar.DefaultRunHour, "Hour of day for daily and weekly schedules (0-23)")
	f.BoolVar(&o.notify, "notify", false, "Send notifications after scheduled runs")
	f.IntVar(&o.notifyMinScore, "notify-min-score", 0, "Only notify about matches scoring at least this")
	f.StringToStringVar(&o.weights, "weight", nil, "Signal weights, e.g. --weight freshness=2,geo=0")
	f.StringSliceVar(&o.clear, "clear", nil, "Filters to remove, by flag name (e.g. min-spent,tags)")
}

// apply copies every flag set on cmd into r
func (o *radarOptions) apply(cmd *cobra.Command, r *radar.Radar) error {
	changed := cmd.Flags().Changed
	f := &r.Filters

	for _, name := range o.clear {
		if err := clearFilter(f, name); err != nil {
			return err
		}
	}

	if changed("verified-only") {
		f.VerifiedOnly = o.verifiedOnly
	}
	if changed("min-spent") {
		f.MinSpent = &o.minSpent
	}
	if changed("min-hire-rate") {
		if o.minHireRate < 0 || o.minHireRate > 100 {
			return fmt.Errorf("--min-hire-rate must be between 0 and 100")
		}
		f.MinHireRate = &o.minHireRate
	}
	if changed("max-proposals") {
		f.MaxProposals = &o.maxProposals
	}
	if changed("max-age-hours") {
		f.MaxAgeHours = &o.maxAgeHours
	}
	if changed("expertise") {
		levels := make([]radar.Experience, 0, len(o.expertise))
		for _, raw := range o.expertise {
			tier := source.NormalizeTier(raw)
			if tier == nil {
				return fmt.Errorf("unknown experience tier %q", raw)
			}
			levels = append(levels, *tier)
		}
		f.ExpertiseLevels = levels
	}
	if changed("countries") {
		f.CountriesInclude = trimAll(o.countries)
	}
	if changed("exclude-countries") {
		f.CountriesExclude = trimAll(o.excludeCountries)
	}
	if changed("tags") {
		f.IncludeTags = source.NormalizeStack(o.tags)
	}
	if changed("exclude-tags") {
		f.ExcludeTags = source.NormalizeStack(o.excludeTags)
	}
	if changed("min-budget") {
		f.MinBudget = &o.minBudget
	}
	if changed("hourly-min") {
		f.HourlyMin = &o.hourlyMin
	}
	if changed("hourly-max") {
		f.HourlyMax = &o.hourlyMax
	}
	if f.HourlyMin != nil && f.HourlyMax != nil && *f.HourlyMin > *f.HourlyMax {
		return fmt.Errorf("hourly range is empty: min %.0f > max %.0f", *f.HourlyMin, *f.HourlyMax)
	}
	if changed("hide-applied") {
		f.HideApplied = o.hideApplied
	}
	if changed("min-score") {
		if o.minScore < 0 || o.minScore > 100 {
			return fmt.Errorf("--min-score must be between 0 and 100")
		}
		f.MinScore = &o.minScore
	}

	if changed("schedule") {
		freq, err := radar.ParseFrequency(strings.ToLower(o.schedule))
		if err != nil {
			return err
		}
		r.Schedule.Frequency = freq
	}
	if changed("hour") {
		if o.hour < 0 || o.hour > 23 {
			return fmt.Errorf("--hour must be between 0 and 23")
		}
		r.Schedule.Hour = &o.hour
	}
	if changed("notify") {
		r.Notifications.Enabled = o.notify
	}
	if changed("notify-min-score") {
		r.Notifications.MinScore = o.notifyMinScore
	}

	for key, raw := range o.weights {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid weight for %s: %q", key, raw)
		}
		if v < 0 {
			return fmt.Errorf("weight for %s must not be negative", key)
		}
		if err := r.Weights.Set(radar.SignalKey(key), v); err != nil {
			return err
		}
	}

	return nil
}

func clearFilter(f *radar.Filters, name string) error {
	switch strings.TrimSpace(name) {
	case "verified-only":
		f.VerifiedOnly = false
	case "min-spent":
		f.MinSpent = nil
	case "min-hire-rate":
		f.MinHireRate = nil
	case "max-proposals":
		f.MaxProposals = nil
	case "max-age-hours":
		f.MaxAgeHours = nil
	case "expertise":
		f.ExpertiseLevels = nil
	case "countries":
		f.CountriesInclude = nil
	case "exclude-countries":
		f.CountriesExclude = nil
	case "tags":
		f.IncludeTags = nil
	case "exclude-tags":
		f.ExcludeTags = nil
	case "min-budget":
		f.MinBudget = nil
	case "hourly-min":
		f.HourlyMin = nil
	case "hourly-max":
		f.HourlyMax = nil
	case "hide-applied":
		f.HideApplied = false
	case "min-score":
		f.MinScore = nil
	default:
		return fmt.Errorf("unknown filter %q", name)
	}
	return nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
