package source

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"

	"github.com/vijay-prabhu/jobradar/internal/radar"
)

// ErrInvalidPayload is returned when a payload is not valid JSON
var ErrInvalidPayload = errors.New("invalid job payload")

// tierAliases maps the spellings seen in listing feeds to experience tiers
var tierAliases = map[string]radar.Experience{
	"entry":        radar.ExperienceEntry,
	"entry_level":  radar.ExperienceEntry,
	"entry level":  radar.ExperienceEntry,
	"beginner":     radar.ExperienceEntry,
	"intermediate": radar.ExperienceIntermediate,
	"mid":          radar.ExperienceIntermediate,
	"expert":       radar.ExperienceExpert,
	"senior":       radar.ExperienceExpert,
}

// NormalizeTier maps a raw tier name to an Experience, or nil if unknown
func NormalizeTier(raw string) *radar.Experience {
	tier, ok := tierAliases[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return nil
	}
	return &tier
}

// NormalizeStack lower-cases, trims and de-duplicates tags, keeping the
// first occurrence order.
func NormalizeStack(tags []string) []string {
	cleaned := lo.FilterMap(tags, func(tag string, _ int) (string, bool) {
		t := strings.ToLower(strings.TrimSpace(tag))
		return t, t != ""
	})
	return lo.Uniq(cleaned)
}

// ParseJobs parses a payload holding either a bare array of jobs or an
// object with a "jobs" array.
func ParseJobs(data []byte) ([]radar.Job, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidPayload
	}

	root := gjson.ParseBytes(data)
	list := root
	if !root.IsArray() {
		list = root.Get("jobs")
		if !list.IsArray() {
			return nil, fmt.Errorf("%w: expected an array of jobs", ErrInvalidPayload)
		}
	}

	var jobs []radar.Job
	var parseErr error
	list.ForEach(func(_, item gjson.Result) bool {
		job, err := parseJob(item)
		if err != nil {
			parseErr = err
			return false
		}
		jobs = append(jobs, job)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return jobs, nil
}

// parseJob converts one raw listing into a Job
func parseJob(item gjson.Result) (radar.Job, error) {
	job := radar.Job{
		ID:                firstString(item, "id", "ciphertext"),
		Title:             strings.TrimSpace(item.Get("title").String()),
		URL:               item.Get("url").String(),
		IsPaymentVerified: firstOf(item, "client.payment_verified", "is_payment_verified").Bool(),
		Country:           optString(firstOf(item, "client.country", "country")),
		TotalSpent:        optFloat(firstOf(item, "client.total_spent", "total_spent")),
		HireRate:          optFloat(firstOf(item, "client.hire_rate", "hire_rate")),
		Experience:        NormalizeTier(firstString(item, "tier", "experience")),
	}

	if p := firstOf(item, "proposals", "total_applicants"); p.Exists() && p.Type == gjson.Number {
		n := int(p.Int())
		job.Proposals = &n
	}

	createdAt, err := parseTime(firstOf(item, "created_at", "published_at"))
	if err != nil {
		return radar.Job{}, fmt.Errorf("job %q: %w", job.ID, err)
	}
	job.CreatedAt = createdAt

	budget, err := parseBudget(item.Get("budget"))
	if err != nil {
		return radar.Job{}, fmt.Errorf("job %q: %w", job.ID, err)
	}
	job.Budget = budget

	var tags []string
	for _, t := range firstOf(item, "normalized_stack", "skills", "tags").Array() {
		tags = append(tags, t.String())
	}
	job.NormalizedStack = NormalizeStack(tags)

	return job, nil
}

func parseBudget(b gjson.Result) (radar.Budget, error) {
	if !b.Exists() || b.Type == gjson.Null {
		return nil, nil
	}

	switch strings.ToLower(b.Get("type").String()) {
	case "fixed", "fixed_price":
		return radar.FixedBudget{Amount: b.Get("amount").Float()}, nil
	case "hourly":
		minRate, maxRate := b.Get("min").Float(), b.Get("max").Float()
		if maxRate < minRate {
			minRate, maxRate = maxRate, minRate
		}
		return radar.HourlyBudget{Min: minRate, Max: maxRate}, nil
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown budget type %q", b.Get("type").String())
	}
}

func parseTime(v gjson.Result) (time.Time, error) {
	switch v.Type {
	case gjson.Number:
		return time.Unix(v.Int(), 0).UTC(), nil
	case gjson.String:
		t, err := time.Parse(time.RFC3339, v.String())
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid created_at: %w", err)
		}
		return t.UTC(), nil
	default:
		return time.Time{}, errors.New("missing created_at")
	}
}

// firstOf returns the first path that exists in item
func firstOf(item gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if r := item.Get(p); r.Exists() {
			return r
		}
	}
	return gjson.Result{}
}

func firstString(item gjson.Result, paths ...string) string {
	return firstOf(item, paths...).String()
}

func optString(v gjson.Result) *string {
	if !v.Exists() || v.Type == gjson.Null || strings.TrimSpace(v.String()) == "" {
		return nil
	}
	s := strings.TrimSpace(v.String())
	return &s
}

func optFloat(v gjson.Result) *float64 {
	if !v.Exists() || v.Type != gjson.Number {
		return nil
	}
	f := v.Float()
	return &f
}
