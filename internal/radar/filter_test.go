package radar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int               { return &v }
func floatPtr(v float64) *float64     { return &v }
func strPtr(v string) *string         { return &v }
func expPtr(v Experience) *Experience { return &v }

func baseJob() Job {
	return Job{
		ID:                "job-1",
		Title:             "React dashboard",
		CreatedAt:         testNow.Add(-2 * time.Hour),
		Proposals:         intPtr(4),
		IsPaymentVerified: true,
		TotalSpent:        floatPtr(25000),
		HireRate:          floatPtr(80),
		Experience:        expPtr(ExperienceIntermediate),
		Country:           strPtr("Germany"),
		Budget:            HourlyBudget{Min: 30, Max: 60},
		NormalizedStack:   []string{"react", "typescript"},
	}
}

func TestPassesFilters_EmptyFilters(t *testing.T) {
	assert.True(t, PassesFilters(baseJob(), Filters{}, nil, testNow))
	assert.True(t, PassesFilters(Job{ID: "bare", CreatedAt: testNow}, Filters{}, nil, testNow))
}

func TestPassesFilters_Rules(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Job)
		filter Filters
		want   bool
	}{
		{
			name:   "verified only rejects unverified",
			modify: func(j *Job) { j.IsPaymentVerified = false },
			filter: Filters{VerifiedOnly: true},
			want:   false,
		},
		{
			name:   "min spent treats missing spend as zero",
			modify: func(j *Job) { j.TotalSpent = nil },
			filter: Filters{MinSpent: floatPtr(1)},
			want:   false,
		},
		{
			name:   "min spent passes at threshold",
			filter: Filters{MinSpent: floatPtr(25000)},
			want:   true,
		},
		{
			name:   "min hire rate treats missing rate as zero",
			modify: func(j *Job) { j.HireRate = nil },
			filter: Filters{MinHireRate: floatPtr(10)},
			want:   false,
		},
		{
			name:   "max proposals treats unknown as 99",
			modify: func(j *Job) { j.Proposals = nil },
			filter: Filters{MaxProposals: intPtr(50)},
			want:   false,
		},
		{
			name:   "max proposals unknown passes a 99 ceiling",
			modify: func(j *Job) { j.Proposals = nil },
			filter: Filters{MaxProposals: intPtr(99)},
			want:   true,
		},
		{
			name:   "max age excludes old job",
			modify: func(j *Job) { j.CreatedAt = testNow.Add(-49 * time.Hour) },
			filter: Filters{MaxAgeHours: floatPtr(48)},
			want:   false,
		},
		{
			name:   "expertise mismatch",
			filter: Filters{ExpertiseLevels: []Experience{ExperienceExpert}},
			want:   false,
		},
		{
			name:   "expertise missing is permissive",
			modify: func(j *Job) { j.Experience = nil },
			filter: Filters{ExpertiseLevels: []Experience{ExperienceExpert}},
			want:   true,
		},
		{
			name:   "countries include is case-insensitive",
			filter: Filters{CountriesInclude: []string{"germany"}},
			want:   true,
		},
		{
			name:   "countries include rejects missing country",
			modify: func(j *Job) { j.Country = nil },
			filter: Filters{CountriesInclude: []string{"Germany"}},
			want:   false,
		},
		{
			name:   "countries exclude keeps missing country",
			modify: func(j *Job) { j.Country = nil },
			filter: Filters{CountriesExclude: []string{"Germany"}},
			want:   true,
		},
		{
			name:   "countries exclude rejects listed country",
			filter: Filters{CountriesExclude: []string{"Germany"}},
			want:   false,
		},
		{
			name:   "include tags require all",
			filter: Filters{IncludeTags: []string{"React", "go"}},
			want:   false,
		},
		{
			name:   "include tags compare lower-cased",
			filter: Filters{IncludeTags: []string{"REACT", "TypeScript"}},
			want:   true,
		},
		{
			name:   "exclude tags reject any",
			filter: Filters{ExcludeTags: []string{"wordpress", "typescript"}},
			want:   false,
		},
		{
			name:   "min budget rejects hourly jobs",
			filter: Filters{MinBudget: floatPtr(10)},
			want:   false,
		},
		{
			name:   "min budget passes large fixed job",
			modify: func(j *Job) { j.Budget = FixedBudget{Amount: 500} },
			filter: Filters{MinBudget: floatPtr(500)},
			want:   true,
		},
		{
			name:   "min budget rejects missing budget",
			modify: func(j *Job) { j.Budget = nil },
			filter: Filters{MinBudget: floatPtr(1)},
			want:   false,
		},
		{
			name:   "hourly bounds reject fixed jobs",
			modify: func(j *Job) { j.Budget = FixedBudget{Amount: 5000} },
			filter: Filters{HourlyMin: floatPtr(20)},
			want:   false,
		},
		{
			name:   "hourly overlap passes",
			filter: Filters{HourlyMin: floatPtr(50)},
			want:   true,
		},
		{
			name:   "hourly disjoint range fails",
			filter: Filters{HourlyMin: floatPtr(70), HourlyMax: floatPtr(90)},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := baseJob()
			if tt.modify != nil {
				tt.modify(&job)
			}
			got := PassesFilters(job, tt.filter, nil, testNow)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPassesFilters_HourlyZeroWidthOverlapFails(t *testing.T) {
	job := baseJob()
	job.Budget = HourlyBudget{Min: 50, Max: 60}

	f := Filters{HourlyMin: floatPtr(60), HourlyMax: floatPtr(70)}
	assert.False(t, PassesFilters(job, f, nil, testNow))
}

func TestPassesFilters_HideApplied(t *testing.T) {
	job := baseJob()
	apps := IndexApplications([]Application{{JobID: job.ID, Status: AppApplied}})

	assert.False(t, PassesFilters(job, Filters{HideApplied: true}, apps, testNow))
	assert.True(t, PassesFilters(job, Filters{HideApplied: false}, apps, testNow))
	assert.True(t, PassesFilters(job, Filters{HideApplied: true}, nil, testNow))

	explicitNone := IndexApplications([]Application{{JobID: job.ID, Status: AppNone}})
	assert.True(t, PassesFilters(job, Filters{HideApplied: true}, explicitNone, testNow))
}

func TestPassesFilters_MaxProposalsMonotonic(t *testing.T) {
	var jobs []Job
	for _, p := range []*int{nil, intPtr(0), intPtr(3), intPtr(8), intPtr(15), intPtr(40)} {
		j := baseJob()
		j.Proposals = p
		jobs = append(jobs, j)
	}

	passing := func(limit int) int {
		n := 0
		for _, j := range jobs {
			if PassesFilters(j, Filters{MaxProposals: intPtr(limit)}, nil, testNow) {
				n++
			}
		}
		return n
	}

	prev := passing(120)
	for _, limit := range []int{99, 40, 20, 10, 5, 0} {
		cur := passing(limit)
		assert.LessOrEqual(t, cur, prev, "limit %d", limit)
		prev = cur
	}
}
