package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijay-prabhu/jobradar/internal/radar"
)

var testNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func sampleJobs() []radar.Job {
	return []radar.Job{
		{ID: "1", CreatedAt: testNow.Add(-2 * time.Hour), IsPaymentVerified: true, Proposals: ptr(3),
			Country: ptr("Germany"), Experience: ptr(radar.ExperienceExpert), Budget: radar.HourlyBudget{Min: 40, Max: 60}},
		{ID: "2", CreatedAt: testNow.Add(-30 * time.Hour), IsPaymentVerified: true, Proposals: ptr(8),
			Country: ptr("Germany"), Budget: radar.FixedBudget{Amount: 500}},
		{ID: "3", CreatedAt: testNow.Add(-5 * 24 * time.Hour), Proposals: ptr(15),
			Country: ptr("Canada"), Experience: ptr(radar.ExperienceEntry), Budget: radar.FixedBudget{Amount: 100}},
		{ID: "4", CreatedAt: testNow.Add(-20 * time.Hour), Proposals: ptr(50),
			Budget: radar.HourlyBudget{Min: 10, Max: 20}},
		{ID: "5", CreatedAt: testNow.Add(-40 * 24 * time.Hour), Country: ptr("Poland"),
			Budget: radar.FixedBudget{Amount: 2000}},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleJobs(), testNow, Options{})

	assert.Equal(t, 5, s.TotalJobs)
	assert.InDelta(t, 40.0, s.VerifiedShare, 0.001)
	assert.Equal(t, 2, s.PostedLast24h)

	assert.Equal(t, map[string]int{"Expert": 1, "Entry": 1, "unknown": 3}, s.ByExperience)
	assert.Equal(t, map[string]int{"hourly": 2, "fixed": 3}, s.ByBudgetType)

	require.NotNil(t, s.AvgHourlyMidpoint)
	assert.InDelta(t, 32.5, *s.AvgHourlyMidpoint, 0.001)
	require.NotNil(t, s.MedianFixedBudget)
	assert.InDelta(t, 500.0, *s.MedianFixedBudget, 0.001)

	assert.Equal(t, map[string]int{
		BucketFew: 1, BucketSome: 1, BucketMany: 1, BucketCrowded: 1, BucketUnknown: 1,
	}, s.ProposalBuckets)

	require.NotEmpty(t, s.ByCountry)
	assert.Equal(t, CountryStat{Country: "Germany", Count: 2}, s.ByCountry[0])

	require.Len(t, s.RecentActivity, 14)
	last := s.RecentActivity[len(s.RecentActivity)-1]
	assert.Equal(t, "2026-10-15", last.Date)
	assert.Equal(t, 1, last.Count)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, testNow, Options{})

	assert.Equal(t, 0, s.TotalJobs)
	assert.Zero(t, s.VerifiedShare)
	assert.Nil(t, s.AvgHourlyMidpoint)
	assert.Nil(t, s.MedianFixedBudget)
	assert.Empty(t, s.ByCountry)
	assert.Len(t, s.ProposalBuckets, len(ProposalBuckets))
}

func TestSummarize_TopCountries(t *testing.T) {
	s := Summarize(sampleJobs(), testNow, Options{TopCountries: 2})

	require.Len(t, s.ByCountry, 2)
	assert.Equal(t, "Germany", s.ByCountry[0].Country)
	// Canada, Poland and Unknown tie at one; names break the tie
	assert.Equal(t, "Canada", s.ByCountry[1].Country)
}

func TestMedian(t *testing.T) {
	tests := []struct {
		values []float64
		want   float64
	}{
		{[]float64{5}, 5},
		{[]float64{3, 1, 2}, 2},
		{[]float64{4, 1, 3, 2}, 2.5},
	}

	for _, tt := range tests {
		if got := median(tt.values); got != tt.want {
			t.Errorf("median(%v) = %v, want %v", tt.values, got, tt.want)
		}
	}
}
