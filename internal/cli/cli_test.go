package cli

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobradar/internal/config"
	"github.com/vijay-prabhu/jobradar/internal/notify"
	"github.com/vijay-prabhu/jobradar/internal/radar"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"12h", 12 * time.Hour, false},
		{"7d", 7 * 24 * time.Hour, false},
		{"2w", 14 * 24 * time.Hour, false},
		{"1m", 30 * 24 * time.Hour, false},
		{"d", 0, true},
		{"xd", 0, true},
		{"-1d", 0, true},
		{"5y", 0, true},
	}

	for _, tt := range tests {
		got, err := parseDuration(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseDuration(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseDuration(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestFormatETA(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, ""},
		{45 * time.Second, "45s"},
		{2 * time.Minute, "2m"},
		{90 * time.Second, "1m30s"},
		{2*time.Hour + 5*time.Minute, "2h5m"},
	}

	for _, tt := range tests {
		if got := FormatETA(tt.d); got != tt.want {
			t.Errorf("FormatETA(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestScoreColor(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{95, ColorGreen},
		{80, ColorGreen},
		{60, ColorYellow},
		{45, ColorWhite},
		{10, ColorGray},
	}

	for _, tt := range tests {
		if got := ScoreColor(tt.score); got != tt.want {
			t.Errorf("ScoreColor(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

// parseRadarFlags registers the radar flags on a fresh command and parses args
func parseRadarFlags(t *testing.T, args ...string) (*cobra.Command, *radarOptions) {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	opts := &radarOptions{}
	addRadarFlags(cmd, opts)
	if err := cmd.Flags().Parse(args); err != nil {
		t.Fatalf("Parse(%v) failed: %v", args, err)
	}
	return cmd, opts
}

func TestRadarOptions_Apply(t *testing.T) {
	cmd, opts := parseRadarFlags(t,
		"--verified-only",
		"--max-proposals", "10",
		"--expertise", "senior,Entry",
		"--tags", " Go ,REACT,go",
		"--countries", "Germany, Poland",
		"--hourly-min", "40",
		"--schedule", "Daily",
		"--hour", "7",
		"--notify",
		"--notify-min-score", "75",
		"--weight", "geo=0,budget=2.5",
	)

	r := radar.Radar{Weights: radar.DefaultWeights()}
	if err := opts.apply(cmd, &r); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	f := r.Filters
	if !f.VerifiedOnly {
		t.Error("expected VerifiedOnly")
	}
	if f.MaxProposals == nil || *f.MaxProposals != 10 {
		t.Errorf("MaxProposals = %v, want 10", f.MaxProposals)
	}
	if len(f.ExpertiseLevels) != 2 || f.ExpertiseLevels[0] != radar.ExperienceExpert || f.ExpertiseLevels[1] != radar.ExperienceEntry {
		t.Errorf("ExpertiseLevels = %v", f.ExpertiseLevels)
	}
	if len(f.IncludeTags) != 2 || f.IncludeTags[0] != "go" || f.IncludeTags[1] != "react" {
		t.Errorf("IncludeTags = %v, want [go react]", f.IncludeTags)
	}
	if len(f.CountriesInclude) != 2 || f.CountriesInclude[1] != "Poland" {
		t.Errorf("CountriesInclude = %v", f.CountriesInclude)
	}
	if f.HourlyMin == nil || *f.HourlyMin != 40 || f.HourlyMax != nil {
		t.Errorf("hourly range = %v-%v", f.HourlyMin, f.HourlyMax)
	}

	// Flags not given stay unset
	if f.MinSpent != nil || f.MinScore != nil || f.HideApplied {
		t.Errorf("unexpected filters set: %+v", f)
	}

	if r.Schedule.Frequency != radar.FrequencyDaily || r.Schedule.CronSpec() != "0 7 * * *" {
		t.Errorf("schedule = %+v (%s)", r.Schedule, r.Schedule.CronSpec())
	}
	if !r.Notifications.Enabled || r.Notifications.MinScore != 75 {
		t.Errorf("notifications = %+v", r.Notifications)
	}
	if r.Weights.Geo != 0 || r.Weights.Budget != 2.5 || r.Weights.Freshness != 1 {
		t.Errorf("weights = %+v", r.Weights)
	}
}

func TestRadarOptions_ApplyErrors(t *testing.T) {
	tests := [][]string{
		{"--expertise", "wizard"},
		{"--schedule", "fortnightly"},
		{"--hour", "24"},
		{"--min-score", "101"},
		{"--min-hire-rate", "150"},
		{"--weight", "vibes=1"},
		{"--weight", "geo=-1"},
		{"--weight", "geo=lots"},
		{"--hourly-min", "80", "--hourly-max", "20"},
		{"--clear", "nonsense"},
	}

	for _, args := range tests {
		cmd, opts := parseRadarFlags(t, args...)
		r := radar.Radar{Weights: radar.DefaultWeights()}
		if err := opts.apply(cmd, &r); err == nil {
			t.Errorf("apply(%v) expected error", args)
		}
	}
}

func TestRadarOptions_Clear(t *testing.T) {
	spent := 1000.0
	r := radar.Radar{
		Filters: radar.Filters{
			MinSpent:     &spent,
			IncludeTags:  []string{"go"},
			VerifiedOnly: true,
		},
	}

	cmd, opts := parseRadarFlags(t, "--clear", "min-spent,tags")
	if err := opts.apply(cmd, &r); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	if r.Filters.MinSpent != nil || r.Filters.IncludeTags != nil {
		t.Errorf("filters not cleared: %+v", r.Filters)
	}
	if !r.Filters.VerifiedOnly {
		t.Error("VerifiedOnly should be untouched")
	}
}

func TestBuildNotifier(t *testing.T) {
	cfg := config.Default()
	cfg.Notify.Log = false

	n, closeFn, err := buildNotifier(context.Background(), cfg)
	if err != nil {
		t.Fatalf("buildNotifier failed: %v", err)
	}
	closeFn()
	if _, ok := n.(notify.Nop); !ok {
		t.Errorf("expected Nop notifier, got %T", n)
	}

	cfg.Notify.Log = true
	n, closeFn, err = buildNotifier(context.Background(), cfg)
	if err != nil {
		t.Fatalf("buildNotifier failed: %v", err)
	}
	defer closeFn()
	multi, ok := n.(notify.Multi)
	if !ok || len(multi) != 1 {
		t.Errorf("expected Multi with one notifier, got %T", n)
	}

	cfg.Notify.RedisURL = "not-a-url"
	if _, _, err := buildNotifier(context.Background(), cfg); err == nil {
		t.Error("expected error for invalid redis URL")
	}
}
