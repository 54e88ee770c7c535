package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/vijay-prabhu/jobradar/internal/analytics"
	"github.com/vijay-prabhu/jobradar/internal/database"
	"github.com/vijay-prabhu/jobradar/internal/output"
	"github.com/vijay-prabhu/jobradar/internal/radar"
	"github.com/vijay-prabhu/jobradar/internal/runner"
	"github.com/vijay-prabhu/jobradar/internal/search"
)

const defaultLimit = 20

func (s *Server) registerHandlers() {
	s.handlers["list_radars"] = s.handleListRadars
	s.handlers["run_radar"] = s.handleRunRadar
	s.handlers["get_matches"] = s.handleGetMatches
	s.handlers["search_jobs"] = s.handleSearchJobs
	s.handlers["set_application"] = s.handleSetApplication
	s.handlers["get_stats"] = s.handleGetStats
}

func decodeParams(params json.RawMessage, v interface{}) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}

func limitOr(limit int) int {
	if limit > 0 {
		return limit
	}
	return defaultLimit
}

func (s *Server) handleListRadars(ctx context.Context, _ json.RawMessage) (interface{}, error) {
	radars, err := s.db.LoadRadars(ctx)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return radars, nil
}

type runRadarParams struct {
	Radar string `json:"radar"`
	Force bool   `json:"force"`
	Limit int    `json:"limit"`
}

type runRadarResult struct {
	Radar          string            `json:"radar"`
	JobsConsidered int               `json:"jobs_considered"`
	TotalMatches   int               `json:"total_matches"`
	Skipped        string            `json:"skipped,omitempty"`
	Notified       bool              `json:"notified"`
	Warnings       []string          `json:"warnings,omitempty"`
	Matches        []output.MatchRow `json:"matches"`
}

func (s *Server) handleRunRadar(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p runRadarParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if p.Radar == "" {
		return nil, fmt.Errorf("radar is required")
	}

	res, err := s.runner.RunRadar(ctx, p.Radar, runner.RunOptions{Force: p.Force})
	if err != nil {
		return nil, err
	}

	rows, err := s.matchRows(ctx, lo.Slice(res.Matches, 0, limitOr(p.Limit)))
	if err != nil {
		return nil, err
	}

	return runRadarResult{
		Radar:          res.RadarName,
		JobsConsidered: res.JobsConsidered,
		TotalMatches:   len(res.Matches),
		Skipped:        res.SkipReason,
		Notified:       res.Notified,
		Warnings:       res.Errors,
		Matches:        rows,
	}, nil
}

type getMatchesParams struct {
	Radar    string `json:"radar"`
	MinScore int    `json:"min_score"`
	Limit    int    `json:"limit"`
}

type matchesResult struct {
	Radar   string            `json:"radar"`
	LastRun *time.Time        `json:"last_run,omitempty"`
	Matches []output.MatchRow `json:"matches"`
}

func (s *Server) handleGetMatches(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p getMatchesParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if p.Radar == "" {
		return nil, fmt.Errorf("radar is required")
	}

	r, err := s.db.GetRadar(ctx, p.Radar)
	if err != nil {
		return nil, err
	}

	matches, err := s.db.MatchesFor(ctx, r.ID)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	matches = lo.Filter(matches, func(m radar.Match, _ int) bool { return m.Score >= p.MinScore })

	rows, err := s.matchRows(ctx, lo.Slice(matches, 0, limitOr(p.Limit)))
	if err != nil {
		return nil, err
	}

	return matchesResult{Radar: r.Name, LastRun: r.LastRunAt, Matches: rows}, nil
}

func (s *Server) matchRows(ctx context.Context, matches []radar.Match) ([]output.MatchRow, error) {
	ids := lo.Map(matches, func(m radar.Match, _ int) string { return m.JobID })
	jobs, err := s.db.JobsByID(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	apps, err := s.db.LoadApplications(ctx)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return output.BuildMatchRows(matches, jobs, radar.IndexApplications(apps)), nil
}

type searchJobsParams struct {
	Query      string `json:"query"`
	Country    string `json:"country"`
	SinceHours int    `json:"since_hours"`
	Limit      int    `json:"limit"`
}

type searchJobsResult struct {
	Query string      `json:"query,omitempty"`
	Total int         `json:"total"`
	Jobs  []radar.Job `json:"jobs"`
}

func (s *Server) handleSearchJobs(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p searchJobsParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	opts := database.JobListOptions{}
	if p.Country != "" {
		opts.Country = &p.Country
	}
	if p.SinceHours > 0 {
		since := s.now().Add(-time.Duration(p.SinceHours) * time.Hour)
		opts.Since = &since
	}

	jobs, err := s.db.ListJobs(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	q := search.Parse(p.Query)
	jobs = q.Filter(jobs)

	return searchJobsResult{
		Query: q.String(),
		Total: len(jobs),
		Jobs:  lo.Slice(jobs, 0, limitOr(p.Limit)),
	}, nil
}

type setApplicationParams struct {
	JobID        string `json:"job_id"`
	Status       string `json:"status"`
	Note         string `json:"note"`
	ProposalLink string `json:"proposal_link"`
}

func (s *Server) handleSetApplication(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p setApplicationParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if p.JobID == "" {
		return nil, fmt.Errorf("job_id is required")
	}

	status, err := radar.ParseApplicationStatus(strings.ToLower(p.Status))
	if err != nil {
		return nil, err
	}

	job, err := s.db.GetJob(ctx, p.JobID)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if job == nil {
		return nil, fmt.Errorf("job not found: %s", p.JobID)
	}

	app := &radar.Application{
		JobID:        p.JobID,
		Status:       status,
		Note:         p.Note,
		ProposalLink: p.ProposalLink,
	}
	if err := s.db.UpsertApplication(ctx, app); err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return app, nil
}

type getStatsParams struct {
	SinceDays int `json:"since_days"`
}

func (s *Server) handleGetStats(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p getStatsParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	now := s.now()
	opts := database.JobListOptions{}
	if p.SinceDays > 0 {
		since := now.AddDate(0, 0, -p.SinceDays)
		opts.Since = &since
	}

	jobs, err := s.db.ListJobs(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return analytics.Summarize(jobs, now, analytics.Options{}), nil
}

// Resource handlers

func (s *Server) handleReadResource(ctx context.Context, uri string) (string, error) {
	switch uri {
	case ResourceRadars:
		return s.getResourceRadars(ctx)
	case ResourceTopMatches:
		return s.getResourceTopMatches(ctx)
	default:
		return "", fmt.Errorf("unknown resource: %s", uri)
	}
}

func (s *Server) getResourceRadars(ctx context.Context) (string, error) {
	radars, err := s.db.LoadRadars(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Radars\n======\n\n")
	if err := output.TableTo(&b, radars); err != nil {
		return "", err
	}
	return b.String(), nil
}

const topMatchesLimit = 10

func (s *Server) getResourceTopMatches(ctx context.Context) (string, error) {
	all, err := s.db.LoadMatches(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Top Matches\n===========\n\n")

	// A job matched by several radars is listed once, with its best score.
	best := make(map[string]radar.Match)
	for _, matches := range all {
		for _, m := range matches {
			if cur, ok := best[m.JobID]; !ok || m.Score > cur.Score {
				best[m.JobID] = m
			}
		}
	}
	if len(best) == 0 {
		b.WriteString("No matches yet. Run 'jobradar radar run --all' first.\n")
		return b.String(), nil
	}

	top := lo.Values(best)
	sort.Slice(top, func(i, j int) bool {
		if top[i].Score != top[j].Score {
			return top[i].Score > top[j].Score
		}
		return top[i].JobID < top[j].JobID
	})

	rows, err := s.matchRows(ctx, lo.Slice(top, 0, topMatchesLimit))
	if err != nil {
		return "", err
	}
	if err := output.TableTo(&b, rows); err != nil {
		return "", err
	}
	return b.String(), nil
}
