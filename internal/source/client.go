// Package source fetches job postings from the listings API.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/vijay-prabhu/jobradar/internal/config"
	"github.com/vijay-prabhu/jobradar/internal/radar"
)

// ProgressCallback is called after each fetched page
type ProgressCallback func(page, fetched int)

// Client is an HTTP client for the job listings API
type Client struct {
	http     *resty.Client
	jobsPath string
	pageSize int
	maxPages int
}

// New creates a client. When client credentials are configured requests are
// authenticated with an OAuth2 client-credentials token.
func New(ctx context.Context, cfg config.SourceConfig) *Client {
	var rc *resty.Client
	if cfg.UsesOAuth() {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
		}
		rc = resty.NewWithClient(cc.Client(ctx))
	} else {
		rc = resty.New()
	}

	rc.SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout()).
		SetHeader("Accept", "application/json").
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &Client{
		http:     rc,
		jobsPath: cfg.JobsPath,
		pageSize: cfg.PageSize,
		maxPages: cfg.MaxPages,
	}
}

// FetchOptions narrows a fetch
type FetchOptions struct {
	Since    *time.Time
	Query    string
	Progress ProgressCallback
}

// Fetch pages through the listings endpoint until the cursor runs out or the
// page limit is reached.
func (c *Client) Fetch(ctx context.Context, opts FetchOptions) ([]radar.Job, error) {
	var all []radar.Job
	cursor := ""

	for page := 1; page <= c.maxPages; page++ {
		params := map[string]string{
			"limit": strconv.Itoa(c.pageSize),
		}
		if cursor != "" {
			params["cursor"] = cursor
		}
		if opts.Since != nil {
			params["since"] = opts.Since.UTC().Format(time.RFC3339)
		}
		if opts.Query != "" {
			params["q"] = opts.Query
		}

		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(params).
			Get(c.jobsPath)
		if err != nil {
			return nil, fmt.Errorf("listings request failed: %w", err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("listings request failed (status %d): %s", resp.StatusCode(), resp.String())
		}

		jobs, err := ParseJobs(resp.Body())
		if err != nil {
			return nil, fmt.Errorf("failed to parse page %d: %w", page, err)
		}
		all = append(all, jobs...)

		slog.Debug("fetched listings page", "page", page, "jobs", len(jobs))
		if opts.Progress != nil {
			opts.Progress(page, len(all))
		}

		cursor = gjson.GetBytes(resp.Body(), "next_cursor").String()
		if cursor == "" || len(jobs) == 0 {
			break
		}
	}

	return all, nil
}
