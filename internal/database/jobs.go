package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vijay-prabhu/jobradar/internal/radar"
)

// UpsertJobs inserts new jobs and replaces existing ones by id
func (db *DB) UpsertJobs(ctx context.Context, jobs []radar.Job) (*ImportResult, error) {
	result := &ImportResult{}
	now := time.Now()

	err := db.Transaction(ctx, func(tx *sql.Tx) error {
		for i := range jobs {
			job := &jobs[i]
			if job.ID == "" {
				job.ID = uuid.New().String()
			}

			payload, err := json.Marshal(job)
			if err != nil {
				return fmt.Errorf("failed to encode job %s: %w", job.ID, err)
			}

			var exists int
			if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs WHERE id = ?`, job.ID).Scan(&exists); err != nil {
				return err
			}

			if _, err := tx.ExecContext(ctx, `
				INSERT INTO jobs (id, title, country, created_at, payload, imported_at)
				VALUES (?, ?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET
					title = excluded.title,
					country = excluded.country,
					created_at = excluded.created_at,
					payload = excluded.payload,
					imported_at = excluded.imported_at
			`,
				job.ID, job.Title, NullString(job.Country), job.CreatedAt.UTC(), string(payload), now,
			); err != nil {
				return fmt.Errorf("failed to upsert job %s: %w", job.ID, err)
			}

			if exists > 0 {
				result.Updated++
			} else {
				result.Inserted++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetJob retrieves a job by ID
func (db *DB) GetJob(ctx context.Context, id string) (*radar.Job, error) {
	var payload string
	err := db.QueryRowContext(ctx, `SELECT payload FROM jobs WHERE id = ?`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	job := &radar.Job{}
	if err := json.Unmarshal([]byte(payload), job); err != nil {
		return nil, fmt.Errorf("failed to decode job %s: %w", id, err)
	}
	return job, nil
}

// ListJobs retrieves jobs newest first
func (db *DB) ListJobs(ctx context.Context, opts JobListOptions) ([]radar.Job, error) {
	query := `SELECT id, payload FROM jobs WHERE 1=1`
	args := []interface{}{}

	if opts.Since != nil {
		query += " AND created_at >= ?"
		args = append(args, opts.Since.UTC())
	}
	if opts.Country != nil {
		query += " AND LOWER(country) = LOWER(?)"
		args = append(args, strings.TrimSpace(*opts.Country))
	}

	query += " ORDER BY created_at DESC, id ASC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
		if opts.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", opts.Offset)
		}
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []radar.Job
	for rows.Next() {
		var id, payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, err
		}

		var job radar.Job
		if err := json.Unmarshal([]byte(payload), &job); err != nil {
			return nil, fmt.Errorf("failed to decode job %s: %w", id, err)
		}
		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}

// CountJobs returns the number of stored jobs
func (db *DB) CountJobs(ctx context.Context) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&n)
	return n, err
}

// JobsByID returns the stored jobs for the given IDs. Unknown IDs are skipped.
func (db *DB) JobsByID(ctx context.Context, ids []string) (map[string]radar.Job, error) {
	jobs := make(map[string]radar.Job, len(ids))
	for _, id := range ids {
		if _, seen := jobs[id]; seen {
			continue
		}
		job, err := db.GetJob(ctx, id)
		if err != nil {
			return nil, err
		}
		if job != nil {
			jobs[id] = *job
		}
	}
	return jobs, nil
}
