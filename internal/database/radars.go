package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vijay-prabhu/jobradar/internal/radar"
)

// SeedRadars is returned when no radars have been saved yet
func SeedRadars() []radar.Radar {
	maxAge := 72.0
	maxProposals := 15
	return []radar.Radar{
		{
			ID:       "starter",
			Name:     "Fresh verified gigs",
			Status:   radar.StatusActive,
			Schedule: radar.Schedule{Frequency: radar.FrequencyManual},
			Filters: radar.Filters{
				VerifiedOnly: true,
				MaxAgeHours:  &maxAge,
				MaxProposals: &maxProposals,
				HideApplied:  true,
			},
			Weights: radar.DefaultWeights(),
		},
	}
}

// LoadRadars returns all saved radars, or the seed radars when none are stored
func (db *DB) LoadRadars(ctx context.Context) ([]radar.Radar, error) {
	return loadState(ctx, db, KeyRadars, SeedRadars())
}

// SaveRadars replaces the stored radar list
func (db *DB) SaveRadars(ctx context.Context, radars []radar.Radar) error {
	return saveState(ctx, db, KeyRadars, radars)
}

// GetRadar finds a radar by ID or case-insensitive name
func (db *DB) GetRadar(ctx context.Context, ref string) (*radar.Radar, error) {
	radars, err := db.LoadRadars(ctx)
	if err != nil {
		return nil, err
	}

	idx := findRadar(radars, ref)
	if idx < 0 {
		return nil, fmt.Errorf("radar %q: %w", ref, ErrNotFound)
	}
	return &radars[idx], nil
}

// CreateRadar assigns an ID and timestamps and appends the radar
func (db *DB) CreateRadar(ctx context.Context, r *radar.Radar) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Status == "" {
		r.Status = radar.StatusActive
	}
	if r.Schedule.Frequency == "" {
		r.Schedule.Frequency = radar.FrequencyManual
	}
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt

	return updateState(ctx, db, KeyRadars, SeedRadars(), func(radars []radar.Radar) ([]radar.Radar, error) {
		if findRadar(radars, r.ID) >= 0 {
			return nil, fmt.Errorf("radar %s already exists", r.ID)
		}
		return append(radars, *r), nil
	})
}

// UpdateRadar replaces the stored radar with the same ID
func (db *DB) UpdateRadar(ctx context.Context, r *radar.Radar) error {
	r.UpdatedAt = time.Now()
	return updateState(ctx, db, KeyRadars, SeedRadars(), func(radars []radar.Radar) ([]radar.Radar, error) {
		idx := findRadar(radars, r.ID)
		if idx < 0 || radars[idx].ID != r.ID {
			return nil, fmt.Errorf("radar %s: %w", r.ID, ErrNotFound)
		}
		radars[idx] = *r
		return radars, nil
	})
}

// RecordRun stores the time and match count of a radar's latest run,
// leaving the rest of the stored radar untouched
func (db *DB) RecordRun(ctx context.Context, id string, at time.Time, count int) error {
	return updateState(ctx, db, KeyRadars, SeedRadars(), func(radars []radar.Radar) ([]radar.Radar, error) {
		idx := findRadar(radars, id)
		if idx < 0 || radars[idx].ID != id {
			return nil, fmt.Errorf("radar %s: %w", id, ErrNotFound)
		}
		radars[idx].LastRunAt = &at
		radars[idx].LastRunCount = count
		return radars, nil
	})
}

// DeleteRadar removes a radar and its stored matches
func (db *DB) DeleteRadar(ctx context.Context, id string) error {
	err := updateState(ctx, db, KeyRadars, SeedRadars(), func(radars []radar.Radar) ([]radar.Radar, error) {
		idx := findRadar(radars, id)
		if idx < 0 || radars[idx].ID != id {
			return nil, fmt.Errorf("radar %s: %w", id, ErrNotFound)
		}
		return append(radars[:idx], radars[idx+1:]...), nil
	})
	if err != nil {
		return err
	}

	return db.ReplaceMatches(ctx, id, nil)
}

// findRadar returns the index of the radar with the given ID, falling back to
// a case-insensitive name match. Returns -1 when nothing matches.
func findRadar(radars []radar.Radar, ref string) int {
	for i := range radars {
		if radars[i].ID == ref {
			return i
		}
	}
	for i := range radars {
		if strings.EqualFold(radars[i].Name, ref) {
			return i
		}
	}
	return -1
}
