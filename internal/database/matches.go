package database

import (
	"context"

	"github.com/vijay-prabhu/jobradar/internal/radar"
)

// LoadMatches returns stored matches keyed by radar ID
func (db *DB) LoadMatches(ctx context.Context) (map[string][]radar.Match, error) {
	return loadState(ctx, db, KeyMatches, map[string][]radar.Match{})
}

// SaveMatches replaces all stored matches
func (db *DB) SaveMatches(ctx context.Context, matches map[string][]radar.Match) error {
	return saveState(ctx, db, KeyMatches, matches)
}

// ReplaceMatches supersedes the stored matches for one radar. A nil slice
// removes the radar's entry.
func (db *DB) ReplaceMatches(ctx context.Context, radarID string, matches []radar.Match) error {
	return updateState(ctx, db, KeyMatches, map[string][]radar.Match{}, func(all map[string][]radar.Match) (map[string][]radar.Match, error) {
		if all == nil {
			all = map[string][]radar.Match{}
		}
		if matches == nil {
			delete(all, radarID)
		} else {
			all[radarID] = matches
		}
		return all, nil
	})
}

// MatchesFor returns the stored matches for a radar, best first
func (db *DB) MatchesFor(ctx context.Context, radarID string) ([]radar.Match, error) {
	all, err := db.LoadMatches(ctx)
	if err != nil {
		return nil, err
	}
	return all[radarID], nil
}
