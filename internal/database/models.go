package database

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a radar lookup matches nothing
var ErrNotFound = errors.New("not found")

// State keys for the key/value table
const (
	KeyRadars       = "radars"
	KeyApplications = "applications"
	KeyMatches      = "radar_matches"
)

// JobListOptions contains options for listing jobs
type JobListOptions struct {
	Since   *time.Time
	Country *string
	Limit   int
	Offset  int
}

// ImportResult summarises a job import
type ImportResult struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
}

// NullString is a helper to convert *string to sql.NullString
func NullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// StringPtr converts sql.NullString to *string
func StringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
