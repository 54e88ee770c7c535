package database

import (
	"context"
	"time"

	"github.com/vijay-prabhu/jobradar/internal/radar"
)

// LoadApplications returns every tracked application
func (db *DB) LoadApplications(ctx context.Context) ([]radar.Application, error) {
	return loadState(ctx, db, KeyApplications, []radar.Application{})
}

// SaveApplications replaces the stored application list
func (db *DB) SaveApplications(ctx context.Context, apps []radar.Application) error {
	return saveState(ctx, db, KeyApplications, apps)
}

// UpsertApplication stores the application, replacing any record for the
// same job
func (db *DB) UpsertApplication(ctx context.Context, app *radar.Application) error {
	if app.Status == "" {
		app.Status = radar.AppNone
	}
	app.UpdatedAt = time.Now()

	return updateState(ctx, db, KeyApplications, []radar.Application{}, func(apps []radar.Application) ([]radar.Application, error) {
		for i := range apps {
			if apps[i].JobID == app.JobID {
				apps[i] = *app
				return apps, nil
			}
		}
		return append(apps, *app), nil
	})
}

// GetApplication returns the application for a job, defaulting to status none
func (db *DB) GetApplication(ctx context.Context, jobID string) (radar.Application, error) {
	apps, err := db.LoadApplications(ctx)
	if err != nil {
		return radar.Application{}, err
	}

	for _, a := range apps {
		if a.JobID == jobID {
			return a, nil
		}
	}
	return radar.Application{JobID: jobID, Status: radar.AppNone}, nil
}
