package radar

import (
	"fmt"
	"time"
)

// ApplicationStatus is the user's tracking state for a job
type ApplicationStatus string

const (
	AppNone        ApplicationStatus = "none"
	AppApplied     ApplicationStatus = "applied"
	AppShortlisted ApplicationStatus = "shortlisted"
	AppInterview   ApplicationStatus = "interview"
	AppHired       ApplicationStatus = "hired"
	AppDeclined    ApplicationStatus = "declined"
)

// ParseApplicationStatus converts a raw string to an ApplicationStatus
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	st := ApplicationStatus(s)
	switch st {
	case AppNone, AppApplied, AppShortlisted, AppInterview, AppHired, AppDeclined:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// Application tracks what the user did about a job
type Application struct {
	JobID        string            `json:"job_id"`
	Status       ApplicationStatus `json:"status"`
	Note         string            `json:"note,omitempty"`
	ProposalLink string            `json:"proposal_link,omitempty"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Applications indexes application records by job id
type Applications map[string]Application

// IndexApplications builds an Applications index. Later records win.
func IndexApplications(apps []Application) Applications {
	idx := make(Applications, len(apps))
	for _, a := range apps {
		idx[a.JobID] = a
	}
	return idx
}

// StatusOf returns the job's application status, AppNone when untracked
func (a Applications) StatusOf(jobID string) ApplicationStatus {
	app, ok := a[jobID]
	if !ok || app.Status == "" {
		return AppNone
	}
	return app.Status
}
