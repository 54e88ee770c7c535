package radar

import (
	"encoding/json"
	"fmt"
	"time"
)

// Experience is the client's requested experience tier
type Experience string

const (
	ExperienceEntry        Experience = "Entry"
	ExperienceIntermediate Experience = "Intermediate"
	ExperienceExpert       Experience = "Expert"
)

// Budget is either a FixedBudget or an HourlyBudget. A nil Budget means the
// posting did not state one.
type Budget interface {
	budgetType() string
}

// FixedBudget is a fixed-price budget
type FixedBudget struct {
	Amount float64
}

// HourlyBudget is an hourly rate range
type HourlyBudget struct {
	Min float64
	Max float64
}

func (FixedBudget) budgetType() string  { return "fixed" }
func (HourlyBudget) budgetType() string { return "hourly" }

// BudgetType returns "fixed", "hourly" or "" for a nil budget
func BudgetType(b Budget) string {
	if b == nil {
		return ""
	}
	return b.budgetType()
}

// Job is a single job posting
type Job struct {
	ID                string      `json:"id"`
	Title             string      `json:"title"`
	URL               string      `json:"url"`
	CreatedAt         time.Time   `json:"created_at"`
	Proposals         *int        `json:"proposals"`
	IsPaymentVerified bool        `json:"is_payment_verified"`
	TotalSpent        *float64    `json:"total_spent"`
	HireRate          *float64    `json:"hire_rate"`
	Experience        *Experience `json:"experience"`
	Country           *string     `json:"country"`
	Budget            Budget      `json:"-"`
	NormalizedStack   []string    `json:"normalized_stack"`
}

// AgeHours returns the job's age in hours relative to now
func (j *Job) AgeHours(now time.Time) float64 {
	return now.Sub(j.CreatedAt).Hours()
}

// budgetJSON is the persisted shape of a Budget
type budgetJSON struct {
	Type   string   `json:"type"`
	Amount *float64 `json:"amount,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
}

type jobAlias Job

type jobJSON struct {
	jobAlias
	Budget *budgetJSON `json:"budget"`
}

// MarshalJSON encodes the budget as a tagged object
func (j Job) MarshalJSON() ([]byte, error) {
	out := jobJSON{jobAlias: jobAlias(j)}
	switch b := j.Budget.(type) {
	case FixedBudget:
		out.Budget = &budgetJSON{Type: "fixed", Amount: &b.Amount}
	case HourlyBudget:
		out.Budget = &budgetJSON{Type: "hourly", Min: &b.Min, Max: &b.Max}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the tagged budget object
func (j *Job) UnmarshalJSON(data []byte) error {
	var in jobJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*j = Job(in.jobAlias)

	budget, err := decodeBudget(in.Budget)
	if err != nil {
		return fmt.Errorf("job %s: %w", j.ID, err)
	}
	j.Budget = budget
	return nil
}

func decodeBudget(b *budgetJSON) (Budget, error) {
	if b == nil {
		return nil, nil
	}
	switch b.Type {
	case "fixed":
		return FixedBudget{Amount: deref(b.Amount)}, nil
	case "hourly":
		return HourlyBudget{Min: deref(b.Min), Max: deref(b.Max)}, nil
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown budget type %q", b.Type)
	}
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
