package history

import "time"

// Status is the outcome of a generation run.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Run is one recorded report generation.
type Run struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"` // input file, or "api"
	Output     string    `json:"output"`
	Profile    string    `json:"profile"`
	Status     Status    `json:"status"`
	Candidates int       `json:"candidates"`
	FrontPages int       `json:"front_pages"`
	BodyPages  int       `json:"body_pages"`
	TotalPages int       `json:"total_pages"`
	SizeBytes  int64     `json:"size_bytes"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Duration returns how long the run took.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Summary aggregates the recorded runs.
type Summary struct {
	Succeeded int
	Failed    int
	Pages     int
	Bytes     int64
}
