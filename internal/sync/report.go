package sync

import (
	"time"

	"github.com/mreyes/legisync/internal/logging"
)

// Report is the JSON summary every strategy returns. Its shape is the
// de facto monitoring contract for schedulers and admin callers: a run is
// never silently failed just because some bills errored.
type Report struct {
	RunID        string    `json:"runId"`
	Action       string    `json:"action"`
	Session      int       `json:"session,omitempty"`
	Processed    int       `json:"processed"`
	Inserted     int       `json:"inserted"`
	Updated      int       `json:"updated"`
	Errored      int       `json:"errored"`
	DurationMS   int64     `json:"durationMs"`
	Message      string    `json:"message,omitempty"`
	ErrorDetails []string  `json:"errorDetails,omitempty"`
	NextOffset   *int      `json:"nextOffset,omitempty"`
	StartedAt    time.Time `json:"startedAt"`
}

func newReport(action string, startedAt time.Time) *Report {
	return &Report{
		RunID:     logging.NewRunID(),
		Action:    action,
		StartedAt: startedAt,
	}
}

// recordError counts a per-bill failure, keeping at most cap details.
func (r *Report) recordError(cap int, detail string) {
	r.Errored++
	if len(r.ErrorDetails) < cap {
		r.ErrorDetails = append(r.ErrorDetails, detail)
	}
}

// tally folds one bill outcome into the report.
func (r *Report) tally(outcome BillOutcome) {
	r.Processed++
	if outcome.Inserted {
		r.Inserted++
	}
	if outcome.Updated {
		r.Updated++
	}
}
