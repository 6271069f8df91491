package batch

import "time"

// Phase names one of the two batch jobs.
type Phase string

const (
	PhaseFetch Phase = "fetch"
	PhasePatch Phase = "patch"
)

// Phases lists every phase in execution order.
func Phases() []Phase {
	return []Phase{PhaseFetch, PhasePatch}
}

// Status is the per-entry result of a phase.
type Status string

const (
	StatusSkipped    Status = "skipped"
	StatusDownloaded Status = "downloaded"
	StatusPatched    Status = "patched"
	StatusWarned     Status = "warned"
	StatusFailed     Status = "failed"
)

// Statuses lists every status in report order.
func Statuses() []Status {
	return []Status{StatusDownloaded, StatusPatched, StatusSkipped, StatusWarned, StatusFailed}
}

// Outcome describes what happened to one catalog entry in one phase.
type Outcome struct {
	PageID   string
	Phase    Phase
	Status   Status
	Detail   string
	Err      error
	Path     string
	Bytes    int64
	Duration time.Duration
	// ImportAdded reports whether the patch phase inserted the dependency line,
	// which can happen even when the anchor was not found.
	ImportAdded bool
}

// Changed reports whether the outcome left a mutation on disk.
func (o Outcome) Changed() bool {
	switch o.Status {
	case StatusDownloaded, StatusPatched:
		return true
	case StatusWarned:
		return o.ImportAdded
	default:
		return false
	}
}

// Message returns the error text when present, falling back to the detail.
func (o Outcome) Message() string {
	if o.Err != nil {
		return o.Err.Error()
	}
	return o.Detail
}

// Summary counts outcomes per phase and status.
type Summary struct {
	Counts map[Phase]map[Status]int
	Total  int
}

// NewSummary returns an empty summary.
func NewSummary() *Summary {
	return &Summary{Counts: make(map[Phase]map[Status]int)}
}

// Add records an outcome.
func (s *Summary) Add(o Outcome) {
	s.AddCount(o.Phase, o.Status, 1)
}

// AddCount records n outcomes of the same phase and status.
func (s *Summary) AddCount(phase Phase, status Status, n int) {
	if n <= 0 {
		return
	}
	if s.Counts == nil {
		s.Counts = make(map[Phase]map[Status]int)
	}
	byStatus, ok := s.Counts[phase]
	if !ok {
		byStatus = make(map[Status]int)
		s.Counts[phase] = byStatus
	}
	byStatus[status] += n
	s.Total += n
}

// Count returns the number of outcomes recorded for phase and status.
func (s *Summary) Count(phase Phase, status Status) int {
	if s == nil || s.Counts == nil {
		return 0
	}
	return s.Counts[phase][status]
}

// PhaseTotal returns the number of outcomes recorded for phase.
func (s *Summary) PhaseTotal(phase Phase) int {
	if s == nil || s.Counts == nil {
		return 0
	}
	total := 0
	for _, n := range s.Counts[phase] {
		total += n
	}
	return total
}
