package integration

import (
	"fmt"
	"time"
)

// SyncJob names a sync run
type SyncJob string

const (
	SyncJobOrders    SyncJob = "orders"
	SyncJobInventory SyncJob = "inventory"
)

// IsValid returns true if the job is known
func (j SyncJob) IsValid() bool {
	return j == SyncJobOrders || j == SyncJobInventory
}

// DefaultMaxReportedErrors caps the error list returned to callers
const DefaultMaxReportedErrors = 10

// SyncReport summarises a sync run. Counts are exact even when Errors is capped.
type SyncReport struct {
	Job          SyncJob   `json:"job"`
	SyncedCount  int       `json:"synced_count"`
	ErrorCount   int       `json:"error_count"`
	Errors       []string  `json:"errors"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	maxErrors    int
}

// NewSyncReport starts a report for the job
func NewSyncReport(job SyncJob, maxErrors int, startedAt time.Time) *SyncReport {
	if maxErrors <= 0 {
		maxErrors = DefaultMaxReportedErrors
	}
	return &SyncReport{
		Job:       job,
		Errors:    []string{},
		StartedAt: startedAt,
		maxErrors: maxErrors,
	}
}

// RecordSuccess counts one synced record
func (r *SyncReport) RecordSuccess() {
	r.SyncedCount++
}

// RecordFailure counts one failed record and keeps its message while under the cap
func (r *SyncReport) RecordFailure(ref string, err error) {
	r.ErrorCount++
	if len(r.Errors) < r.maxErrors {
		r.Errors = append(r.Errors, fmt.Sprintf("%s: %v", ref, err))
	}
}

// Finish stamps the end time
func (r *SyncReport) Finish(at time.Time) {
	r.FinishedAt = at
}

// HasErrors reports whether any record failed
func (r *SyncReport) HasErrors() bool {
	return r.ErrorCount > 0
}
