package scheduler

import "errors"

var (
	// ErrInvalidSchedule is returned when a cron expression cannot be parsed
	ErrInvalidSchedule = errors.New("invalid cron schedule")

	// ErrDuplicateJob is returned when a job name is registered twice
	ErrDuplicateJob = errors.New("job already registered")

	// ErrSchedulerRunning is returned when registering after Start
	ErrSchedulerRunning = errors.New("scheduler is already running")
)
