package tasks

import "time"

// Task type names registered on the asynq mux.
const (
	// TaskTypePublishScan promotes scheduled posts whose publish time has
	// arrived.
	TaskTypePublishScan = "content:publish_scan"
	// TaskTypeMediaCleanup removes media rows left behind by failed uploads.
	TaskTypeMediaCleanup = "media:cleanup"
)

// Queue names, weighted in the server config so publish scans never wait
// behind cleanup work.
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// Per-task execution deadlines.
const (
	TimeoutShort  = 1 * time.Minute
	TimeoutMedium = 5 * time.Minute
)
