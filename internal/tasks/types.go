package tasks

import "time"

// Task Types
const (
	// TaskTypeAccessRequestNotify tells reviewers a request is waiting.
	TaskTypeAccessRequestNotify = "access_request:notify"
	// TaskTypeDownloadsDigest summarizes the last day of download activity.
	TaskTypeDownloadsDigest = "downloads:digest"
)

// Task Queues
const (
	QueueCritical = "critical" // reviewer notifications
	QueueDefault  = "default"
	QueueLow      = "low" // digests and cleanup
)

// Task Timeouts
const (
	TimeoutShort  = 1 * time.Minute
	TimeoutMedium = 5 * time.Minute
)

// Task Retry Settings
const (
	RetryMax     = 5
	RetryDefault = 3
)
