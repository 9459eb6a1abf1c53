package constants

// Refresh events recorded in refresh history
const (
	RefreshEventSchedules = "schedule_refresh"
	RefreshEventWarmup    = "warmup"
)
