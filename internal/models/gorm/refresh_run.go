package gorm

import "time"

// RefreshRun tracks the last completed run of each background refresh event
type RefreshRun struct {
	ID              uint       `gorm:"column:id;primaryKey;autoIncrement"`
	Event           string     `gorm:"column:event;type:varchar(50);not null;uniqueIndex"`
	SchedulesStored int        `gorm:"column:schedules_stored;not null;default:0"`
	FailedAirports  string     `gorm:"column:failed_airports;type:text"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	LastRunAt       *time.Time `gorm:"column:last_run_at"`
}

// TableName specifies the table name for GORM
func (RefreshRun) TableName() string {
	return "refresh_runs"
}
