package gorm

import "time"

// FlightDocument stores the whole flight cache as one JSON payload.
// Version is bumped on every write and guards concurrent updates.
type FlightDocument struct {
	Key       string    `gorm:"column:doc_key;primaryKey;type:varchar(100)"`
	Version   int64     `gorm:"column:version;not null;default:0"`
	Payload   string    `gorm:"column:payload;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (FlightDocument) TableName() string {
	return "flight_documents"
}
