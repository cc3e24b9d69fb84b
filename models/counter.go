// models/counter.go
package models

import "time"

// Counter is a named monotonically increasing sequence, advanced only through
// a single conditional-update call. Replaces in-process shared counters.
type Counter struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null;uniqueIndex;size:100"`
	Value     int64     `json:"value" gorm:"not null;default:0"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Counter) TableName() string {
	return "counters"
}
