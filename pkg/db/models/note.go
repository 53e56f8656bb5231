package models

import "time"

// Note is one per-job annotation in the production notes log.
type Note struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	JobNumber string    `gorm:"type:text;not null;index:idx_production_notes_job_number"`
	NoteText  string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	CreatedBy string    `gorm:"type:text;not null;default:User"`
}

// TableName keeps the table shared with the legacy dashboard database.
func (Note) TableName() string {
	return "production_notes"
}
