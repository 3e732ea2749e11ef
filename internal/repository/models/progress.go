package models

import "time"

// ProgressRecord is one row of STUDENT_PROGRESS. Payload holds the encoded
// StudentProgress document.
type ProgressRecord struct {
	ProgressKey string    `db:"PROGRESS_KEY"`
	Payload     string    `db:"PAYLOAD"`
	UpdatedAt   time.Time `db:"UPDATED_AT"`
}
