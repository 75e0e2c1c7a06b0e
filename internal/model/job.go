package model

import "time"

// Job is a tracked job application.
//
// CreatedBy references the owning User and is immutable after creation.
// Every repository query on jobs filters by created_by, so a job is
// invisible to every identity except its owner.
type Job struct {
	ID        string    `json:"id"        db:"id"`
	Company   string    `json:"company"   db:"company"`
	Position  string    `json:"position"  db:"position"`
	CreatedBy string    `json:"createdBy" db:"created_by"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
