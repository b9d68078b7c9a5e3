package models

import "time"

// StudyRecord is one logged study session. StudyDate is a calendar day at
// midnight UTC. Optional fields are nil when unset.
type StudyRecord struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	StudyDate   time.Time `json:"study_date"`
	Category    string    `json:"category"`
	Subject     string    `json:"subject"`
	Topic       *string   `json:"topic,omitempty"`
	DurationSec int       `json:"duration_sec"`
	Hits        *int      `json:"hits,omitempty"`
	Mistakes    *int      `json:"mistakes,omitempty"`
	PageStart   *int      `json:"page_start,omitempty"`
	PageEnd     *int      `json:"page_end,omitempty"`
	Comment     *string   `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewStudyRecord carries the input of a record creation.
type NewStudyRecord struct {
	StudyDate   time.Time
	Category    string
	Subject     string
	Topic       *string
	DurationSec int
	Hits        *int
	Mistakes    *int
	PageStart   *int
	PageEnd     *int
	Comment     *string
}
