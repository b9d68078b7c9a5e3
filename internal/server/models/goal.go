package models

import "time"

type WeeklyGoal struct {
	UserID          string    `json:"-"`
	TargetHours     int       `json:"target_hours"`
	TargetQuestions int       `json:"target_questions"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type SubjectColor struct {
	UserID    string    `json:"-"`
	Subject   string    `json:"subject"`
	ColorHex  string    `json:"color_hex"`
	UpdatedAt time.Time `json:"updated_at"`
}
