package models

import "time"

// DayTotal is the raw per-day aggregate read from the store.
type DayTotal struct {
	Day      time.Time
	Seconds  int
	Hits     int
	Mistakes int
}

type DailyTotal struct {
	Day     time.Time `json:"day"`
	Minutes int       `json:"minutes"`
}

type DailyQuestions struct {
	Day      time.Time `json:"day"`
	Hits     int       `json:"hits"`
	Mistakes int       `json:"mistakes"`
}

type SubjectSummary struct {
	Subject     string `json:"subject"`
	DurationSec int    `json:"duration_sec"`
	Minutes     int    `json:"minutes"`
	Hits        int    `json:"hits"`
	Mistakes    int    `json:"mistakes"`
	Pct         int    `json:"pct"`
}

type SubjectMinutes struct {
	Subject     string `json:"subject"`
	DurationSec int    `json:"duration_sec"`
	Minutes     int    `json:"minutes"`
	Color       string `json:"color,omitempty"`
}

type PresenceDay struct {
	Day      time.Time `json:"day"`
	Minutes  int       `json:"minutes"`
	HasStudy bool      `json:"has_study"`
}

type GoalTrack struct {
	Value   int     `json:"value"`
	Target  int     `json:"target"`
	Percent float64 `json:"percent"`
	Label   string  `json:"label"`
	PctText string  `json:"pct_text"`
}

type GoalProgress struct {
	WeekStart time.Time `json:"week_start"`
	WeekEnd   time.Time `json:"week_end"`
	Hours     GoalTrack `json:"hours"`
	Questions GoalTrack `json:"questions"`
}

type WeekDay struct {
	Day       time.Time `json:"day"`
	Weekday   string    `json:"weekday"`
	Minutes   int       `json:"minutes"`
	Formatted string    `json:"formatted"`
	Hits      int       `json:"hits"`
	Mistakes  int       `json:"mistakes"`
}

type WeekView struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Days    []WeekDay `json:"days"`
	CanPrev bool      `json:"can_prev"`
	CanNext bool      `json:"can_next"`
}

type DayView struct {
	Day          time.Time        `json:"day"`
	Subjects     []SubjectMinutes `json:"subjects"`
	TotalMinutes int              `json:"total_minutes"`
	Formatted    string           `json:"formatted"`
	CanPrev      bool             `json:"can_prev"`
	CanNext      bool             `json:"can_next"`
}
