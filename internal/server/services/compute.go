package services

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/studylog/studylog/internal/datex"
	"github.com/studylog/studylog/internal/server/models"
)

// DefaultDayLimit caps the day view when the caller passes no limit.
const DefaultDayLimit = 7

// SubjectPct is floor(hits*100/(hits+mistakes)), or 0 without questions.
func SubjectPct(hits, mistakes int) int {
	total := hits + mistakes
	if total <= 0 {
		return 0
	}
	return hits * 100 / total
}

// SummarizeSubjects fills minutes and accuracy and sorts by subject,
// ignoring case. The input is not modified.
func SummarizeSubjects(in []models.SubjectSummary) []models.SubjectSummary {
	out := make([]models.SubjectSummary, len(in))
	for i, s := range in {
		s.Minutes = s.DurationSec / 60
		s.Pct = SubjectPct(s.Hits, s.Mistakes)
		out[i] = s
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Subject), strings.ToLower(out[j].Subject)
		if a != b {
			return a < b
		}
		return out[i].Subject < out[j].Subject
	})
	return out
}

// FillPresence returns one entry per day from start through end, using the
// per-day totals where present and zero minutes elsewhere.
func FillPresence(totals []models.DayTotal, start, end time.Time) []models.PresenceDay {
	byDay := make(map[time.Time]int, len(totals))
	for _, t := range totals {
		byDay[datex.Day(t.Day)] += t.Seconds
	}

	days := datex.Range(start, end)
	out := make([]models.PresenceDay, 0, len(days))
	for _, d := range days {
		m := byDay[d] / 60
		out = append(out, models.PresenceDay{Day: d, Minutes: m, HasStudy: m > 0})
	}
	return out
}

// CurrentStreak counts the trailing days with study, newest first.
func CurrentStreak(series []models.PresenceDay) int {
	n := 0
	for i := len(series) - 1; i >= 0 && series[i].HasStudy; i-- {
		n++
	}
	return n
}

// ProgressPercent is value/target*100 capped at 100, or 0 without a target.
func ProgressPercent(value, target int) float64 {
	if target <= 0 {
		return 0
	}
	return math.Max(0, math.Min(100, float64(value)/float64(target)*100))
}

// ComputeGoalProgress compares the week's totals with goal. totals must
// already be limited to the week starting at weekStart.
func ComputeGoalProgress(goal models.WeeklyGoal, totals []models.DayTotal, weekStart time.Time) models.GoalProgress {
	minutes, questions := 0, 0
	for _, t := range totals {
		minutes += t.Seconds / 60
		questions += t.Hits + t.Mistakes
	}
	targetMinutes := goal.TargetHours * 60

	hours := models.GoalTrack{
		Value:   minutes,
		Target:  targetMinutes,
		Percent: ProgressPercent(minutes, targetMinutes),
		Label:   datex.FormatMinutes(minutes) + "/" + datex.FormatMinutes(targetMinutes),
	}
	hours.PctText = fmt.Sprintf("%.1f%%", hours.Percent)

	qs := models.GoalTrack{
		Value:   questions,
		Target:  goal.TargetQuestions,
		Percent: ProgressPercent(questions, goal.TargetQuestions),
		Label:   fmt.Sprintf("%d/%s", questions, countTarget(goal.TargetQuestions)),
	}
	qs.PctText = fmt.Sprintf("%.1f%%", qs.Percent)

	return models.GoalProgress{
		WeekStart: datex.Day(weekStart),
		WeekEnd:   datex.WeekEnd(weekStart),
		Hours:     hours,
		Questions: qs,
	}
}

// countTarget renders a count target, or "-" when none is set. The hours
// track always shows its formatted target.
func countTarget(n int) string {
	if n <= 0 {
		return "-"
	}
	return strconv.Itoa(n)
}

// RankDaySubjects orders by minutes descending, ties by subject, and keeps
// at most limit entries. The input is not modified.
func RankDaySubjects(in []models.SubjectMinutes, limit int) []models.SubjectMinutes {
	out := make([]models.SubjectMinutes, len(in))
	for i, s := range in {
		s.Minutes = s.DurationSec / 60
		out[i] = s
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Minutes != out[j].Minutes {
			return out[i].Minutes > out[j].Minutes
		}
		return out[i].Subject < out[j].Subject
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
