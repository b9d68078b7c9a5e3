package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studylog/studylog/internal/datex"
	"github.com/studylog/studylog/internal/server/models"
)

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := datex.Parse(s)
	require.NoError(t, err)
	return d
}

func presence(flags ...bool) []models.PresenceDay {
	out := make([]models.PresenceDay, len(flags))
	for i, f := range flags {
		out[i] = models.PresenceDay{HasStudy: f}
	}
	return out
}

func TestCurrentStreak(t *testing.T) {
	assert.Equal(t, 1, CurrentStreak(presence(true, true, true, false, true)))
	assert.Equal(t, 3, CurrentStreak(presence(true, true, true)))
	assert.Equal(t, 0, CurrentStreak(nil))
	assert.Equal(t, 0, CurrentStreak(presence(false)))
	assert.Equal(t, 0, CurrentStreak(presence(true, true, false)))
}

func TestSubjectPct(t *testing.T) {
	assert.Equal(t, 70, SubjectPct(7, 3))
	assert.Equal(t, 0, SubjectPct(0, 0))
	assert.Equal(t, 66, SubjectPct(2, 1), "floors, never rounds up")
	assert.Equal(t, 100, SubjectPct(5, 0))
}

func TestSummarizeSubjects_SortsCaseInsensitively(t *testing.T) {
	in := []models.SubjectSummary{
		{Subject: "math", DurationSec: 119, Hits: 7, Mistakes: 3},
		{Subject: "Biology", DurationSec: 60},
		{Subject: "art"},
	}
	got := SummarizeSubjects(in)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"art", "Biology", "math"}, []string{got[0].Subject, got[1].Subject, got[2].Subject})
	assert.Equal(t, 1, got[2].Minutes)
	assert.Equal(t, 70, got[2].Pct)
	assert.Equal(t, 0, got[1].Pct)
	assert.Equal(t, "math", in[0].Subject, "input untouched")
}

func TestFillPresence(t *testing.T) {
	start, end := mustDay(t, "2024-05-01"), mustDay(t, "2024-05-05")
	totals := []models.DayTotal{
		{Day: mustDay(t, "2024-05-02"), Seconds: 3599},
		{Day: mustDay(t, "2024-05-04"), Seconds: 59},
		{Day: mustDay(t, "2024-05-05"), Seconds: 60},
	}

	got := FillPresence(totals, start, end)
	require.Len(t, got, datex.DaysBetween(start, end)+1)

	seen := map[string]bool{}
	for i, p := range got {
		assert.Equal(t, datex.Format(start.AddDate(0, 0, i)), datex.Format(p.Day))
		seen[datex.Format(p.Day)] = true
	}
	assert.Len(t, seen, 5)

	assert.Equal(t, 59, got[1].Minutes)
	assert.True(t, got[1].HasStudy)
	assert.False(t, got[3].HasStudy, "under a minute does not count")
	assert.True(t, got[4].HasStudy)
	assert.Equal(t, 1, CurrentStreak(got))
}

func TestFillPresence_SingleDayAndInverted(t *testing.T) {
	d := mustDay(t, "2024-05-01")
	assert.Len(t, FillPresence(nil, d, d), 1)
	assert.Empty(t, FillPresence(nil, d, d.AddDate(0, 0, -1)))
}

func TestProgressPercent(t *testing.T) {
	assert.Equal(t, 50.0, ProgressPercent(300, 600))
	assert.Equal(t, 100.0, ProgressPercent(720, 600))
	assert.Equal(t, 0.0, ProgressPercent(100, 0))
}

func TestComputeGoalProgress(t *testing.T) {
	ws := mustDay(t, "2024-05-13")
	goal := models.WeeklyGoal{TargetHours: 10, TargetQuestions: 40}

	t.Run("half", func(t *testing.T) {
		totals := []models.DayTotal{
			{Day: ws, Seconds: 3 * 3600, Hits: 10, Mistakes: 5},
			{Day: ws.AddDate(0, 0, 2), Seconds: 2*3600 + 59, Hits: 3},
		}
		p := ComputeGoalProgress(goal, totals, ws)

		assert.Equal(t, 300, p.Hours.Value)
		assert.Equal(t, 600, p.Hours.Target)
		assert.Equal(t, 50.0, p.Hours.Percent)
		assert.Equal(t, "50.0%", p.Hours.PctText)
		assert.Equal(t, "5h00min/10h00min", p.Hours.Label)

		assert.Equal(t, 18, p.Questions.Value)
		assert.Equal(t, "18/40", p.Questions.Label)
		assert.Equal(t, "45.0%", p.Questions.PctText)

		assert.Equal(t, "2024-05-19", datex.Format(p.WeekEnd))
	})

	t.Run("capped", func(t *testing.T) {
		p := ComputeGoalProgress(goal, []models.DayTotal{{Day: ws, Seconds: 12 * 3600}}, ws)
		assert.Equal(t, 100.0, p.Hours.Percent)
		assert.Equal(t, "100.0%", p.Hours.PctText)
	})

	t.Run("no goal", func(t *testing.T) {
		p := ComputeGoalProgress(models.WeeklyGoal{}, []models.DayTotal{{Day: ws, Seconds: 3600, Hits: 1}}, ws)
		assert.Equal(t, 0.0, p.Hours.Percent)
		assert.Equal(t, 0.0, p.Questions.Percent)
		assert.Equal(t, "1h00min/0h00min", p.Hours.Label)
		assert.Equal(t, "1/-", p.Questions.Label)
		assert.Equal(t, "0.0%", p.Questions.PctText)
	})
}

func TestRankDaySubjects(t *testing.T) {
	in := []models.SubjectMinutes{
		{Subject: "A", DurationSec: 60},
		{Subject: "B", DurationSec: 600},
		{Subject: "C", DurationSec: 600},
		{Subject: "D", DurationSec: 30},
	}

	got := RankDaySubjects(in, 3)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"B", "C", "A"}, []string{got[0].Subject, got[1].Subject, got[2].Subject})
	assert.Equal(t, 10, got[0].Minutes)

	assert.Len(t, RankDaySubjects(in, 0), 4)
	assert.Equal(t, "A", in[0].Subject)
}
