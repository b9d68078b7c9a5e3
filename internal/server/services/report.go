package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/studylog/studylog/internal/datex"
	"github.com/studylog/studylog/internal/server/cache"
	"github.com/studylog/studylog/internal/server/models"
	"github.com/studylog/studylog/internal/server/repositories/records"
	"github.com/studylog/studylog/internal/server/repositories/repomanager"
)

// Calendar tells reports what "today" is and where a user's history begins.
type Calendar interface {
	Today() time.Time
	SignupDate(ctx context.Context, userID string) (time.Time, error)
}

// ColorResolver maps subjects to their display colors.
type ColorResolver interface {
	Resolve(ctx context.Context, userID string, subjects []string) (map[string]string, error)
}

// GoalReader returns a user's weekly goal.
type GoalReader interface {
	Get(ctx context.Context, userID string) (*models.WeeklyGoal, error)
}

// ReportService runs the aggregations. Store rows are reduced here; "no rows"
// is always an empty or zero result.
type ReportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       *cache.Cache
	calendar    Calendar
	colors      ColorResolver
	goals       GoalReader
}

func NewReportService(db *sql.DB, m repomanager.RepositoryManager, c *cache.Cache, cal Calendar, colors ColorResolver, goals GoalReader) *ReportService {
	return &ReportService{db: db, repomanager: m, cache: c, calendar: cal, colors: colors, goals: goals}
}

func rangeKey(r records.Range) string {
	key := ""
	if !r.From.IsZero() {
		key = datex.Format(r.From)
	}
	key += "|"
	if !r.To.IsZero() {
		key += datex.Format(r.To)
	}
	return key
}

func (s *ReportService) dayTotals(ctx context.Context, userID string, r records.Range) ([]models.DayTotal, error) {
	return cache.Load(s.cache, userID, cache.KindDailyTotals, rangeKey(r), func() ([]models.DayTotal, error) {
		return s.repomanager.Records(s.db).DailyTotals(ctx, userID, r)
	})
}

// DailyTotals returns studied minutes per day within [from, to]. Zero
// bounds are open. Seconds are floor-divided into minutes.
func (s *ReportService) DailyTotals(ctx context.Context, userID string, from, to time.Time) ([]models.DailyTotal, error) {
	totals, err := s.dayTotals(ctx, userID, records.Range{From: from, To: to})
	if err != nil {
		return nil, err
	}
	out := make([]models.DailyTotal, len(totals))
	for i, t := range totals {
		out[i] = models.DailyTotal{Day: t.Day, Minutes: t.Seconds / 60}
	}
	return out, nil
}

// DailyQuestions returns hits and mistakes per day within [from, to].
func (s *ReportService) DailyQuestions(ctx context.Context, userID string, from, to time.Time) ([]models.DailyQuestions, error) {
	totals, err := s.dayTotals(ctx, userID, records.Range{From: from, To: to})
	if err != nil {
		return nil, err
	}
	out := make([]models.DailyQuestions, len(totals))
	for i, t := range totals {
		out[i] = models.DailyQuestions{Day: t.Day, Hits: t.Hits, Mistakes: t.Mistakes}
	}
	return out, nil
}

// SubjectSummary returns lifetime totals and accuracy per subject, sorted
// by subject ignoring case.
func (s *ReportService) SubjectSummary(ctx context.Context, userID string) ([]models.SubjectSummary, error) {
	return cache.Load(s.cache, userID, cache.KindSubjects, "", func() ([]models.SubjectSummary, error) {
		raw, err := s.repomanager.Records(s.db).SubjectTotals(ctx, userID)
		if err != nil {
			return nil, err
		}
		return SummarizeSubjects(raw), nil
	})
}

// DaySubjects returns the full per-subject breakdown of one day, sorted by
// subject. Truncation is left to the caller.
func (s *ReportService) DaySubjects(ctx context.Context, userID string, day time.Time) ([]models.SubjectMinutes, error) {
	return cache.Load(s.cache, userID, cache.KindDaySubjects, datex.Format(day), func() ([]models.SubjectMinutes, error) {
		rows, err := s.repomanager.Records(s.db).DaySubjects(ctx, userID, datex.Day(day))
		if err != nil {
			return nil, err
		}
		for i := range rows {
			rows[i].Minutes = rows[i].DurationSec / 60
		}
		return rows, nil
	})
}

// Presence returns one entry per day from the signup date through today.
func (s *ReportService) Presence(ctx context.Context, userID string) ([]models.PresenceDay, error) {
	signup, err := s.calendar.SignupDate(ctx, userID)
	if err != nil {
		return nil, err
	}
	today := s.calendar.Today()

	return cache.Load(s.cache, userID, cache.KindPresence, datex.Format(today), func() ([]models.PresenceDay, error) {
		if today.Before(signup) {
			return []models.PresenceDay{}, nil
		}
		totals, err := s.repomanager.Records(s.db).DailyTotals(ctx, userID, records.Range{From: signup, To: today})
		if err != nil {
			return nil, err
		}
		return FillPresence(totals, signup, today), nil
	})
}

// Streak is the number of consecutive days up to today with study.
func (s *ReportService) Streak(ctx context.Context, userID string) (int, error) {
	series, err := s.Presence(ctx, userID)
	if err != nil {
		return 0, err
	}
	return CurrentStreak(series), nil
}

// GoalProgress compares the current Monday-start week with the weekly goal.
func (s *ReportService) GoalProgress(ctx context.Context, userID string) (*models.GoalProgress, error) {
	goal, err := s.goals.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	start := datex.WeekMondayStart(s.calendar.Today())
	totals, err := s.dayTotals(ctx, userID, records.Range{From: start, To: datex.WeekEnd(start)})
	if err != nil {
		return nil, err
	}

	p := ComputeGoalProgress(*goal, totals, start)
	return &p, nil
}

// WeekView returns the Sunday-start week containing day, kept between the
// signup week and the current week.
func (s *ReportService) WeekView(ctx context.Context, userID string, day time.Time) (*models.WeekView, error) {
	signup, err := s.calendar.SignupDate(ctx, userID)
	if err != nil {
		return nil, err
	}
	first := datex.WeekSundayStart(signup)
	last := datex.WeekSundayStart(s.calendar.Today())

	start := datex.Clamp(datex.WeekSundayStart(day), first, last)
	end := datex.WeekEnd(start)

	totals, err := s.dayTotals(ctx, userID, records.Range{From: start, To: end})
	if err != nil {
		return nil, err
	}
	byDay := make(map[time.Time]models.DayTotal, len(totals))
	for _, t := range totals {
		byDay[datex.Day(t.Day)] = t
	}

	view := &models.WeekView{
		Start:   start,
		End:     end,
		Days:    make([]models.WeekDay, 0, 7),
		CanPrev: start.After(first),
		CanNext: start.Before(last),
	}
	for _, d := range datex.Range(start, end) {
		t := byDay[d]
		m := t.Seconds / 60
		view.Days = append(view.Days, models.WeekDay{
			Day:       d,
			Weekday:   d.Weekday().String()[:3],
			Minutes:   m,
			Formatted: datex.FormatMinutes(m),
			Hits:      t.Hits,
			Mistakes:  t.Mistakes,
		})
	}
	return view, nil
}

// DayView returns the top subjects of a day, kept between the signup date
// and today, with their colors. limit <= 0 means DefaultDayLimit.
func (s *ReportService) DayView(ctx context.Context, userID string, day time.Time, limit int) (*models.DayView, error) {
	if limit <= 0 {
		limit = DefaultDayLimit
	}
	signup, err := s.calendar.SignupDate(ctx, userID)
	if err != nil {
		return nil, err
	}
	today := s.calendar.Today()
	d := datex.Clamp(datex.Day(day), signup, today)

	all, err := s.DaySubjects(ctx, userID, d)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, sm := range all {
		total += sm.DurationSec
	}
	top := RankDaySubjects(all, limit)

	names := make([]string, len(top))
	for i, sm := range top {
		names[i] = sm.Subject
	}
	colors, err := s.colors.Resolve(ctx, userID, names)
	if err != nil {
		return nil, err
	}
	for i := range top {
		top[i].Color = colors[top[i].Subject]
	}

	return &models.DayView{
		Day:          d,
		Subjects:     top,
		TotalMinutes: total / 60,
		Formatted:    datex.FormatMinutes(total / 60),
		CanPrev:      d.After(signup),
		CanNext:      d.Before(today),
	}, nil
}
