package records

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/studylog/studylog/internal/datex"
	"github.com/studylog/studylog/internal/dbx"
	"github.com/studylog/studylog/internal/server/models"
)

type SQLRepository struct {
	db dbx.DBTX
	d  dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, d dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, d: d}
}

const recordColumns = `id, user_id, study_date, category, subject, topic, duration_sec,
	hits, mistakes, page_start, page_end, comment, created_at`

func (r *SQLRepository) Create(ctx context.Context, rec *models.StudyRecord) error {
	query := r.d.Rebind(`INSERT INTO study_records (` + recordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.UserID, datex.Format(rec.StudyDate), rec.Category, rec.Subject, rec.Topic, rec.DurationSec,
		rec.Hits, rec.Mistakes, rec.PageStart, rec.PageEnd, rec.Comment, rec.CreatedAt.UTC(),
	)
	if err != nil {
		return dbx.StoreError(r.d, err)
	}
	return nil
}

func (r *SQLRepository) Get(ctx context.Context, id, userID string) (*models.StudyRecord, error) {
	query := r.d.Rebind(`SELECT ` + recordColumns + ` FROM study_records WHERE id = ? AND user_id = ?`)

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		return nil, dbx.StoreError(r.d, err)
	}
	return rec, nil
}

func (r *SQLRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	query := r.d.Rebind(`DELETE FROM study_records WHERE id = ? AND user_id = ?`)

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return false, dbx.StoreError(r.d, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, dbx.StoreError(r.d, err)
	}
	return n > 0, nil
}

func (r *SQLRepository) ListByUser(ctx context.Context, userID string) ([]models.StudyRecord, error) {
	query := r.d.Rebind(`SELECT ` + recordColumns + ` FROM study_records
		WHERE user_id = ?
		ORDER BY study_date DESC, created_at DESC`)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, dbx.StoreError(r.d, err)
	}
	defer rows.Close()

	out := []models.StudyRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, dbx.StoreError(r.d, err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.StoreError(r.d, err)
	}
	return out, nil
}

func (r *SQLRepository) DailyTotals(ctx context.Context, userID string, rg Range) ([]models.DayTotal, error) {
	var b strings.Builder
	b.WriteString(`SELECT study_date,
		COALESCE(SUM(duration_sec), 0),
		COALESCE(SUM(COALESCE(hits, 0)), 0),
		COALESCE(SUM(COALESCE(mistakes, 0)), 0)
		FROM study_records
		WHERE user_id = ?`)
	args := []any{userID}

	if !rg.From.IsZero() {
		b.WriteString(` AND study_date >= ?`)
		args = append(args, datex.Format(rg.From))
	}
	if !rg.To.IsZero() {
		b.WriteString(` AND study_date <= ?`)
		args = append(args, datex.Format(rg.To))
	}
	b.WriteString(` GROUP BY study_date ORDER BY study_date`)

	rows, err := r.db.QueryContext(ctx, r.d.Rebind(b.String()), args...)
	if err != nil {
		return nil, dbx.StoreError(r.d, err)
	}
	defer rows.Close()

	out := []models.DayTotal{}
	for rows.Next() {
		var (
			raw string
			t   models.DayTotal
		)
		if err := rows.Scan(&raw, &t.Seconds, &t.Hits, &t.Mistakes); err != nil {
			return nil, dbx.StoreError(r.d, err)
		}
		if t.Day, err = datex.Parse(raw); err != nil {
			return nil, dbx.StoreError(r.d, err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.StoreError(r.d, err)
	}
	return out, nil
}

func (r *SQLRepository) SubjectTotals(ctx context.Context, userID string) ([]models.SubjectSummary, error) {
	query := r.d.Rebind(`SELECT subject,
		COALESCE(SUM(duration_sec), 0),
		COALESCE(SUM(COALESCE(hits, 0)), 0),
		COALESCE(SUM(COALESCE(mistakes, 0)), 0)
		FROM study_records
		WHERE user_id = ?
		GROUP BY subject`)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, dbx.StoreError(r.d, err)
	}
	defer rows.Close()

	out := []models.SubjectSummary{}
	for rows.Next() {
		var s models.SubjectSummary
		if err := rows.Scan(&s.Subject, &s.DurationSec, &s.Hits, &s.Mistakes); err != nil {
			return nil, dbx.StoreError(r.d, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.StoreError(r.d, err)
	}
	return out, nil
}

func (r *SQLRepository) DaySubjects(ctx context.Context, userID string, day time.Time) ([]models.SubjectMinutes, error) {
	query := r.d.Rebind(`SELECT subject, COALESCE(SUM(duration_sec), 0)
		FROM study_records
		WHERE user_id = ? AND study_date = ?
		GROUP BY subject
		ORDER BY subject`)

	rows, err := r.db.QueryContext(ctx, query, userID, datex.Format(day))
	if err != nil {
		return nil, dbx.StoreError(r.d, err)
	}
	defer rows.Close()

	out := []models.SubjectMinutes{}
	for rows.Next() {
		var s models.SubjectMinutes
		if err := rows.Scan(&s.Subject, &s.DurationSec); err != nil {
			return nil, dbx.StoreError(r.d, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.StoreError(r.d, err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*models.StudyRecord, error) {
	var (
		rec                                models.StudyRecord
		day                                string
		topic, comment                     sql.NullString
		hits, mistakes, pageStart, pageEnd sql.NullInt64
	)
	err := s.Scan(&rec.ID, &rec.UserID, &day, &rec.Category, &rec.Subject, &topic, &rec.DurationSec,
		&hits, &mistakes, &pageStart, &pageEnd, &comment, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}

	if rec.StudyDate, err = datex.Parse(day); err != nil {
		return nil, err
	}
	rec.Topic = nullString(topic)
	rec.Comment = nullString(comment)
	rec.Hits = nullInt(hits)
	rec.Mistakes = nullInt(mistakes)
	rec.PageStart = nullInt(pageStart)
	rec.PageEnd = nullInt(pageEnd)
	return &rec, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
