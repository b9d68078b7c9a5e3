package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/studylog/studylog/internal/datex"
	"github.com/studylog/studylog/internal/logging"
	sc "github.com/studylog/studylog/internal/server/config"
	"github.com/studylog/studylog/internal/server/models"
)

// ErrExportsDisabled is returned when no bucket is configured.
var ErrExportsDisabled = errors.New("exports are disabled")

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// RecordLister is the part of RecordService the exporter reads from.
type RecordLister interface {
	List(ctx context.Context, userID string) ([]models.StudyRecord, error)
}

// Export is the result of an export: where the file lives and a temporary
// link to download it.
type Export struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	Records   int       `json:"records"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ExportService writes a user's records as CSV to S3-compatible storage.
type ExportService struct {
	records RecordLister
	config  sc.S3
	log     logging.Logger
	now     func() time.Time
}

func NewExportService(records RecordLister, cfg sc.S3, log logging.Logger) *ExportService {
	return &ExportService{records: records, config: cfg, log: log, now: time.Now}
}

// exportKey builds exports/<user>/<yyyy>/<mm>/<dd>/<uuid>.csv.
func exportKey(userID string, d time.Time) string {
	return fmt.Sprintf("exports/%s/%04d/%02d/%02d/%s.csv", userID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *ExportService) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.User,
			s.config.Password,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.config.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.config.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// ExportRecords uploads the user's records and returns a presigned GET URL.
func (s *ExportService) ExportRecords(ctx context.Context, userID string) (*Export, error) {
	if !s.config.Enabled {
		return nil, ErrExportsDisabled
	}

	recs, err := s.records.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	body, err := EncodeRecordsCSV(recs)
	if err != nil {
		return nil, fmt.Errorf("encode csv: %w", err)
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("s3 config: %w", err)
	}

	now := s.now().UTC()
	bucket := s.config.Bucket
	key := exportKey(userID, now)

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		s.log.Error(ctx, "upload export failed", "user_id", userID, "key", key, "error", err)
		return nil, fmt.Errorf("upload export: %w", err)
	}

	ttl := s.config.PresignTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return nil, fmt.Errorf("presign export: %w", err)
	}

	s.log.Info(ctx, "records exported", "user_id", userID, "key", key, "records", len(recs))
	return &Export{Key: key, URL: req.URL, Records: len(recs), ExpiresAt: now.Add(ttl)}, nil
}

var csvHeader = []string{
	"id", "study_date", "category", "subject", "topic", "duration_sec",
	"hits", "mistakes", "page_start", "page_end", "comment", "created_at",
}

// EncodeRecordsCSV renders records with a header row. Unset optional
// fields are empty cells.
func EncodeRecordsCSV(recs []models.StudyRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, r := range recs {
		row := []string{
			r.ID,
			datex.Format(r.StudyDate),
			r.Category,
			r.Subject,
			optString(r.Topic),
			strconv.Itoa(r.DurationSec),
			optInt(r.Hits),
			optInt(r.Mistakes),
			optInt(r.PageStart),
			optInt(r.PageEnd),
			optString(r.Comment),
			r.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func optString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
