// Package storage provides the workbook blob store backed by Linode Object
// Storage, spoken to over the S3 protocol. Workbooks live under
// months/{YYYY-MM}.xlsx; a single legacy key predates month-scoped uploads.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"finboard/internal/config"
	"finboard/internal/period"
	"finboard/pkg/contracts/domain"
)

// ErrObjectNotFound indicates the requested key does not exist in the bucket.
var ErrObjectNotFound = errors.New("storage: object not found")

const monthPrefix = "months/"

var monthKeyPattern = regexp.MustCompile(`^months/(\d{4}-\d{2})\.xlsx$`)

// S3Store reads and writes workbook objects in a single bucket.
type S3Store struct {
	client    *s3.Client
	bucket    string
	legacyKey string
	logger    *slog.Logger
}

// NewS3Store builds a store from the storage configuration.
func NewS3Store(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage: bucket is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("storage: access key and secret key are required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to load aws config: %w", err)
	}

	endpoint := cfg.EndpointURL()
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &S3Store{
		client:    client,
		bucket:    cfg.Bucket,
		legacyKey: cfg.LegacyObjectKey,
		logger:    logger.With(slog.String("component", "storage")),
	}, nil
}

// MonthKey returns the object key for a month's workbook.
func MonthKey(monthKey string) string {
	return monthPrefix + monthKey + ".xlsx"
}

// Put uploads a workbook under the month's object key.
func (s *S3Store) Put(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"),
	})
	if err != nil {
		return fmt.Errorf("storage: put %s: %w", key, err)
	}

	s.logger.InfoContext(ctx, "object uploaded",
		slog.String("key", key),
		slog.Int("bytes", len(data)),
	)
	return nil
}

// Get downloads the object at key. Returns ErrObjectNotFound when absent.
func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("storage: get %s: %w", key, ErrObjectNotFound)
		}
		return nil, fmt.Errorf("storage: get %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", key, err)
	}
	return data, nil
}

// GetMonth downloads the workbook for a month key, falling back to the
// legacy object when no month-scoped workbook exists.
func (s *S3Store) GetMonth(ctx context.Context, monthKey string) ([]byte, error) {
	data, err := s.Get(ctx, MonthKey(monthKey))
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, ErrObjectNotFound) {
		return nil, err
	}

	s.logger.DebugContext(ctx, "month object missing, trying legacy key",
		slog.String("month", monthKey),
		slog.String("legacy_key", s.legacyKey),
	)
	return s.Get(ctx, s.legacyKey)
}

// List enumerates stored months, newest first. The legacy object, when
// present, is appended last with the fallback period label.
func (s *S3Store) List(ctx context.Context) ([]domain.MonthInfo, error) {
	var months []domain.MonthInfo
	var continuation *string

	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(monthPrefix),
			ContinuationToken: continuation,
		})
		if err != nil {
			return nil, fmt.Errorf("storage: list: %w", err)
		}

		for _, obj := range out.Contents {
			key := aws.ToString(obj.Key)
			m := monthKeyPattern.FindStringSubmatch(key)
			if m == nil {
				continue
			}
			monthKey := m[1]
			info := domain.MonthInfo{
				Key:      key,
				MonthKey: monthKey,
				Period:   period.Decode(monthKey),
			}
			if obj.LastModified != nil {
				info.LastModified = *obj.LastModified
			}
			if obj.Size != nil {
				info.Size = *obj.Size
			}
			months = append(months, info)
		}

		if out.IsTruncated == nil || !*out.IsTruncated {
			break
		}
		continuation = out.NextContinuationToken
	}

	sort.Slice(months, func(i, j int) bool {
		return months[i].MonthKey > months[j].MonthKey
	})

	if legacy, ok := s.legacyInfo(ctx); ok {
		months = append(months, legacy)
	}

	return months, nil
}

func (s *S3Store) legacyInfo(ctx context.Context) (domain.MonthInfo, bool) {
	if s.legacyKey == "" || strings.HasPrefix(s.legacyKey, monthPrefix) {
		return domain.MonthInfo{}, false
	}

	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.legacyKey),
	})
	if err != nil {
		return domain.MonthInfo{}, false
	}

	info := domain.MonthInfo{
		Key:      s.legacyKey,
		MonthKey: period.LatestKey,
		Period:   period.FallbackLabel,
	}
	if out.LastModified != nil {
		info.LastModified = *out.LastModified
	}
	if out.ContentLength != nil {
		info.Size = *out.ContentLength
	}
	return info, true
}

// Delete removes the object at key. Missing objects are not an error.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

// ValidMonthKey reports whether key names a month-scoped workbook object.
func ValidMonthKey(key string) bool {
	return monthKeyPattern.MatchString(path.Clean(key))
}
