package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"finboard/internal/analytics"
	"finboard/internal/cache"
	"finboard/internal/dataprocessing"
	"finboard/internal/period"
	"finboard/internal/storage"
	"finboard/pkg/contracts/domain"
)

// ObjectStore is the blob store dependency of the workbook service.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte) error
	GetMonth(ctx context.Context, monthKey string) ([]byte, error)
	List(ctx context.Context) ([]domain.MonthInfo, error)
}

var monthKeyPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// WorkbookService owns the workbook lifecycle: upload, retrieval through
// the in-memory cache, month listing and cross-period comparison.
type WorkbookService struct {
	store      ObjectStore
	cache      *cache.WorkbookCache
	normalizer *dataprocessing.Normalizer
	aggregator *analytics.Aggregator
	logger     *slog.Logger
}

// NewWorkbookService creates a workbook service.
func NewWorkbookService(store ObjectStore, c *cache.WorkbookCache, normalizer *dataprocessing.Normalizer, logger *slog.Logger) *WorkbookService {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookService{
		store:      store,
		cache:      c,
		normalizer: normalizer,
		aggregator: analytics.NewAggregator(logger),
		logger:     logger.With(slog.String("component", "workbook_service")),
	}
}

// ValidMonthKey reports whether key is a well-formed YYYY-MM period key.
func ValidMonthKey(key string) bool {
	return monthKeyPattern.MatchString(key)
}

// Upload validates and stores a new monthly workbook, then primes the cache
// so the next read does not round-trip to object storage.
func (s *WorkbookService) Upload(ctx context.Context, monthKey string, data []byte) (domain.MonthInfo, error) {
	if monthKey != "" && !ValidMonthKey(monthKey) {
		return domain.MonthInfo{}, fmt.Errorf("%w: %q", ErrInvalidPeriodKey, monthKey)
	}
	if len(data) == 0 {
		return domain.MonthInfo{}, fmt.Errorf("%w: empty upload", ErrInvalidInput)
	}

	// reject files excel cannot open before they reach storage
	raw, err := DecodeWorkbook(data)
	if err != nil {
		return domain.MonthInfo{}, err
	}

	// no explicit month: derive the period from the sheet tabs
	if monthKey == "" {
		monthKey = detectMonthKey(raw)
		if monthKey == "" {
			return domain.MonthInfo{}, fmt.Errorf("%w: no period in sheet names and no month given", ErrInvalidPeriodKey)
		}
	}

	key := storage.MonthKey(monthKey)
	if err := s.store.Put(ctx, key, data); err != nil {
		return domain.MonthInfo{}, err
	}

	s.cache.Set(monthKey, s.normalizer.Normalize(raw))

	s.logger.InfoContext(ctx, "workbook uploaded",
		slog.String("month", monthKey),
		slog.String("key", key),
		slog.Int("sheets", len(raw)),
		slog.Int("bytes", len(data)),
	)

	return domain.MonthInfo{
		Key:          key,
		MonthKey:     monthKey,
		Period:       period.Decode(monthKey),
		LastModified: time.Now().UTC(),
		Size:         int64(len(data)),
	}, nil
}

// detectMonthKey derives the YYYY-MM key from the workbook's own sheet
// names, mirroring how the dashboard names its tabs ("IAV P&L NOV 2025").
func detectMonthKey(raw dataprocessing.RawWorkbook) string {
	names := make([]string, 0, len(raw))
	for _, sheet := range raw {
		names = append(names, sheet.Name)
	}
	label := period.Detect(names)
	if label == period.FallbackLabel {
		return ""
	}
	return period.Encode(label)
}

// GetMonth returns the normalized workbook for a month key. The special
// "latest" key resolves to the legacy object in storage. Concurrent cache
// misses for the same month are collapsed into one storage fetch.
func (s *WorkbookService) GetMonth(ctx context.Context, monthKey string) (domain.SheetData, error) {
	if monthKey != period.LatestKey && !ValidMonthKey(monthKey) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPeriodKey, monthKey)
	}

	return s.cache.GetOrLoad(ctx, monthKey, func(ctx context.Context) (domain.SheetData, error) {
		data, err := s.store.GetMonth(ctx, monthKey)
		if err != nil {
			if errors.Is(err, storage.ErrObjectNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrWorkbookNotFound, monthKey)
			}
			return nil, err
		}

		raw, err := DecodeWorkbook(data)
		if err != nil {
			return nil, err
		}

		sd := s.normalizer.Normalize(raw)
		s.logger.InfoContext(ctx, "workbook loaded",
			slog.String("month", monthKey),
			slog.Int("sheets", len(sd)),
		)
		return sd, nil
	})
}

// ListMonths returns the stored months, newest first.
func (s *WorkbookService) ListMonths(ctx context.Context) ([]domain.MonthInfo, error) {
	months, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return months, nil
}

// Snapshot computes the KPI snapshot for a single month.
func (s *WorkbookService) Snapshot(ctx context.Context, monthKey string) (analytics.Snapshot, error) {
	sd, err := s.GetMonth(ctx, monthKey)
	if err != nil {
		return analytics.Snapshot{}, err
	}
	return s.aggregator.Snapshot(sd), nil
}

// Compare loads every requested period and aligns KPIs and channel series
// across them. Period order follows the caller's request.
func (s *WorkbookService) Compare(ctx context.Context, periods []string) (analytics.Comparison, error) {
	if len(periods) < 2 {
		return analytics.Comparison{}, ErrInsufficientPeriods
	}

	byPeriod := make(map[string]domain.SheetData, len(periods))
	for _, p := range periods {
		sd, err := s.GetMonth(ctx, p)
		if err != nil {
			return analytics.Comparison{}, fmt.Errorf("period %s: %w", p, err)
		}
		byPeriod[p] = sd
	}

	cmp, err := s.aggregator.Compare(periods, byPeriod)
	if err != nil {
		if errors.Is(err, analytics.ErrInsufficientPeriods) {
			return analytics.Comparison{}, ErrInsufficientPeriods
		}
		return analytics.Comparison{}, err
	}
	return cmp, nil
}

// InvalidateAll drops every cached workbook. Called on logout so the next
// session re-reads from storage.
func (s *WorkbookService) InvalidateAll() {
	s.cache.Clear()
}
