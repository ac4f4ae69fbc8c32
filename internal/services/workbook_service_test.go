package services

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"finboard/internal/cache"
	"finboard/internal/dataprocessing"
	"finboard/internal/storage"
	"finboard/pkg/contracts/domain"
)

type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	gets    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) Put(ctx context.Context, key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return nil
}

func (f *fakeStore) GetMonth(ctx context.Context, monthKey string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	data, ok := f.objects[storage.MonthKey(monthKey)]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return data, nil
}

func (f *fakeStore) List(ctx context.Context) ([]domain.MonthInfo, error) {
	return nil, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// xlsxFixture builds a minimal workbook with a P&L sheet the KPI
// extractors understand.
func xlsxFixture(t *testing.T, stamp string) []byte {
	t.Helper()

	f := excelize.NewFile()
	sheet := "IAV P&L " + stamp
	require.NoError(t, f.SetSheetName("Sheet1", sheet))

	require.NoError(t, f.SetCellValue(sheet, "A1", "Net Sale"))
	require.NoError(t, f.SetCellValue(sheet, "B1", 1000000.0))
	require.NoError(t, f.SetCellValue(sheet, "A2", "Total COGS"))
	require.NoError(t, f.SetCellValue(sheet, "B2", 400000.0))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func newTestService(store ObjectStore) *WorkbookService {
	normalizer := dataprocessing.NewNormalizer(dataprocessing.DefaultRegistry())
	return NewWorkbookService(store, cache.New(), normalizer, quietLogger())
}

func TestUploadRejectsBadMonthKey(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.Upload(context.Background(), "NOV 2025", []byte("x"))
	assert.ErrorIs(t, err, ErrInvalidPeriodKey)

	_, err = svc.Upload(context.Background(), "2025-13", []byte("x"))
	assert.ErrorIs(t, err, ErrInvalidPeriodKey)
}

func TestUploadDetectsMonthFromSheetNames(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	info, err := svc.Upload(context.Background(), "", xlsxFixture(t, "NOV 2025"))
	require.NoError(t, err)
	assert.Equal(t, "2025-11", info.MonthKey)
	assert.Equal(t, "NOV 2025", info.Period)
}

func TestUploadWithoutDetectablePeriodFails(t *testing.T) {
	svc := newTestService(newFakeStore())

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "CASHFLOW"))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	_, err := svc.Upload(context.Background(), "", buf.Bytes())
	assert.ErrorIs(t, err, ErrInvalidPeriodKey)
}

func TestUploadRejectsUnreadableFile(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.Upload(context.Background(), "2025-11", []byte("not an xlsx"))
	assert.ErrorIs(t, err, ErrWorkbookUnreadable)
}

func TestUploadStoresAndPrimesCache(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	data := xlsxFixture(t, "NOV 2025")

	info, err := svc.Upload(context.Background(), "2025-11", data)
	require.NoError(t, err)
	assert.Equal(t, "months/2025-11.xlsx", info.Key)
	assert.Equal(t, "2025-11", info.MonthKey)
	assert.Equal(t, "NOV 2025", info.Period)

	// the cache was primed, so the read must not hit storage
	sd, err := svc.GetMonth(context.Background(), "2025-11")
	require.NoError(t, err)
	assert.Equal(t, 0, store.gets)
	require.Len(t, sd, 1)
	assert.Equal(t, "IAV P&L NOV 2025", sd[0].Name)
}

func TestGetMonthLoadsAndCaches(t *testing.T) {
	store := newFakeStore()
	store.objects[storage.MonthKey("2025-10")] = xlsxFixture(t, "OCT 2025")
	svc := newTestService(store)

	for i := 0; i < 3; i++ {
		_, err := svc.GetMonth(context.Background(), "2025-10")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, store.gets)
}

func TestGetMonthNotFound(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.GetMonth(context.Background(), "2025-01")
	assert.ErrorIs(t, err, ErrWorkbookNotFound)
}

func TestSnapshotComputesKPIs(t *testing.T) {
	store := newFakeStore()
	store.objects[storage.MonthKey("2025-11")] = xlsxFixture(t, "NOV 2025")
	svc := newTestService(store)

	snap, err := svc.Snapshot(context.Background(), "2025-11")
	require.NoError(t, err)
	require.NotEmpty(t, snap.KPIs)

	var found bool
	for _, k := range snap.KPIs {
		if k.Label == "Net Sales" {
			found = true
			assert.True(t, k.OK)
			assert.InDelta(t, 1000000.0, k.Value, 0.001)
		}
	}
	assert.True(t, found, "Net Sales KPI missing")
}

func TestCompareRequiresTwoPeriods(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.Compare(context.Background(), []string{"2025-11"})
	assert.ErrorIs(t, err, ErrInsufficientPeriods)
}

func TestCompareTwoPeriods(t *testing.T) {
	store := newFakeStore()
	store.objects[storage.MonthKey("2025-11")] = xlsxFixture(t, "NOV 2025")
	store.objects[storage.MonthKey("2025-10")] = xlsxFixture(t, "OCT 2025")
	svc := newTestService(store)

	cmp, err := svc.Compare(context.Background(), []string{"2025-11", "2025-10"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-11", "2025-10"}, cmp.Periods)
	require.NotEmpty(t, cmp.KPIs)
}

func TestComparePropagatesMissingPeriod(t *testing.T) {
	store := newFakeStore()
	store.objects[storage.MonthKey("2025-11")] = xlsxFixture(t, "NOV 2025")
	svc := newTestService(store)

	_, err := svc.Compare(context.Background(), []string{"2025-11", "2025-10"})
	assert.ErrorIs(t, err, ErrWorkbookNotFound)
}

func TestInvalidateAllClearsCache(t *testing.T) {
	store := newFakeStore()
	store.objects[storage.MonthKey("2025-11")] = xlsxFixture(t, "NOV 2025")
	svc := newTestService(store)

	_, err := svc.GetMonth(context.Background(), "2025-11")
	require.NoError(t, err)
	assert.Equal(t, 1, store.gets)

	svc.InvalidateAll()

	_, err = svc.GetMonth(context.Background(), "2025-11")
	require.NoError(t, err)
	assert.Equal(t, 2, store.gets)
}
