package core_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/examplan/internal/core"
	"github.com/JonMunkholm/examplan/internal/core/columns"
	"github.com/JonMunkholm/examplan/internal/index"
)

// fakeDecoder serves a fixed set of pages for every document, keyed by the
// document bytes, and counts calls.
type fakeDecoder struct {
	docs  map[string][]core.Page
	calls atomic.Int32
}

func (d *fakeDecoder) ReadPages(_ context.Context, data []byte) ([]core.Page, error) {
	d.calls.Add(1)
	pages, ok := d.docs[string(data)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown test document", core.ErrDecode)
	}
	return pages, nil
}

func planDocument(rows ...map[string]string) []core.Page {
	page := append(core.Page{}, planHeader(nil, "")...)
	for i, values := range rows {
		page = append(page, planRow(3+float64(i), values)...)
	}
	return []core.Page{page}
}

func newTestService(t *testing.T, store core.ScheduleStore) (*core.Service, *fakeDecoder) {
	t.Helper()
	dec := &fakeDecoder{docs: map[string][]core.Page{
		"%PDF-winter": planDocument(
			firstExam,
			map[string]string{"mid": "10002", "kuerzel": "WEB", "datum": "2025-02-11", "mi_ba": "3"},
		),
		"%PDF-summer": planDocument(map[string]string{"mid": "20001", "datum": "2025-07-14", "pi_ba": "1"}),
	}}

	layout := core.DefaultLayout()
	layout.HeaderFragments = len(planHeader(nil, ""))

	svc, err := core.NewService(dec, store, core.ServiceConfig{
		Layout:    layout,
		Semesters: columns.SemesterKeys(),
	})
	require.NoError(t, err)
	return svc, dec
}

func TestService_ActivateAndQuery(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	sched, err := svc.Activate(ctx, "winter", "winter.pdf", []byte("%PDF-winter"))
	require.NoError(t, err)
	assert.Len(t, sched.Records, 2)
	assert.NotEmpty(t, sched.SHA256)

	plans := svc.Plans()
	require.Len(t, plans, 1)
	assert.Equal(t, "winter", plans[0].Name)
	assert.True(t, plans[0].Default)

	res, err := svc.Query("", index.Filter{Course: "mi_ba", Semester: "3"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 1, res.Filtered)
	assert.Equal(t, "WEB", res.Entries[0]["kuerzel"])
	assert.Len(t, res.Columns, core.ColumnCount())

	res, err = svc.Query("winter", index.Filter{Search: "algorithmen"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Filtered)
}

func TestService_ParseCache(t *testing.T) {
	svc, dec := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Activate(ctx, "winter", "a.pdf", []byte("%PDF-winter"))
	require.NoError(t, err)
	_, err = svc.Activate(ctx, "winter-copy", "b.pdf", []byte("%PDF-winter"))
	require.NoError(t, err)

	assert.Equal(t, int32(1), dec.calls.Load())
	assert.Len(t, svc.Plans(), 2)
}

func TestService_Errors(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Activate(ctx, "winter", "empty.pdf", nil)
	assert.ErrorIs(t, err, core.ErrEmptyFile)

	_, err = svc.Activate(ctx, "winter", "broken.pdf", []byte("%PDF-broken"))
	assert.ErrorIs(t, err, core.ErrDecode)
	assert.Equal(t, "PDF001", core.MapError(err).Code)

	_, err = svc.Activate(ctx, "winter", "password-plan.pdf", []byte("%PDF-broken"))
	assert.Equal(t, "PDF001", core.MapError(err).Code)

	_, err = svc.Query("nope", index.Filter{})
	assert.ErrorIs(t, err, core.ErrUnknownPlan)

	_, err = svc.Schedule("")
	assert.ErrorIs(t, err, core.ErrUnknownPlan)

	_, err = svc.Activate(ctx, "", "x.pdf", []byte("%PDF-winter"))
	assert.ErrorIs(t, err, core.ErrUnknownPlan)
}

func TestService_RestoreFromStore(t *testing.T) {
	store := core.NewMemoryStore()
	first, _ := newTestService(t, store)
	ctx := context.Background()

	_, err := first.Activate(ctx, "winter", "winter.pdf", []byte("%PDF-winter"))
	require.NoError(t, err)
	_, err = first.Activate(ctx, "summer", "summer.pdf", []byte("%PDF-summer"))
	require.NoError(t, err)

	second, dec := newTestService(t, store)
	require.NoError(t, second.Restore(ctx))

	assert.Len(t, second.Plans(), 2)
	assert.Zero(t, dec.calls.Load())

	history, err := second.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "summer", history[0].Source)
}

// limitStore records the limit passed to ListSchedules.
type limitStore struct {
	*core.MemoryStore
	limits []int
}

func (s *limitStore) ListSchedules(ctx context.Context, limit int) ([]core.ScheduleSummary, error) {
	s.limits = append(s.limits, limit)
	return s.MemoryStore.ListSchedules(ctx, limit)
}

func TestService_HistoryClampsLimit(t *testing.T) {
	store := &limitStore{MemoryStore: core.NewMemoryStore()}
	svc, _ := newTestService(t, store)
	ctx := context.Background()

	for _, limit := range []int{0, -3, 7, 1_000_000_000_000} {
		history, err := svc.History(ctx, limit)
		require.NoError(t, err)
		assert.Empty(t, history)
	}
	assert.Equal(t, []int{core.DefaultHistoryLimit, core.DefaultHistoryLimit, 7, core.MaxHistoryLimit}, store.limits)
}

func TestService_LoadSourcesAndRefresh(t *testing.T) {
	svc, dec := newTestService(t, nil)
	ctx := context.Background()
	dir := t.TempDir()

	winter := filepath.Join(dir, "winter.pdf")
	require.NoError(t, os.WriteFile(winter, []byte("%PDF-winter"), 0o644))

	sources, err := core.ParseSources([]string{winter, "missing=" + filepath.Join(dir, "missing.pdf")})
	require.NoError(t, err)

	err = svc.LoadSources(ctx, sources)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")

	sched, err := svc.Schedule("winter")
	require.NoError(t, err)
	assert.Len(t, sched.Records, 2)

	assert.Equal(t, 0, svc.RunRefreshJob(ctx, sources[:1]))

	require.NoError(t, os.WriteFile(winter, []byte("%PDF-summer"), 0o644))
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(winter, future, future))

	assert.Equal(t, 1, svc.RunRefreshJob(ctx, sources[:1]))
	sched, err = svc.Schedule("winter")
	require.NoError(t, err)
	assert.Equal(t, "20001", sched.Records[0]["mid"])
	assert.Equal(t, int32(2), dec.calls.Load())
}

func TestParseSources(t *testing.T) {
	sources, err := core.ParseSources([]string{" plans/WiSe25.pdf ", "sose=/data/sose.pdf", ""})
	require.NoError(t, err)
	assert.Equal(t, []core.Source{
		{Name: "WiSe25", Path: "plans/WiSe25.pdf"},
		{Name: "sose", Path: "/data/sose.pdf"},
	}, sources)

	_, err = core.ParseSources([]string{"a=x.pdf", "a=y.pdf"})
	assert.Error(t, err)

	_, err = core.ParseSources([]string{"=x.pdf"})
	assert.Error(t, err)
}

func TestMemoryStore_LatestPerSource(t *testing.T) {
	store := core.NewMemoryStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.SaveSchedule(ctx, &core.Schedule{Source: "a", FileName: "old", ParsedAt: now.Add(-time.Hour)}))
	require.NoError(t, store.SaveSchedule(ctx, &core.Schedule{Source: "a", FileName: "new", ParsedAt: now}))
	require.NoError(t, store.SaveSchedule(ctx, &core.Schedule{Source: "b", FileName: "b", ParsedAt: now}))

	latest, err := store.LatestSchedules(ctx)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "new", latest[0].FileName)

	list, err := store.ListSchedules(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, "b", list[0].Source)
}

