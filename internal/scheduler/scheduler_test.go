package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fabmon/internal/config"
	"fabmon/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExtractor struct {
	mtx      sync.Mutex
	calls    []string // "tenant from to"
	events   map[string][]model.Activity
	failures map[string]error
	block    chan struct{} // when set, ExtractTenant waits on it
}

func (f *fakeExtractor) ExtractTenant(ctx context.Context, tenant config.TenantConfig, fromDate, toDate string) ([]model.Activity, error) {
	f.mtx.Lock()
	f.calls = append(f.calls, tenant.ID+" "+fromDate+" "+toDate)
	f.mtx.Unlock()
	if f.block != nil {
		<-f.block
	}
	if err := f.failures[tenant.ID]; err != nil {
		return nil, err
	}
	return f.events[tenant.ID], nil
}

type fakeStore struct {
	mtx      sync.Mutex
	inserted int64
	logs     []model.ExtractionLog
	last     *model.ExtractionLog
}

func (f *fakeStore) Insert(ctx context.Context, events []model.Activity) (int64, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.inserted += int64(len(events))
	return int64(len(events)), nil
}

func (f *fakeStore) LogExtraction(ctx context.Context, entry model.ExtractionLog) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.logs = append(f.logs, entry)
	return nil
}

func (f *fakeStore) LastExtraction(ctx context.Context) (*model.ExtractionLog, error) {
	return f.last, nil
}

func testScheduler(extractor *fakeExtractor, store *fakeStore, tenants ...string) *Scheduler {
	var cfgs []config.TenantConfig
	for _, id := range tenants {
		cfgs = append(cfgs, config.TenantConfig{ID: id, Label: id})
	}
	s := NewScheduler(extractor, store, &config.ExtractionConfig{InitialDays: 7}, cfgs)
	s.now = func() time.Time {
		return time.Date(2026, 1, 15, 3, 0, 0, 0, time.UTC)
	}
	return s
}

func TestRunStoresAndLogsPerTenant(t *testing.T) {
	extractor := &fakeExtractor{events: map[string][]model.Activity{
		"contoso":  {{ActivityID: "a"}, {ActivityID: "b"}},
		"fabrikam": {{ActivityID: "c"}},
	}}
	store := &fakeStore{}
	s := testScheduler(extractor, store, "contoso", "fabrikam")

	result, err := s.Run(context.Background(), RunOptions{Trigger: "manual"})
	require.NoError(t, err)

	assert.Equal(t, "2026-01-14", result.FromDate)
	assert.Equal(t, "2026-01-14", result.ToDate)
	assert.Equal(t, int64(3), result.EventsStored)
	assert.Equal(t, 2, result.TenantsOK)
	assert.Equal(t, 0, result.TenantsFailed)
	assert.NotZero(t, result.RunID)

	require.Len(t, store.logs, 2)
	for _, entry := range store.logs {
		assert.Equal(t, result.RunID, entry.RunID)
		assert.Equal(t, model.ExtractionStatusSuccess, entry.Status)
		assert.Equal(t, "2026-01-14", entry.DateExtracted)
	}
	assert.Equal(t, 2, store.logs[0].EventsCount)
	assert.Equal(t, 1, store.logs[1].EventsCount)
}

func TestRunWindow(t *testing.T) {
	cases := []struct {
		name string
		opts RunOptions
		from string
		to   string
	}{
		{"default is yesterday", RunOptions{}, "2026-01-14", "2026-01-14"},
		{"multi day", RunOptions{DaysBack: 3}, "2026-01-12", "2026-01-14"},
		{"include today", RunOptions{DaysBack: 2, IncludeToday: true}, "2026-01-14", "2026-01-15"},
		{"clamped to upstream max", RunOptions{DaysBack: 100}, "2025-12-16", "2026-01-14"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			extractor := &fakeExtractor{}
			s := testScheduler(extractor, &fakeStore{}, "contoso")

			_, err := s.Run(context.Background(), tc.opts)
			require.NoError(t, err)
			require.Len(t, extractor.calls, 1)
			assert.Equal(t, "contoso "+tc.from+" "+tc.to, extractor.calls[0])
		})
	}
}

func TestRunSingleFlight(t *testing.T) {
	extractor := &fakeExtractor{block: make(chan struct{})}
	s := testScheduler(extractor, &fakeStore{}, "contoso")

	done := make(chan error, 1)
	go func() {
		_, err := s.Run(context.Background(), RunOptions{})
		done <- err
	}()

	// wait for the first run to enter extraction
	require.Eventually(t, func() bool {
		extractor.mtx.Lock()
		defer extractor.mtx.Unlock()
		return len(extractor.calls) == 1
	}, time.Second, time.Millisecond)

	assert.True(t, s.Status().Running)
	_, err := s.Run(context.Background(), RunOptions{})
	assert.ErrorIs(t, err, ErrRunInProgress)

	close(extractor.block)
	require.NoError(t, <-done)

	assert.False(t, s.Status().Running)
	_, err = s.Run(context.Background(), RunOptions{})
	assert.NoError(t, err)
}

func TestStartRunConflict(t *testing.T) {
	extractor := &fakeExtractor{block: make(chan struct{})}
	s := testScheduler(extractor, &fakeStore{}, "contoso")

	require.NoError(t, s.StartRun(RunOptions{}))
	assert.ErrorIs(t, s.StartRun(RunOptions{}), ErrRunInProgress)

	close(extractor.block)
	require.Eventually(t, func() bool {
		return !s.Status().Running
	}, time.Second, time.Millisecond)
	assert.Equal(t, "success", s.Status().LastResult)
}

func TestRunTenantFailureIsolated(t *testing.T) {
	extractor := &fakeExtractor{
		events:   map[string][]model.Activity{"fabrikam": {{ActivityID: "c"}}},
		failures: map[string]error{"contoso": errors.New("token request failed")},
	}
	store := &fakeStore{}
	s := testScheduler(extractor, store, "contoso", "fabrikam")

	result, err := s.Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.TenantsOK)
	assert.Equal(t, 1, result.TenantsFailed)
	assert.Equal(t, int64(1), result.EventsStored)

	require.Len(t, store.logs, 2)
	assert.Equal(t, model.ExtractionStatusError, store.logs[0].Status)
	require.NotNil(t, store.logs[0].ErrorMessage)
	assert.Equal(t, "token request failed", *store.logs[0].ErrorMessage)
	assert.Equal(t, model.ExtractionStatusSuccess, store.logs[1].Status)

	assert.Equal(t, "partial", s.Status().LastResult)
}

func TestRunAllTenantsFailed(t *testing.T) {
	extractor := &fakeExtractor{failures: map[string]error{"contoso": errors.New("boom")}}
	s := testScheduler(extractor, &fakeStore{}, "contoso")

	_, err := s.Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, "error", s.Status().LastResult)
}

func TestBootstrap(t *testing.T) {
	extractor := &fakeExtractor{}
	store := &fakeStore{}
	s := testScheduler(extractor, store, "contoso")

	require.NoError(t, s.Bootstrap(context.Background()))
	require.Len(t, extractor.calls, 1)
	// 7 initial days ending yesterday
	assert.Equal(t, "contoso 2026-01-08 2026-01-14", extractor.calls[0])
}

func TestBootstrapSkippedWhenHistoryExists(t *testing.T) {
	extractor := &fakeExtractor{}
	store := &fakeStore{last: &model.ExtractionLog{DateExtracted: "2026-01-13"}}
	s := testScheduler(extractor, store, "contoso")

	require.NoError(t, s.Bootstrap(context.Background()))
	assert.Empty(t, extractor.calls)
}
