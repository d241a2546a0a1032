// Package scheduler owns when extraction runs: the nightly cron, the
// manual and backfill triggers and the first-run bootstrap all funnel
// through one guarded entry point.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"fabmon/internal/config"
	"fabmon/model"
	"fabmon/params"
	"github.com/robfig/cron/v3"
)

var ErrRunInProgress = errors.New("extraction already in progress")

// RunOptions selects the day window of a run. DaysBack counts from the
// end of the window, which is yesterday unless IncludeToday is set;
// today's data may still be partial because the upstream publishes
// events with up to a day of delay.
type RunOptions struct {
	DaysBack     int
	IncludeToday bool
	Trigger      string
}

// RunResult summarizes one completed run across all tenants.
type RunResult struct {
	RunID         int64  `json:"run_id"`
	FromDate      string `json:"from_date"`
	ToDate        string `json:"to_date"`
	EventsStored  int64  `json:"events_stored"`
	TenantsOK     int    `json:"tenants_ok"`
	TenantsFailed int    `json:"tenants_failed"`
}

// Status is the point-in-time view served to the dashboard.
type Status struct {
	Running         bool       `json:"running"`
	LastRun         *time.Time `json:"last_run"`
	LastResult      string     `json:"last_result"`
	EventsExtracted int64      `json:"events_extracted"`
}

type runStore interface {
	Insert(ctx context.Context, events []model.Activity) (int64, error)
	LogExtraction(ctx context.Context, entry model.ExtractionLog) error
	LastExtraction(ctx context.Context) (*model.ExtractionLog, error)
}

type tenantExtractor interface {
	ExtractTenant(ctx context.Context, tenant config.TenantConfig, fromDate, toDate string) ([]model.Activity, error)
}

type Scheduler struct {
	extractor   tenantExtractor
	store       runStore
	tenants     []config.TenantConfig
	cron        *cron.Cron
	initialDays int
	now         func() time.Time

	running atomic.Bool

	mtx             sync.Mutex
	lastRun         *time.Time
	lastResult      string
	eventsExtracted int64
}

func NewScheduler(extractor tenantExtractor, store runStore, cfg *config.ExtractionConfig, tenants []config.TenantConfig) *Scheduler {
	return &Scheduler{
		extractor:   extractor,
		store:       store,
		tenants:     tenants,
		cron:        cron.New(),
		initialDays: cfg.InitialDays,
		now:         time.Now,
	}
}

// Run executes one extraction run. At most one run exists at a time
// process-wide; a second caller gets ErrRunInProgress immediately
// instead of queueing.
func (s *Scheduler) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer s.running.Store(false)
	return s.run(ctx, opts), nil
}

// StartRun is the non-blocking variant used by the HTTP triggers: the
// guard is taken synchronously so the caller learns about a conflict
// immediately, while the run itself proceeds in the background.
func (s *Scheduler) StartRun(opts RunOptions) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrRunInProgress
	}
	go func() {
		defer s.running.Store(false)
		s.run(context.Background(), opts)
	}()
	return nil
}

// run assumes the caller holds the running flag.
func (s *Scheduler) run(ctx context.Context, opts RunOptions) *RunResult {
	fromDate, toDate := s.window(opts)
	result := &RunResult{
		RunID:    model.GenerateRunID(),
		FromDate: fromDate,
		ToDate:   toDate,
	}
	slog.Info("Extraction run starting", "run", result.RunID, "trigger", opts.Trigger,
		"from", fromDate, "to", toDate, "tenants", len(s.tenants))

	for _, tenant := range s.tenants {
		inserted, err := s.runTenant(ctx, result.RunID, tenant, fromDate, toDate)
		if err != nil {
			slog.Error("Tenant run failed", "run", result.RunID, "tenant", tenant.ID, "error", err)
			result.TenantsFailed++
			continue
		}
		result.TenantsOK++
		result.EventsStored += inserted
	}

	s.recordRun(result)
	slog.Info("Extraction run finished", "run", result.RunID,
		"stored", result.EventsStored, "failed_tenants", result.TenantsFailed)
	return result
}

// runTenant extracts, stores and logs a single tenant. Every tenant
// gets its own extraction_log row whatever the outcome.
func (s *Scheduler) runTenant(ctx context.Context, runID int64, tenant config.TenantConfig, fromDate, toDate string) (int64, error) {
	startedAt := s.now()

	events, err := s.extractor.ExtractTenant(ctx, tenant, fromDate, toDate)
	var inserted int64
	if err == nil {
		inserted, err = s.store.Insert(ctx, events)
	}

	entry := model.ExtractionLog{
		RunID:         runID,
		TenantID:      tenant.ID,
		DateExtracted: toDate,
		EventsCount:   int(inserted),
		StartedAt:     startedAt,
		Status:        model.ExtractionStatusSuccess,
	}
	if err != nil {
		msg := err.Error()
		entry.Status = model.ExtractionStatusError
		entry.ErrorMessage = &msg
	}
	if logErr := s.store.LogExtraction(ctx, entry); logErr != nil {
		slog.Error("Could not record extraction log", "tenant", tenant.ID, "error", logErr)
	}
	return inserted, err
}

// window converts RunOptions into inclusive day bounds. DaysBack is
// clamped to the longest history the upstream retains.
func (s *Scheduler) window(opts RunOptions) (string, string) {
	daysBack := opts.DaysBack
	if daysBack <= 0 {
		daysBack = 1
	}
	if daysBack > params.MaxBackfillDays {
		daysBack = params.MaxBackfillDays
	}

	to := s.now().UTC()
	if !opts.IncludeToday {
		to = to.AddDate(0, 0, -1)
	}
	from := to.AddDate(0, 0, -(daysBack - 1))
	return from.Format("2006-01-02"), to.Format("2006-01-02")
}

func (s *Scheduler) recordRun(result *RunResult) {
	now := s.now()
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.lastRun = &now
	s.eventsExtracted = result.EventsStored
	if result.TenantsFailed > 0 {
		s.lastResult = "partial"
		if result.TenantsOK == 0 {
			s.lastResult = "error"
		}
	} else {
		s.lastResult = "success"
	}
}

func (s *Scheduler) Status() Status {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return Status{
		Running:         s.running.Load(),
		LastRun:         s.lastRun,
		LastResult:      s.lastResult,
		EventsExtracted: s.eventsExtracted,
	}
}

// Bootstrap runs an initial multi-day pull when the extraction log is
// empty, so a fresh deployment has data before the first cron tick.
func (s *Scheduler) Bootstrap(ctx context.Context) error {
	last, err := s.store.LastExtraction(ctx)
	if err != nil {
		return err
	}
	if last != nil {
		slog.Info("Previous extraction found, skipping bootstrap", "last", last.DateExtracted)
		return nil
	}
	slog.Info("No previous extraction, bootstrapping", "days", s.initialDays)
	_, err = s.Run(ctx, RunOptions{DaysBack: s.initialDays, Trigger: "bootstrap"})
	return err
}

// Schedule registers the nightly run and starts the cron loop.
func (s *Scheduler) Schedule(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		_, err := s.Run(context.Background(), RunOptions{DaysBack: 1, Trigger: "cron"})
		if errors.Is(err, ErrRunInProgress) {
			slog.Warn("Cron tick skipped, a run is already in progress")
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}
