// Package activities persists normalized activity events and the
// extraction log, and answers the dashboard's filtered query and
// aggregation requests.
package activities

import (
	"context"
	"errors"
	"time"

	"fabmon/model"
	"fabmon/params"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the single durable handle, constructed at process start and
// passed to whoever needs it. Reads may run concurrently with an
// in-flight extraction's writes; each batch insert commits atomically.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Insert writes a batch of events inside one transaction. Rows whose
// (activity_id, tenant_id) already exists are skipped silently; the
// returned count covers newly inserted rows only.
func (s *Store) Insert(ctx context.Context, events []model.Activity) (int64, error) {
	if len(events) == 0 {
		return 0, nil
	}
	var inserted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			CreateInBatches(&events, params.InsertBatchSize)
		if res.Error != nil {
			return res.Error
		}
		inserted = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// Query returns matching events, newest first. Without any date filter
// the window defaults to the last 30 days; an unbounded full-table
// scan is never issued by default.
func (s *Store) Query(ctx context.Context, filter Filter) ([]model.Activity, error) {
	if filter.Days == 0 && filter.From == "" && filter.To == "" {
		filter.Days = params.DefaultQueryDays
	}

	db := s.scopedQuery(ctx, filter)
	limit := filter.Limit
	if limit <= 0 {
		limit = params.DefaultQueryLimit
	}

	var events []model.Activity
	err := db.Order("timestamp DESC").Limit(limit).Offset(filter.Offset).Find(&events).Error
	return events, err
}

func (s *Store) scopedQuery(ctx context.Context, filter Filter) *gorm.DB {
	db := s.db.WithContext(ctx).Model(&model.Activity{})
	if filter.Tenant != "" {
		db = db.Where("tenant_id = ?", filter.Tenant)
	}
	if filter.User != "" {
		db = db.Where("user_id LIKE ?", "%"+filter.User+"%")
	}
	if filter.Category != "" {
		db = db.Where("category = ?", filter.Category)
	}
	if filter.Severity != "" {
		db = db.Where("severity = ?", filter.Severity)
	}
	if filter.Operation != "" {
		db = db.Where("operation = ?", filter.Operation)
	}
	if filter.From != "" {
		db = db.Where("date >= ?", filter.From)
	}
	if filter.To != "" {
		db = db.Where("date <= ?", filter.To)
	}
	if filter.Days > 0 {
		db = db.Where("date >= ?", s.daysAgo(filter.Days))
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		db = db.Where("(operation LIKE ? OR user_id LIKE ? OR item_name LIKE ? OR workspace_name LIKE ?)",
			like, like, like, like)
	}
	return db
}

// Stats runs every aggregation under the same filter scope.
func (s *Store) Stats(ctx context.Context, filter StatsFilter) (*Stats, error) {
	scoped := func() *gorm.DB {
		db := s.db.WithContext(ctx).Model(&model.Activity{})
		if filter.Tenant != "" {
			db = db.Where("tenant_id = ?", filter.Tenant)
		}
		if filter.Days > 0 {
			db = db.Where("date >= ?", s.daysAgo(filter.Days))
		}
		if filter.From != "" {
			db = db.Where("date >= ?", filter.From)
		}
		if filter.To != "" {
			db = db.Where("date <= ?", filter.To)
		}
		return db
	}

	stats := &Stats{}
	if err := scoped().Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := scoped().Select("severity, COUNT(*) as count").
		Group("severity").Scan(&stats.BySeverity).Error; err != nil {
		return nil, err
	}
	if err := scoped().Select("category, COUNT(*) as count").
		Group("category").Order("count DESC").Scan(&stats.ByCategory).Error; err != nil {
		return nil, err
	}
	if err := scoped().Select("tenant_id, tenant_label, COUNT(*) as count").
		Group("tenant_id, tenant_label").Scan(&stats.ByTenant).Error; err != nil {
		return nil, err
	}
	if err := scoped().Select("user_id, tenant_id, COUNT(*) as count").
		Group("user_id, tenant_id").Order("count DESC").
		Limit(params.TopUsersLimit).Scan(&stats.ByUser).Error; err != nil {
		return nil, err
	}

	var byDay []DayCount
	err := scoped().Select(`date, COUNT(*) as total,
		SUM(CASE WHEN severity = 'critical' THEN 1 ELSE 0 END) as critical,
		SUM(CASE WHEN severity = 'warning' THEN 1 ELSE 0 END) as warning,
		SUM(CASE WHEN severity = 'info' THEN 1 ELSE 0 END) as info`).
		Group("date").Order("date DESC").Limit(params.DaySeriesLimit).Scan(&byDay).Error
	if err != nil {
		return nil, err
	}
	// newest-first from the query, oldest-first for charting
	for i, j := 0, len(byDay)-1; i < j; i, j = i+1, j-1 {
		byDay[i], byDay[j] = byDay[j], byDay[i]
	}
	stats.ByDay = byDay

	if err := scoped().Where("is_success = ?", false).Count(&stats.Failures).Error; err != nil {
		return nil, err
	}
	if err := scoped().Distinct("user_id").Count(&stats.UniqueUsers).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

// UserStats returns the per-user breakdown ordered by activity volume.
func (s *Store) UserStats(ctx context.Context, filter StatsFilter) ([]UserStat, error) {
	db := s.db.WithContext(ctx).Model(&model.Activity{})
	if filter.Tenant != "" {
		db = db.Where("tenant_id = ?", filter.Tenant)
	}
	if filter.Days > 0 {
		db = db.Where("date >= ?", s.daysAgo(filter.Days))
	}

	var users []UserStat
	err := db.Select(`user_id, tenant_id, tenant_label, COUNT(*) as total,
		SUM(CASE WHEN severity = 'critical' THEN 1 ELSE 0 END) as critical,
		SUM(CASE WHEN severity = 'warning' THEN 1 ELSE 0 END) as warning,
		SUM(CASE WHEN is_success THEN 0 ELSE 1 END) as failures,
		MAX(timestamp) as last_activity`).
		Group("user_id, tenant_id, tenant_label").
		Order("total DESC").
		Scan(&users).Error
	return users, err
}

// LogExtraction appends one per-tenant run outcome. Entries are never
// updated or deleted.
func (s *Store) LogExtraction(ctx context.Context, entry model.ExtractionLog) error {
	return s.db.WithContext(ctx).Create(&entry).Error
}

// LastExtraction returns the most recently completed log entry, or nil
// when no extraction has ever run.
func (s *Store) LastExtraction(ctx context.Context) (*model.ExtractionLog, error) {
	var entry model.ExtractionLog
	err := s.db.WithContext(ctx).Order("completed_at DESC, id DESC").First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// DateBounds reports the calendar-day range present in storage.
func (s *Store) DateBounds(ctx context.Context) (DateBounds, error) {
	var bounds DateBounds
	err := s.db.WithContext(ctx).Model(&model.Activity{}).
		Select("MIN(date) as min_date, MAX(date) as max_date").
		Scan(&bounds).Error
	return bounds, err
}

func (s *Store) daysAgo(days int) string {
	return s.now().UTC().AddDate(0, 0, -days).Format("2006-01-02")
}
