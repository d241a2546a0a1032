// Package extract drives the day-windowed pull of activity events for
// configured tenants and flattens raw payloads into canonical records.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fabmon/internal/config"
	"fabmon/internal/powerbi"
	"fabmon/model"
	"fabmon/params"
)

// Extractor pulls one tenant at a time, one day at a time. The
// sequencing is deliberate: the upstream enforces a shared hourly
// request budget, so days and tenants are never fetched concurrently.
type Extractor struct {
	tokens   *powerbi.TokenProvider
	client   *powerbi.Client
	scope    string
	dayDelay time.Duration
}

func NewExtractor(tokens *powerbi.TokenProvider, client *powerbi.Client, dayDelay time.Duration) *Extractor {
	return &Extractor{
		tokens:   tokens,
		client:   client,
		scope:    params.ActivityScope,
		dayDelay: dayDelay,
	}
}

// ExtractTenant fetches and normalizes every event of the inclusive day
// range [fromDate, toDate] (YYYY-MM-DD, ascending). A failed day is
// logged and skipped; the remaining days still run. A failed token
// exchange aborts the whole tenant.
func (e *Extractor) ExtractTenant(ctx context.Context, tenant config.TenantConfig, fromDate, toDate string) ([]model.Activity, error) {
	days, err := daysBetween(fromDate, toDate)
	if err != nil {
		return nil, err
	}

	slog.Info("Authenticating tenant", "tenant", tenant.Label, "directory", tenant.DirectoryID)
	token, err := e.tokens.GetToken(ctx, tenant, e.scope)
	if err != nil {
		return nil, err
	}

	var activities []model.Activity
	for i, day := range days {
		if err := ctx.Err(); err != nil {
			return activities, err
		}

		raws, err := e.client.FetchDay(ctx, token, day)
		if err != nil {
			slog.Error("Day extraction failed", "tenant", tenant.ID, "day", day, "error", err)
			continue
		}

		skipped := 0
		for _, raw := range raws {
			activity, err := Normalize(raw, tenant, day)
			if err != nil {
				skipped++
				continue
			}
			activities = append(activities, activity)
		}
		slog.Info("Day extracted", "tenant", tenant.ID, "day", day, "events", len(raws), "skipped", skipped)

		// Spread requests to stay inside the shared hourly quota.
		if i < len(days)-1 {
			if err := sleepContext(ctx, e.dayDelay); err != nil {
				return activities, err
			}
		}
	}
	return activities, nil
}

// ExtractAll runs tenants sequentially, isolating whole-tenant failures:
// one tenant's auth failure never blocks the others.
func (e *Extractor) ExtractAll(ctx context.Context, tenants []config.TenantConfig, fromDate, toDate string) []model.Activity {
	var all []model.Activity
	for _, tenant := range tenants {
		activities, err := e.ExtractTenant(ctx, tenant, fromDate, toDate)
		if err != nil {
			slog.Error("Tenant extraction failed", "tenant", tenant.Label, "error", err)
			continue
		}
		all = append(all, activities...)
	}
	return all
}

func daysBetween(fromDate, toDate string) ([]string, error) {
	from, err := time.ParseInLocation("2006-01-02", fromDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid from date %q: %w", fromDate, err)
	}
	to, err := time.ParseInLocation("2006-01-02", toDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid to date %q: %w", toDate, err)
	}
	if from.After(to) {
		return nil, fmt.Errorf("from date %s is after to date %s", fromDate, toDate)
	}

	var days []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format("2006-01-02"))
	}
	return days, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
