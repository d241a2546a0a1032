// Package resolve maps application GUIDs appearing as activity actors
// to human readable names. GUID actors in the activity log are app
// registrations acting through the API; the directory's service
// principal list knows their display names.
package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"fabmon/internal/activities"
	"fabmon/internal/cache"
	"fabmon/internal/config"
	"fabmon/internal/powerbi"
	"fabmon/params"
	"github.com/google/uuid"
)

// powerBIServiceAppID is the well known first-party actor behind
// service initiated operations. It never resolves through the
// directory, so it gets a fixed name.
const powerBIServiceAppID = "00000009-0000-0000-c000-000000000000"

const cacheKey = "names"

type userSource interface {
	UserStats(ctx context.Context, filter activities.StatsFilter) ([]activities.UserStat, error)
}

type servicePrincipal struct {
	DisplayName    string `json:"displayName"`
	AppDisplayName string `json:"appDisplayName"`
	AppID          string `json:"appId"`
}

type servicePrincipalPage struct {
	Value []servicePrincipal `json:"value"`
}

type Resolver struct {
	users        userSource
	tokens       *powerbi.TokenProvider
	tenants      []config.TenantConfig
	names        cache.Store[map[string]string]
	graphBaseURL string
	httpClient   *http.Client
	cacheTTL     time.Duration
}

func NewResolver(users userSource, tokens *powerbi.TokenProvider, tenants []config.TenantConfig, storage cache.Storage, graphBaseURL string) *Resolver {
	if graphBaseURL == "" {
		graphBaseURL = params.GraphBaseURL
	}
	return &Resolver{
		users:        users,
		tokens:       tokens,
		tenants:      tenants,
		names:        cache.New[map[string]string](storage, "resolver:"),
		graphBaseURL: graphBaseURL,
		httpClient:   &http.Client{Timeout: params.TokenRequestTimeout},
		cacheTTL:     params.ResolverCacheTTL,
	}
}

// ResolveNames returns the GUID-to-name mapping for every GUID actor
// seen in recent activity. The result is cached; directory lookups
// only happen on a cold cache. Per-tenant and per-id failures degrade
// to a partial mapping, never an error.
func (r *Resolver) ResolveNames(ctx context.Context) (map[string]string, error) {
	if cached, err := r.names.Get(ctx, cacheKey); err == nil {
		return cached, nil
	}

	resolved := make(map[string]string)

	users, err := r.users.UserStats(ctx, activities.StatsFilter{Days: params.ResolverLookbackDays})
	if err != nil {
		return nil, err
	}

	byTenant := make(map[string][]string)
	seen := make(map[string]bool)
	for _, u := range users {
		if u.UserID == powerBIServiceAppID || uuid.Validate(u.UserID) != nil {
			continue
		}
		if seen[u.UserID] {
			continue
		}
		seen[u.UserID] = true
		byTenant[u.TenantID] = append(byTenant[u.TenantID], u.UserID)
	}

	for _, tenant := range r.tenants {
		ids := byTenant[tenant.ID]
		if len(ids) == 0 {
			continue
		}
		accessToken, err := r.tokens.GetToken(ctx, tenant, params.GraphScope)
		if err != nil {
			slog.Warn("directory token unavailable, skipping tenant",
				"tenant", tenant.ID, "error", err)
			continue
		}
		for _, id := range ids {
			name, err := r.lookupAppName(ctx, accessToken, id)
			if err != nil {
				slog.Debug("app name lookup failed", "appId", id, "error", err)
				continue
			}
			if name != "" {
				resolved[id] = name
			}
		}
	}

	resolved[powerBIServiceAppID] = "Power BI Service"
	for _, tenant := range r.tenants {
		if tenant.ClientID == "" {
			continue
		}
		if _, ok := resolved[tenant.ClientID]; !ok {
			resolved[tenant.ClientID] = fmt.Sprintf("%s (API App)", tenant.Label)
		}
	}

	if err := r.names.Set(ctx, cacheKey, resolved, r.cacheTTL); err != nil {
		slog.Warn("could not cache resolved names", "error", err)
	}
	return resolved, nil
}

// lookupAppName queries the directory's service principals by appId.
// GUID actors in activity events are appId values, not object ids.
func (r *Resolver) lookupAppName(ctx context.Context, accessToken, appID string) (string, error) {
	query := url.Values{}
	query.Set("$filter", fmt.Sprintf("appId eq '%s'", appID))
	query.Set("$select", "displayName,appDisplayName,appId")
	reqURL := fmt.Sprintf("%s/v1.0/servicePrincipals?%s", r.graphBaseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &powerbi.UpstreamError{Status: resp.StatusCode, Body: string(body)}
	}

	var page servicePrincipalPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return "", err
	}
	if len(page.Value) == 0 {
		return "", nil
	}
	sp := page.Value[0]
	if sp.DisplayName != "" {
		return sp.DisplayName, nil
	}
	return sp.AppDisplayName, nil
}
