package powerbi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"fabmon/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) *Client {
	c := NewClient(baseURL)
	c.maxRetries = 3
	return c
}

func writePage(t *testing.T, w http.ResponseWriter, events []RawEvent, continuation string) {
	t.Helper()
	err := json.NewEncoder(w).Encode(map[string]any{
		"activityEventEntities": events,
		"continuationUri":       continuation,
	})
	require.NoError(t, err)
}

func TestFetchDaySingleDayWindow(t *testing.T) {
	var gotStart, gotEnd string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotStart = r.URL.Query().Get("startDateTime")
		gotEnd = r.URL.Query().Get("endDateTime")
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		writePage(t, w, nil, "")
	}))
	defer server.Close()

	_, err := testClient(server.URL).FetchDay(context.Background(), "token-1", "2025-01-01")
	require.NoError(t, err)
	assert.Equal(t, "'2025-01-01T00:00:00.000Z'", gotStart)
	assert.Equal(t, "'2025-01-01T23:59:59.999Z'", gotEnd)
}

func TestFetchDayPaginationTerminates(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/page2":
			writePage(t, w, []RawEvent{{"Id": "c"}}, server.URL+"/page3")
		case "/page3":
			writePage(t, w, []RawEvent{{"Id": "d"}}, "")
		default:
			writePage(t, w, []RawEvent{{"Id": "a"}, {"Id": "b"}}, server.URL+"/page2")
		}
	}))
	defer server.Close()

	events, err := testClient(server.URL).FetchDay(context.Background(), "t", "2025-01-01")
	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, "a", events[0]["Id"])
	assert.Equal(t, "d", events[3]["Id"])
}

func TestFetchDayRetriesAfter429(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writePage(t, w, []RawEvent{{"Id": "a"}}, "")
	}))
	defer server.Close()

	events, err := testClient(server.URL).FetchDay(context.Background(), "t", "2025-01-01")
	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, int32(2), calls.Load(), "the 429'd request is retried exactly once")
}

func TestFetchDayRateLimitExhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := testClient(server.URL).FetchDay(context.Background(), "t", "2025-01-01")
	var rateErr *RateLimitError
	require.ErrorAs(t, err, &rateErr)
}

func TestFetchDayUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, "invalid startDateTime")
	}))
	defer server.Close()

	_, err := testClient(server.URL).FetchDay(context.Background(), "t", "2025-01-01")
	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, http.StatusBadRequest, upstreamErr.Status)
	assert.Contains(t, upstreamErr.Body, "invalid startDateTime")
}

func TestGetToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "/dir-guid/oauth2/v2.0/token", r.URL.Path)
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))
		assert.Equal(t, "client-a", r.Form.Get("client_id"))
		assert.Equal(t, "secret-a", r.Form.Get("client_secret"))
		assert.Equal(t, "scope-x", r.Form.Get("scope"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"tok-123","token_type":"Bearer","expires_in":3600}`)
	}))
	defer server.Close()

	tenant := config.TenantConfig{
		ID:           "tenant-a",
		DirectoryID:  "dir-guid",
		ClientID:     "client-a",
		ClientSecret: "secret-a",
	}
	token, err := NewTokenProvider(server.URL).GetToken(context.Background(), tenant, "scope-x")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
}

func TestGetTokenAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"invalid_client"}`)
	}))
	defer server.Close()

	tenant := config.TenantConfig{ID: "tenant-a", DirectoryID: "dir", ClientID: "c", ClientSecret: "s"}
	_, err := NewTokenProvider(server.URL).GetToken(context.Background(), tenant, "scope-x")
	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, "tenant-a", authErr.TenantID)
	assert.Equal(t, http.StatusUnauthorized, authErr.Status)
	assert.Contains(t, authErr.Body, "invalid_client")
}
