package params

import "time"

const (
	ServerBodyLimit    = 1048576 // 1 MiB
	ServerIdleTimeout  = 30 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 30 * time.Second

	HealthCheckServerAddr = ":3001" // health check server address

	LoginBaseURL    = "https://login.microsoftonline.com" // OAuth2 token endpoint base
	ActivityBaseURL = "https://api.powerbi.com"           // activity events API base
	GraphBaseURL    = "https://graph.microsoft.com"       // directory API base (user resolution)
	ActivityScope   = "https://analysis.windows.net/powerbi/api/.default"
	GraphScope      = "https://graph.microsoft.com/.default"

	UpstreamRequestTimeout = 2 * time.Minute        // per HTTP request to the activity API
	TokenRequestTimeout    = 30 * time.Second       // per token exchange request
	RateLimitMaxRetries    = 5                      // max retries of one request after 429 responses
	RateLimitDefaultWait   = 60 * time.Second       // wait when a 429 carries no Retry-After header
	InterDayDelay          = 500 * time.Millisecond // pause between day windows; the API allows ~200 req/hour

	MaxBackfillDays   = 30 // upstream history retention limit
	DefaultQueryDays  = 30 // query window when no date filter is given
	DefaultQueryLimit = 1000
	InsertBatchSize   = 100 // rows per batched insert statement
	BackfillScanBatch = 500 // rows scanned per column-backfill batch
	TopUsersLimit     = 20  // user rows in stats aggregation
	DaySeriesLimit    = 30  // days in the stats day series

	ResolverCacheTTL     = 12 * time.Hour // resolved display names rarely change
	ResolverLookbackDays = 90             // user stats window scanned for GUID actors
)
