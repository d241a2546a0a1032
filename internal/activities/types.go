package activities

// Filter narrows an activity query. Every field is optional and all
// set fields apply together (AND). Days is relative to today; From/To
// are inclusive YYYY-MM-DD bounds. This vocabulary mirrors the
// dashboard's query string parameters exactly.
type Filter struct {
	Tenant    string
	User      string // substring match on the actor id
	Category  string
	Severity  string
	Operation string
	From      string
	To        string
	Days      int
	Search    string // free text over operation/user/item/workspace
	Limit     int
	Offset    int
}

// StatsFilter scopes the aggregation queries. All groupings share it.
type StatsFilter struct {
	Tenant string
	Days   int
	From   string
	To     string
}

type SeverityCount struct {
	Severity string `json:"severity"`
	Count    int64  `json:"count"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type TenantCount struct {
	TenantID    string `json:"tenant_id"`
	TenantLabel string `json:"tenant_label"`
	Count       int64  `json:"count"`
}

type UserCount struct {
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
	Count    int64  `json:"count"`
}

type DayCount struct {
	Date     string `json:"date"`
	Total    int64  `json:"total"`
	Critical int64  `json:"critical"`
	Warning  int64  `json:"warning"`
	Info     int64  `json:"info"`
}

type Stats struct {
	Total       int64           `json:"total"`
	BySeverity  []SeverityCount `json:"bySeverity"`
	ByCategory  []CategoryCount `json:"byCategory"`
	ByTenant    []TenantCount   `json:"byTenant"`
	ByUser      []UserCount     `json:"byUser"`
	ByDay       []DayCount      `json:"byDay"` // oldest-first
	Failures    int64           `json:"failures"`
	UniqueUsers int64           `json:"uniqueUsers"`
}

// UserStat is one row of the per-user breakdown.
type UserStat struct {
	UserID       string `json:"user_id"`
	TenantID     string `json:"tenant_id"`
	TenantLabel  string `json:"tenant_label"`
	Total        int64  `json:"total"`
	Critical     int64  `json:"critical"`
	Warning      int64  `json:"warning"`
	Failures     int64  `json:"failures"`
	LastActivity string `json:"last_activity"`
}

// DateBounds is the min/max calendar day present in storage.
type DateBounds struct {
	MinDate *string `json:"min_date"`
	MaxDate *string `json:"max_date"`
}
