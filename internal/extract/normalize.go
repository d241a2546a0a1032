package extract

import (
	"encoding/json"
	"errors"
	"net/url"
	"regexp"
	"strings"
	"time"

	"fabmon/internal/categorize"
	"fabmon/internal/config"
	"fabmon/internal/powerbi"
	"fabmon/model"
)

// ErrMalformedEvent marks a raw event missing its identity or
// operation name. Such events are skipped; extraction continues.
var ErrMalformedEvent = errors.New("malformed event")

// Alias lists for fields the upstream spells differently depending on
// the operation class. Order is priority: first non-empty wins.
var (
	workspaceNameAliases = []string{"WorkspaceName", "WorkSpaceName", "workspaceName", "FolderDisplayName", "LakehouseName"}
	workspaceIDAliases   = []string{"WorkspaceId", "workspaceId"}
	itemNameAliases      = []string{"ArtifactName", "ReportName", "DashboardName", "DatasetName", "DataflowName", "ObjectDisplayName", "FileName", "ItemName", "ObjectId"}
	itemIDAliases        = []string{"ArtifactId", "ReportId", "DashboardId", "DatasetId", "DataflowId", "ObjectId", "ItemId"}
	itemTypeAliases      = []string{"ItemType", "ArtifactType", "ObjectType"}
	clientIPAliases      = []string{"ClientIP", "ClientIp", "clientIP", "IpAddress", "IPAddress"}
	userAgentAliases     = []string{"UserAgent", "userAgent", "Browser"}
)

// Normalize flattens one raw upstream event into the canonical record.
// The untyped map stays confined here: everything downstream sees only
// model.Activity. The full payload is kept verbatim so columns promoted
// later can be re-derived.
func Normalize(raw powerbi.RawEvent, tenant config.TenantConfig, day string) (model.Activity, error) {
	activityID := stringField(raw, "Id")
	operation := firstString(raw, "Operation", "Activity")
	if activityID == "" || operation == nil {
		return model.Activity{}, ErrMalformedEvent
	}

	timestamp, date := eventTime(stringField(raw, "CreationTime"), day)

	itemName := firstString(raw, itemNameAliases...)
	if itemName == nil {
		itemName = pathFromURL(stringField(raw, "RequestUrl"))
	}

	userID := stringField(raw, "UserId")
	if userID == "" {
		userID = "unknown"
	}

	// IsSuccess defaults to true unless the upstream says otherwise.
	isSuccess := true
	if v, ok := raw["IsSuccess"].(bool); ok {
		isSuccess = v
	}

	rawJSON, err := json.Marshal(raw)
	if err != nil {
		return model.Activity{}, ErrMalformedEvent
	}

	class := categorize.Categorize(*operation)

	return model.Activity{
		ActivityID:    activityID,
		Timestamp:     timestamp,
		Date:          date,
		Operation:     *operation,
		UserID:        userID,
		UserKey:       firstString(raw, "UserKey"),
		OrgID:         firstString(raw, "OrganizationId"),
		TenantID:      tenant.ID,
		TenantLabel:   tenant.Label,
		WorkspaceName: firstString(raw, workspaceNameAliases...),
		WorkspaceID:   firstString(raw, workspaceIDAliases...),
		ItemName:      itemName,
		ItemID:        firstString(raw, itemIDAliases...),
		ItemType:      firstString(raw, itemTypeAliases...),
		CapacityID:    firstString(raw, "CapacityId"),
		CapacityName:  firstString(raw, "CapacityName"),
		ClientIP:      firstString(raw, clientIPAliases...),
		UserAgent:     firstString(raw, userAgentAliases...),
		IsSuccess:     isSuccess,
		Category:      class.Category,
		Severity:      class.Severity,
		RawJSON:       string(rawJSON),
	}, nil
}

// firstString resolves an ordered alias list to the first non-empty
// candidate, or nil when every candidate is absent or blank. The nil
// keeps "known absent" distinct from an empty string in storage.
func firstString(raw powerbi.RawEvent, keys ...string) *string {
	for _, key := range keys {
		if s := stringField(raw, key); s != "" {
			return &s
		}
	}
	return nil
}

func stringField(raw powerbi.RawEvent, key string) string {
	if v, ok := raw[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05", // CreationTime often omits the zone
}

func eventTime(creationTime, day string) (time.Time, string) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, creationTime); err == nil {
			return ts.UTC(), ts.UTC().Format("2006-01-02")
		}
	}
	midnight, _ := time.ParseInLocation("2006-01-02", day, time.UTC)
	return midnight, day
}

var (
	filesSegmentRe  = regexp.MustCompile(`(?i)/Files/(.+?)(?:\?|$)`)
	tablesSegmentRe = regexp.MustCompile(`(?i)/Tables/(.+?)(?:\?|$)`)
)

// pathFromURL extracts a usable item name from a storage request URL:
// the segment after /Files/ or /Tables/, else the last path segment.
func pathFromURL(rawURL string) *string {
	if rawURL == "" {
		return nil
	}
	if m := filesSegmentRe.FindStringSubmatch(rawURL); m != nil {
		return &m[1]
	}
	if m := tablesSegmentRe.FindStringSubmatch(rawURL); m != nil {
		return &m[1]
	}
	trimmed := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		trimmed = u.Path
	}
	segments := strings.FieldsFunc(trimmed, func(r rune) bool { return r == '/' })
	if len(segments) == 0 {
		return nil
	}
	last := segments[len(segments)-1]
	return &last
}
