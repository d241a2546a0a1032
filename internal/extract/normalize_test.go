package extract

import (
	"testing"

	"fabmon/internal/config"
	"fabmon/internal/powerbi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTenant = config.TenantConfig{ID: "tenant-a", Label: "Contoso"}

func TestNormalizeBasicEvent(t *testing.T) {
	raw := powerbi.RawEvent{
		"Id":           "evt-1",
		"CreationTime": "2025-01-15T10:30:00",
		"Operation":    "DeleteReport",
		"UserId":       "alice@contoso.com",
		"WorkspaceId":  "ws-1",
		"IsSuccess":    true,
	}

	activity, err := Normalize(raw, testTenant, "2025-01-15")
	require.NoError(t, err)
	assert.Equal(t, "evt-1", activity.ActivityID)
	assert.Equal(t, "tenant-a", activity.TenantID)
	assert.Equal(t, "Contoso", activity.TenantLabel)
	assert.Equal(t, "2025-01-15", activity.Date)
	assert.Equal(t, "DeleteReport", activity.Operation)
	assert.Equal(t, "reports", activity.Category)
	assert.Equal(t, "critical", activity.Severity)
	assert.True(t, activity.IsSuccess)
	require.NotNil(t, activity.WorkspaceID)
	assert.Equal(t, "ws-1", *activity.WorkspaceID)
	assert.Contains(t, activity.RawJSON, `"Id":"evt-1"`)
}

func TestNormalizeAliasPriority(t *testing.T) {
	raw := powerbi.RawEvent{
		"Id":                "evt-2",
		"Operation":         "ViewReport",
		"WorkspaceName":     "Sales",
		"FolderDisplayName": "Legacy Folder",
		"ClientIp":          "10.0.0.2",
		"IpAddress":         "10.0.0.9",
	}

	activity, err := Normalize(raw, testTenant, "2025-01-15")
	require.NoError(t, err)
	require.NotNil(t, activity.WorkspaceName)
	assert.Equal(t, "Sales", *activity.WorkspaceName, "WorkspaceName outranks FolderDisplayName")
	require.NotNil(t, activity.ClientIP)
	assert.Equal(t, "10.0.0.2", *activity.ClientIP, "ClientIp outranks IpAddress")
}

func TestNormalizeAbsentFieldsStayNil(t *testing.T) {
	raw := powerbi.RawEvent{
		"Id":            "evt-3",
		"Operation":     "ViewReport",
		"WorkspaceName": "",
	}

	activity, err := Normalize(raw, testTenant, "2025-01-15")
	require.NoError(t, err)
	assert.Nil(t, activity.WorkspaceName, "blank candidate is absent, not empty string")
	assert.Nil(t, activity.ItemName)
	assert.Nil(t, activity.ClientIP)
	assert.Equal(t, "unknown", activity.UserID)
}

func TestNormalizeItemNameFromRequestURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"files segment", "https://onelake.example.com/ws/lh/Files/reports/q1.csv", "reports/q1.csv"},
		{"tables segment", "https://onelake.example.com/ws/lh/Tables/sales?recursive=true", "sales"},
		{"last segment", "https://onelake.example.com/ws/lh/snapshot.parquet", "snapshot.parquet"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := powerbi.RawEvent{"Id": "evt", "Operation": "ReadBlob", "RequestUrl": tt.url}
			activity, err := Normalize(raw, testTenant, "2025-01-15")
			require.NoError(t, err)
			require.NotNil(t, activity.ItemName)
			assert.Equal(t, tt.want, *activity.ItemName)
		})
	}
}

func TestNormalizeNamedItemBeatsURL(t *testing.T) {
	raw := powerbi.RawEvent{
		"Id":         "evt-4",
		"Operation":  "ViewReport",
		"ReportName": "Quarterly",
		"RequestUrl": "https://example.com/Files/ignored.csv",
	}
	activity, err := Normalize(raw, testTenant, "2025-01-15")
	require.NoError(t, err)
	require.NotNil(t, activity.ItemName)
	assert.Equal(t, "Quarterly", *activity.ItemName)
}

func TestNormalizeIsSuccessDefaultsTrue(t *testing.T) {
	activity, err := Normalize(powerbi.RawEvent{"Id": "e", "Operation": "ViewReport"}, testTenant, "2025-01-15")
	require.NoError(t, err)
	assert.True(t, activity.IsSuccess)

	activity, err = Normalize(powerbi.RawEvent{"Id": "e", "Operation": "ViewReport", "IsSuccess": false}, testTenant, "2025-01-15")
	require.NoError(t, err)
	assert.False(t, activity.IsSuccess)
}

func TestNormalizeOperationFallsBackToActivity(t *testing.T) {
	activity, err := Normalize(powerbi.RawEvent{"Id": "e", "Activity": "ViewDashboard"}, testTenant, "2025-01-15")
	require.NoError(t, err)
	assert.Equal(t, "ViewDashboard", activity.Operation)
	assert.Equal(t, "dashboards", activity.Category)
}

func TestNormalizeMalformed(t *testing.T) {
	_, err := Normalize(powerbi.RawEvent{"Operation": "ViewReport"}, testTenant, "2025-01-15")
	assert.ErrorIs(t, err, ErrMalformedEvent)

	_, err = Normalize(powerbi.RawEvent{"Id": "evt"}, testTenant, "2025-01-15")
	assert.ErrorIs(t, err, ErrMalformedEvent)
}

func TestNormalizeBadTimestampFallsBackToDay(t *testing.T) {
	raw := powerbi.RawEvent{"Id": "e", "Operation": "ViewReport", "CreationTime": "not-a-time"}
	activity, err := Normalize(raw, testTenant, "2025-01-15")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-15", activity.Date)
	assert.Equal(t, "2025-01-15", activity.Timestamp.Format("2006-01-02"))
}
