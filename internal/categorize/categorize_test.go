package categorize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorizeKnownOperations(t *testing.T) {
	tests := []struct {
		operation string
		category  string
		severity  string
	}{
		{"ViewReport", "reports", SeverityInfo},
		{"DeleteReport", "reports", SeverityCritical},
		{"ExportReport", "reports", SeverityWarning},
		{"ShareDashboard", "dashboards", SeverityWarning},
		{"TakeOverDataset", "datasets", SeverityCritical},
		{"RotateTenantKey", "capacity", SeverityCritical},
		{"DisableWorkspaceEncryption", "security", SeverityCritical},
		{"PublishToWebReport", "embed", SeverityCritical},
		{"CommitToGit", "git", SeverityInfo},
	}
	for _, tt := range tests {
		got := Categorize(tt.operation)
		assert.Equal(t, tt.category, got.Category, tt.operation)
		assert.Equal(t, tt.severity, got.Severity, tt.operation)
	}
}

func TestCategorizeFallbackRules(t *testing.T) {
	tests := []struct {
		operation string
		category  string
		severity  string
	}{
		{"SomeNewOperationLakehouseThing", "lakehouse", SeverityInfo},
		{"BrandNewWarehouseOp", "warehouse", SeverityInfo},
		{"StartSparkJobDefinition", "notebooks", SeverityInfo},
		{"SensitivityPolicyChanged", "security", SeverityWarning},
		{"ReadBlobStorage", "onelake", SeverityInfo},
	}
	for _, tt := range tests {
		_, known := operationTable[tt.operation]
		require.False(t, known, "test operation must not be in the exact table: %s", tt.operation)
		got := Categorize(tt.operation)
		assert.Equal(t, tt.category, got.Category, tt.operation)
		assert.Equal(t, tt.severity, got.Severity, tt.operation)
	}
}

// Table entries win even when a fallback substring would also match.
func TestCategorizeExactMatchPriority(t *testing.T) {
	// "DeleteLakehouseTable" contains "lakehouse", which the first
	// fallback rule maps to info; the table pins it critical.
	got := Categorize("DeleteLakehouseTable")
	assert.Equal(t, "lakehouse", got.Category)
	assert.Equal(t, SeverityCritical, got.Severity)
}

func TestCategorizeFallbackOrder(t *testing.T) {
	// Contains both "lakehouse" and "warehouse"; the lakehouse rule is
	// declared first and must win.
	got := Categorize("SyncLakehouseToWarehouseUnknown")
	assert.Equal(t, "lakehouse", got.Category)
}

func TestCategorizeDefault(t *testing.T) {
	got := Categorize("Zzyzx")
	assert.Equal(t, DefaultCategory, got.Category)
	assert.Equal(t, SeverityInfo, got.Severity)
}

// Total: any input, including empty and garbage, yields a usable pair.
func TestCategorizeTotality(t *testing.T) {
	for _, op := range []string{"", " ", "ViewReport", "!!!", "ünïcode-Ops"} {
		got := Categorize(op)
		assert.NotEmpty(t, got.Category, op)
		assert.NotEmpty(t, got.Severity, op)
	}
}

// Every table entry references a declared category and severity.
func TestOperationTableConsistency(t *testing.T) {
	valid := map[string]bool{SeverityInfo: true, SeverityWarning: true, SeverityCritical: true}
	for op, c := range operationTable {
		_, ok := Categories[c.Category]
		assert.True(t, ok, "unknown category %q for %q", c.Category, op)
		assert.True(t, valid[c.Severity], "invalid severity %q for %q", c.Severity, op)
	}
	for _, rule := range fallbackRules {
		_, ok := Categories[rule.category]
		assert.True(t, ok, "unknown category %q in fallback rule", rule.category)
	}
}
