// Package categorize assigns every upstream operation name a business
// category and a risk severity. Classification is data-driven: an exact
// lookup table first, then an ordered list of substring rules, then a
// default. The matcher never fails; unknown operations land in the
// default category with severity info.
package categorize

import "strings"

const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// DefaultCategory absorbs operations no table entry or rule matches.
const DefaultCategory = "capacity"

type Classification struct {
	Category string
	Severity string
}

// fallbackRule matches when the lowercased operation name contains any
// of the substrings. Rules are evaluated in declaration order; the
// first hit wins, so more specific substrings come first.
type fallbackRule struct {
	substrings []string
	category   string
	severity   string
}

// Categorize maps an operation name to its classification. Exact table
// entries take precedence over substring rules even when a rule would
// also match.
func Categorize(operation string) Classification {
	if c, ok := operationTable[operation]; ok {
		return c
	}
	op := strings.ToLower(operation)
	for _, rule := range fallbackRules {
		for _, sub := range rule.substrings {
			if strings.Contains(op, sub) {
				return Classification{Category: rule.category, Severity: rule.severity}
			}
		}
	}
	return Classification{Category: DefaultCategory, Severity: SeverityInfo}
}
