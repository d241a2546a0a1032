package categorize

// fallbackRules handle operations the table does not know yet; the
// upstream vocabulary grows faster than the table. Order matters:
// "lakehouse" must beat "warehouse" for names containing both, and the
// broad catch-alls ("app", "file") sit last. Severity is never guessed
// from verbs here; unknown destructive-sounding names stay at their
// rule's severity until someone pins them in the table.
var fallbackRules = []fallbackRule{
	{[]string{"lakehouse"}, "lakehouse", SeverityInfo},
	{[]string{"warehouse", "datamart", "sqlanalytics"}, "warehouse", SeverityInfo},
	{[]string{"notebook", "spark", "environment"}, "notebooks", SeverityInfo},
	{[]string{"git", "branch", "commit"}, "git", SeverityInfo},
	{[]string{"gateway", "datasource"}, "gateways", SeverityInfo},
	{[]string{"pipeline", "alm", "artifact"}, "pipelines", SeverityInfo},
	{[]string{"scorecard", "goal", "metric"}, "scorecards", SeverityInfo},
	{[]string{"report"}, "reports", SeverityInfo},
	{[]string{"dashboard", "tile"}, "dashboards", SeverityInfo},
	{[]string{"dataset", "semantic", "refresh"}, "datasets", SeverityInfo},
	{[]string{"dataflow"}, "dataflows", SeverityInfo},
	{[]string{"workspace", "group", "folder"}, "workspaces", SeverityInfo},
	{[]string{"app", "template"}, "apps", SeverityInfo},
	{[]string{"capacity", "admin", "tenant"}, "capacity", SeverityInfo},
	{[]string{"sensitivity", "dlp", "encrypt"}, "security", SeverityWarning},
	{[]string{"embed", "external", "share"}, "embed", SeverityInfo},
	{[]string{"domain", "vnet", "private"}, "domains", SeverityInfo},
	{[]string{"subscription", "email", "comment", "note"}, "subscriptions", SeverityInfo},
	{[]string{"copilot", "openai", "experiment", "model"}, "datascience", SeverityInfo},
	{[]string{"blob", "container", "file", "path"}, "onelake", SeverityInfo},
}
