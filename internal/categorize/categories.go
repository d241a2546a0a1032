package categorize

// Category is one business domain of the taxonomy. The map is static
// and read-only at runtime; the dashboard consumes it verbatim.
type Category struct {
	Label       string `json:"label"`
	Description string `json:"desc"`
}

var Categories = map[string]Category{
	"reports":       {Label: "Reports", Description: "Report view, create, edit, export, share"},
	"dashboards":    {Label: "Dashboards", Description: "Dashboard & tile operations"},
	"datasets":      {Label: "Semantic Models", Description: "Dataset refresh, edit, parameters"},
	"dataflows":     {Label: "Dataflows", Description: "Dataflow CRUD and refresh"},
	"workspaces":    {Label: "Workspaces", Description: "Workspace management & access"},
	"pipelines":     {Label: "Deployment Pipelines", Description: "ALM pipeline operations"},
	"gateways":      {Label: "Gateways", Description: "Gateway & datasource management"},
	"apps":          {Label: "Apps & Templates", Description: "App and template operations"},
	"capacity":      {Label: "Capacity & Admin", Description: "Capacity, tenant settings, admin"},
	"security":      {Label: "Security & DLP", Description: "Labels, DLP, encryption"},
	"lakehouse":     {Label: "Lakehouse", Description: "Lakehouse files, tables, shortcuts"},
	"warehouse":     {Label: "Warehouse & SQL", Description: "Warehouse, SQL endpoint, Datamart"},
	"onelake":       {Label: "OneLake Storage", Description: "Blob, file, container operations"},
	"git":           {Label: "Git Integration", Description: "Git connect, commit, branch"},
	"notebooks":     {Label: "Notebooks & Spark", Description: "Notebooks, Spark, environments"},
	"datascience":   {Label: "Data Science & AI", Description: "ML, Copilot, workloads"},
	"scorecards":    {Label: "Scorecards & Metrics", Description: "Goals, scorecards, KPIs"},
	"subscriptions": {Label: "Subscriptions", Description: "Email subscriptions, sharing, notifications"},
	"embed":         {Label: "Embed & External", Description: "Embed tokens, external shares"},
	"domains":       {Label: "Domains & Governance", Description: "Domains, VNet, governance"},
}
