package categorize

// operationTable pins the classification of every known operation
// name. Severity is assigned per operation, not inferred from verbs:
// destructive or irreversible actions (deletes, permanent removal, key
// rotation, encryption toggling) are critical; exports, sharing and
// credential/schedule changes are warning; the rest is info. Extending
// coverage means adding rows here, never touching the matcher.
var operationTable = map[string]Classification{
	// reports
	"ViewReport":                {"reports", SeverityInfo},
	"EditReport":                {"reports", SeverityInfo},
	"CreateReport":              {"reports", SeverityInfo},
	"DeleteReport":              {"reports", SeverityCritical},
	"CopyReport":                {"reports", SeverityInfo},
	"RenameReport":              {"reports", SeverityInfo},
	"ExportReport":              {"reports", SeverityWarning},
	"ExportArtifact":            {"reports", SeverityWarning},
	"ExportArtifactDownload":    {"reports", SeverityWarning},
	"DownloadReport":            {"reports", SeverityWarning},
	"PrintReport":               {"reports", SeverityInfo},
	"ShareReport":               {"reports", SeverityWarning},
	"RebindReport":              {"reports", SeverityWarning},
	"UpdateReportContent":       {"reports", SeverityInfo},
	"EditReportDescription":     {"reports", SeverityInfo},
	"EditReportProperties":      {"reports", SeverityInfo},
	"ImportArtifactStart":       {"reports", SeverityInfo},
	"ImportArtifactEnd":         {"reports", SeverityInfo},
	"Import":                    {"reports", SeverityInfo},
	"CreateReportFromLakehouse": {"reports", SeverityInfo},
	"GenerateScreenshot":        {"reports", SeverityInfo},
	"ViewUsageMetrics":          {"reports", SeverityInfo},

	// dashboards
	"ViewDashboard":   {"dashboards", SeverityInfo},
	"CreateDashboard": {"dashboards", SeverityInfo},
	"EditDashboard":   {"dashboards", SeverityInfo},
	"DeleteDashboard": {"dashboards", SeverityCritical},
	"CopyDashboard":   {"dashboards", SeverityInfo},
	"RenameDashboard": {"dashboards", SeverityInfo},
	"ShareDashboard":  {"dashboards", SeverityWarning},
	"PrintDashboard":  {"dashboards", SeverityInfo},
	"AddTile":         {"dashboards", SeverityInfo},
	"EditTile":        {"dashboards", SeverityInfo},
	"DeleteTile":      {"dashboards", SeverityWarning},
	"CloneTile":       {"dashboards", SeverityInfo},
	"PinTile":         {"dashboards", SeverityInfo},
	"ExportTile":      {"dashboards", SeverityWarning},
	"ViewTile":        {"dashboards", SeverityInfo},

	// semantic models / datasets
	"CreateDataset":                  {"datasets", SeverityInfo},
	"EditDataset":                    {"datasets", SeverityInfo},
	"DeleteDataset":                  {"datasets", SeverityCritical},
	"RefreshDataset":                 {"datasets", SeverityInfo},
	"CancelDatasetRefresh":           {"datasets", SeverityWarning},
	"ShareDataset":                   {"datasets", SeverityWarning},
	"TakeOverDataset":                {"datasets", SeverityCritical},
	"SetScheduledRefresh":            {"datasets", SeverityWarning},
	"SetAllConnections":              {"datasets", SeverityWarning},
	"BindToGateway":                  {"datasets", SeverityWarning},
	"GetDatasources":                 {"datasets", SeverityInfo},
	"AnalyzeInExcel":                 {"datasets", SeverityInfo},
	"UpdateDatasetParameters":        {"datasets", SeverityWarning},
	"EditDatasetProperties":          {"datasets", SeverityWarning},
	"DeleteDatasetRows":              {"datasets", SeverityCritical},
	"PostDatasetRows":                {"datasets", SeverityInfo},
	"ApplyChangeToPowerBIModel":      {"datasets", SeverityWarning},
	"ConnectFromExternalApplication": {"datasets", SeverityInfo},

	// dataflows
	"CreateDataflow":                {"dataflows", SeverityInfo},
	"UpdateDataflow":                {"dataflows", SeverityInfo},
	"DeleteDataflow":                {"dataflows", SeverityCritical},
	"ViewDataflow":                  {"dataflows", SeverityInfo},
	"RequestDataflowRefresh":        {"dataflows", SeverityInfo},
	"CancelDataflowRefresh":         {"dataflows", SeverityWarning},
	"SetScheduledRefreshOnDataflow": {"dataflows", SeverityWarning},
	"ExportDataflow":                {"dataflows", SeverityWarning},
	"TookOverDataflow":              {"dataflows", SeverityCritical},

	// workspaces
	"CreateWorkspace":                    {"workspaces", SeverityInfo},
	"UpdateWorkspace":                    {"workspaces", SeverityInfo},
	"DeleteGroupWorkspace":               {"workspaces", SeverityCritical},
	"RestoreWorkspace":                   {"workspaces", SeverityWarning},
	"DeleteWorkspaceViaAdminApi":         {"workspaces", SeverityCritical},
	"DeleteWorkspacesPermanentlyAsAdmin": {"workspaces", SeverityCritical},
	"MigrateWorkspaceIntoCapacity":       {"workspaces", SeverityWarning},
	"ModifyWorkspaceCapacity":            {"workspaces", SeverityWarning},
	"UpdateWorkspaceAccess":              {"workspaces", SeverityWarning},
	"UpdateFolderAccess":                 {"workspaces", SeverityWarning},
	"AddGroupMembers":                    {"workspaces", SeverityWarning},
	"DeleteGroupMembers":                 {"workspaces", SeverityCritical},
	"CreateGroup":                        {"workspaces", SeverityInfo},
	"DeleteGroup":                        {"workspaces", SeverityCritical},

	// deployment pipelines
	"CreateAlmPipeline":            {"pipelines", SeverityInfo},
	"DeleteAlmPipeline":            {"pipelines", SeverityCritical},
	"DeployAlmPipeline":            {"pipelines", SeverityWarning},
	"AssignWorkspaceToAlmPipeline": {"pipelines", SeverityWarning},
	"RunArtifact":                  {"pipelines", SeverityInfo},
	"CancelRunningArtifact":        {"pipelines", SeverityWarning},
	"ScheduleArtifact":             {"pipelines", SeverityInfo},
	"CreateArtifact":               {"pipelines", SeverityInfo},
	"DeleteArtifact":               {"pipelines", SeverityCritical},
	"ShareArtifact":                {"pipelines", SeverityWarning},
	"TakeOverArtifact":             {"pipelines", SeverityCritical},

	// gateways
	"CreateGateway":                {"gateways", SeverityInfo},
	"UpdateGateway":                {"gateways", SeverityWarning},
	"DeleteGateway":                {"gateways", SeverityCritical},
	"AddDatasourceToGateway":       {"gateways", SeverityInfo},
	"RemoveDatasourceFromGateway":  {"gateways", SeverityWarning},
	"ChangeGatewayAdministrators":  {"gateways", SeverityCritical},
	"ChangeGatewayDatasourceUsers": {"gateways", SeverityWarning},
	"UpdateDatasourceCredentials":  {"gateways", SeverityWarning},
	"UpdateDatasources":            {"gateways", SeverityWarning},
	"TakeOverDatasource":           {"gateways", SeverityCritical},

	// apps
	"CreateApp":          {"apps", SeverityInfo},
	"UpdateApp":          {"apps", SeverityInfo},
	"InstallApp":         {"apps", SeverityInfo},
	"UnpublishApp":       {"apps", SeverityWarning},
	"InstallTemplateApp": {"apps", SeverityInfo},
	"DeleteTemplateApp":  {"apps", SeverityCritical},

	// capacity & admin
	"ChangeCapacityState":           {"capacity", SeverityCritical},
	"UpdateCapacityUsersAssignment": {"capacity", SeverityCritical},
	"UpdateCapacityAdmins":          {"capacity", SeverityCritical},
	"UpdatedAdminFeatureSwitch":     {"capacity", SeverityCritical},
	"AddTenantKey":                  {"capacity", SeverityCritical},
	"RotateTenantKey":               {"capacity", SeverityCritical},
	"ExportActivityEvents":          {"capacity", SeverityInfo},
	"OptInForProTrial":              {"capacity", SeverityInfo},
	"OptInForPPUTrial":              {"capacity", SeverityInfo},

	// security
	"SensitivityLabelApplied":    {"security", SeverityWarning},
	"SensitivityLabelChanged":    {"security", SeverityWarning},
	"SensitivityLabelRemoved":    {"security", SeverityCritical},
	"DLPRuleMatch":               {"security", SeverityCritical},
	"DLPRuleUndo":                {"security", SeverityWarning},
	"ApplyWorkspaceEncryption":   {"security", SeverityCritical},
	"DisableWorkspaceEncryption": {"security", SeverityCritical},

	// lakehouse
	"CreateLakehouseFile":  {"lakehouse", SeverityInfo},
	"DeleteLakehouseFile":  {"lakehouse", SeverityWarning},
	"CreateLakehouseTable": {"lakehouse", SeverityInfo},
	"DeleteLakehouseTable": {"lakehouse", SeverityCritical},
	"LoadLakehouseTable":   {"lakehouse", SeverityInfo},
	"RefreshLakehouseData": {"lakehouse", SeverityInfo},

	// warehouse
	"CreateWarehouse":         {"warehouse", SeverityInfo},
	"DeleteWarehouse":         {"warehouse", SeverityCritical},
	"ViewWarehouse":           {"warehouse", SeverityInfo},
	"UpdateWarehouseSettings": {"warehouse", SeverityWarning},
	"ShareWarehouse":          {"warehouse", SeverityWarning},
	"CancelWarehouseBatch":    {"warehouse", SeverityWarning},
	"CreateDatamart":          {"warehouse", SeverityInfo},
	"DeleteDatamart":          {"warehouse", SeverityCritical},
	"RefreshDatamart":         {"warehouse", SeverityInfo},

	// git integration
	"ConnectToGit":      {"git", SeverityWarning},
	"DisconnectFromGit": {"git", SeverityWarning},
	"CommitToGit":       {"git", SeverityInfo},
	"UpdateFromGit":     {"git", SeverityInfo},
	"UndoGit":           {"git", SeverityWarning},
	"SwitchBranchInGit": {"git", SeverityWarning},
	"CreateBranchInGit": {"git", SeverityInfo},

	// notebooks & spark
	"StartNotebookSession":   {"notebooks", SeverityInfo},
	"StopNotebookSession":    {"notebooks", SeverityInfo},
	"CancelSparkApplication": {"notebooks", SeverityWarning},
	"ViewSparkApplication":   {"notebooks", SeverityInfo},

	// data science
	"AddExperimentRun":   {"datascience", SeverityInfo},
	"DeleteModelVersion": {"datascience", SeverityCritical},
	"DeployModelVersion": {"datascience", SeverityWarning},
	"CopilotInteraction": {"datascience", SeverityInfo},
	"RequestCopilot":     {"datascience", SeverityInfo},
	"RequestOpenAI":      {"datascience", SeverityInfo},

	// scorecards
	"CreateScorecard": {"scorecards", SeverityInfo},
	"DeleteScorecard": {"scorecards", SeverityCritical},
	"CreateGoal":      {"scorecards", SeverityInfo},
	"DeleteGoal":      {"scorecards", SeverityCritical},

	// subscriptions & comments
	"CreateEmailSubscription": {"subscriptions", SeverityInfo},
	"DeleteEmailSubscription": {"subscriptions", SeverityWarning},
	"RunEmailSubscription":    {"subscriptions", SeverityInfo},
	"PostComment":             {"subscriptions", SeverityInfo},
	"DeleteComment":           {"subscriptions", SeverityWarning},

	// embed & external sharing
	// PublishToWebReport used to carry two entries (reports and embed);
	// the embed one is canonical since the risk is external exposure.
	"GenerateEmbedToken":      {"embed", SeverityInfo},
	"PublishToWebReport":      {"embed", SeverityCritical},
	"DeleteEmbedCode":         {"embed", SeverityWarning},
	"CreateExternalDataShare": {"embed", SeverityWarning},
	"RevokeExternalDataShare": {"embed", SeverityWarning},

	// domains & governance
	"InsertDataDomainAsAdmin":      {"domains", SeverityWarning},
	"DeleteDataDomainAsAdmin":      {"domains", SeverityCritical},
	"CreateManagedVNet":            {"domains", SeverityWarning},
	"DeleteManagedVNet":            {"domains", SeverityCritical},
	"CreateManagedPrivateEndpoint": {"domains", SeverityWarning},
}
