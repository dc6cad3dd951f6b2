package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldPage       = "page"
	FieldLimit      = "limit"
	FieldCategory   = "category"
	FieldExpenseID  = "expense_id"
	FieldUserID     = "user_id"
	FieldDraftCount = "draft_count"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentAPI       = "api"
	ComponentAuth      = "auth"
	ComponentExpenses  = "expenses"
	ComponentSession   = "session"
	ComponentStaging   = "staging"
	ComponentExtract   = "extract"
	ComponentDashboard = "dashboard"
	ComponentCache     = "cache"
	ComponentCLI       = "cli"
)

// Operations defines standard operation names
const (
	OpLoad      = "load"
	OpCreate    = "create"
	OpUpdate    = "update"
	OpDelete    = "delete"
	OpList      = "list"
	OpLogin     = "login"
	OpLogout    = "logout"
	OpBootstrap = "bootstrap"
	OpExtract   = "extract"
	OpSave      = "save"
	OpAggregate = "aggregate"
)
