package logging

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldUserID     = "user_id"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldMonth      = "month"
	FieldCategory   = "category"
	FieldExpenseID  = "expense_id"
	FieldBudgetID   = "budget_id"
	FieldEvent      = "event"
	FieldDriver     = "driver"
)

// Component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentStorage = "storage"
	ComponentAuth    = "auth"
	ComponentEvents  = "events"
	ComponentMigrate = "migrate"
)

// Operation names
const (
	OpCreate  = "create"
	OpRead    = "read"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpList    = "list"
	OpUpsert  = "upsert"
	OpVerify  = "verify"
	OpPublish = "publish"
)
