package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldFile      = "file"
	FieldRow       = "row"
	FieldCount     = "count"
	FieldSkipped   = "skipped"
	FieldBackup    = "backup"
	FieldCategory  = "category"
	FieldAmount    = "amount"
	FieldDate      = "date"
	FieldYear      = "year"
	FieldMonth     = "month"
	FieldMatches   = "matches"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentShell   = "shell"
	ComponentExpense = "expense"
	ComponentStorage = "storage"
)
