package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldDate      = "date"
	FieldYearMonth = "year_month"
	FieldClientID  = "client_id"
	FieldServiceID = "service_id"
	FieldRecords   = "records"
	FieldIncome    = "income"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentStorage = "storage"
	ComponentBooking = "booking"
	ComponentStats   = "stats"
	ComponentBackend = "backend"
)
