package log

// Common field names for structured logging.
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldYear        = "year"
	FieldMonth       = "month"
	FieldDate        = "date"
	FieldKind        = "kind"
	FieldCategory    = "category"
	FieldAmountMinor = "amount_minor"
	FieldLine        = "line"
	FieldRecords     = "records"
	FieldQueue       = "queue"
	FieldExchange    = "exchange"
)

// Components defines standard component names.
const (
	ComponentApp       = "app"
	ComponentParser    = "parser"
	ComponentIngest    = "ingest"
	ComponentStorage   = "storage"
	ComponentReport    = "report"
	ComponentScheduler = "scheduler"
	ComponentAMQP      = "amqp"
	ComponentSheets    = "sheets"
	ComponentHTTP      = "http"
)

// Operations defines standard operation names.
const (
	OpParse    = "parse"
	OpInsert   = "insert"
	OpQuery    = "query"
	OpRender   = "render"
	OpDeliver  = "deliver"
	OpBackfill = "backfill"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
