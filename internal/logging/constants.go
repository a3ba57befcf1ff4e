package logging

// Standardized field names for structured logging.
const (
	FieldFile        = "file_path"
	FieldSource      = "source"
	FieldCategory    = "category"
	FieldDescription = "description"
	FieldPattern     = "pattern"
	FieldKeyword     = "keyword"
	FieldMode        = "mode"
	FieldRunID       = "run_id"
	FieldCount       = "count"
	FieldDriver      = "driver"
	FieldFromDate    = "from_date"
	FieldToDate      = "to_date"
)
