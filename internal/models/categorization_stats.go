package models

import (
	"fjacquet/txcat/internal/logging"
)

// CategorizationStats tracks the outcome of one categorization run
type CategorizationStats struct {
	Total       int // Transactions processed
	Categorized int // Matched exactly one existing category
	Resolved    int // Resolved interactively
	Created     int // New categories created by interactive resolution
	Extended    int // Patterns extended by interactive resolution
}

// NewCategorizationStats creates an empty CategorizationStats
func NewCategorizationStats() *CategorizationStats {
	return &CategorizationStats{}
}

// LogSummary logs a summary of the run
func (cs CategorizationStats) LogSummary(logger logging.Logger, mode string) {
	if logger == nil {
		return
	}

	logger.Info("Categorization summary",
		logging.Field{Key: logging.FieldMode, Value: mode},
		logging.Field{Key: "total_transactions", Value: cs.Total},
		logging.Field{Key: "categorized", Value: cs.Categorized},
		logging.Field{Key: "resolved", Value: cs.Resolved},
		logging.Field{Key: "categories_created", Value: cs.Created},
		logging.Field{Key: "patterns_extended", Value: cs.Extended},
	)
}
