// Package categorizer assigns every transaction to exactly one category by
// matching its description against the category patterns. Transactions that
// match nothing either abort the run (batch mode) or are handed to an
// interactive resolution that teaches the category set a new rule.
package categorizer

import (
	"context"
	"fmt"

	"fjacquet/txcat/internal/apperrors"
	"fjacquet/txcat/internal/logging"
	"fjacquet/txcat/internal/models"

	"github.com/google/uuid"
)

// Mode selects how unmatched transactions are handled.
type Mode string

const (
	// ModeBatch fails the run on the first unmatched transaction.
	ModeBatch Mode = "batch"
	// ModeInteractive asks the user for a category and pattern.
	ModeInteractive Mode = "interactive"
)

// Status is the outcome of a single categorization step.
type Status int

const (
	// StatusCategorized means the transaction was recorded in exactly one category.
	StatusCategorized Status = iota
	// StatusNeedsInput means no category matched and a Resolution is required
	// before the transaction can be recorded.
	StatusNeedsInput
)

func (s Status) String() string {
	switch s {
	case StatusCategorized:
		return "categorized"
	case StatusNeedsInput:
		return "needs_input"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// StepResult describes what happened to one transaction.
type StepResult struct {
	Status   Status
	Category *models.Category // set when Status is StatusCategorized
}

// Categorizer owns the working category set for one run.
type Categorizer struct {
	categories []*models.Category
	mode       Mode
	prompter   Prompter
	writer     CategoryWriter
	stats      *models.CategorizationStats
	dateLayout string
	logger     logging.Logger
}

// NewCategorizer creates a categorizer over categories. Interactive mode also
// needs a Prompter and a CategoryWriter, see WithResolution.
func NewCategorizer(categories []*models.Category, mode Mode, logger logging.Logger) *Categorizer {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if mode == "" {
		mode = ModeBatch
	}

	working := make([]*models.Category, len(categories))
	copy(working, categories)

	return &Categorizer{
		categories: working,
		mode:       mode,
		stats:      models.NewCategorizationStats(),
		logger:     logger,
	}
}

// WithResolution attaches the collaborators used to resolve unmatched
// transactions and persist the learned categories.
func (c *Categorizer) WithResolution(prompter Prompter, writer CategoryWriter) *Categorizer {
	c.prompter = prompter
	c.writer = writer
	return c
}

// WithDateLayout sets the date layout used to render transactions in errors.
func (c *Categorizer) WithDateLayout(layout string) *Categorizer {
	c.dateLayout = layout
	return c
}

// Mode returns the configured mode.
func (c *Categorizer) Mode() Mode { return c.mode }

// Categories returns the working category set, including categories created
// during the run, in their original order.
func (c *Categorizer) Categories() []*models.Category {
	out := make([]*models.Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Stats returns the counters of the current run.
func (c *Categorizer) Stats() models.CategorizationStats {
	return *c.stats
}

// matching returns every category whose pattern matches tx.
func (c *Categorizer) matching(tx *models.Transaction) []*models.Category {
	var matches []*models.Category
	for _, category := range c.categories {
		if category.Matches(tx) {
			matches = append(matches, category)
		}
	}
	return matches
}

// Step categorizes a single transaction. All categories are evaluated so that
// overlapping patterns are always detected; an ambiguous match changes nothing.
func (c *Categorizer) Step(tx *models.Transaction) (StepResult, error) {
	c.stats.Total++
	matches := c.matching(tx)

	switch len(matches) {
	case 0:
		if c.mode == ModeInteractive {
			return StepResult{Status: StatusNeedsInput}, nil
		}
		return StepResult{}, &apperrors.UncategorizedError{
			Description: tx.Description(),
			Transaction: tx.Render(c.dateLayout),
		}
	case 1:
		matches[0].RecordTransaction(tx)
		c.stats.Categorized++
		c.logger.Debug("Transaction categorized",
			logging.Field{Key: logging.FieldDescription, Value: tx.Description()},
			logging.Field{Key: logging.FieldCategory, Value: matches[0].Name()})
		return StepResult{Status: StatusCategorized, Category: matches[0]}, nil
	default:
		names := make([]string, len(matches))
		for i, category := range matches {
			names[i] = category.Name()
		}
		return StepResult{}, &apperrors.AmbiguousCategoryError{
			Description: tx.Description(),
			Transaction: tx.Render(c.dateLayout),
			Categories:  names,
		}
	}
}

// Run categorizes txs in input order and stops at the first error.
func (c *Categorizer) Run(ctx context.Context, txs []*models.Transaction) error {
	if c.mode == ModeInteractive && (c.prompter == nil || c.writer == nil) {
		return fmt.Errorf("interactive mode requires a prompter and a category writer")
	}

	runID := uuid.NewString()
	logger := c.logger.WithFields(
		logging.Field{Key: logging.FieldRunID, Value: runID},
		logging.Field{Key: logging.FieldMode, Value: string(c.mode)},
	)
	logger.Info("Starting categorization",
		logging.Field{Key: logging.FieldCount, Value: len(txs)},
		logging.Field{Key: "categories", Value: len(c.categories)})

	for _, tx := range txs {
		result, err := c.Step(tx)
		if err != nil {
			logger.WithError(err).Error("Categorization failed",
				logging.Field{Key: logging.FieldDescription, Value: tx.Description()})
			return err
		}

		if result.Status == StatusNeedsInput {
			resolution, err := c.prompt(ctx, tx)
			if err != nil {
				return err
			}
			if err := c.Resolve(ctx, tx, resolution); err != nil {
				return err
			}
		}
	}

	c.stats.LogSummary(logger, string(c.mode))
	return nil
}
