package categorizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fjacquet/txcat/internal/apperrors"
	"fjacquet/txcat/internal/logging"
	"fjacquet/txcat/internal/models"
)

// maxPromptAttempts bounds re-prompting after blank or invalid answers.
const maxPromptAttempts = 3

// ResolutionState tracks an interactive resolution in progress.
type ResolutionState int

const (
	AwaitingCategoryName ResolutionState = iota
	AwaitingPattern
	Resolved
)

func (s ResolutionState) String() string {
	switch s {
	case AwaitingCategoryName:
		return "AWAITING_CATEGORY_NAME"
	case AwaitingPattern:
		return "AWAITING_PATTERN"
	case Resolved:
		return "RESOLVED"
	default:
		return fmt.Sprintf("ResolutionState(%d)", int(s))
	}
}

// Resolution is the answer given for an unmatched transaction: the category it
// belongs to and a pattern fragment that should match it from now on.
type Resolution struct {
	Name    string
	Pattern string
}

// Prompter is the interactive actor that answers for unmatched transactions.
type Prompter interface {
	// PromptCategoryName asks which category tx belongs to. The current
	// category names are passed for display.
	PromptCategoryName(ctx context.Context, tx *models.Transaction, categories []string) (string, error)
	// PromptPattern asks for the pattern fragment to add. existing reports
	// whether name refers to a category that is already known.
	PromptPattern(ctx context.Context, tx *models.Transaction, name string, existing bool) (string, error)
}

// CategoryWriter persists the full category set.
type CategoryWriter interface {
	SaveCategories(ctx context.Context, categories []*models.Category) error
	// Location names the sink in errors and logs.
	Location() string
}

// prompt walks the resolution states until both answers are usable.
func (c *Categorizer) prompt(ctx context.Context, tx *models.Transaction) (Resolution, error) {
	var resolution Resolution
	state := AwaitingCategoryName
	attempts := 0

	for state != Resolved {
		if attempts >= maxPromptAttempts {
			return Resolution{}, &apperrors.ValidationError{
				Entity: "resolution",
				Reason: fmt.Sprintf("no usable answer after %d attempts in state %s", maxPromptAttempts, state),
			}
		}
		attempts++

		switch state {
		case AwaitingCategoryName:
			name, err := c.prompter.PromptCategoryName(ctx, tx, c.categoryNames())
			if err != nil {
				return Resolution{}, fmt.Errorf("failed to read category name: %w", err)
			}
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			resolution.Name = name
			state, attempts = AwaitingPattern, 0

		case AwaitingPattern:
			existing := models.FindCategory(c.categories, resolution.Name) != nil
			pattern, err := c.prompter.PromptPattern(ctx, tx, resolution.Name, existing)
			if err != nil {
				return Resolution{}, fmt.Errorf("failed to read pattern: %w", err)
			}
			pattern = strings.TrimSpace(pattern)
			if _, err := models.NewPattern(pattern); err != nil {
				c.logger.WithError(err).Warn("Pattern rejected",
					logging.Field{Key: logging.FieldPattern, Value: pattern})
				continue
			}
			resolution.Pattern = pattern
			state = Resolved
		}
	}

	return resolution, nil
}

// Resolve records tx under the category named in resolution. An existing
// category (compared ignoring case) has its pattern extended; otherwise a new
// category is appended so that later transactions can match it. The whole
// category set is then persisted, and a persistence failure ends the run.
func (c *Categorizer) Resolve(ctx context.Context, tx *models.Transaction, resolution Resolution) error {
	if c.writer == nil {
		return errors.New("no category writer configured")
	}

	logger := c.logger.WithFields(
		logging.Field{Key: logging.FieldCategory, Value: resolution.Name},
		logging.Field{Key: logging.FieldPattern, Value: resolution.Pattern},
	)

	category := models.FindCategory(c.categories, resolution.Name)
	if category != nil {
		if err := category.ExtendPattern(resolution.Pattern); err != nil {
			return err
		}
		c.stats.Extended++
		logger.Info("Extended category pattern")
	} else {
		created, err := models.NewCategoryWithLayout(resolution.Name, resolution.Pattern, tx.Layout())
		if err != nil {
			return err
		}
		category = created
		c.categories = append(c.categories, category)
		c.stats.Created++
		logger.Info("Created category")
	}

	if !category.Matches(tx) {
		logger.Warn("Pattern does not match the resolved transaction",
			logging.Field{Key: logging.FieldDescription, Value: tx.Description()})
	}

	category.RecordTransaction(tx)
	c.stats.Resolved++

	if err := c.writer.SaveCategories(ctx, c.categories); err != nil {
		var writeErr *apperrors.SourceWriteError
		if errors.As(err, &writeErr) {
			return err
		}
		return &apperrors.SourceWriteError{Sink: c.writer.Location(), Err: err}
	}
	logger.Debug("Categories saved",
		logging.Field{Key: logging.FieldFile, Value: c.writer.Location()})

	return nil
}

func (c *Categorizer) categoryNames() []string {
	names := make([]string, len(c.categories))
	for i, category := range c.categories {
		names[i] = category.Name()
	}
	return names
}
