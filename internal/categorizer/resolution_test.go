package categorizer

import (
	"context"
	"errors"
	"testing"

	"fjacquet/txcat/internal/apperrors"
	"fjacquet/txcat/internal/logging"
	"fjacquet/txcat/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePrompter struct {
	names    []string
	patterns []string
	asked    []string
}

func (p *fakePrompter) PromptCategoryName(_ context.Context, tx *models.Transaction, _ []string) (string, error) {
	p.asked = append(p.asked, tx.Description())
	if len(p.names) == 0 {
		return "", errors.New("no more answers")
	}
	name := p.names[0]
	p.names = p.names[1:]
	return name, nil
}

func (p *fakePrompter) PromptPattern(_ context.Context, _ *models.Transaction, _ string, _ bool) (string, error) {
	if len(p.patterns) == 0 {
		return "", errors.New("no more answers")
	}
	pattern := p.patterns[0]
	p.patterns = p.patterns[1:]
	return pattern, nil
}

type snapshot map[string]string

type fakeWriter struct {
	saves []snapshot
	err   error
}

func (w *fakeWriter) SaveCategories(_ context.Context, categories []*models.Category) error {
	if w.err != nil {
		return w.err
	}
	s := snapshot{}
	for _, c := range categories {
		s[c.Name()] = c.PatternSource()
	}
	w.saves = append(w.saves, s)
	return nil
}

func (w *fakeWriter) Location() string { return "categories.csv" }

func TestRun_InteractiveLearnsNewCategory(t *testing.T) {
	gas := newCategory(t, "Gas", "shell")
	prompter := &fakePrompter{names: []string{"Warehouse"}, patterns: []string{"costco"}}
	writer := &fakeWriter{}

	c := NewCategorizer([]*models.Category{gas}, ModeInteractive, logging.NewMockLogger()).
		WithResolution(prompter, writer)

	txs := []*models.Transaction{
		newTransaction(t, "2024-01-01", "COSTCO #1", "-80"),
		newTransaction(t, "2024-01-05", "COSTCO #2", "-20"),
		newTransaction(t, "2024-01-06", "SHELL", "-30"),
	}
	require.NoError(t, c.Run(context.Background(), txs))

	assert.Equal(t, []string{"COSTCO #1"}, prompter.asked, "the learned pattern must match later transactions")
	require.Len(t, writer.saves, 1)
	assert.Equal(t, snapshot{"Gas": "shell", "Warehouse": "costco"}, writer.saves[0])

	warehouse := models.FindCategory(c.Categories(), "warehouse")
	require.NotNil(t, warehouse)
	assert.Equal(t, 2, warehouse.TotalTransactions())
	assert.Equal(t, "-100.00", warehouse.TotalAmount().StringFixed(2))

	stats := c.Stats()
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Resolved)
	assert.Equal(t, 1, stats.Created)
}

func TestRun_InteractiveExtendsExistingCategory(t *testing.T) {
	gas := newCategory(t, "Gas", "shell")
	prompter := &fakePrompter{names: []string{"GAS"}, patterns: []string{"chevron"}}
	writer := &fakeWriter{}

	c := NewCategorizer([]*models.Category{gas}, ModeInteractive, logging.NewMockLogger()).
		WithResolution(prompter, writer)

	require.NoError(t, c.Run(context.Background(), []*models.Transaction{
		newTransaction(t, "2024-01-01", "CHEVRON 12", "-50"),
		newTransaction(t, "2024-01-02", "SHELL", "-10"),
	}))

	assert.Len(t, c.Categories(), 1)
	assert.Equal(t, "shell|chevron", gas.PatternSource())
	assert.Equal(t, 2, gas.TotalTransactions())
	require.Len(t, writer.saves, 1)
	assert.Equal(t, snapshot{"Gas": "shell|chevron"}, writer.saves[0])
	assert.Equal(t, 1, c.Stats().Extended)
}

func TestRun_InteractiveRepromptsOnBadAnswers(t *testing.T) {
	prompter := &fakePrompter{
		names:    []string{"  ", "Warehouse"},
		patterns: []string{"costco|(", "costco"},
	}
	logger := logging.NewMockLogger()
	c := NewCategorizer(nil, ModeInteractive, logger).WithResolution(prompter, &fakeWriter{})

	require.NoError(t, c.Run(context.Background(), []*models.Transaction{
		newTransaction(t, "2024-01-01", "COSTCO", "-80"),
	}))
	assert.True(t, logger.HasEntry("WARN", "Pattern rejected"))
	assert.Len(t, c.Categories(), 1)
}

func TestRun_InteractiveGivesUpAfterRepeatedBlankNames(t *testing.T) {
	prompter := &fakePrompter{names: []string{"", " ", "\t"}}
	c := NewCategorizer(nil, ModeInteractive, logging.NewMockLogger()).WithResolution(prompter, &fakeWriter{})

	err := c.Run(context.Background(), []*models.Transaction{
		newTransaction(t, "2024-01-01", "COSTCO", "-80"),
	})

	var validationErr *apperrors.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestRun_InteractivePersistFailureIsFatal(t *testing.T) {
	prompter := &fakePrompter{names: []string{"Warehouse", "Other"}, patterns: []string{"costco", "other"}}
	writer := &fakeWriter{err: errors.New("disk full")}
	c := NewCategorizer(nil, ModeInteractive, logging.NewMockLogger()).WithResolution(prompter, writer)

	err := c.Run(context.Background(), []*models.Transaction{
		newTransaction(t, "2024-01-01", "COSTCO", "-80"),
		newTransaction(t, "2024-01-02", "SOMETHING ELSE", "-1"),
	})

	var writeErr *apperrors.SourceWriteError
	require.True(t, errors.As(err, &writeErr))
	assert.Equal(t, "categories.csv", writeErr.Sink)
	assert.Len(t, prompter.asked, 1, "the run stops at the failed save")
}

func TestRun_InteractivePromptErrorStopsRun(t *testing.T) {
	c := NewCategorizer(nil, ModeInteractive, logging.NewMockLogger()).
		WithResolution(&fakePrompter{}, &fakeWriter{})

	err := c.Run(context.Background(), []*models.Transaction{
		newTransaction(t, "2024-01-01", "COSTCO", "-80"),
	})
	assert.ErrorContains(t, err, "failed to read category name")
}

func TestRun_InteractiveNeverResolvesAmbiguity(t *testing.T) {
	prompter := &fakePrompter{names: []string{"X"}, patterns: []string{"x"}}
	c := NewCategorizer([]*models.Category{
		newCategory(t, "A", "shop"),
		newCategory(t, "B", "coffee"),
	}, ModeInteractive, logging.NewMockLogger()).WithResolution(prompter, &fakeWriter{})

	err := c.Run(context.Background(), []*models.Transaction{
		newTransaction(t, "2024-01-01", "COFFEE SHOP", "-4"),
	})

	var ambiguous *apperrors.AmbiguousCategoryError
	assert.True(t, errors.As(err, &ambiguous))
	assert.Empty(t, prompter.asked)
}

func TestRun_InteractiveLedgerCategoryKeepsLedgerLayout(t *testing.T) {
	tx, err := models.ParseLedgerTransaction("2024-02-01", "CITY WATER", "", "", "80.25")
	require.NoError(t, err)

	prompter := &fakePrompter{names: []string{"Bills"}, patterns: []string{"water"}}
	writer := &fakeWriter{}
	c := NewCategorizer(nil, ModeInteractive, logging.NewMockLogger()).WithResolution(prompter, writer)

	require.NoError(t, c.Run(context.Background(), []*models.Transaction{tx}))

	categories := c.Categories()
	require.Len(t, categories, 1)
	assert.Equal(t, models.LayoutLedger, categories[0].Layout())
	assert.Equal(t, "80.25", categories[0].TotalDebits().StringFixed(2))
}

func TestResolve_WithoutWriter(t *testing.T) {
	c := NewCategorizer(nil, ModeInteractive, logging.NewMockLogger())
	err := c.Resolve(context.Background(), newTransaction(t, "2024-01-01", "COSTCO", "-1"), Resolution{Name: "W", Pattern: "costco"})
	assert.Error(t, err)
}
