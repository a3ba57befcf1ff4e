package categorizer

import (
	"context"
	"errors"
	"testing"

	"fjacquet/txcat/internal/apperrors"
	"fjacquet/txcat/internal/logging"
	"fjacquet/txcat/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCategory(t *testing.T, name, pattern string) *models.Category {
	t.Helper()
	c, err := models.NewCategory(name, pattern)
	require.NoError(t, err)
	return c
}

func newTransaction(t *testing.T, date, description, amount string) *models.Transaction {
	t.Helper()
	tx, err := models.NewTransaction(date, description, amount)
	require.NoError(t, err)
	return tx
}

func TestRun_BatchCategorizesEveryTransaction(t *testing.T) {
	groceries := newCategory(t, "Groceries", "walmart|kroger")
	gas := newCategory(t, "Gas", "shell|exxon")
	logger := logging.NewMockLogger()

	c := NewCategorizer([]*models.Category{groceries, gas}, ModeBatch, logger)
	txs := []*models.Transaction{
		newTransaction(t, "2024-01-01", "WALMART #123", "-45"),
		newTransaction(t, "2024-01-02", "SHELL OIL", "-30"),
	}

	require.NoError(t, c.Run(context.Background(), txs))

	assert.Equal(t, 1, groceries.TotalTransactions())
	assert.Equal(t, "-45.00", groceries.TotalAmount().StringFixed(2))
	assert.Equal(t, 1, gas.TotalTransactions())
	assert.Equal(t, "-30.00", gas.TotalAmount().StringFixed(2))

	stats := c.Stats()
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.Categorized)
	assert.True(t, logger.HasEntry("INFO", "Categorization summary"))

	summary := logger.GetEntriesByLevel("INFO")
	require.NotEmpty(t, summary)
	runID, ok := summary[0].FieldValue(logging.FieldRunID)
	require.True(t, ok)
	assert.NotEmpty(t, runID)
}

func TestRun_BatchFailsOnUncategorized(t *testing.T) {
	groceries := newCategory(t, "Groceries", "walmart|kroger")
	c := NewCategorizer([]*models.Category{groceries}, ModeBatch, logging.NewMockLogger())

	err := c.Run(context.Background(), []*models.Transaction{
		newTransaction(t, "2024-01-01", "COSTCO", "-80"),
	})

	var uncategorized *apperrors.UncategorizedError
	require.True(t, errors.As(err, &uncategorized))
	assert.Equal(t, "COSTCO", uncategorized.Description)
	assert.Contains(t, err.Error(), "Description: COSTCO")
	assert.Equal(t, 0, groceries.TotalTransactions())
}

func TestStep_ErrorsRenderConfiguredDateLayout(t *testing.T) {
	tests := []struct {
		name   string
		layout string
		want   string
	}{
		{"default layout", "", "Date: 3/7/2024\n"},
		{"configured layout", "2006-01-02", "Date: 2024-03-07\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCategorizer([]*models.Category{
				newCategory(t, "A", "shop"),
				newCategory(t, "B", "coffee"),
			}, ModeBatch, logging.NewMockLogger()).WithDateLayout(tt.layout)

			_, err := c.Step(newTransaction(t, "2024-03-07", "COSTCO", "-80"))
			var uncategorized *apperrors.UncategorizedError
			require.True(t, errors.As(err, &uncategorized))
			assert.Contains(t, uncategorized.Transaction, tt.want)

			_, err = c.Step(newTransaction(t, "2024-03-07", "COFFEE SHOP", "-4"))
			var ambiguous *apperrors.AmbiguousCategoryError
			require.True(t, errors.As(err, &ambiguous))
			assert.Contains(t, ambiguous.Transaction, tt.want)
		})
	}
}

func TestStep_AmbiguousChangesNothing(t *testing.T) {
	a := newCategory(t, "A", "shop")
	b := newCategory(t, "B", "coffee")
	c := NewCategorizer([]*models.Category{a, b}, ModeInteractive, logging.NewMockLogger())

	_, err := c.Step(newTransaction(t, "2024-01-01", "COFFEE SHOP", "-4"))

	var ambiguous *apperrors.AmbiguousCategoryError
	require.True(t, errors.As(err, &ambiguous))
	assert.Equal(t, []string{"A", "B"}, ambiguous.Categories)
	for _, category := range []*models.Category{a, b} {
		assert.Equal(t, 0, category.TotalTransactions())
		assert.True(t, category.TotalAmount().IsZero())
	}
}

func TestStep_NeedsInputInInteractiveMode(t *testing.T) {
	c := NewCategorizer([]*models.Category{newCategory(t, "Gas", "shell")}, ModeInteractive, logging.NewMockLogger())

	result, err := c.Step(newTransaction(t, "2024-01-01", "COSTCO", "-80"))
	require.NoError(t, err)
	assert.Equal(t, StatusNeedsInput, result.Status)
	assert.Nil(t, result.Category)
}

func TestRun_PartitionsTransactions(t *testing.T) {
	categories := []*models.Category{
		newCategory(t, "Groceries", "walmart|kroger"),
		newCategory(t, "Gas", "shell|exxon"),
		newCategory(t, "Income", "payroll"),
	}
	txs := []*models.Transaction{
		newTransaction(t, "2024-01-03", "KROGER 44", "-12.10"),
		newTransaction(t, "2024-01-01", "PAYROLL ACME", "2000"),
		newTransaction(t, "2024-01-02", "EXXON 9", "-40.25"),
		newTransaction(t, "2024-01-01", "walmart", "-3.99"),
	}

	c := NewCategorizer(categories, ModeBatch, logging.NewMockLogger())
	require.NoError(t, c.Run(context.Background(), txs))

	seen := make(map[*models.Transaction]int)
	count := 0
	sum := decimal.Zero
	for _, category := range c.Categories() {
		count += category.TotalTransactions()
		sum = sum.Add(category.TotalAmount())
		for _, tx := range category.Transactions() {
			seen[tx]++
		}
	}

	assert.Equal(t, len(txs), count)
	assert.Len(t, seen, len(txs))
	for _, tx := range txs {
		assert.Equal(t, 1, seen[tx], "%s must be in exactly one category", tx.Description())
	}

	expected := decimal.Zero
	for _, tx := range txs {
		expected = expected.Add(tx.Amount())
	}
	assert.True(t, expected.Equal(sum))
}

func TestRun_InteractiveRequiresCollaborators(t *testing.T) {
	c := NewCategorizer(nil, ModeInteractive, logging.NewMockLogger())
	err := c.Run(context.Background(), nil)
	assert.Error(t, err)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "categorized", StatusCategorized.String())
	assert.Equal(t, "needs_input", StatusNeedsInput.String())
	assert.Equal(t, "AWAITING_PATTERN", AwaitingPattern.String())
}
