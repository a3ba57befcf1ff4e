package store

import (
	"fmt"
	"strings"
	"time"

	"fjacquet/txcat/internal/apperrors"
	"fjacquet/txcat/internal/config"
	"fjacquet/txcat/internal/dateutils"
	"fjacquet/txcat/internal/logging"
	"fjacquet/txcat/internal/models"
)

// Loader builds domain objects from rows using the configured column names.
type Loader struct {
	txColumns  config.TransactionColumns
	catColumns config.CategoryColumns
	logger     logging.Logger
}

// NewLoader creates a Loader for the given column names.
func NewLoader(txColumns config.TransactionColumns, catColumns config.CategoryColumns, logger logging.Logger) *Loader {
	return &Loader{
		txColumns:  txColumns,
		catColumns: catColumns,
		logger:     logger,
	}
}

// LoadTransactions reads transactions from src in the given layout and keeps
// those dated within [from, to]; nil bounds are open. Input order is preserved.
func (l *Loader) LoadTransactions(src RowSource, layout models.Layout, from, to *time.Time) ([]*models.Transaction, error) {
	rows, err := src.Rows()
	if err != nil {
		return nil, err
	}

	transactions := make([]*models.Transaction, 0, len(rows))
	skipped := 0
	for i, row := range rows {
		tx, err := l.transactionFromRow(row, layout)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", src.Location(), i+1, err)
		}
		if !dateutils.InRange(tx.Date(), from, to) {
			skipped++
			continue
		}
		transactions = append(transactions, tx)
	}

	fields := []logging.Field{
		{Key: logging.FieldSource, Value: src.Location()},
		{Key: logging.FieldCount, Value: len(transactions)},
		{Key: "filtered_out", Value: skipped},
	}
	if from != nil {
		fields = append(fields, logging.Field{Key: logging.FieldFromDate, Value: dateutils.FormatDate(*from, dateutils.DateLayoutISO)})
	}
	if to != nil {
		fields = append(fields, logging.Field{Key: logging.FieldToDate, Value: dateutils.FormatDate(*to, dateutils.DateLayoutISO)})
	}
	l.logger.Debug("Loaded transactions", fields...)

	if len(transactions) == 0 {
		return nil, &apperrors.EmptyResultError{Source: src.Location(), Entity: "transactions"}
	}
	return transactions, nil
}

func (l *Loader) transactionFromRow(row map[string]string, layout models.Layout) (*models.Transaction, error) {
	cols := l.txColumns
	if layout == models.LayoutLedger {
		return models.ParseLedgerTransaction(
			row[cols.Date], row[cols.Description], row[cols.Check], row[cols.Credit], row[cols.Debit])
	}
	return models.NewTransaction(row[cols.Date], row[cols.Description], row[cols.Amount])
}

// LoadCategories reads categories from src. Category names must be unique
// ignoring case.
func (l *Loader) LoadCategories(src RowSource) ([]*models.Category, error) {
	rows, err := src.Rows()
	if err != nil {
		return nil, err
	}

	categories := make([]*models.Category, 0, len(rows))
	for i, row := range rows {
		category, err := models.NewCategory(row[l.catColumns.Name], row[l.catColumns.Keywords])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", src.Location(), i+1, err)
		}
		categories = append(categories, category)
	}

	return checkCategories(src.Location(), categories)
}

// checkCategories rejects an empty set and duplicate names.
func checkCategories(location string, categories []*models.Category) ([]*models.Category, error) {
	if len(categories) == 0 {
		return nil, &apperrors.EmptyResultError{Source: location, Entity: "categories"}
	}

	seen := make(map[string]bool, len(categories))
	for _, category := range categories {
		key := strings.ToLower(category.Name())
		if seen[key] {
			return nil, &apperrors.ValidationError{
				Entity: "category",
				Field:  "name",
				Value:  category.Name(),
				Reason: "duplicate category name in " + location,
			}
		}
		seen[key] = true
	}
	return categories, nil
}
