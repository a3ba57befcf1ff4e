package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fjacquet/txcat/internal/apperrors"
	"fjacquet/txcat/internal/config"
	"fjacquet/txcat/internal/dateutils"
	"fjacquet/txcat/internal/logging"
	"fjacquet/txcat/internal/models"

	"github.com/shopspring/decimal"
)

// CategoryRow is a category as listed by ListCategories.
type CategoryRow struct {
	ID   int64  `csv:"id" json:"id"`
	Name string `csv:"name" json:"name"`
}

// KeywordRow is a keyword as listed by ListKeywords.
type KeywordRow struct {
	ID       int64  `csv:"id" json:"id"`
	Keyword  string `csv:"keyword" json:"keyword"`
	Category string `csv:"category" json:"category"`
}

// Store is the database-backed ledger.
type Store struct {
	db     *sql.DB
	driver string
	logger logging.Logger
}

// Open connects to the ledger database and applies pending migrations.
func Open(ctx context.Context, driver, dsn string, logger logging.Logger) (*Store, error) {
	if driver == "" {
		driver = config.DriverSQLite
	}

	if driver == config.DriverSQLite {
		if dir := filepath.Dir(dsn); dir != "." && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
				return nil, fmt.Errorf("create db directory: %w", err)
			}
		}
	}

	if err := RunMigrations(driver, dsn); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := openDB(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	if driver == config.DriverSQLite {
		// A single connection keeps the foreign_keys pragma in effect.
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Debug("Opened ledger", logging.Field{Key: logging.FieldDriver, Value: driver})
	return &Store{db: db, driver: driver, logger: logger}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Location names the ledger in errors and logs.
func (s *Store) Location() string {
	return s.driver + " ledger"
}

func (s *Store) q(query string) string {
	return rebind(s.driver, query)
}

// LoadCategories returns every category ordered by name with its keywords
// attached as pattern alternatives.
func (s *Store) LoadCategories(ctx context.Context) ([]*models.Category, error) {
	rows, err := s.db.QueryContext(ctx, s.q(selectCategories))
	if err != nil {
		return nil, &apperrors.SourceReadError{Source: s.Location(), Err: fmt.Errorf("query categories: %w", err)}
	}
	defer rows.Close()

	var categories []*models.Category
	byID := make(map[int64]*models.Category)
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, &apperrors.SourceReadError{Source: s.Location(), Err: fmt.Errorf("scan category: %w", err)}
		}
		category, err := models.NewLedgerCategory(id, name)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
		byID[id] = category
	}
	if err := rows.Err(); err != nil {
		return nil, &apperrors.SourceReadError{Source: s.Location(), Err: err}
	}

	if err := s.attachKeywords(ctx, byID); err != nil {
		return nil, err
	}

	if len(categories) == 0 {
		return nil, &apperrors.EmptyResultError{Source: s.Location(), Entity: "categories"}
	}

	s.logger.Debug("Loaded categories",
		logging.Field{Key: logging.FieldSource, Value: s.Location()},
		logging.Field{Key: logging.FieldCount, Value: len(categories)})
	return categories, nil
}

func (s *Store) attachKeywords(ctx context.Context, byID map[int64]*models.Category) error {
	rows, err := s.db.QueryContext(ctx, s.q(selectKeywords))
	if err != nil {
		return &apperrors.SourceReadError{Source: s.Location(), Err: fmt.Errorf("query keywords: %w", err)}
	}
	defer rows.Close()

	for rows.Next() {
		var (
			categoryID int64
			keyword    string
		)
		if err := rows.Scan(&categoryID, &keyword); err != nil {
			return &apperrors.SourceReadError{Source: s.Location(), Err: fmt.Errorf("scan keyword: %w", err)}
		}
		category, ok := byID[categoryID]
		if !ok {
			continue
		}
		if err := category.AddKeyword(keyword); err != nil {
			return err
		}
	}
	return rows.Err()
}

// LoadTransactions returns the transactions dated within [from, to], ordered
// by date. Nil bounds are open.
func (s *Store) LoadTransactions(ctx context.Context, from, to *time.Time) ([]*models.Transaction, error) {
	query := selectTransactions
	var (
		where []string
		args  []interface{}
	)
	if from != nil {
		where = append(where, "date >= ?")
		args = append(args, dateutils.FormatDate(*from, dateutils.DateLayoutISO))
	}
	if to != nil {
		where = append(where, "date <= ?")
		args = append(args, dateutils.FormatDate(*to, dateutils.DateLayoutISO))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date, id"

	rows, err := s.db.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, &apperrors.SourceReadError{Source: s.Location(), Err: fmt.Errorf("query transactions: %w", err)}
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		var (
			id                 int64
			rawDate            interface{}
			description, check string
			credit, debit      decimal.Decimal
		)
		if err := rows.Scan(&id, &rawDate, &description, &check, &credit, &debit); err != nil {
			return nil, &apperrors.SourceReadError{Source: s.Location(), Err: fmt.Errorf("scan transaction: %w", err)}
		}
		date, err := scanDate(rawDate)
		if err != nil {
			return nil, &apperrors.SourceReadError{Source: s.Location(), Err: fmt.Errorf("transaction %d: %w", id, err)}
		}
		tx, err := models.NewLedgerTransaction(id, date, description, check, credit, debit)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", id, err)
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, &apperrors.SourceReadError{Source: s.Location(), Err: err}
	}

	if len(transactions) == 0 {
		return nil, &apperrors.EmptyResultError{Source: s.Location(), Entity: "transactions"}
	}
	return transactions, nil
}

// scanDate accepts the representations the drivers return for a date column.
func scanDate(v interface{}) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return dateutils.TruncateToDay(d), nil
	case string:
		t, _, err := dateutils.ParseDate(d)
		return t, err
	case []byte:
		t, _, err := dateutils.ParseDate(string(d))
		return t, err
	default:
		return time.Time{}, fmt.Errorf("unsupported date value %T", v)
	}
}

// AddCategory creates a category without keywords and returns its id.
func (s *Store) AddCategory(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, &apperrors.ValidationError{Entity: "category", Reason: "cannot add category without name"}
	}

	if _, err := s.categoryID(ctx, s.db, name); err == nil {
		return 0, &apperrors.ValidationError{Entity: "category", Field: "name", Value: name, Reason: "category already exists"}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	var id int64
	if err := s.db.QueryRowContext(ctx, s.q(insertCategory), name).Scan(&id); err != nil {
		return 0, &apperrors.SourceWriteError{Sink: s.Location(), Err: fmt.Errorf("insert category: %w", err)}
	}

	s.logger.Info("Category added",
		logging.Field{Key: logging.FieldCategory, Value: name},
		logging.Field{Key: "id", Value: id})
	return id, nil
}

// AddKeyword attaches keyword to the category named categoryName.
func (s *Store) AddKeyword(ctx context.Context, keyword, categoryName string) (int64, error) {
	keyword = strings.TrimSpace(keyword)
	categoryName = strings.TrimSpace(categoryName)
	if keyword == "" || categoryName == "" {
		return 0, &apperrors.ValidationError{Entity: "keyword", Reason: "cannot add keyword without name and category name"}
	}
	if _, err := models.NewPattern(keyword); err != nil {
		return 0, err
	}

	categoryID, err := s.categoryID(ctx, s.db, categoryName)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, &apperrors.ValidationError{
			Entity: "keyword", Field: "category", Value: categoryName, Reason: "category not found",
		}
	}
	if err != nil {
		return 0, err
	}

	var id int64
	if err := s.db.QueryRowContext(ctx, s.q(insertKeyword), keyword, categoryID).Scan(&id); err != nil {
		return 0, &apperrors.SourceWriteError{Sink: s.Location(), Err: fmt.Errorf("insert keyword: %w", err)}
	}

	s.logger.Info("Keyword added",
		logging.Field{Key: logging.FieldKeyword, Value: keyword},
		logging.Field{Key: logging.FieldCategory, Value: categoryName})
	return id, nil
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (s *Store) categoryID(ctx context.Context, q queryer, name string) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, s.q(selectCategoryID), name).Scan(&id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, &apperrors.SourceReadError{Source: s.Location(), Err: fmt.Errorf("query category: %w", err)}
	}
	return id, err
}

// ListCategories returns all categories ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]CategoryRow, error) {
	rows, err := s.db.QueryContext(ctx, s.q(selectCategories))
	if err != nil {
		return nil, &apperrors.SourceReadError{Source: s.Location(), Err: fmt.Errorf("query categories: %w", err)}
	}
	defer rows.Close()

	var out []CategoryRow
	for rows.Next() {
		var row CategoryRow
		if err := rows.Scan(&row.ID, &row.Name); err != nil {
			return nil, &apperrors.SourceReadError{Source: s.Location(), Err: fmt.Errorf("scan category: %w", err)}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// ListKeywords returns keywords ordered by category and keyword, limited to
// categoryName when it is not empty.
func (s *Store) ListKeywords(ctx context.Context, categoryName string) ([]KeywordRow, error) {
	query := selectKeywordList
	var args []interface{}
	if name := strings.TrimSpace(categoryName); name != "" {
		query += " WHERE lower(c.name) = lower(?)"
		args = append(args, name)
	}
	query += " ORDER BY c.name, k.name"

	rows, err := s.db.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, &apperrors.SourceReadError{Source: s.Location(), Err: fmt.Errorf("query keywords: %w", err)}
	}
	defer rows.Close()

	var out []KeywordRow
	for rows.Next() {
		var row KeywordRow
		if err := rows.Scan(&row.ID, &row.Keyword, &row.Category); err != nil {
			return nil, &apperrors.SourceReadError{Source: s.Location(), Err: fmt.Errorf("scan keyword: %w", err)}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// ImportTransactions inserts txs in a single database transaction and
// returns the number of rows written.
func (s *Store) ImportTransactions(ctx context.Context, txs []*models.Transaction) (n int, err error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &apperrors.SourceWriteError{Sink: s.Location(), Err: fmt.Errorf("begin transaction: %w", err)}
	}
	defer func() {
		if err != nil {
			_ = dbTx.Rollback()
		}
	}()

	for _, tx := range txs {
		_, err = dbTx.ExecContext(ctx, s.q(insertTransaction),
			dateutils.FormatDate(tx.Date(), dateutils.DateLayoutISO),
			tx.Description(),
			tx.Check(),
			tx.Credit(),
			tx.Debit(),
		)
		if err != nil {
			return 0, &apperrors.SourceWriteError{Sink: s.Location(), Err: fmt.Errorf("insert transaction: %w", err)}
		}
		n++
	}

	if err = dbTx.Commit(); err != nil {
		return 0, &apperrors.SourceWriteError{Sink: s.Location(), Err: fmt.Errorf("commit: %w", err)}
	}

	s.logger.Info("Imported transactions", logging.Field{Key: logging.FieldCount, Value: n})
	return n, nil
}

// SaveCategories persists the category set: unknown categories are inserted
// and every pattern alternative missing from the keyword table is added.
// Nothing is deleted. Categories created in memory receive their new ids.
func (s *Store) SaveCategories(ctx context.Context, categories []*models.Category) (err error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &apperrors.SourceWriteError{Sink: s.Location(), Err: fmt.Errorf("begin transaction: %w", err)}
	}
	defer func() {
		if err != nil {
			_ = dbTx.Rollback()
		}
	}()

	assigned := make(map[*models.Category]int64)
	for _, category := range categories {
		id, err := s.ensureCategory(ctx, dbTx, category.Name())
		if err != nil {
			return err
		}
		if err := s.ensureKeywords(ctx, dbTx, id, category.Keywords()); err != nil {
			return err
		}
		assigned[category] = id
	}

	if err = dbTx.Commit(); err != nil {
		return &apperrors.SourceWriteError{Sink: s.Location(), Err: fmt.Errorf("commit: %w", err)}
	}

	for category, id := range assigned {
		category.AssignID(id)
	}

	s.logger.Debug("Saved categories",
		logging.Field{Key: logging.FieldSource, Value: s.Location()},
		logging.Field{Key: logging.FieldCount, Value: len(categories)})
	return nil
}

func (s *Store) ensureCategory(ctx context.Context, q queryer, name string) (int64, error) {
	id, err := s.categoryID(ctx, q, name)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	if err := q.QueryRowContext(ctx, s.q(insertCategory), name).Scan(&id); err != nil {
		return 0, &apperrors.SourceWriteError{Sink: s.Location(), Err: fmt.Errorf("insert category: %w", err)}
	}
	return id, nil
}

func (s *Store) ensureKeywords(ctx context.Context, q queryer, categoryID int64, keywords []string) error {
	rows, err := q.QueryContext(ctx, s.q(selectCategoryKeywords), categoryID)
	if err != nil {
		return &apperrors.SourceReadError{Source: s.Location(), Err: fmt.Errorf("query keywords: %w", err)}
	}
	existing := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return &apperrors.SourceReadError{Source: s.Location(), Err: fmt.Errorf("scan keyword: %w", err)}
		}
		existing[name] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return &apperrors.SourceReadError{Source: s.Location(), Err: err}
	}

	for _, keyword := range keywords {
		if existing[keyword] {
			continue
		}
		if _, err := q.ExecContext(ctx, s.q(insertKeyword), keyword, categoryID); err != nil {
			return &apperrors.SourceWriteError{Sink: s.Location(), Err: fmt.Errorf("insert keyword: %w", err)}
		}
		existing[keyword] = true
	}
	return nil
}
