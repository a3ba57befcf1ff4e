package models

import (
	"fmt"
	"sort"
	"strings"

	"fjacquet/txcat/internal/apperrors"

	"github.com/shopspring/decimal"
)

// Category is a named bucket of transactions defined by a matching pattern.
// It exclusively owns the transactions recorded into it; running totals are
// only changed by RecordTransaction and always equal the sums over Transactions.
type Category struct {
	id                int64
	name              string
	pattern           *Pattern
	layout            Layout
	transactions      []*Transaction
	totalTransactions int
	totalAmount       decimal.Decimal
	totalCredits      decimal.Decimal
	totalDebits       decimal.Decimal
}

// NewCategory creates a category from a name and a "|"-separated pattern.
func NewCategory(name, pattern string) (*Category, error) {
	return NewCategoryWithLayout(name, pattern, LayoutAmount)
}

// NewCategoryWithLayout is NewCategory for categories rendered in layout. A
// ledger category created this way has no ID until it is saved.
func NewCategoryWithLayout(name, pattern string, layout Layout) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.TrimSpace(pattern) == "" {
		return nil, &apperrors.ValidationError{
			Entity: "category",
			Reason: "cannot create category without name and keywords",
		}
	}

	p, err := NewPattern(pattern)
	if err != nil {
		return nil, fmt.Errorf("category %q: %w", name, err)
	}

	return &Category{
		name:    name,
		pattern: p,
		layout:  layout,
	}, nil
}

// NewLedgerCategory creates a database-backed category. Keywords are attached
// afterwards with AddKeyword; until then the category matches nothing.
func NewLedgerCategory(id int64, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if id <= 0 || name == "" {
		return nil, &apperrors.ValidationError{
			Entity: "category",
			Reason: "cannot create category without ID and name",
		}
	}

	return &Category{
		id:      id,
		name:    name,
		pattern: &Pattern{},
		layout:  LayoutLedger,
	}, nil
}

// NewCategoryFromConfig creates a category from its persisted form.
func NewCategoryFromConfig(cfg CategoryConfig) (*Category, error) {
	return NewCategory(cfg.Name, strings.Join(cfg.Keywords, "|"))
}

func (c *Category) ID() int64 { return c.id }
func (c *Category) Name() string { return c.name }
func (c *Category) Layout() Layout { return c.layout }
func (c *Category) TotalTransactions() int { return c.totalTransactions }
func (c *Category) TotalAmount() decimal.Decimal { return c.totalAmount }
func (c *Category) TotalCredits() decimal.Decimal { return c.totalCredits }
func (c *Category) TotalDebits() decimal.Decimal { return c.totalDebits }

// AssignID records the database id of a category that was created in memory.
// It has no effect once an id is set.
func (c *Category) AssignID(id int64) {
	if c.id == 0 {
		c.id = id
	}
}

// PatternSource returns the pattern as "|"-joined alternatives.
func (c *Category) PatternSource() string {
	return c.pattern.Source()
}

// Keywords returns the pattern alternatives in insertion order.
func (c *Category) Keywords() []string {
	return c.pattern.Alternatives()
}

// HasName compares name with the category name, ignoring case.
func (c *Category) HasName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), c.name)
}

// ExtendPattern adds fragment as additional alternatives of the pattern.
func (c *Category) ExtendPattern(fragment string) error {
	if err := c.pattern.Extend(fragment); err != nil {
		return fmt.Errorf("category %q: %w", c.name, err)
	}
	return nil
}

// AddKeyword attaches one ledger keyword row to the category pattern.
func (c *Category) AddKeyword(keyword string) error {
	return c.ExtendPattern(keyword)
}

// Matches reports whether the category pattern matches the transaction description.
func (c *Category) Matches(tx *Transaction) bool {
	return c.pattern.MatchString(tx.Description())
}

// RecordTransaction appends tx and updates the running totals.
func (c *Category) RecordTransaction(tx *Transaction) {
	c.transactions = append(c.transactions, tx)
	c.totalTransactions++
	c.totalAmount = c.totalAmount.Add(tx.Amount())
	c.totalCredits = c.totalCredits.Add(tx.Credit())
	c.totalDebits = c.totalDebits.Add(tx.Debit())
}

// Transactions returns the recorded transactions in categorization order.
func (c *Category) Transactions() []*Transaction {
	out := make([]*Transaction, len(c.transactions))
	copy(out, c.transactions)
	return out
}

// SortedTransactions returns the transactions ordered by ascending date.
// Transactions on the same date keep their recording order.
func (c *Category) SortedTransactions() []*Transaction {
	sorted := c.Transactions()
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date().Before(sorted[j].Date())
	})
	return sorted
}

// Config returns the persisted form of the category.
func (c *Category) Config() CategoryConfig {
	return CategoryConfig{
		Name:     c.name,
		Keywords: c.pattern.Alternatives(),
	}
}

// Render returns the category summary and, when verbose, the rendered
// transactions in date order separated by blank lines.
func (c *Category) Render(verbose bool, dateLayout string) string {
	var b strings.Builder

	if c.layout == LayoutLedger {
		if c.id != 0 {
			fmt.Fprintf(&b, "Category ID: %d\n", c.id)
		}
		fmt.Fprintf(&b, "Name: %s\n", c.name)
		fmt.Fprintf(&b, "Keywords: %s\n", c.pattern.Display())
		fmt.Fprintf(&b, "Total transactions: %d\n", c.totalTransactions)
		fmt.Fprintf(&b, "Total debits: %s\n", c.totalDebits.StringFixed(2))
		fmt.Fprintf(&b, "Total credits: %s\n", c.totalCredits.StringFixed(2))
	} else {
		fmt.Fprintf(&b, "Category: %s\n", c.name)
		fmt.Fprintf(&b, "Keywords: %s\n", c.pattern.Display())
		fmt.Fprintf(&b, "Total transactions: %d\n", c.totalTransactions)
		fmt.Fprintf(&b, "Total amount: %s\n", c.totalAmount.StringFixed(2))
	}

	if verbose {
		for _, tx := range c.SortedTransactions() {
			b.WriteString("\n")
			b.WriteString(tx.Render(dateLayout))
		}
	}

	return b.String()
}

// FindCategory returns the category named name, ignoring case, or nil.
func FindCategory(categories []*Category, name string) *Category {
	for _, c := range categories {
		if c.HasName(name) {
			return c
		}
	}
	return nil
}
