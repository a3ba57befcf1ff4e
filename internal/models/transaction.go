package models

import (
	"fmt"
	"strings"
	"time"

	"fjacquet/txcat/internal/apperrors"
	"fjacquet/txcat/internal/dateutils"

	"github.com/shopspring/decimal"
)

// Layout selects how a transaction or category is rendered.
type Layout int

const (
	// LayoutAmount renders a single signed amount (file variant).
	LayoutAmount Layout = iota
	// LayoutLedger renders credit/debit columns and the check reference (ledger variant).
	LayoutLedger
)

// Transaction is an immutable record of one statement line.
//
// Amount is signed. Credit and Debit are non-negative and always satisfy
// Amount == Credit - Debit, whichever constructor built the transaction.
type Transaction struct {
	id          int64
	date        time.Time
	description string
	amount      decimal.Decimal
	credit      decimal.Decimal
	debit       decimal.Decimal
	check       string
	layout      Layout
}

// NewTransaction builds a transaction from raw row values.
func NewTransaction(date, description, amount string) (*Transaction, error) {
	date = strings.TrimSpace(date)
	description = strings.TrimSpace(description)
	amount = strings.TrimSpace(amount)

	if date == "" || description == "" || amount == "" {
		return nil, &apperrors.ValidationError{
			Entity: "transaction",
			Reason: "cannot create transaction without date, description and amount",
		}
	}

	parsedDate, _, err := dateutils.ParseDate(date)
	if err != nil {
		return nil, &apperrors.ValidationError{
			Entity: "transaction", Field: "date", Value: date, Reason: "unrecognized date", Err: err,
		}
	}

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, &apperrors.ValidationError{
			Entity: "transaction", Field: "amount", Value: amount, Reason: "not a decimal number", Err: err,
		}
	}

	t := &Transaction{
		date:        parsedDate,
		description: description,
		amount:      value,
		layout:      LayoutAmount,
	}
	if value.IsNegative() {
		t.debit = value.Neg()
		t.credit = decimal.Zero
	} else {
		t.credit = value
		t.debit = decimal.Zero
	}
	return t, nil
}

// NewLedgerTransaction builds a credit/debit transaction. id is zero until the
// transaction has been stored.
func NewLedgerTransaction(id int64, date time.Time, description, check string, credit, debit decimal.Decimal) (*Transaction, error) {
	description = strings.TrimSpace(description)
	if date.IsZero() || description == "" {
		return nil, &apperrors.ValidationError{
			Entity: "transaction",
			Reason: "cannot create transaction without date and description",
		}
	}
	if credit.IsNegative() {
		return nil, &apperrors.ValidationError{
			Entity: "transaction", Field: "credit", Value: credit.String(), Reason: "must not be negative",
		}
	}
	if debit.IsNegative() {
		return nil, &apperrors.ValidationError{
			Entity: "transaction", Field: "debit", Value: debit.String(), Reason: "must not be negative",
		}
	}

	return &Transaction{
		id:          id,
		date:        dateutils.TruncateToDay(date),
		description: description,
		amount:      credit.Sub(debit),
		credit:      credit,
		debit:       debit,
		check:       strings.TrimSpace(check),
		layout:      LayoutLedger,
	}, nil
}

// ParseLedgerTransaction builds a ledger transaction from raw row values.
// Blank credit or debit values count as zero.
func ParseLedgerTransaction(date, description, check, credit, debit string) (*Transaction, error) {
	date = strings.TrimSpace(date)
	if date == "" || strings.TrimSpace(description) == "" {
		return nil, &apperrors.ValidationError{
			Entity: "transaction",
			Reason: "cannot create transaction without date and description",
		}
	}

	parsedDate, _, err := dateutils.ParseDate(date)
	if err != nil {
		return nil, &apperrors.ValidationError{
			Entity: "transaction", Field: "date", Value: date, Reason: "unrecognized date", Err: err,
		}
	}

	creditValue, err := parseOptionalDecimal("credit", credit)
	if err != nil {
		return nil, err
	}
	debitValue, err := parseOptionalDecimal("debit", debit)
	if err != nil {
		return nil, err
	}

	return NewLedgerTransaction(0, parsedDate, description, check, creditValue, debitValue)
}

func parseOptionalDecimal(field, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, &apperrors.ValidationError{
			Entity: "transaction", Field: field, Value: raw, Reason: "not a decimal number", Err: err,
		}
	}
	return value, nil
}

func (t *Transaction) ID() int64 { return t.id }
func (t *Transaction) Date() time.Time { return t.date }
func (t *Transaction) Description() string { return t.description }
func (t *Transaction) Amount() decimal.Decimal { return t.amount }
func (t *Transaction) Credit() decimal.Decimal { return t.credit }
func (t *Transaction) Debit() decimal.Decimal { return t.debit }
func (t *Transaction) Check() string { return t.check }
func (t *Transaction) Layout() Layout { return t.layout }

// Render returns the fixed-field text block for the transaction. Dates use
// dateLayout, DefaultDateLayout when empty.
func (t *Transaction) Render(dateLayout string) string {
	if dateLayout == "" {
		dateLayout = DefaultDateLayout
	}

	var b strings.Builder
	if t.layout == LayoutLedger {
		if t.id != 0 {
			fmt.Fprintf(&b, "Transaction ID: %d\n", t.id)
		}
		check := t.check
		if check == "" {
			check = NoCheck
		}
		fmt.Fprintf(&b, "Date: %s\n", t.date.Format(dateLayout))
		fmt.Fprintf(&b, "Description: %s\n", t.description)
		fmt.Fprintf(&b, "Check: %s\n", check)
		fmt.Fprintf(&b, "Credit: %s\n", t.credit.StringFixed(2))
		fmt.Fprintf(&b, "Debit: %s\n", t.debit.StringFixed(2))
		return b.String()
	}

	fmt.Fprintf(&b, "Date: %s\n", t.date.Format(dateLayout))
	fmt.Fprintf(&b, "Description: %s\n", t.description)
	fmt.Fprintf(&b, "Amount: %s\n", t.amount.StringFixed(2))
	return b.String()
}

// String renders with DefaultDateLayout.
func (t *Transaction) String() string {
	return t.Render("")
}
