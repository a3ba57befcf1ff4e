// Package report renders categorized transactions as text blocks or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"fjacquet/txcat/internal/apperrors"
	"fjacquet/txcat/internal/config"
	"fjacquet/txcat/internal/dateutils"
	"fjacquet/txcat/internal/logging"
	"fjacquet/txcat/internal/models"
)

// Options controls what is reported and how.
type Options struct {
	Format     string   // text or json
	Verbose    bool     // include the transactions of every category
	Only       []string // category allowlist, empty means all
	Inspect    string   // report a single category with its transactions
	DateLayout string
}

// ReportGenerator writes category reports.
type ReportGenerator struct {
	logger logging.Logger
}

// NewReportGenerator creates a new instance of ReportGenerator.
func NewReportGenerator(logger logging.Logger) *ReportGenerator {
	return &ReportGenerator{
		logger: logger.WithField("component", "ReportGenerator"),
	}
}

// GenerateReport writes the categories selected by opts to w, in category
// order, each followed by its transactions in date order when verbose.
func (g *ReportGenerator) GenerateReport(w io.Writer, categories []*models.Category, opts Options) error {
	selected, verbose, err := g.selectCategories(categories, opts)
	if err != nil {
		return err
	}

	switch opts.Format {
	case config.FormatText, "":
		return g.generateTextReport(w, selected, verbose, opts.DateLayout)
	case config.FormatJSON:
		return g.generateJSONReport(w, selected, verbose, opts.DateLayout)
	default:
		return fmt.Errorf("unsupported report format: %s", opts.Format)
	}
}

// selectCategories applies the inspect and allowlist options.
func (g *ReportGenerator) selectCategories(categories []*models.Category, opts Options) ([]*models.Category, bool, error) {
	if opts.Inspect != "" {
		category := models.FindCategory(categories, opts.Inspect)
		if category == nil {
			return nil, false, &apperrors.ValidationError{
				Entity: "category",
				Field:  "name",
				Value:  opts.Inspect,
				Reason: "no category found",
			}
		}
		return []*models.Category{category}, true, nil
	}

	if len(opts.Only) == 0 {
		return categories, opts.Verbose, nil
	}

	var selected []*models.Category
	for _, category := range categories {
		for _, name := range opts.Only {
			if category.HasName(name) {
				selected = append(selected, category)
				break
			}
		}
	}
	for _, name := range opts.Only {
		if models.FindCategory(categories, name) == nil {
			g.logger.Warn("Unknown category in allowlist", logging.Field{Key: logging.FieldCategory, Value: name})
		}
	}
	return selected, opts.Verbose, nil
}

func (g *ReportGenerator) generateTextReport(w io.Writer, categories []*models.Category, verbose bool, dateLayout string) error {
	blocks := make([]string, len(categories))
	for i, category := range categories {
		blocks[i] = category.Render(verbose, dateLayout)
	}

	if len(blocks) == 0 {
		return nil
	}
	if _, err := io.WriteString(w, strings.Join(blocks, "\n")); err != nil {
		return &apperrors.SourceWriteError{Sink: "report", Err: err}
	}
	return nil
}

type transactionReport struct {
	ID          int64  `json:"id,omitempty"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Check       string `json:"check,omitempty"`
	Amount      string `json:"amount"`
	Credit      string `json:"credit"`
	Debit       string `json:"debit"`
}

type categoryReport struct {
	ID                int64               `json:"id,omitempty"`
	Name              string              `json:"name"`
	Keywords          []string            `json:"keywords"`
	TotalTransactions int                 `json:"total_transactions"`
	TotalAmount       string              `json:"total_amount"`
	TotalCredits      string              `json:"total_credits"`
	TotalDebits       string              `json:"total_debits"`
	Transactions      []transactionReport `json:"transactions,omitempty"`
}

func (g *ReportGenerator) generateJSONReport(w io.Writer, categories []*models.Category, verbose bool, dateLayout string) error {
	if dateLayout == "" {
		dateLayout = dateutils.DateLayoutISO
	}

	out := make([]categoryReport, len(categories))
	for i, category := range categories {
		out[i] = categoryReport{
			ID:                category.ID(),
			Name:              category.Name(),
			Keywords:          category.Keywords(),
			TotalTransactions: category.TotalTransactions(),
			TotalAmount:       category.TotalAmount().StringFixed(2),
			TotalCredits:      category.TotalCredits().StringFixed(2),
			TotalDebits:       category.TotalDebits().StringFixed(2),
		}
		if !verbose {
			continue
		}
		for _, tx := range category.SortedTransactions() {
			out[i].Transactions = append(out[i].Transactions, transactionReport{
				ID:          tx.ID(),
				Date:        dateutils.FormatDate(tx.Date(), dateLayout),
				Description: tx.Description(),
				Check:       tx.Check(),
				Amount:      tx.Amount().StringFixed(2),
				Credit:      tx.Credit().StringFixed(2),
				Debit:       tx.Debit().StringFixed(2),
			})
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return nil
}
