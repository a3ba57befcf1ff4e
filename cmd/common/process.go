// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"io"

	"fjacquet/txcat/cmd/root"
	"fjacquet/txcat/internal/categorizer"
	"fjacquet/txcat/internal/container"
	"fjacquet/txcat/internal/models"
	"fjacquet/txcat/internal/report"

	"github.com/spf13/cobra"
)

// AddReportFlags registers the flags shared by the report commands.
func AddReportFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("from-date", "", "Only include transactions on or after this date")
	flags.String("to-date", "", "Only include transactions on or before this date")
	flags.StringSlice("only", nil, "Only report these categories (comma-separated)")
	flags.String("inspect-category", "", "Report a single category with its transactions")
	flags.BoolP("verbose", "v", false, "List the transactions of every category")
	flags.BoolP("interactive", "i", false, "Ask for a category when a transaction matches none")
	flags.String("format", "text", "Report format (text or json)")

	root.BindConfigKey(flags, "from-date", "report.from_date")
	root.BindConfigKey(flags, "to-date", "report.to_date")
	root.BindConfigKey(flags, "only", "report.only")
	root.BindConfigKey(flags, "verbose", "report.verbose")
	root.BindConfigKey(flags, "interactive", "categorization.interactive")
	root.BindConfigKey(flags, "format", "report.format")
}

// Categorize runs the categorizer over txs and returns the resulting
// category set, including categories learned interactively.
func Categorize(ctx context.Context, c *container.Container, categories []*models.Category, txs []*models.Transaction,
	prompter categorizer.Prompter, writer categorizer.CategoryWriter) ([]*models.Category, error) {
	cat := c.NewCategorizer(categories, prompter, writer)
	if err := cat.Run(ctx, txs); err != nil {
		return nil, err
	}
	return cat.Categories(), nil
}

// WriteReport renders categories to out following the report configuration.
func WriteReport(cmd *cobra.Command, c *container.Container, out io.Writer, categories []*models.Category) error {
	inspect, err := cmd.Flags().GetString("inspect-category")
	if err != nil {
		return err
	}

	cfg := c.GetConfig()
	return c.GetReportGenerator().GenerateReport(out, categories, report.Options{
		Format:     cfg.Report.Format,
		Verbose:    cfg.Report.Verbose,
		Only:       cfg.Report.Only,
		Inspect:    inspect,
		DateLayout: cfg.Report.DateLayout,
	})
}
