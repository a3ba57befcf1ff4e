// Package report handles the command that categorizes CSV transactions and
// reports category totals.
package report

import (
	"fjacquet/txcat/cmd/common"
	"fjacquet/txcat/cmd/root"
	"fjacquet/txcat/internal/logging"
	"fjacquet/txcat/internal/models"
	"fjacquet/txcat/internal/store"

	"github.com/spf13/cobra"
)

var (
	transactionsFile string
	categoriesFile   string
)

// Cmd represents the report command
var Cmd = &cobra.Command{
	Use:   "report",
	Short: "Categorize transactions from CSV files and report category totals",
	Long: `Categorize transactions from CSV files and report category totals.

Every transaction must match exactly one category. In batch mode a transaction
that matches no category aborts the run. With --interactive you are asked for a
category name and keywords instead, and the categories file is updated after
each answer. A transaction matching several categories always aborts the run.`,
	Args: cobra.NoArgs,
	RunE: reportFunc,
}

func init() {
	Cmd.Flags().StringVarP(&transactionsFile, "transactions", "t", "", "Transactions CSV file")
	Cmd.Flags().StringVarP(&categoriesFile, "categories", "c", "", "Categories file (.csv, .yaml or .yml)")
	_ = Cmd.MarkFlagRequired("transactions")
	_ = Cmd.MarkFlagRequired("categories")
	common.AddReportFlags(Cmd)
}

func reportFunc(cmd *cobra.Command, args []string) error {
	c := root.AppContainer
	logger := c.GetLogger()

	from, to, err := c.GetConfig().DateRange()
	if err != nil {
		return err
	}

	logger.Debug("Loading transactions", logging.Field{Key: logging.FieldFile, Value: transactionsFile})
	txs, err := c.GetLoader().LoadTransactions(store.NewCSVRowSource(transactionsFile, logger), models.LayoutAmount, from, to)
	if err != nil {
		return err
	}

	categoryStore := c.CategoryStore(categoriesFile)
	categories, err := categoryStore.LoadCategories(cmd.Context())
	if err != nil {
		return err
	}

	prompter := common.NewTerminalPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
	categorized, err := common.Categorize(cmd.Context(), c, categories, txs, prompter, categoryStore)
	if err != nil {
		return err
	}

	return common.WriteReport(cmd, c, cmd.OutOrStdout(), categorized)
}
