// Package ledger handles the commands that work on the ledger database.
package ledger

import (
	"fmt"

	"fjacquet/txcat/cmd/common"
	"fjacquet/txcat/cmd/root"
	ledgerdb "fjacquet/txcat/internal/ledger"
	"fjacquet/txcat/internal/models"
	"fjacquet/txcat/internal/store"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"
)

var (
	toCategory       string
	transactionsFile string
)

// Cmd represents the ledger command
var Cmd = &cobra.Command{
	Use:   "ledger",
	Short: "Categorize and administer transactions stored in a ledger database",
	Long: `Categorize and administer transactions stored in a ledger database.

The ledger keeps categories, keywords and transactions with separate credit and
debit amounts in SQLite (default) or PostgreSQL. The schema is created on first
use.`,
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Categorize ledger transactions and report category totals",
	Args:  cobra.NoArgs,
	RunE:  reportFunc,
}

var addCategoryCmd = &cobra.Command{
	Use:   "add-category NAME",
	Short: "Add a category without keywords",
	Args:  cobra.ExactArgs(1),
	RunE:  addCategoryFunc,
}

var addKeywordCmd = &cobra.Command{
	Use:   "add-keyword KEYWORD",
	Short: "Add a keyword to an existing category",
	Args:  cobra.ExactArgs(1),
	RunE:  addKeywordFunc,
}

var listCategoriesCmd = &cobra.Command{
	Use:   "list-categories",
	Short: "List categories as CSV",
	Args:  cobra.NoArgs,
	RunE:  listCategoriesFunc,
}

var listKeywordsCmd = &cobra.Command{
	Use:   "list-keywords [CATEGORY]",
	Short: "List keywords as CSV, optionally for a single category",
	Args:  cobra.MaximumNArgs(1),
	RunE:  listKeywordsFunc,
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import credit/debit transactions from a CSV file",
	Args:  cobra.NoArgs,
	RunE:  importFunc,
}

func init() {
	Cmd.PersistentFlags().String("driver", "", "Ledger database driver (sqlite or postgres)")
	Cmd.PersistentFlags().String("dsn", "", "Ledger data source (SQLite file or PostgreSQL URL)")
	root.BindConfigKey(Cmd.PersistentFlags(), "driver", "ledger.driver")
	root.BindConfigKey(Cmd.PersistentFlags(), "dsn", "ledger.dsn")

	common.AddReportFlags(reportCmd)

	addKeywordCmd.Flags().StringVar(&toCategory, "to-category", "", "Category receiving the keyword")
	_ = addKeywordCmd.MarkFlagRequired("to-category")

	importCmd.Flags().StringVarP(&transactionsFile, "transactions", "t", "", "CSV file with Date, Name, Check, Credit and Debit columns")
	_ = importCmd.MarkFlagRequired("transactions")

	Cmd.AddCommand(reportCmd, addCategoryCmd, addKeywordCmd, listCategoriesCmd, listKeywordsCmd, importCmd)
}

func openLedger(cmd *cobra.Command) (*ledgerdb.Store, error) {
	return root.AppContainer.Ledger(cmd.Context())
}

func reportFunc(cmd *cobra.Command, args []string) error {
	c := root.AppContainer
	l, err := openLedger(cmd)
	if err != nil {
		return err
	}

	from, to, err := c.GetConfig().DateRange()
	if err != nil {
		return err
	}

	txs, err := l.LoadTransactions(cmd.Context(), from, to)
	if err != nil {
		return err
	}
	categories, err := l.LoadCategories(cmd.Context())
	if err != nil {
		return err
	}

	prompter := common.NewTerminalPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
	categorized, err := common.Categorize(cmd.Context(), c, categories, txs, prompter, l)
	if err != nil {
		return err
	}

	return common.WriteReport(cmd, c, cmd.OutOrStdout(), categorized)
}

func addCategoryFunc(cmd *cobra.Command, args []string) error {
	l, err := openLedger(cmd)
	if err != nil {
		return err
	}
	if _, err := l.AddCategory(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Category %q added\n", args[0])
	return nil
}

func addKeywordFunc(cmd *cobra.Command, args []string) error {
	l, err := openLedger(cmd)
	if err != nil {
		return err
	}
	if _, err := l.AddKeyword(cmd.Context(), args[0], toCategory); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Keyword %q added to category %q\n", args[0], toCategory)
	return nil
}

func listCategoriesFunc(cmd *cobra.Command, args []string) error {
	l, err := openLedger(cmd)
	if err != nil {
		return err
	}
	rows, err := l.ListCategories(cmd.Context())
	if err != nil {
		return err
	}
	if rows == nil {
		rows = []ledgerdb.CategoryRow{}
	}
	return gocsv.Marshal(&rows, cmd.OutOrStdout())
}

func listKeywordsFunc(cmd *cobra.Command, args []string) error {
	l, err := openLedger(cmd)
	if err != nil {
		return err
	}

	var category string
	if len(args) == 1 {
		category = args[0]
	}
	rows, err := l.ListKeywords(cmd.Context(), category)
	if err != nil {
		return err
	}
	if rows == nil {
		rows = []ledgerdb.KeywordRow{}
	}
	return gocsv.Marshal(&rows, cmd.OutOrStdout())
}

func importFunc(cmd *cobra.Command, args []string) error {
	c := root.AppContainer
	l, err := openLedger(cmd)
	if err != nil {
		return err
	}

	src := store.NewCSVRowSource(transactionsFile, c.GetLogger())
	txs, err := c.GetLoader().LoadTransactions(src, models.LayoutLedger, nil, nil)
	if err != nil {
		return err
	}

	n, err := l.ImportTransactions(cmd.Context(), txs)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transactions\n", n)
	return nil
}
