package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"fjacquet/txcat/internal/apperrors"
	"fjacquet/txcat/internal/logging"
	"fjacquet/txcat/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func categorized(t *testing.T) []*models.Category {
	t.Helper()
	groceries, err := models.NewCategory("Groceries", "walmart|kroger")
	require.NoError(t, err)
	gas, err := models.NewCategory("Gas", "shell")
	require.NoError(t, err)

	for _, row := range [][3]string{
		{"2024-01-02", "KROGER", "-20"},
		{"2024-01-01", "WALMART #123", "-45"},
	} {
		tx, err := models.NewTransaction(row[0], row[1], row[2])
		require.NoError(t, err)
		groceries.RecordTransaction(tx)
	}
	tx, err := models.NewTransaction("2024-01-03", "SHELL OIL", "-30")
	require.NoError(t, err)
	gas.RecordTransaction(tx)

	return []*models.Category{groceries, gas}
}

func TestGenerateReport_Text(t *testing.T) {
	var buf bytes.Buffer
	g := NewReportGenerator(logging.NewMockLogger())

	require.NoError(t, g.GenerateReport(&buf, categorized(t), Options{Format: "text"}))

	expected := "Category: Groceries\n" +
		"Keywords: walmart, kroger\n" +
		"Total transactions: 2\n" +
		"Total amount: -65.00\n" +
		"\n" +
		"Category: Gas\n" +
		"Keywords: shell\n" +
		"Total transactions: 1\n" +
		"Total amount: -30.00\n"
	assert.Equal(t, expected, buf.String())
}

func TestGenerateReport_TextVerboseSortsTransactions(t *testing.T) {
	var buf bytes.Buffer
	g := NewReportGenerator(logging.NewMockLogger())

	require.NoError(t, g.GenerateReport(&buf, categorized(t), Options{Verbose: true, Only: []string{"groceries"}}))

	out := buf.String()
	assert.NotContains(t, out, "Category: Gas")
	walmart := bytes.Index(buf.Bytes(), []byte("WALMART"))
	kroger := bytes.Index(buf.Bytes(), []byte("KROGER"))
	assert.True(t, walmart >= 0 && kroger > walmart, "transactions are listed by ascending date")
}

func TestGenerateReport_AllowlistWarnsOnUnknownName(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewMockLogger()
	g := NewReportGenerator(logger)

	require.NoError(t, g.GenerateReport(&buf, categorized(t), Options{Only: []string{"Gas", "Travel"}}))
	assert.Contains(t, buf.String(), "Category: Gas")
	assert.NotContains(t, buf.String(), "Groceries")
	assert.True(t, logger.HasEntry("WARN", "Unknown category in allowlist"))
}

func TestGenerateReport_Inspect(t *testing.T) {
	var buf bytes.Buffer
	g := NewReportGenerator(logging.NewMockLogger())

	require.NoError(t, g.GenerateReport(&buf, categorized(t), Options{Inspect: "GAS"}))
	assert.Contains(t, buf.String(), "Category: Gas")
	assert.Contains(t, buf.String(), "Description: SHELL OIL")
	assert.NotContains(t, buf.String(), "Groceries")

	err := g.GenerateReport(&buf, categorized(t), Options{Inspect: "Travel"})
	var validationErr *apperrors.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "Travel", validationErr.Value)
}

func TestGenerateReport_JSON(t *testing.T) {
	var buf bytes.Buffer
	g := NewReportGenerator(logging.NewMockLogger())

	require.NoError(t, g.GenerateReport(&buf, categorized(t), Options{Format: "json", Verbose: true}))

	var out []categoryReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "Groceries", out[0].Name)
	assert.Equal(t, []string{"walmart", "kroger"}, out[0].Keywords)
	assert.Equal(t, "-65.00", out[0].TotalAmount)
	assert.Equal(t, "65.00", out[0].TotalDebits)
	require.Len(t, out[0].Transactions, 2)
	assert.Equal(t, "2024-01-01", out[0].Transactions[0].Date)
	assert.Equal(t, "WALMART #123", out[0].Transactions[0].Description)
}

func TestGenerateReport_UnsupportedFormat(t *testing.T) {
	g := NewReportGenerator(logging.NewMockLogger())
	err := g.GenerateReport(&bytes.Buffer{}, nil, Options{Format: "xml"})
	assert.ErrorContains(t, err, "unsupported report format")
}
