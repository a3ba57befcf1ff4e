package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/txcat/internal/apperrors"
	"fjacquet/txcat/internal/logging"
	"fjacquet/txcat/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	err := os.WriteFile(path, []byte(content), 0600)
	require.NoError(t, err)
}

func TestNewCategoryStore_PicksFormatByExtension(t *testing.T) {
	logger := logging.NewMockLogger()

	assert.IsType(t, &YAMLCategoryStore{}, NewCategoryStore("cats.yaml", testCatColumns, logger))
	assert.IsType(t, &YAMLCategoryStore{}, NewCategoryStore("cats.YML", testCatColumns, logger))
	assert.IsType(t, &CSVCategoryStore{}, NewCategoryStore("cats.csv", testCatColumns, logger))
	assert.IsType(t, &CSVCategoryStore{}, NewCategoryStore("cats", testCatColumns, logger))
}

func TestCSVCategoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	file := filepath.Join(t.TempDir(), "categories.csv")
	writeFile(t, file, "Name,Keywords\nGroceries,walmart|kroger\nGas,shell\n")

	s := NewCSVCategoryStore(file, testCatColumns, logging.NewMockLogger())
	categories, err := s.LoadCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)

	require.NoError(t, categories[1].ExtendPattern("exxon"))
	extra, err := models.NewCategory("Dining, Out", "cafe|bistro")
	require.NoError(t, err)
	categories = append(categories, extra)

	require.NoError(t, s.SaveCategories(ctx, categories))

	reloaded, err := s.LoadCategories(ctx)
	require.NoError(t, err)
	require.Len(t, reloaded, 3)
	for i := range categories {
		assert.Equal(t, categories[i].Name(), reloaded[i].Name())
		assert.Equal(t, categories[i].PatternSource(), reloaded[i].PatternSource())
	}
}

func TestCSVCategoryStore_ReadErrors(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	_, err := NewCSVCategoryStore(filepath.Join(dir, "missing.csv"), testCatColumns, logging.NewMockLogger()).LoadCategories(ctx)
	var readErr *apperrors.SourceReadError
	assert.True(t, errors.As(err, &readErr))

	mismatch := filepath.Join(dir, "mismatch.csv")
	writeFile(t, mismatch, "Name,Keywords\nGroceries\n")
	_, err = NewCSVCategoryStore(mismatch, testCatColumns, logging.NewMockLogger()).LoadCategories(ctx)
	assert.True(t, errors.As(err, &readErr))
}

func TestCSVCategoryStore_WriteError(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "categories.csv")
	require.NoError(t, os.Mkdir(target, 0750))
	writeFile(t, filepath.Join(target, "keep"), "x")

	category, err := models.NewCategory("Gas", "shell")
	require.NoError(t, err)

	err = NewCSVCategoryStore(target, testCatColumns, logging.NewMockLogger()).
		SaveCategories(context.Background(), []*models.Category{category})

	var writeErr *apperrors.SourceWriteError
	require.True(t, errors.As(err, &writeErr))
	assert.Equal(t, target, writeErr.Sink)
}

func TestYAMLCategoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	file := filepath.Join(t.TempDir(), "categories.yaml")
	writeFile(t, file, `categories:
  - name: Groceries
    keywords: ["walmart", "kroger"]
  - name: Gas
    keywords: ["shell"]
`)

	s := NewYAMLCategoryStore(file, logging.NewMockLogger())
	categories, err := s.LoadCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "walmart|kroger", categories[0].PatternSource())

	require.NoError(t, categories[1].ExtendPattern("exxon"))
	require.NoError(t, s.SaveCategories(ctx, categories))

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	var saved models.CategoriesConfig
	require.NoError(t, yaml.Unmarshal(data, &saved))
	assert.Equal(t, []models.CategoryConfig{
		{Name: "Groceries", Keywords: []string{"walmart", "kroger"}},
		{Name: "Gas", Keywords: []string{"shell", "exxon"}},
	}, saved.Categories)

	reloaded, err := s.LoadCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, "shell|exxon", reloaded[1].PatternSource())
}

func TestYAMLCategoryStore_BareList(t *testing.T) {
	file := filepath.Join(t.TempDir(), "categories.yml")
	writeFile(t, file, `- name: Rent
  keywords: ["landlord"]
`)

	categories, err := NewYAMLCategoryStore(file, logging.NewMockLogger()).LoadCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Rent", categories[0].Name())
}

func TestYAMLCategoryStore_Errors(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, err error)
	}{
		{
			name:    "malformed",
			content: "categories: [",
			check: func(t *testing.T, err error) {
				var readErr *apperrors.SourceReadError
				assert.True(t, errors.As(err, &readErr))
			},
		},
		{
			name:    "empty",
			content: "categories: []\n",
			check: func(t *testing.T, err error) {
				var emptyErr *apperrors.EmptyResultError
				assert.True(t, errors.As(err, &emptyErr))
			},
		},
		{
			name:    "no keywords",
			content: "categories:\n  - name: Rent\n",
			check: func(t *testing.T, err error) {
				var validationErr *apperrors.ValidationError
				assert.True(t, errors.As(err, &validationErr))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := filepath.Join(dir, tt.name+".yaml")
			writeFile(t, file, tt.content)
			_, err := NewYAMLCategoryStore(file, logging.NewMockLogger()).LoadCategories(ctx)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestCSVRowSource_Location(t *testing.T) {
	src := NewCSVRowSource("transactions.csv", logging.NewMockLogger())
	assert.Equal(t, "transactions.csv", src.Location())
}
