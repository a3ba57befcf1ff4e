// Package store provides loading and saving of transactions and categories.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/txcat/internal/apperrors"
	"fjacquet/txcat/internal/common"
	"fjacquet/txcat/internal/config"
	"fjacquet/txcat/internal/logging"
	"fjacquet/txcat/internal/models"

	"gopkg.in/yaml.v3"
)

// CategoryStore loads a category set and writes it back in the same format.
type CategoryStore interface {
	LoadCategories(ctx context.Context) ([]*models.Category, error)
	SaveCategories(ctx context.Context, categories []*models.Category) error
	Location() string
}

// NewCategoryStore picks the file format from the extension of path:
// .yaml and .yml files hold a keyword list per category, anything else is CSV.
func NewCategoryStore(path string, columns config.CategoryColumns, logger logging.Logger) CategoryStore {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return NewYAMLCategoryStore(path, logger)
	default:
		return NewCSVCategoryStore(path, columns, logger)
	}
}

// CSVCategoryStore keeps categories in a CSV file with one row per category
// and the pattern alternatives joined by "|".
type CSVCategoryStore struct {
	path    string
	columns config.CategoryColumns
	logger  logging.Logger
}

// NewCSVCategoryStore creates a CSV-backed category store.
func NewCSVCategoryStore(path string, columns config.CategoryColumns, logger logging.Logger) *CSVCategoryStore {
	return &CSVCategoryStore{path: path, columns: columns, logger: logger}
}

func (s *CSVCategoryStore) Location() string { return s.path }

// LoadCategories reads the category file.
func (s *CSVCategoryStore) LoadCategories(_ context.Context) ([]*models.Category, error) {
	loader := NewLoader(config.TransactionColumns{}, s.columns, s.logger)
	categories, err := loader.LoadCategories(NewCSVRowSource(s.path, s.logger))
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Loaded categories",
		logging.Field{Key: logging.FieldFile, Value: s.path},
		logging.Field{Key: logging.FieldCount, Value: len(categories)})
	return categories, nil
}

// SaveCategories rewrites the category file with the full set.
func (s *CSVCategoryStore) SaveCategories(_ context.Context, categories []*models.Category) error {
	rows := make([][]string, len(categories))
	for i, category := range categories {
		rows[i] = []string{category.Name(), category.PatternSource()}
	}

	header := []string{s.columns.Name, s.columns.Keywords}
	if err := common.WriteRows(s.path, header, rows, s.logger); err != nil {
		return &apperrors.SourceWriteError{Sink: s.path, Err: err}
	}

	s.logger.Debug("Saved categories",
		logging.Field{Key: logging.FieldFile, Value: s.path},
		logging.Field{Key: logging.FieldCount, Value: len(categories)})
	return nil
}

// YAMLCategoryStore keeps categories in a YAML file:
//
//	categories:
//	  - name: Groceries
//	    keywords: [walmart, kroger]
type YAMLCategoryStore struct {
	path   string
	logger logging.Logger
}

// NewYAMLCategoryStore creates a YAML-backed category store.
func NewYAMLCategoryStore(path string, logger logging.Logger) *YAMLCategoryStore {
	return &YAMLCategoryStore{path: path, logger: logger}
}

func (s *YAMLCategoryStore) Location() string { return s.path }

// LoadCategories reads the category file. A bare list of categories without
// the top-level key is accepted as well.
func (s *YAMLCategoryStore) LoadCategories(_ context.Context) ([]*models.Category, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &apperrors.SourceReadError{Source: s.path, Err: err}
	}

	configs, err := decodeCategoryConfigs(data)
	if err != nil {
		return nil, &apperrors.SourceReadError{Source: s.path, Err: err}
	}

	categories := make([]*models.Category, 0, len(configs))
	for i, cfg := range configs {
		category, err := models.NewCategoryFromConfig(cfg)
		if err != nil {
			return nil, fmt.Errorf("%s entry %d: %w", s.path, i+1, err)
		}
		categories = append(categories, category)
	}

	categories, err = checkCategories(s.path, categories)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Loaded categories",
		logging.Field{Key: logging.FieldFile, Value: s.path},
		logging.Field{Key: logging.FieldCount, Value: len(categories)})
	return categories, nil
}

func decodeCategoryConfigs(data []byte) ([]models.CategoryConfig, error) {
	var categoriesConfig models.CategoriesConfig
	err := yaml.Unmarshal(data, &categoriesConfig)
	if err == nil && len(categoriesConfig.Categories) > 0 {
		return categoriesConfig.Categories, nil
	}

	var categories []models.CategoryConfig
	if listErr := yaml.Unmarshal(data, &categories); listErr == nil {
		return categories, nil
	}

	if err == nil {
		return nil, nil
	}
	return nil, fmt.Errorf("error parsing categories file: %w", err)
}

// SaveCategories rewrites the category file with the full set.
func (s *YAMLCategoryStore) SaveCategories(_ context.Context, categories []*models.Category) error {
	out := models.CategoriesConfig{Categories: make([]models.CategoryConfig, len(categories))}
	for i, category := range categories {
		out.Categories[i] = category.Config()
	}

	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(out); err != nil {
		return &apperrors.SourceWriteError{Sink: s.path, Err: err}
	}
	if err := encoder.Close(); err != nil {
		return &apperrors.SourceWriteError{Sink: s.path, Err: err}
	}

	if err := common.WriteFileAtomic(s.path, []byte(buf.String())); err != nil {
		return &apperrors.SourceWriteError{Sink: s.path, Err: err}
	}

	s.logger.Debug("Saved categories",
		logging.Field{Key: logging.FieldFile, Value: s.path},
		logging.Field{Key: logging.FieldCount, Value: len(categories)})
	return nil
}

