package store

import (
	"context"

	"fjacquet/txcat/internal/models"
)

// MockCategoryStore is an in-memory CategoryStore for testing.
type MockCategoryStore struct {
	Categories []*models.Category
	Name       string

	// Saved holds the persisted form of every SaveCategories call.
	Saved [][]models.CategoryConfig

	// Error flags for testing error conditions
	LoadCategoriesError error
	SaveCategoriesError error
}

// LoadCategories returns the mock categories.
func (m *MockCategoryStore) LoadCategories(_ context.Context) ([]*models.Category, error) {
	if m.LoadCategoriesError != nil {
		return nil, m.LoadCategoriesError
	}
	return m.Categories, nil
}

// SaveCategories records a snapshot of categories.
func (m *MockCategoryStore) SaveCategories(_ context.Context, categories []*models.Category) error {
	if m.SaveCategoriesError != nil {
		return m.SaveCategoriesError
	}
	snapshot := make([]models.CategoryConfig, len(categories))
	for i, category := range categories {
		snapshot[i] = category.Config()
	}
	m.Saved = append(m.Saved, snapshot)
	return nil
}

func (m *MockCategoryStore) Location() string {
	if m.Name == "" {
		return "mock"
	}
	return m.Name
}
