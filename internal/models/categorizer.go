// Package models provides the data structures used throughout the application.
package models

// CategoryConfig is the persisted form of a category: its name and the
// pattern alternatives in order.
type CategoryConfig struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// CategoriesConfig represents the structure of the categories YAML file
type CategoriesConfig struct {
	Categories []CategoryConfig `yaml:"categories"`
}
