// Package container provides dependency injection for the txcat application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"context"
	"fmt"

	"fjacquet/txcat/internal/categorizer"
	"fjacquet/txcat/internal/config"
	"fjacquet/txcat/internal/ledger"
	"fjacquet/txcat/internal/logging"
	"fjacquet/txcat/internal/models"
	"fjacquet/txcat/internal/report"
	"fjacquet/txcat/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
// The ledger connection is opened on first use and released by Close.
type Container struct {
	logger  logging.Logger
	config  *config.Config
	loader  *store.Loader
	reports *report.ReportGenerator

	ledger *ledger.Store
}

// NewContainer creates and wires all application dependencies using a logger
// built from cfg.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, config.NewLogger(cfg))
}

// NewContainerWithLogger creates the container around an existing logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	loader := store.NewLoader(cfg.CSV.Columns.Transactions, cfg.CSV.Columns.Categories, logger)

	logger.Debug("Container initialized",
		logging.Field{Key: "interactive", Value: cfg.Categorization.Interactive},
		logging.Field{Key: logging.FieldDriver, Value: cfg.Ledger.Driver})

	return &Container{
		logger:  logger,
		config:  cfg,
		loader:  loader,
		reports: report.NewReportGenerator(logger),
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetLoader returns the row loader configured with the CSV column names.
func (c *Container) GetLoader() *store.Loader {
	return c.loader
}

// GetReportGenerator returns the report generator.
func (c *Container) GetReportGenerator() *report.ReportGenerator {
	return c.reports
}

// CategoryStore returns the file-backed category store for path.
func (c *Container) CategoryStore(path string) store.CategoryStore {
	return store.NewCategoryStore(path, c.config.CSV.Columns.Categories, c.logger)
}

// Mode returns the categorization mode selected by the configuration.
func (c *Container) Mode() categorizer.Mode {
	if c.config.Categorization.Interactive {
		return categorizer.ModeInteractive
	}
	return categorizer.ModeBatch
}

// NewCategorizer creates a categorizer over categories in the configured mode.
// The prompter and writer are only attached in interactive mode.
func (c *Container) NewCategorizer(categories []*models.Category, prompter categorizer.Prompter, writer categorizer.CategoryWriter) *categorizer.Categorizer {
	cat := categorizer.NewCategorizer(categories, c.Mode(), c.logger).
		WithDateLayout(c.config.Report.DateLayout)
	if c.Mode() == categorizer.ModeInteractive {
		cat.WithResolution(prompter, writer)
	}
	return cat
}

// Ledger opens the configured ledger database on first use.
func (c *Container) Ledger(ctx context.Context) (*ledger.Store, error) {
	if c.ledger != nil {
		return c.ledger, nil
	}

	l, err := ledger.Open(ctx, c.config.Ledger.Driver, c.config.Ledger.DSN, c.logger)
	if err != nil {
		return nil, err
	}
	c.ledger = l
	return l, nil
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	if c.ledger == nil {
		return nil
	}
	err := c.ledger.Close()
	c.ledger = nil
	if err != nil {
		return fmt.Errorf("close ledger: %w", err)
	}
	c.logger.Debug("Container closed")
	return nil
}
