package store

import (
	"fjacquet/txcat/internal/apperrors"
	"fjacquet/txcat/internal/common"
	"fjacquet/txcat/internal/logging"
)

// RowSource yields the data rows of a tabular source keyed by column name.
type RowSource interface {
	Rows() ([]map[string]string, error)
	Location() string
}

// CSVRowSource reads rows from a comma-separated file with a header line.
type CSVRowSource struct {
	path   string
	logger logging.Logger
}

// NewCSVRowSource creates a row source for the CSV file at path.
func NewCSVRowSource(path string, logger logging.Logger) *CSVRowSource {
	return &CSVRowSource{path: path, logger: logger}
}

// Rows returns the non-blank data rows. I/O and column-count problems are
// reported as a SourceReadError.
func (s *CSVRowSource) Rows() ([]map[string]string, error) {
	rows, err := common.ReadRows(s.path, s.logger)
	if err != nil {
		return nil, &apperrors.SourceReadError{Source: s.path, Err: err}
	}
	return rows, nil
}

func (s *CSVRowSource) Location() string { return s.path }

// StaticRowSource serves rows held in memory.
type StaticRowSource struct {
	Name string
	Data []map[string]string
}

func (s StaticRowSource) Rows() ([]map[string]string, error) { return s.Data, nil }
func (s StaticRowSource) Location() string { return s.Name }
