// Package common provides shared file handling for the stores.
package common

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"fjacquet/txcat/internal/logging"

	"github.com/gocarina/gocsv"
)

// ReadRows reads a comma-separated file with a header line into one map per
// data row, keyed by the trimmed header names. Rows whose values are all blank
// are skipped. A row whose column count differs from the header is an error.
func ReadRows(filePath string, logger logging.Logger) ([]map[string]string, error) {
	logger.Debug("Reading CSV file", logging.Field{Key: logging.FieldFile, Value: filePath})

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	raw, err := gocsv.CSVToMaps(file)
	if err != nil {
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}

	rows := make([]map[string]string, 0, len(raw))
	for _, r := range raw {
		row := make(map[string]string, len(r))
		blank := true
		for key, value := range r {
			value = strings.TrimSpace(value)
			if value != "" {
				blank = false
			}
			row[strings.TrimSpace(strings.TrimPrefix(key, "\ufeff"))] = value
		}
		if !blank {
			rows = append(rows, row)
		}
	}

	logger.Debug("Read CSV rows",
		logging.Field{Key: logging.FieldFile, Value: filePath},
		logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return rows, nil
}

// WriteRows replaces filePath with a CSV file holding header and rows.
func WriteRows(filePath string, header []string, rows [][]string, logger logging.Logger) error {
	var buf bytes.Buffer
	writer := gocsv.NewSafeCSVWriter(csv.NewWriter(&buf))
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("error writing CSV data: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	if err := WriteFileAtomic(filePath, buf.Bytes()); err != nil {
		return err
	}

	logger.Debug("Wrote CSV file",
		logging.Field{Key: logging.FieldFile, Value: filePath},
		logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return nil
}
