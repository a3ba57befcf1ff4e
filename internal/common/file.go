package common

import (
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/txcat/internal/models"
)

// WriteFileAtomic replaces filePath with data. The data is written to a
// temporary file in the same directory and renamed into place, so a failed
// write leaves the previous file intact.
func WriteFileAtomic(filePath string, data []byte) (err error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filePath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("error writing file: %w", err)
	}
	if err = tmp.Chmod(models.PermissionReportFile); err != nil {
		return fmt.Errorf("error setting file permissions: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("error closing file: %w", err)
	}
	if err = os.Rename(tmp.Name(), filePath); err != nil {
		return fmt.Errorf("error replacing file: %w", err)
	}
	return nil
}
