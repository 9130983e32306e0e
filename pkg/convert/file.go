package convert

import (
	"errors"
	"fmt"
	"os"
)

// ErrEmptyInput is returned by LoadFile for a zero length file
var ErrEmptyInput = errors.New("input file is empty")

// LoadFile reads the whole file at path
func LoadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyInput)
	}
	return data, nil
}

// SaveFile writes data to path, replacing any existing file
func SaveFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
