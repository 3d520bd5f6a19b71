package maso

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"maso-hq/masolint/pkg/maso/diagnostic"
	"maso-hq/masolint/pkg/maso/validator"
)

// Extension is the file extension of MASO documents.
const Extension = ".maso"

// IsMasoFile reports whether path names a MASO document. The extension is
// matched case-insensitively.
func IsMasoFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), Extension)
}

// Validate is a convenience function that validates text with default
// options and returns its diagnostics.
func Validate(text string) []diagnostic.Diagnostic {
	return validator.NewValidator().Validate(text)
}

// ValidateBytes validates raw document bytes.
func ValidateBytes(data []byte) []diagnostic.Diagnostic {
	return Validate(string(data))
}

// ValidateFile reads and validates the file at path. An error is returned
// only when the file cannot be read; invalid content is reported through
// the diagnostics.
func ValidateFile(path string) ([]diagnostic.Diagnostic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ValidateBytes(data), nil
}
