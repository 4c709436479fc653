package common

import (
	"fmt"
	"slices"
)

// ValidateOutputFormat checks a requested format against the configured list.
// An empty list means the deployment does not restrict formats.
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 || slices.Contains(supportedFormats, format) {
		return nil
	}
	return fmt.Errorf("unsupported output format '%s'. Supported formats: %v",
		format, supportedFormats)
}

// GetSupportedFormats exposes the configured format list for flag completion.
func GetSupportedFormats(supportedFormats []string) []string {
	return supportedFormats
}
