package common

import (
	"fmt"
	"slices"
	"strings"

	"hrpilot/internal/errors"
	"hrpilot/internal/formatters"
)

// OutputFormats returns the formats commands may write: app.supportedFormats
// narrowed to what the formatter registry renders, in configured order. An
// empty configuration allows every registered format.
func OutputFormats(configured []string) []string {
	registered := formatters.GlobalRegistry.GetSupportedFormats()
	if len(configured) == 0 {
		return registered
	}
	allowed := make([]string, 0, len(configured))
	for _, f := range configured {
		if slices.Contains(registered, f) && !slices.Contains(allowed, f) {
			allowed = append(allowed, f)
		}
	}
	return allowed
}

// ValidateOutputFormat checks format against OutputFormats(configured).
func ValidateOutputFormat(format string, configured []string) error {
	allowed := OutputFormats(configured)
	if slices.Contains(allowed, format) {
		return nil
	}
	return errors.NewValidationError(errors.ErrCodeInvalidFormat,
		fmt.Sprintf("unsupported output format '%s' (supported: %s)", format, strings.Join(allowed, ", ")), nil).
		WithContext("format", format)
}
