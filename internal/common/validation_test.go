package common

import (
	"testing"

	"hrpilot/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormats(t *testing.T) {
	assert.Equal(t, []string{"json", "markdown", "text"}, OutputFormats(nil))
	assert.Equal(t, []string{"text", "json"}, OutputFormats([]string{"text", "json", "text"}))
	assert.Equal(t, []string{"markdown"}, OutputFormats([]string{"yaml", "markdown"}), "formats without a renderer are dropped")
}

func TestValidateOutputFormat(t *testing.T) {
	configured := []string{"json", "text", "markdown"}
	tests := []struct {
		name       string
		format     string
		configured []string
		wantErr    string
	}{
		{name: "json", format: "json", configured: configured},
		{name: "markdown", format: "markdown", configured: configured},
		{name: "unconfigured", format: "markdown", configured: []string{"json"}, wantErr: "unsupported output format 'markdown' (supported: json)"},
		{name: "xml", format: "xml", configured: configured, wantErr: "unsupported output format 'xml' (supported: json, text, markdown)"},
		{name: "case sensitive", format: "JSON", configured: configured, wantErr: "unsupported output format 'JSON'"},
		{name: "configured but not renderable", format: "yaml", configured: []string{"yaml", "json"}, wantErr: "(supported: json)"},
		{name: "no configuration allows registered formats", format: "text", configured: nil},
		{name: "no configuration still needs a renderer", format: "xml", configured: nil, wantErr: "(supported: json, markdown, text)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.configured)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidFormat))
		})
	}
}
