package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest_IsImmutable(t *testing.T) {
	inputs := map[string]string{InputJD: "Go developer"}
	options := map[string]string{OptionLanguage: "en"}

	req := NewRequest(ToolAnalyzeJD, inputs, options)
	inputs[InputJD] = "changed"
	options[OptionLanguage] = "vi"

	jd, ok := req.Input(InputJD)
	require.True(t, ok)
	assert.Equal(t, "Go developer", jd)
	assert.Equal(t, English, req.Language())

	copied := req.Inputs()
	copied[InputJD] = "mutated"
	jd, _ = req.Input(InputJD)
	assert.Equal(t, "Go developer", jd)
}

func TestRequest_LanguageDefault(t *testing.T) {
	req := NewRequest(ToolJobPost, nil, map[string]string{OptionLanguage: "fr"})
	assert.Equal(t, DefaultLanguage, req.Language())
	assert.Equal(t, "LinkedIn", req.Option(OptionPlatform, "LinkedIn"))
}

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		in      string
		want    Language
		wantErr bool
	}{
		{"vi", Vietnamese, false},
		{"en", English, false},
		{"en-US", English, false},
		{"vi-VN", Vietnamese, false},
		{"", "", true},
		{"not a tag!", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLanguage(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseToolKind(t *testing.T) {
	for _, kind := range AllTools() {
		got, err := ParseToolKind(string(kind))
		require.NoError(t, err)
		assert.Equal(t, kind, got)
	}
	_, err := ParseToolKind("tailor")
	assert.Error(t, err)
}

func TestPersona(t *testing.T) {
	p, err := ParsePersona("")
	require.NoError(t, err)
	assert.Equal(t, PersonaAssistant, p)

	_, err = ParsePersona("lawyer")
	assert.Error(t, err)

	assert.Equal(t, "Hello, I am your Senior Recruiter. Who are we hiring today?", PersonaRecruiter.Greeting(English))
	assert.Equal(t, "Policy & Legal", PersonaPolicy.Label(English))
}
