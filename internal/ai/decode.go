package ai

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"hrpilot/internal/errors"
	"hrpilot/internal/types"

	"google.golang.org/genai"
)

// decodeStructured parses a schema-constrained payload into out. Every key the
// schema marks as required must be present, the payload must unmarshal into
// the contract and the contract must validate. Anything else is an error; a
// partially filled out is never returned to callers.
func decodeStructured[T any](text string, schema *genai.Schema, out *T) error {
	payload := stripCodeFence(text)
	if payload == "" {
		return errors.NewAIError(errors.ErrCodeEmptyResponse, "model returned an empty payload", nil)
	}

	var generic any
	if err := json.Unmarshal([]byte(payload), &generic); err != nil {
		return errors.NewAIError(errors.ErrCodeResponseParse, "response is not valid JSON", err)
	}
	if err := checkRequired(schema, generic, "$"); err != nil {
		return errors.NewAIError(errors.ErrCodeSchemaMismatch, "response does not match schema", err)
	}

	var decoded T
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return errors.NewAIError(errors.ErrCodeSchemaMismatch, "response has wrongly typed fields", err)
	}
	if v, ok := any(&decoded).(types.Validator); ok {
		if err := v.Validate(); err != nil {
			return errors.NewAIError(errors.ErrCodeSchemaMismatch, "response failed validation", err)
		}
	}

	*out = decoded
	return nil
}

// checkRequired walks value alongside schema and reports the first missing
// required key or type mismatch. Scalars must carry their JSON type: a quoted
// number is not a number and a null array item is not a string.
func checkRequired(schema *genai.Schema, value any, path string) error {
	if schema == nil {
		return nil
	}

	switch schema.Type {
	case genai.TypeObject:
		obj, ok := value.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: expected object, got %T", path, value)
		}
		for _, key := range schema.Required {
			v, present := obj[key]
			if !present || v == nil {
				return fmt.Errorf("%s: missing required field %q", path, key)
			}
		}
		for key, prop := range schema.Properties {
			if v, present := obj[key]; present && v != nil {
				if err := checkRequired(prop, v, path+"."+key); err != nil {
					return err
				}
			}
		}
	case genai.TypeArray:
		arr, ok := value.([]any)
		if !ok {
			return fmt.Errorf("%s: expected array, got %T", path, value)
		}
		for i, item := range arr {
			if item == nil {
				return fmt.Errorf("%s[%d]: null item", path, i)
			}
			if err := checkRequired(schema.Items, item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case genai.TypeString:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("%s: expected string, got %T", path, value)
		}
	case genai.TypeNumber:
		if _, ok := value.(float64); !ok {
			return fmt.Errorf("%s: expected number, got %T", path, value)
		}
	case genai.TypeInteger:
		f, ok := value.(float64)
		if !ok {
			return fmt.Errorf("%s: expected integer, got %T", path, value)
		}
		if f != math.Trunc(f) {
			return fmt.Errorf("%s: %v is not an integer", path, f)
		}
	case genai.TypeBoolean:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("%s: expected boolean, got %T", path, value)
		}
	}
	return nil
}

// stripCodeFence removes a surrounding ```json fence some models add even in
// JSON mode.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
