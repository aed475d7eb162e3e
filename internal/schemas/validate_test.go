package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["name", "skills"],
	"properties": {
		"name": {"type": "string"},
		"skills": {"type": "array", "items": {"type": "string"}}
	}
}`

// writeFixtures creates a schema file and returns its path plus a helper that
// writes JSON documents into the same temp directory
func writeFixtures(t *testing.T) (string, func(name, content string) string) {
	t.Helper()
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "person.schema.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(personSchema), 0644))

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}
	return schemaPath, write
}

func TestValidateJSON(t *testing.T) {
	schemaPath, write := writeFixtures(t)

	tests := []struct {
		name      string
		content   string
		wantError bool
	}{
		{name: "valid document", content: `{"name": "Ada", "skills": ["Go"]}`},
		{name: "missing required field", content: `{"name": "Ada"}`, wantError: true},
		{name: "wrong type", content: `{"name": "Ada", "skills": "Go"}`, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jsonPath := write(tt.name+".json", tt.content)
			err := ValidateJSON(schemaPath, jsonPath)
			if !tt.wantError {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			validationErr, ok := err.(*ValidationError)
			require.True(t, ok, "error should be ValidationError type, got %T", err)
			assert.NotEmpty(t, validationErr.Errors)
		})
	}
}

func TestValidateJSON_NonExistentSchema(t *testing.T) {
	_, write := writeFixtures(t)
	jsonPath := write("doc.json", `{}`)

	err := ValidateJSON(filepath.Join(t.TempDir(), "missing.schema.json"), jsonPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSON_NonExistentJSON(t *testing.T) {
	schemaPath, _ := writeFixtures(t)

	err := ValidateJSON(schemaPath, filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSON_MalformedJSON(t *testing.T) {
	schemaPath, write := writeFixtures(t)
	jsonPath := write("malformed.json", "{ invalid json }")

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidateBytes(t *testing.T) {
	schemaPath, _ := writeFixtures(t)

	assert.NoError(t, ValidateBytes(schemaPath, []byte(`{"name": "Ada", "skills": []}`)))

	err := ValidateBytes(schemaPath, []byte(`{"skills": []}`))
	require.Error(t, err)
	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	require.Len(t, validationErr.Errors, 1)
	assert.Equal(t, "(root)", validationErr.Errors[0].Field)
}

func TestValidateBytes_MissingSchema(t *testing.T) {
	err := ValidateBytes(filepath.Join(t.TempDir(), "nope.json"), []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema file not found")
}

func TestValidateJSONString_Valid(t *testing.T) {
	err := ValidateJSONString(personSchema, `{"name": "test", "skills": []}`)
	assert.NoError(t, err)
}

func TestValidateJSONString_Invalid(t *testing.T) {
	err := ValidateJSONString(personSchema, `{"age": 30}`)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "age", Message: "must be a number"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "1. name: is required")
	assert.Contains(t, errorMsg, "2. age: must be a number")
}

func TestValidateJSONString_NestedFieldPath(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"properties": {
			"person": {
				"type": "object",
				"properties": {
					"age": {"type": "integer"}
				}
			}
		}
	}`

	err := ValidateJSONString(schemaContent, `{"person": {"age": "old"}}`)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	require.NotEmpty(t, validationErr.Errors)
	assert.Equal(t, "person.age", validationErr.Errors[0].Field)
}

func TestResolveSchemaPath(t *testing.T) {
	// Tests run from internal/schemas, two levels below the repo root
	path := ResolveSchemaPath(filepath.Join("schemas", "job_context.schema.json"))
	require.NotEmpty(t, path)
	assert.True(t, filepath.IsAbs(path))

	assert.Empty(t, ResolveSchemaPath(filepath.Join("schemas", "does_not_exist.schema.json")))
}
