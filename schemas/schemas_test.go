package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/pindora-shield/internal/schemas"
)

func TestEmbeddedSchemas_ValidJSON(t *testing.T) {
	for name, content := range map[string]string{
		"config":      Config,
		"report_view": ReportView,
	} {
		t.Run(name, func(t *testing.T) {
			require.NotEmpty(t, content)

			var schemaObj map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(content), &schemaObj))

			_, hasSchema := schemaObj["$schema"]
			_, hasProps := schemaObj["properties"]
			assert.True(t, hasSchema && hasProps, "schema should declare $schema and properties")
		})
	}
}

func TestConfigSchema(t *testing.T) {
	valid := `{
		"api_base_url": "http://localhost:8000",
		"env": "production",
		"port": 8080,
		"fetch_timeout": "1m30s",
		"max_concurrent": 4,
		"allowed_origins": ["https://pindora.dev"]
	}`
	assert.NoError(t, schemas.ValidateJSONString(Config, valid))

	tests := map[string]string{
		"unknown field":  `{"database_url": "postgres://"}`,
		"bad env":        `{"env": "staging"}`,
		"port range":     `{"port": 70000}`,
		"bad duration":   `{"fetch_timeout": "soon"}`,
		"zero workers":   `{"max_concurrent": 0}`,
		"bad log level":  `{"log_level": "verbose"}`,
		"empty base url": `{"api_base_url": ""}`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			err := schemas.ValidateJSONString(Config, doc)
			var validationErr *schemas.ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestReportViewSchema(t *testing.T) {
	content := `{
		"view_id": "6f1c2f9e-8a43-4a53-9d0c-3e2b6c1a9f10",
		"smiles": "CC(=O)OC1=CC=CC=C1C(=O)O",
		"outcome": "content",
		"status": "success",
		"title": "Aspirin Candidate",
		"report": "# Aspirin Candidate",
		"sections": []
	}`
	assert.NoError(t, schemas.ValidateJSONString(ReportView, content))

	failureWithoutError := `{
		"view_id": "6f1c2f9e-8a43-4a53-9d0c-3e2b6c1a9f10",
		"smiles": "CCO",
		"outcome": "failure",
		"status": "",
		"report": "",
		"sections": []
	}`
	assert.Error(t, schemas.ValidateJSONString(ReportView, failureWithoutError))
}
