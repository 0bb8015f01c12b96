package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/prismaschema/internal/schema"
)

const jsonModels = `{
  "models": [
    {
      "name": "User",
      "tableName": "users",
      "type": "table",
      "fields": [
        {"name": "id", "dbColumnName": "id", "dbType": "serial", "isPrimary": true, "isGenerated": true},
        {"name": "email", "dbColumnName": "email", "dbType": "varchar", "isUnique": true},
        {"name": "companyId", "dbColumnName": "company_id", "dbType": "int4", "isNullable": true}
      ],
      "relations": [
        {"name": "company", "type": "many-to-one", "referencedModel": "Company", "fields": ["companyId"], "references": ["id"], "key": "users_company"}
      ],
      "constraints": [
        {"name": "PK_users", "type": "primary", "columns": ["id"]},
        {"name": "UQ_users_email", "type": "unique", "columns": ["email"]}
      ]
    },
    {
      "name": "Company",
      "tableName": "companies",
      "fields": [{"name": "id", "dbColumnName": "id", "dbType": "int4", "isPrimary": true}],
      "relations": [
        {"name": "users", "type": "one-to-many", "referencedModel": "User", "key": "users_company"}
      ]
    }
  ]
}`

const yamlModels = `
- name: Company
  tableName: companies
  fields:
    - name: id
      dbColumnName: id
      dbType: uuid
      isPrimary: true
- name: CompanyStats
  tableName: company_stats
  type: view
  fields:
    - name: companyId
      dbColumnName: company_id
      dbType: uuid
    - name: headcount
      dbColumnName: headcount
      dbType: int8
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadJSON(t *testing.T) {
	s, err := Load(writeFile(t, "models.json", jsonModels))
	require.NoError(t, err)
	require.Len(t, s.Models, 2)

	user := s.Models[0]
	assert.Equal(t, "User", user.Name)
	assert.Equal(t, schema.ModelTypeTable, user.Type)
	assert.Equal(t, schema.Field{Name: "id", DBColumnName: "id", DBType: "serial", IsPrimary: true, IsGenerated: true}, user.Fields[0])
	assert.True(t, user.Fields[2].IsNullable)
	assert.Equal(t, schema.Relation{
		Name:            "company",
		Type:            schema.ManyToOne,
		ReferencedModel: "Company",
		Fields:          []string{"companyId"},
		References:      []string{"id"},
		Key:             "users_company",
	}, user.Relations[0])

	pk, ok := user.PrimaryConstraint()
	require.True(t, ok)
	assert.Equal(t, []string{"id"}, pk.Columns)
	assert.Len(t, user.UniqueConstraints(), 1)
}

func TestLoadJSONList(t *testing.T) {
	s, err := Load(writeFile(t, "models.json", `[{"name": "Tag", "tableName": "tags", "fields": []}]`))
	require.NoError(t, err)
	require.Len(t, s.Models, 1)
	assert.Equal(t, "tags", s.Models[0].TableName)
}

func TestLoadYAML(t *testing.T) {
	s, err := Load(writeFile(t, "models.yml", yamlModels))
	require.NoError(t, err)
	require.Len(t, s.Models, 2)
	assert.True(t, s.Models[1].IsView())
	assert.Equal(t, "int8", s.Models[1].Fields[1].DBType)
}

func TestLoadYAMLDocument(t *testing.T) {
	s, err := Load(writeFile(t, "models.yaml", "models:\n  - name: Tag\n    tableName: tags\n"))
	require.NoError(t, err)
	require.Len(t, s.Models, 1)
	assert.Equal(t, "Tag", s.Models[0].Name)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		contains string
	}{
		{name: "unsupported extension", file: "models.txt", content: "", contains: "unsupported model file extension"},
		{name: "malformed json", file: "models.json", content: "{", contains: "failed to parse"},
		{name: "unknown json field", file: "models.json", content: `{"tables": []}`, contains: "unknown field"},
		{name: "unknown yaml field", file: "models.yaml", content: "- name: A\n  tableName: a\n  fields:\n    - {name: id, dbColumnName: id, dbType: int4, isNulable: true}\n", contains: "field isNulable not found"},
		{name: "trailing json value", file: "models.json", content: `[{"name": "A", "tableName": "a"}] {"name": "B"}`, contains: "unexpected content"},
		{name: "dangling relation", file: "models.json", content: `[{"name": "User", "tableName": "users", "fields": [], "relations": [{"name": "team", "type": "many-to-one", "referencedModel": "Team", "fields": ["teamId"], "references": ["id"]}]}]`, contains: `unknown model "Team"`},
		{name: "unknown relation type", file: "models.yml", content: "- name: A\n  tableName: a\n  relations:\n    - name: b\n      type: many-to-many\n      referencedModel: A\n", contains: `unknown type "many-to-many"`},
		{name: "two primary constraints", file: "models.yml", content: "- name: A\n  tableName: a\n  constraints:\n    - {name: p1, type: primary, columns: [id]}\n    - {name: p2, type: primary, columns: [id]}\n", contains: "2 primary constraints"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoadValidationError(t *testing.T) {
	_, err := Load(writeFile(t, "models.json", `[{"name": "A", "tableName": "a", "fields": []}, {"name": "A", "tableName": "b", "fields": []}]`))

	var verr *schema.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"duplicate model A"}, verr.Problems)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
