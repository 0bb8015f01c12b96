//go:build integration
// +build integration

package integration

import (
	"slices"
	"strings"
	"testing"

	"github.com/tordrt/prismaschema/internal/generator"
	"github.com/tordrt/prismaschema/internal/schema"
)

// verifyTablesExist checks that exactly the expected tables were extracted
func verifyTablesExist(t *testing.T, s *schema.Schema, expectedTables []string) {
	t.Helper()

	if len(s.Models) != len(expectedTables) {
		t.Errorf("Expected %d models, got %d", len(expectedTables), len(s.Models))
	}

	for _, tableName := range expectedTables {
		if findModel(s, tableName) == nil {
			t.Errorf("Expected model for table %s not found in schema", tableName)
		}
	}
}

// verifyFields checks that a model maps the expected columns
func verifyFields(t *testing.T, m *schema.Model, expectedColumns []string) {
	t.Helper()

	columns := make(map[string]bool)
	for _, f := range m.Fields {
		columns[f.DBColumnName] = true
	}

	for _, col := range expectedColumns {
		if !columns[col] {
			t.Errorf("Expected column %s not found in %s model", col, m.Name)
		}
	}
}

// verifyPrimaryKey checks the primary constraint columns by field name
func verifyPrimaryKey(t *testing.T, m *schema.Model, expectedPK []string) {
	t.Helper()

	pk, ok := m.PrimaryConstraint()
	if !ok {
		t.Errorf("Expected %s to have a primary constraint", m.Name)
		return
	}
	if !slices.Equal(pk.Columns, expectedPK) {
		t.Errorf("Expected primary key %v, got %v", expectedPK, pk.Columns)
	}
}

// verifyUniqueField checks that a single-column unique is flagged on the field
func verifyUniqueField(t *testing.T, m *schema.Model, column string) {
	t.Helper()

	for _, f := range m.Fields {
		if f.DBColumnName == column {
			if !f.IsUnique {
				t.Errorf("Expected %s column to be unique", column)
			}
			return
		}
	}

	t.Errorf("Column %s not found in model %s", column, m.Name)
}

// verifyRelation checks that a model has a relation of the given kind to target
func verifyRelation(t *testing.T, m *schema.Model, name string, relType schema.RelationType, target string) {
	t.Helper()

	for _, rel := range m.Relations {
		if rel.Name == name {
			if rel.Type != relType || rel.ReferencedModel != target {
				t.Errorf("Relation %s.%s = %s to %s, want %s to %s", m.Name, name, rel.Type, rel.ReferencedModel, relType, target)
			}
			return
		}
	}

	t.Errorf("Expected relation %s on %s not found", name, m.Name)
}

// generate renders s and checks the output contains every expected line fragment
func generate(t *testing.T, s *schema.Schema, provider string, expected ...string) string {
	t.Helper()

	out, err := generator.Generate(s.Models, generator.Options{Provider: provider})
	if err != nil {
		t.Fatalf("Failed to generate schema: %v", err)
	}

	for _, want := range expected {
		if !strings.Contains(out, want) {
			t.Errorf("Expected generated schema to contain %q\n%s", want, out)
		}
	}
	return out
}

// findModel finds a model by its table name
func findModel(s *schema.Schema, tableName string) *schema.Model {
	for i := range s.Models {
		if s.Models[i].TableName == tableName {
			return &s.Models[i]
		}
	}
	return nil
}

// mustFindModel is findModel for tests that cannot continue without the model
func mustFindModel(t *testing.T, s *schema.Schema, tableName string) *schema.Model {
	t.Helper()

	m := findModel(s, tableName)
	if m == nil {
		t.Fatalf("Model for table %s not found", tableName)
	}
	return m
}
