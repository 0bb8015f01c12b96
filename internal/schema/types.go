package schema

// Schema represents the list of models a schema file is generated from.
// Model order is preserved in the output.
type Schema struct {
	Models []Model `json:"models" yaml:"models"`
}

// ModelType distinguishes ordinary tables from read-only views
type ModelType string

const (
	ModelTypeTable ModelType = "table"
	ModelTypeView  ModelType = "view"
)

// RelationType is the cardinality of a relation seen from the owning model
type RelationType string

const (
	ManyToOne RelationType = "many-to-one"
	OneToMany RelationType = "one-to-many"
	OneToOne  RelationType = "one-to-one"
)

// ConstraintType is the kind of a table-level constraint
type ConstraintType string

const (
	ConstraintPrimary ConstraintType = "primary"
	ConstraintUnique  ConstraintType = "unique"
)

// Model represents one database table or view
type Model struct {
	Name        string       `json:"name" yaml:"name"`
	TableName   string       `json:"tableName" yaml:"tableName"`
	Type        ModelType    `json:"type,omitempty" yaml:"type,omitempty"`
	Fields      []Field      `json:"fields" yaml:"fields"`
	Relations   []Relation   `json:"relations,omitempty" yaml:"relations,omitempty"`
	Constraints []Constraint `json:"constraints,omitempty" yaml:"constraints,omitempty"`
}

// Field represents a scalar column
type Field struct {
	Name         string `json:"name" yaml:"name"`
	DBColumnName string `json:"dbColumnName" yaml:"dbColumnName"`
	DBType       string `json:"dbType" yaml:"dbType"`
	IsPrimary    bool   `json:"isPrimary,omitempty" yaml:"isPrimary,omitempty"`
	IsUnique     bool   `json:"isUnique,omitempty" yaml:"isUnique,omitempty"`
	IsNullable   bool   `json:"isNullable,omitempty" yaml:"isNullable,omitempty"`
	IsArray      bool   `json:"isArray,omitempty" yaml:"isArray,omitempty"`
	IsGenerated  bool   `json:"isGenerated,omitempty" yaml:"isGenerated,omitempty"`
}

// Relation represents one side of a foreign key relationship.
// Key is shared by both sides of the same foreign key.
type Relation struct {
	Name            string       `json:"name" yaml:"name"`
	Type            RelationType `json:"type" yaml:"type"`
	ReferencedModel string       `json:"referencedModel" yaml:"referencedModel"`
	Fields          []string     `json:"fields,omitempty" yaml:"fields,omitempty"`
	References      []string     `json:"references,omitempty" yaml:"references,omitempty"`
	Key             string       `json:"key,omitempty" yaml:"key,omitempty"`
}

// Constraint represents a primary key or unique constraint.
// Columns holds field names in constraint order.
type Constraint struct {
	Name    string         `json:"name" yaml:"name"`
	Type    ConstraintType `json:"type" yaml:"type"`
	Columns []string       `json:"columns" yaml:"columns"`
}

// IsView reports whether the model is backed by a view
func (m *Model) IsView() bool {
	return m.Type == ModelTypeView
}

// PrimaryConstraint returns the primary key constraint, if any
func (m *Model) PrimaryConstraint() (Constraint, bool) {
	for _, c := range m.Constraints {
		if c.Type == ConstraintPrimary {
			return c, true
		}
	}
	return Constraint{}, false
}

// UniqueConstraints returns the unique constraints in declaration order
func (m *Model) UniqueConstraints() []Constraint {
	var unique []Constraint
	for _, c := range m.Constraints {
		if c.Type == ConstraintUnique {
			unique = append(unique, c)
		}
	}
	return unique
}

// FindModel looks up a model by name
func (s *Schema) FindModel(name string) *Model {
	for i := range s.Models {
		if s.Models[i].Name == name {
			return &s.Models[i]
		}
	}
	return nil
}
