package schema

import (
	"fmt"
	"strings"
)

// ValidationError lists every problem found in a schema
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid schema: %s", strings.Join(e.Problems, "; "))
}

// Validate checks the structural invariants the generator relies on:
// known relation and constraint kinds, no dangling relation targets and
// at most one primary constraint per model.
//
// Unknown column types are not checked here; they are reported during generation.
func (s *Schema) Validate() error {
	var problems []string

	names := make(map[string]bool, len(s.Models))
	for _, m := range s.Models {
		if m.Name == "" {
			problems = append(problems, fmt.Sprintf("model for table %q has no name", m.TableName))
			continue
		}
		if names[m.Name] {
			problems = append(problems, fmt.Sprintf("duplicate model %s", m.Name))
		}
		names[m.Name] = true
	}

	for _, m := range s.Models {
		switch m.Type {
		case "", ModelTypeTable, ModelTypeView:
		default:
			problems = append(problems, fmt.Sprintf("model %s: unknown type %q", m.Name, m.Type))
		}

		for _, rel := range m.Relations {
			switch rel.Type {
			case ManyToOne, OneToMany, OneToOne:
			default:
				problems = append(problems, fmt.Sprintf("model %s: relation %s has unknown type %q", m.Name, rel.Name, rel.Type))
			}
			if !names[rel.ReferencedModel] {
				problems = append(problems, fmt.Sprintf("model %s: relation %s references unknown model %q", m.Name, rel.Name, rel.ReferencedModel))
			}
			if len(rel.Fields) != len(rel.References) {
				problems = append(problems, fmt.Sprintf("model %s: relation %s has %d fields but %d references", m.Name, rel.Name, len(rel.Fields), len(rel.References)))
			}
		}

		primaries := 0
		for _, c := range m.Constraints {
			switch c.Type {
			case ConstraintPrimary:
				primaries++
			case ConstraintUnique:
			default:
				problems = append(problems, fmt.Sprintf("model %s: constraint %s has unknown type %q", m.Name, c.Name, c.Type))
			}
		}
		if primaries > 1 {
			problems = append(problems, fmt.Sprintf("model %s: %d primary constraints", m.Name, primaries))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
