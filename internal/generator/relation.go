package generator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/tordrt/prismaschema/internal/schema"
)

// ErrUnknownRelationType is returned for a relation kind that cannot be rendered
var ErrUnknownRelationType = errors.New("unknown relation type")

// relationLine is a relation with its target token and annotation resolved
type relationLine struct {
	name        string
	typeName    string
	annotations string
}

// ambiguousTargets returns the referenced models targeted by more than one
// relation of the model. Relations to those models need an explicit name.
func ambiguousTargets(relations []schema.Relation) map[string]bool {
	counts := make(map[string]int, len(relations))
	for _, rel := range relations {
		counts[rel.ReferencedModel]++
	}

	ambiguous := make(map[string]bool)
	for target, n := range counts {
		if n > 1 {
			ambiguous[target] = true
		}
	}
	return ambiguous
}

// ConstraintName derives the foreign key constraint name of a relation from
// its type, target model and local fields. The same relation shape always
// yields the same name.
func ConstraintName(rel schema.Relation) string {
	h := xxh3.HashString(string(rel.Type) + "\x00" + rel.ReferencedModel + "\x00" + strings.Join(rel.Fields, ","))
	return fmt.Sprintf("FK_%016x", h)
}

func relationName(rel schema.Relation) string {
	if rel.Key != "" {
		return rel.Key
	}
	return rel.Name
}

func renderRelation(rel schema.Relation, named bool) (relationLine, error) {
	line := relationLine{name: rel.Name}

	var args []string
	switch rel.Type {
	case schema.ManyToOne:
		line.typeName = rel.ReferencedModel + "?"
		if named {
			args = append(args, fmt.Sprintf("name: %q", relationName(rel)))
		}
		args = append(args, columnArgs(rel)...)
		args = append(args, fmt.Sprintf("map: %q", ConstraintName(rel)))

	case schema.OneToMany:
		line.typeName = rel.ReferencedModel + "[]"
		if named {
			args = append(args, fmt.Sprintf("name: %q", relationName(rel)))
		}

	case schema.OneToOne:
		line.typeName = rel.ReferencedModel + "?"
		args = append(args, fmt.Sprintf("name: %q", relationName(rel)))
		if len(rel.Fields) > 0 {
			args = append(args, columnArgs(rel)...)
		}
		args = append(args, fmt.Sprintf("map: %q", ConstraintName(rel)))

	default:
		return relationLine{}, fmt.Errorf("%w %q on relation %s", ErrUnknownRelationType, rel.Type, rel.Name)
	}

	if len(args) > 0 {
		line.annotations = "@relation(" + strings.Join(args, ", ") + ")"
	}
	return line, nil
}

func columnArgs(rel schema.Relation) []string {
	return []string{
		"references: [" + strings.Join(rel.References, ", ") + "]",
		"fields: [" + strings.Join(rel.Fields, ", ") + "]",
	}
}
