package generator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tordrt/prismaschema/internal/schema"
)

// tenantKeyField is the column made optional by Options.OptionalCompanyID
const tenantKeyField = "companyId"

const dbGeneratedDefault = "@default(dbgenerated())"

// fieldLine is a field with its mapped type resolved
type fieldLine struct {
	field    schema.Field
	typeName string
}

// resolveFields maps every field type of the model up front so that an
// unknown type aborts before anything is rendered.
func resolveFields(m *schema.Model, opts Options) ([]fieldLine, error) {
	lines := make([]fieldLine, 0, len(m.Fields))
	for _, f := range m.Fields {
		mapped, err := MapType(f.DBType, f.IsArray)
		if err != nil {
			var ute *UnknownTypeError
			if errors.As(err, &ute) {
				ute.Model = m.Name
				ute.Field = f.Name
			}
			return nil, err
		}
		if isOptional(m, f, mapped, opts) {
			mapped += "?"
		}
		lines = append(lines, fieldLine{field: f, typeName: mapped})
	}
	return lines, nil
}

func isOptional(m *schema.Model, f schema.Field, mapped string, opts Options) bool {
	if f.IsPrimary || f.IsArray || strings.HasSuffix(mapped, "[]") {
		return false
	}
	return f.IsNullable || m.IsView() || (opts.OptionalCompanyID && f.Name == tenantKeyField)
}

func (fl fieldLine) annotations() string {
	ann := fmt.Sprintf("@map(%q)", fl.field.DBColumnName)

	key := ""
	switch {
	case fl.field.IsPrimary:
		key = "@id"
	case fl.field.IsUnique:
		key = "@unique"
	}

	if key != "" {
		ann += "  " + key
	}
	if fl.field.IsGenerated {
		ann += " " + dbGeneratedDefault
	}
	return ann
}
