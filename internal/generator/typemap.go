package generator

import (
	"fmt"
	"strings"
)

// UnknownTypeError reports a column type with no Prisma scalar mapping.
// Model and Field are filled in when the error is raised during generation.
type UnknownTypeError struct {
	DBType string
	Model  string
	Field  string
}

func (e *UnknownTypeError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("unknown type %q for field %s.%s, check the model definition or add it to the type mapping", e.DBType, e.Model, e.Field)
	}
	return fmt.Sprintf("unknown type %q, check the model definition or add it to the type mapping", e.DBType)
}

// prismaTypes maps normalized source type tags to Prisma scalar types
var prismaTypes = map[string]string{
	// integers
	"int":         "Int",
	"int2":        "Int",
	"int4":        "Int",
	"integer":     "Int",
	"smallint":    "Int",
	"mediumint":   "Int",
	"tinyint":     "Int",
	"year":        "Int",
	"serial":      "Int",
	"serial2":     "Int",
	"serial4":     "Int",
	"smallserial": "Int",
	"int8":        "BigInt",
	"bigint":      "BigInt",
	"bigserial":   "BigInt",
	"serial8":     "BigInt",

	// floating point and exact numerics
	"real":             "Float",
	"float":            "Float",
	"float4":           "Float",
	"float8":           "Float",
	"double":           "Float",
	"double precision": "Float",
	"decimal":          "Decimal",
	"numeric":          "Decimal",
	"dec":              "Decimal",
	"fixed":            "Decimal",
	"money":            "Decimal",

	"bool":    "Boolean",
	"boolean": "Boolean",

	// character data
	"varchar":           "String",
	"character varying": "String",
	"char":              "String",
	"character":         "String",
	"bpchar":            "String",
	"nchar":             "String",
	"nvarchar":          "String",
	"text":              "String",
	"tinytext":          "String",
	"mediumtext":        "String",
	"longtext":          "String",
	"citext":            "String",
	"clob":              "String",
	"uuid":              "String",
	"enum":              "String",
	"set":               "String",
	"simple-array":      "String",
	"simple-enum":       "String",
	"inet":              "String",
	"cidr":              "String",
	"macaddr":           "String",
	"xml":               "String",
	"tsvector":          "String",
	"interval":          "String",
	"bit":               "String",
	"varbit":            "String",
	"bit varying":       "String",

	// dates and times
	"date":                        "DateTime",
	"time":                        "DateTime",
	"timetz":                      "DateTime",
	"time with time zone":         "DateTime",
	"time without time zone":      "DateTime",
	"timestamp":                   "DateTime",
	"timestamptz":                 "DateTime",
	"timestamp with time zone":    "DateTime",
	"timestamp without time zone": "DateTime",
	"datetime":                    "DateTime",

	"json":        "Json",
	"jsonb":       "Json",
	"simple-json": "Json",

	// binary
	"bytea":      "Bytes",
	"blob":       "Bytes",
	"tinyblob":   "Bytes",
	"mediumblob": "Bytes",
	"longblob":   "Bytes",
	"binary":     "Bytes",
	"varbinary":  "Bytes",
}

// MapType returns the Prisma scalar type for a source column type.
// Lookup ignores case, type parameters and the MySQL "unsigned" modifier.
// A trailing "[]" on dbType marks an array just like isArray does.
func MapType(dbType string, isArray bool) (string, error) {
	tag, array := normalizeType(dbType)
	mapped, ok := prismaTypes[tag]
	if !ok {
		return "", &UnknownTypeError{DBType: dbType}
	}
	if isArray || array {
		return mapped + "[]", nil
	}
	return mapped, nil
}

func normalizeType(dbType string) (tag string, array bool) {
	tag = strings.ToLower(strings.TrimSpace(dbType))
	if strings.HasSuffix(tag, "[]") {
		array = true
		tag = strings.TrimSpace(strings.TrimSuffix(tag, "[]"))
	}
	// varchar(255), numeric(10, 2), timestamp(6) with time zone
	if open := strings.Index(tag, "("); open >= 0 {
		if end := strings.Index(tag[open:], ")"); end >= 0 {
			tag = tag[:open] + tag[open+end+1:]
		}
	}
	// MySQL numeric modifiers, in any order: int unsigned zerofill
	words := strings.Fields(tag)
	for len(words) > 1 && (words[len(words)-1] == "unsigned" || words[len(words)-1] == "zerofill") {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " "), array
}
