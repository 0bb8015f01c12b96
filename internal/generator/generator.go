// Package generator renders model descriptors as a Prisma schema.
package generator

import (
	"fmt"
	"strings"

	"github.com/tordrt/prismaschema/internal/schema"
)

// DefaultProvider is the datasource provider used when Options.Provider is empty
const DefaultProvider = "postgresql"

// Options configures a generation run
type Options struct {
	// OptionalCompanyID renders the companyId field as optional regardless
	// of its nullability.
	OptionalCompanyID bool

	// Provider is the datasource provider written to the header
	// (postgresql, mysql, sqlite).
	Provider string
}

// Generate renders the header followed by one model block per model, in
// input order. Nothing is returned when any model fails to render.
func Generate(models []schema.Model, opts Options) (string, error) {
	blocks := make([]string, 0, len(models)+1)
	blocks = append(blocks, header(opts.Provider))

	for i := range models {
		block, err := renderModel(&models[i], opts)
		if err != nil {
			return "", err
		}
		blocks = append(blocks, block)
	}

	return strings.Join(blocks, "\n"), nil
}

func header(provider string) string {
	if provider == "" {
		provider = DefaultProvider
	}
	lines := []string{
		"generator client {",
		`  provider = "prisma-client-js"`,
		"}",
		"",
		"datasource db {",
		fmt.Sprintf("  provider = %q", provider),
		`  url      = env("DATABASE_URL")`,
		"}",
	}
	return strings.Join(lines, "\n") + "\n"
}

func renderModel(m *schema.Model, opts Options) (string, error) {
	fields, err := resolveFields(m, opts)
	if err != nil {
		return "", err
	}

	named := ambiguousTargets(m.Relations)
	relations := make([]relationLine, 0, len(m.Relations))
	for _, rel := range m.Relations {
		rl, err := renderRelation(rel, named[rel.ReferencedModel])
		if err != nil {
			return "", fmt.Errorf("model %s: %w", m.Name, err)
		}
		relations = append(relations, rl)
	}

	var cols columns
	for _, fl := range fields {
		cols.name = max(cols.name, width(fl.field.Name))
		cols.typ = max(cols.typ, width(fl.typeName))
	}
	for _, rl := range relations {
		cols.name = max(cols.name, width(rl.name))
		cols.typ = max(cols.typ, width(rl.typeName))
	}

	lines := []string{fmt.Sprintf("model %s {", m.Name)}
	for _, fl := range fields {
		lines = append(lines, cols.line(fl.field.Name, fl.typeName, fl.annotations()))
	}

	if len(relations) > 0 {
		lines = append(lines, "")
		for _, rl := range relations {
			lines = append(lines, cols.line(rl.name, rl.typeName, rl.annotations))
		}
	}

	lines = append(lines, "")
	lines = append(lines, blockAttributes(m)...)
	lines = append(lines, "}")

	return strings.Join(lines, "\n") + "\n", nil
}

// blockAttributes returns the primary key, unique and table mapping attributes
func blockAttributes(m *schema.Model) []string {
	var attrs []string
	if pk, ok := m.PrimaryConstraint(); ok {
		attrs = append(attrs, fmt.Sprintf("  @@id([%s])", strings.Join(pk.Columns, ", ")))
	}
	for _, uq := range m.UniqueConstraints() {
		attrs = append(attrs, fmt.Sprintf("  @@unique([%s], map: %q)", strings.Join(uq.Columns, ", "), uq.Name))
	}
	attrs = append(attrs, fmt.Sprintf("  @@map(%q)", m.TableName))
	return attrs
}
