package db

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tordrt/prismaschema/internal/schema"
)

// SchemaExtractor builds model descriptors from a live database
type SchemaExtractor interface {
	ExtractSchema(ctx context.Context, tables []string) (*schema.Schema, error)
}

// rawTable is what an extractor reads for one table or view, before any
// Prisma naming is applied
type rawTable struct {
	Name           string
	IsView         bool
	Columns        []rawColumn
	PrimaryKeyName string
	PrimaryKey     []string
	Uniques        []rawUnique
	ForeignKeys    []rawForeignKey
}

type rawColumn struct {
	Name      string
	DBType    string
	Nullable  bool
	IsArray   bool
	Generated bool
}

type rawUnique struct {
	Name    string
	Columns []string
}

// rawForeignKey is one foreign key constraint. An empty entry in
// TargetColumns refers to the target's primary key column at that position.
type rawForeignKey struct {
	Name          string
	Columns       []string
	TargetTable   string
	TargetColumns []string
}

// tableEntry is a table or view name as listed by the database
type tableEntry struct {
	Name   string
	IsView bool
}

// selectTables keeps the requested tables in request order, or all tables
// when none are requested
func selectTables(available []tableEntry, requested []string) ([]tableEntry, error) {
	if len(requested) == 0 {
		return available, nil
	}

	byName := make(map[string]tableEntry, len(available))
	for _, t := range available {
		byName[t.Name] = t
	}

	selected := make([]tableEntry, 0, len(requested))
	for _, name := range requested {
		t, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("table %s not found", name)
		}
		selected = append(selected, t)
	}
	return selected, nil
}

// modelBuilder tracks the names taken inside one model
type modelBuilder struct {
	table   *rawTable
	model   *schema.Model
	fields  map[string]string // column name -> field name
	taken   map[string]bool
	pkField []string
}

func (b *modelBuilder) claim(name string) string {
	candidate := name
	for i := 2; b.taken[candidate]; i++ {
		candidate = fmt.Sprintf("%s%d", name, i)
	}
	b.taken[candidate] = true
	return candidate
}

func (b *modelBuilder) fieldNames(columns []string) []string {
	names := make([]string, len(columns))
	for i, col := range columns {
		if name, ok := b.fields[col]; ok {
			names[i] = name
		} else {
			names[i] = camelCase(col)
		}
	}
	return names
}

// buildSchema turns raw tables into model descriptors: model and field
// names, constraints, and both sides of every foreign key. Foreign keys to
// tables outside the list are dropped.
func buildSchema(tables []rawTable) *schema.Schema {
	s := &schema.Schema{Models: make([]schema.Model, len(tables))}
	builders := make([]*modelBuilder, len(tables))
	byTable := make(map[string]*modelBuilder, len(tables))
	modelNames := make(map[string]bool, len(tables))

	for i := range tables {
		t := &tables[i]
		b := &modelBuilder{
			table:  t,
			model:  &s.Models[i],
			fields: make(map[string]string, len(t.Columns)),
			taken:  make(map[string]bool, len(t.Columns)),
		}
		b.model.Name = uniqueModelName(t.Name, modelNames)
		b.model.TableName = t.Name
		b.model.Type = schema.ModelTypeTable
		if t.IsView {
			b.model.Type = schema.ModelTypeView
		}
		buildFields(b)
		buildConstraints(b)
		builders[i] = b
		byTable[t.Name] = b
	}

	type link struct {
		owner  *modelBuilder
		target *modelBuilder
		rel    schema.Relation
	}
	var links []link

	// Owning sides first so inverse names never take a foreign key's name
	for _, b := range builders {
		for _, fk := range b.table.ForeignKeys {
			target, ok := byTable[fk.TargetTable]
			if !ok || len(fk.Columns) == 0 {
				continue
			}

			relType := schema.ManyToOne
			if isKeyColumns(b.table, fk.Columns) {
				relType = schema.OneToOne
			}

			rel := schema.Relation{
				Name:            b.claim(forwardRelationName(fk.Columns, b.fields, target.model.Name)),
				Type:            relType,
				ReferencedModel: target.model.Name,
				Fields:          b.fieldNames(fk.Columns),
				References:      target.fieldNames(targetColumns(fk, target.table)),
				Key:             fk.Name,
			}
			b.model.Relations = append(b.model.Relations, rel)
			links = append(links, link{owner: b, target: target, rel: rel})
		}
	}

	for _, l := range links {
		inverse := schema.Relation{
			Type:            schema.OneToMany,
			ReferencedModel: l.owner.model.Name,
			Key:             l.rel.Key,
		}
		base := lowerFirst(pluralize(l.owner.model.Name))
		if l.rel.Type == schema.OneToOne {
			inverse.Type = schema.OneToOne
			base = lowerFirst(l.owner.model.Name)
		}
		if l.target.taken[base] {
			base += "By" + upperFirst(l.rel.Name)
		}
		inverse.Name = l.target.claim(base)
		l.target.model.Relations = append(l.target.model.Relations, inverse)
	}

	return s
}

func buildFields(b *modelBuilder) {
	pk := make(map[string]bool, len(b.table.PrimaryKey))
	for _, col := range b.table.PrimaryKey {
		pk[col] = true
	}
	unique := make(map[string]bool)
	for _, u := range b.table.Uniques {
		if len(u.Columns) == 1 {
			unique[u.Columns[0]] = true
		}
	}

	for _, col := range b.table.Columns {
		name := b.claim(camelCase(col.Name))
		b.fields[col.Name] = name
		b.model.Fields = append(b.model.Fields, schema.Field{
			Name:         name,
			DBColumnName: col.Name,
			DBType:       col.DBType,
			IsPrimary:    pk[col.Name],
			IsUnique:     unique[col.Name] && !pk[col.Name],
			IsNullable:   col.Nullable,
			IsArray:      col.IsArray,
			IsGenerated:  col.Generated,
		})
	}
	b.pkField = b.fieldNames(b.table.PrimaryKey)
}

func buildConstraints(b *modelBuilder) {
	if len(b.table.PrimaryKey) > 0 {
		name := b.table.PrimaryKeyName
		if name == "" {
			name = b.table.Name + "_pkey"
		}
		b.model.Constraints = append(b.model.Constraints, schema.Constraint{
			Name:    name,
			Type:    schema.ConstraintPrimary,
			Columns: b.pkField,
		})
	}
	for _, u := range b.table.Uniques {
		b.model.Constraints = append(b.model.Constraints, schema.Constraint{
			Name:    u.Name,
			Type:    schema.ConstraintUnique,
			Columns: b.fieldNames(u.Columns),
		})
	}
}

// isKeyColumns reports whether columns are exactly the primary key or a
// unique constraint of the table, which makes a foreign key one-to-one
func isKeyColumns(t *rawTable, columns []string) bool {
	if sameColumns(t.PrimaryKey, columns) {
		return true
	}
	for _, u := range t.Uniques {
		if sameColumns(u.Columns, columns) {
			return true
		}
	}
	return false
}

func sameColumns(a, b []string) bool {
	if len(a) == 0 || len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func targetColumns(fk rawForeignKey, target *rawTable) []string {
	cols := make([]string, len(fk.Columns))
	for i := range fk.Columns {
		if i < len(fk.TargetColumns) && fk.TargetColumns[i] != "" {
			cols[i] = fk.TargetColumns[i]
		} else if i < len(target.PrimaryKey) {
			cols[i] = target.PrimaryKey[i]
		}
	}
	return cols
}

// forwardRelationName names the owning side after its foreign key column
// (company_id -> company), or after the target model
func forwardRelationName(columns []string, fields map[string]string, targetModel string) string {
	if len(columns) == 1 {
		col := columns[0]
		for _, suffix := range []string{"_id", "_ID", "Id", "ID"} {
			trimmed := strings.TrimSuffix(col, suffix)
			if trimmed != col && trimmed != "" {
				name := camelCase(trimmed)
				if name != "" && name != fields[col] {
					return name
				}
			}
		}
	}
	return lowerFirst(targetModel)
}
