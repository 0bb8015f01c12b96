package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/tordrt/prismaschema/internal/schema"
)

// Extractor handles schema extraction from PostgreSQL
type Extractor struct {
	client *PostgresClient
	schema string
}

// NewExtractor creates a new schema extractor
func NewExtractor(client *PostgresClient, schemaName string) *Extractor {
	return &Extractor{
		client: client,
		schema: schemaName,
	}
}

// ExtractSchema extracts model descriptors for the specified tables and views.
// If tables is empty, extracts every table and view in the schema.
func (e *Extractor) ExtractSchema(ctx context.Context, tables []string) (*schema.Schema, error) {
	entries, err := e.getTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get table names: %w", err)
	}
	entries, err = selectTables(entries, tables)
	if err != nil {
		return nil, err
	}

	enums, err := e.getEnumTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get enum types: %w", err)
	}

	raw := make([]rawTable, 0, len(entries))
	for _, entry := range entries {
		table, err := e.extractTable(ctx, entry, enums)
		if err != nil {
			return nil, fmt.Errorf("failed to extract table %s: %w", entry.Name, err)
		}
		raw = append(raw, *table)
	}

	return buildSchema(raw), nil
}

// getTables lists base tables and views in the schema
func (e *Extractor) getTables(ctx context.Context) ([]tableEntry, error) {
	query := `
		SELECT table_name, table_type = 'VIEW'
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_type IN ('BASE TABLE', 'VIEW')
		ORDER BY table_name
	`

	rows, err := e.client.GetConnection().Query(ctx, query, e.schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []tableEntry
	for rows.Next() {
		var t tableEntry
		if err := rows.Scan(&t.Name, &t.IsView); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}

	return tables, rows.Err()
}

// getEnumTypes returns the names of enum types defined in the schema
func (e *Extractor) getEnumTypes(ctx context.Context) (map[string]bool, error) {
	query := `
		SELECT t.typname
		FROM pg_type t
		JOIN pg_namespace n ON t.typnamespace = n.oid
		WHERE n.nspname = $1 AND t.typtype = 'e'
	`

	rows, err := e.client.GetConnection().Query(ctx, query, e.schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	enums := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		enums[name] = true
	}

	return enums, rows.Err()
}

// extractTable extracts all information for a single table
func (e *Extractor) extractTable(ctx context.Context, entry tableEntry, enums map[string]bool) (*rawTable, error) {
	table := &rawTable{Name: entry.Name, IsView: entry.IsView}

	columns, err := e.extractColumns(ctx, entry.Name, enums)
	if err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	table.Columns = columns

	// Views carry no constraints
	if entry.IsView {
		return table, nil
	}

	pkName, pk, err := e.extractPrimaryKey(ctx, entry.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to extract primary key: %w", err)
	}
	table.PrimaryKeyName = pkName
	table.PrimaryKey = pk

	uniques, err := e.extractUniqueConstraints(ctx, entry.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to extract unique constraints: %w", err)
	}
	table.Uniques = uniques

	fks, err := e.extractForeignKeys(ctx, entry.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to extract foreign keys: %w", err)
	}
	table.ForeignKeys = fks

	return table, nil
}

// postgresColumnType returns the type tag of a column. udt_name carries the
// short internal name (int4, varchar, timestamptz); arrays prefix it with an
// underscore.
func postgresColumnType(dataType, udtName string, enums map[string]bool) (dbType string, isArray bool) {
	if dataType == "ARRAY" && strings.HasPrefix(udtName, "_") {
		udtName = udtName[1:]
		isArray = true
	}
	if enums[udtName] {
		return "enum", isArray
	}
	return udtName, isArray
}

// isGeneratedDefault reports whether a column value is produced by the server
func isGeneratedDefault(defaultVal *string, isIdentity, isGenerated string) bool {
	if isIdentity == "YES" || isGenerated == "ALWAYS" {
		return true
	}
	if defaultVal == nil {
		return false
	}
	def := strings.ToLower(*defaultVal)
	return strings.HasPrefix(def, "nextval(") ||
		strings.HasPrefix(def, "gen_random_uuid(") ||
		strings.HasPrefix(def, "uuid_generate_v")
}

// extractColumns extracts column information for a table
func (e *Extractor) extractColumns(ctx context.Context, tableName string, enums map[string]bool) ([]rawColumn, error) {
	query := `
		SELECT
			c.column_name,
			c.data_type,
			c.udt_name,
			c.is_nullable,
			c.column_default,
			c.is_identity,
			c.is_generated
		FROM information_schema.columns c
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position
	`

	rows, err := e.client.GetConnection().Query(ctx, query, e.schema, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []rawColumn
	for rows.Next() {
		var col rawColumn
		var dataType, udtName, nullable string
		var defaultVal *string
		var isIdentity, isGenerated string

		if err := rows.Scan(&col.Name, &dataType, &udtName, &nullable, &defaultVal, &isIdentity, &isGenerated); err != nil {
			return nil, err
		}

		col.DBType, col.IsArray = postgresColumnType(dataType, udtName, enums)
		col.Nullable = (nullable == "YES")
		col.Generated = isGeneratedDefault(defaultVal, isIdentity, isGenerated)

		columns = append(columns, col)
	}

	return columns, rows.Err()
}

// extractPrimaryKey extracts the primary key name and its columns in order
func (e *Extractor) extractPrimaryKey(ctx context.Context, tableName string) (string, []string, error) {
	query := `
		SELECT kcu.constraint_name, kcu.column_name
		FROM information_schema.key_column_usage kcu
		JOIN information_schema.table_constraints tc
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
			AND tc.table_name = kcu.table_name
		WHERE tc.table_schema = $1
			AND tc.table_name = $2
			AND tc.constraint_type = 'PRIMARY KEY'
		ORDER BY kcu.ordinal_position
	`

	rows, err := e.client.GetConnection().Query(ctx, query, e.schema, tableName)
	if err != nil {
		return "", nil, err
	}
	defer rows.Close()

	var name string
	var pk []string
	for rows.Next() {
		var colName string
		if err := rows.Scan(&name, &colName); err != nil {
			return "", nil, err
		}
		pk = append(pk, colName)
	}

	return name, pk, rows.Err()
}

// extractUniqueConstraints extracts named unique constraints with ordered columns
func (e *Extractor) extractUniqueConstraints(ctx context.Context, tableName string) ([]rawUnique, error) {
	query := `
		SELECT
			tc.constraint_name,
			array_agg(kcu.column_name::text ORDER BY kcu.ordinal_position) AS column_names
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
			AND tc.table_name = kcu.table_name
		WHERE tc.table_schema = $1
			AND tc.table_name = $2
			AND tc.constraint_type = 'UNIQUE'
		GROUP BY tc.constraint_name
		ORDER BY tc.constraint_name
	`

	rows, err := e.client.GetConnection().Query(ctx, query, e.schema, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var uniques []rawUnique
	for rows.Next() {
		var u rawUnique
		if err := rows.Scan(&u.Name, &u.Columns); err != nil {
			return nil, err
		}
		uniques = append(uniques, u)
	}

	return uniques, rows.Err()
}

// extractForeignKeys extracts foreign keys with their column pairs in order
func (e *Extractor) extractForeignKeys(ctx context.Context, tableName string) ([]rawForeignKey, error) {
	query := `
		SELECT
			c.conname,
			tf.relname AS target_table,
			array(
				SELECT a.attname::text
				FROM unnest(c.conkey) WITH ORDINALITY AS k(attnum, ord)
				JOIN pg_attribute a ON a.attrelid = c.conrelid AND a.attnum = k.attnum
				ORDER BY k.ord
			) AS column_names,
			array(
				SELECT a.attname::text
				FROM unnest(c.confkey) WITH ORDINALITY AS k(attnum, ord)
				JOIN pg_attribute a ON a.attrelid = c.confrelid AND a.attnum = k.attnum
				ORDER BY k.ord
			) AS target_column_names
		FROM pg_constraint c
		JOIN pg_class t ON t.oid = c.conrelid
		JOIN pg_namespace n ON n.oid = t.relnamespace
		JOIN pg_class tf ON tf.oid = c.confrelid
		WHERE c.contype = 'f'
			AND n.nspname = $1
			AND t.relname = $2
		ORDER BY c.conname
	`

	rows, err := e.client.GetConnection().Query(ctx, query, e.schema, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fks []rawForeignKey
	for rows.Next() {
		var fk rawForeignKey
		if err := rows.Scan(&fk.Name, &fk.TargetTable, &fk.Columns, &fk.TargetColumns); err != nil {
			return nil, err
		}
		fks = append(fks, fk)
	}

	return fks, rows.Err()
}
