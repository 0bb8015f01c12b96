package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/tordrt/prismaschema/internal/schema"
)

// MySQLExtractor handles schema extraction from MySQL
type MySQLExtractor struct {
	client     *MySQLClient
	schemaName string
}

// NewMySQLExtractor creates a new MySQL schema extractor
func NewMySQLExtractor(client *MySQLClient, schemaName string) *MySQLExtractor {
	return &MySQLExtractor{
		client:     client,
		schemaName: schemaName,
	}
}

// ExtractSchema extracts model descriptors for the specified tables and views.
// If tables is empty, extracts every table and view in the database.
func (e *MySQLExtractor) ExtractSchema(ctx context.Context, tables []string) (*schema.Schema, error) {
	entries, err := e.getTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get table names: %w", err)
	}
	entries, err = selectTables(entries, tables)
	if err != nil {
		return nil, err
	}

	raw := make([]rawTable, 0, len(entries))
	for _, entry := range entries {
		table, err := e.extractTable(ctx, entry)
		if err != nil {
			return nil, fmt.Errorf("failed to extract table %s: %w", entry.Name, err)
		}
		raw = append(raw, *table)
	}

	return buildSchema(raw), nil
}

// getTables lists base tables and views in the database
func (e *MySQLExtractor) getTables(ctx context.Context) ([]tableEntry, error) {
	query := `
		SELECT table_name, table_type = 'VIEW'
		FROM information_schema.tables
		WHERE table_schema = ? AND table_type IN ('BASE TABLE', 'VIEW')
		ORDER BY table_name
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query, e.schemaName)
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

// extractTable extracts all information for a single table
func (e *MySQLExtractor) extractTable(ctx context.Context, entry tableEntry) (*rawTable, error) {
	table := &rawTable{Name: entry.Name, IsView: entry.IsView}

	columns, err := e.extractColumns(ctx, entry.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	table.Columns = columns

	if entry.IsView {
		return table, nil
	}

	pk, err := e.extractPrimaryKey(ctx, entry.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to extract primary key: %w", err)
	}
	table.PrimaryKey = pk
	if len(pk) > 0 {
		table.PrimaryKeyName = entry.Name + "_pkey"
	}

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

// mysqlColumnType returns the type tag of a column. tinyint(1) is the
// conventional MySQL boolean.
func mysqlColumnType(dataType, columnType string) string {
	if strings.EqualFold(columnType, "tinyint(1)") {
		return "boolean"
	}
	return strings.ToLower(dataType)
}

// extractColumns extracts column information for a table
func (e *MySQLExtractor) extractColumns(ctx context.Context, tableName string) ([]rawColumn, error) {
	query := `
		SELECT
			c.column_name,
			c.data_type,
			c.column_type,
			c.is_nullable,
			c.extra
		FROM information_schema.columns c
		WHERE c.table_schema = ? AND c.table_name = ?
		ORDER BY c.ordinal_position
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query, e.schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []rawColumn
	for rows.Next() {
		var col rawColumn
		var dataType, columnType, nullable, extra string

		if err := rows.Scan(&col.Name, &dataType, &columnType, &nullable, &extra); err != nil {
			return nil, err
		}

		col.DBType = mysqlColumnType(dataType, columnType)
		col.Nullable = (nullable == "YES")
		col.Generated = strings.Contains(strings.ToLower(extra), "auto_increment")

		columns = append(columns, col)
	}

	return columns, rows.Err()
}

// extractPrimaryKey extracts primary key columns
func (e *MySQLExtractor) extractPrimaryKey(ctx context.Context, tableName string) ([]string, error) {
	query := `
		SELECT column_name
		FROM information_schema.key_column_usage
		WHERE table_schema = ?
			AND table_name = ?
			AND constraint_name = 'PRIMARY'
		ORDER BY ordinal_position
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query, e.schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pk []string
	for rows.Next() {
		var colName string
		if err := rows.Scan(&colName); err != nil {
			return nil, err
		}
		pk = append(pk, colName)
	}

	return pk, rows.Err()
}

// extractUniqueConstraints extracts named unique constraints with ordered columns
func (e *MySQLExtractor) extractUniqueConstraints(ctx context.Context, tableName string) ([]rawUnique, error) {
	query := `
		SELECT
			tc.constraint_name,
			GROUP_CONCAT(kcu.column_name ORDER BY kcu.ordinal_position) AS column_names
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
			AND tc.table_name = kcu.table_name
		WHERE tc.table_schema = ?
			AND tc.table_name = ?
			AND tc.constraint_type = 'UNIQUE'
		GROUP BY tc.constraint_name
		ORDER BY tc.constraint_name
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query, e.schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var uniques []rawUnique
	for rows.Next() {
		var u rawUnique
		var columnNames string
		if err := rows.Scan(&u.Name, &columnNames); err != nil {
			return nil, err
		}
		u.Columns = strings.Split(columnNames, ",")
		uniques = append(uniques, u)
	}

	return uniques, rows.Err()
}

// extractForeignKeys extracts foreign keys with their column pairs in order
func (e *MySQLExtractor) extractForeignKeys(ctx context.Context, tableName string) ([]rawForeignKey, error) {
	query := `
		SELECT
			kcu.constraint_name,
			kcu.referenced_table_name,
			GROUP_CONCAT(kcu.column_name ORDER BY kcu.ordinal_position) AS column_names,
			GROUP_CONCAT(kcu.referenced_column_name ORDER BY kcu.ordinal_position) AS target_column_names
		FROM information_schema.key_column_usage kcu
		WHERE kcu.table_schema = ?
			AND kcu.table_name = ?
			AND kcu.referenced_table_name IS NOT NULL
		GROUP BY kcu.constraint_name, kcu.referenced_table_name
		ORDER BY kcu.constraint_name
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query, e.schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fks []rawForeignKey
	for rows.Next() {
		var fk rawForeignKey
		var columnNames, targetColumnNames string
		if err := rows.Scan(&fk.Name, &fk.TargetTable, &columnNames, &targetColumnNames); err != nil {
			return nil, err
		}
		fk.Columns = strings.Split(columnNames, ",")
		fk.TargetColumns = strings.Split(targetColumnNames, ",")
		fks = append(fks, fk)
	}

	return fks, rows.Err()
}
