package db

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/tordrt/prismaschema/internal/schema"
)

// SQLiteExtractor handles schema extraction from SQLite
type SQLiteExtractor struct {
	client *SQLiteClient
}

// NewSQLiteExtractor creates a new SQLite schema extractor
func NewSQLiteExtractor(client *SQLiteClient) *SQLiteExtractor {
	return &SQLiteExtractor{
		client: client,
	}
}

// ExtractSchema extracts model descriptors for the specified tables and views.
// If tables is empty, extracts every table and view in the database.
func (e *SQLiteExtractor) ExtractSchema(ctx context.Context, tables []string) (*schema.Schema, error) {
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

// getTables lists tables and views, skipping SQLite internals
func (e *SQLiteExtractor) getTables(ctx context.Context) ([]tableEntry, error) {
	query := `
		SELECT name, type = 'view'
		FROM sqlite_master
		WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tableList []tableEntry
	for rows.Next() {
		var t tableEntry
		if err := rows.Scan(&t.Name, &t.IsView); err != nil {
			return nil, err
		}
		tableList = append(tableList, t)
	}

	return tableList, rows.Err()
}

// extractTable extracts all information for a single table
func (e *SQLiteExtractor) extractTable(ctx context.Context, entry tableEntry) (*rawTable, error) {
	table := &rawTable{Name: entry.Name, IsView: entry.IsView}

	columns, pk, err := e.extractColumns(ctx, entry.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	table.Columns = columns

	if entry.IsView {
		return table, nil
	}
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

// extractColumns extracts columns and the ordered primary key of a table.
// A single INTEGER primary key aliases the rowid and is server generated.
func (e *SQLiteExtractor) extractColumns(ctx context.Context, tableName string) ([]rawColumn, []string, error) {
	query := fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(tableName))

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	type pkColumn struct {
		name  string
		order int
	}

	var columns []rawColumn
	var pkColumns []pkColumn
	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultValue, &pk); err != nil {
			return nil, nil, err
		}

		// Columns declared without a type have BLOB affinity
		if colType == "" {
			colType = "BLOB"
		}

		columns = append(columns, rawColumn{
			Name:     name,
			DBType:   colType,
			Nullable: notNull == 0 && pk == 0,
		})

		if pk > 0 {
			pkColumns = append(pkColumns, pkColumn{name: name, order: pk})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	sort.Slice(pkColumns, func(i, j int) bool { return pkColumns[i].order < pkColumns[j].order })
	pk := make([]string, len(pkColumns))
	for i, c := range pkColumns {
		pk[i] = c.name
	}

	if len(pk) == 1 {
		for i := range columns {
			if columns[i].Name == pk[0] && strings.EqualFold(columns[i].DBType, "INTEGER") {
				columns[i].Generated = true
			}
		}
	}

	return columns, pk, nil
}

// extractUniqueConstraints extracts unique indexes other than the primary key
func (e *SQLiteExtractor) extractUniqueConstraints(ctx context.Context, tableName string) ([]rawUnique, error) {
	query := fmt.Sprintf("PRAGMA index_list(%s)", quoteIdent(tableName))

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	var names []string
	for rows.Next() {
		var seq int
		var name, origin string
		var unique, partial int

		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			rows.Close()
			return nil, err
		}
		if unique == 1 && origin != "pk" && partial == 0 {
			names = append(names, name)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	sort.Strings(names)

	var uniques []rawUnique
	for _, name := range names {
		columns, err := e.indexColumns(ctx, name)
		if err != nil {
			return nil, err
		}
		if len(columns) > 0 {
			uniques = append(uniques, rawUnique{Name: name, Columns: columns})
		}
	}

	return uniques, nil
}

func (e *SQLiteExtractor) indexColumns(ctx context.Context, indexName string) ([]string, error) {
	query := fmt.Sprintf("PRAGMA index_info(%s)", quoteIdent(indexName))

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var seqno, cid int
		var colName sql.NullString

		if err := rows.Scan(&seqno, &cid, &colName); err != nil {
			return nil, err
		}

		// Expression indexes have no column name
		if !colName.Valid {
			return nil, nil
		}
		columns = append(columns, colName.String)
	}

	return columns, rows.Err()
}

// extractForeignKeys extracts foreign keys, grouping multi-column keys by id.
// SQLite does not name foreign keys, so names follow the PostgreSQL convention.
func (e *SQLiteExtractor) extractForeignKeys(ctx context.Context, tableName string) ([]rawForeignKey, error) {
	query := fmt.Sprintf("PRAGMA foreign_key_list(%s)", quoteIdent(tableName))

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fks []rawForeignKey
	byID := make(map[int]int)
	for rows.Next() {
		var id, seq int
		var targetTable, fromCol, onUpdate, onDelete, match string
		var toCol sql.NullString

		if err := rows.Scan(&id, &seq, &targetTable, &fromCol, &toCol, &onUpdate, &onDelete, &match); err != nil {
			return nil, err
		}

		idx, ok := byID[id]
		if !ok {
			idx = len(fks)
			byID[id] = idx
			fks = append(fks, rawForeignKey{TargetTable: targetTable})
		}
		fks[idx].Columns = append(fks[idx].Columns, fromCol)
		// NULL means the target's primary key column
		fks[idx].TargetColumns = append(fks[idx].TargetColumns, toCol.String)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range fks {
		fks[i].Name = fmt.Sprintf("%s_%s_fkey", tableName, strings.Join(fks[i].Columns, "_"))
	}

	return fks, nil
}
