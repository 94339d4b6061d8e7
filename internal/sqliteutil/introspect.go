// Package sqliteutil holds small SQLite introspection helpers shared by
// the vecsql engine: existence checks and primary-key resolution, grounded
// on the reference extension's "SQLite Utils" section.
package sqliteutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// TableExists reports whether a table with the given name exists,
// matching sqlite_table_exists's case-insensitive sqlite_master lookup.
func TableExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	return systemObjectExists(ctx, db, name, "table")
}

// TriggerExists reports whether a trigger with the given name exists,
// matching sqlite_trigger_exists.
func TriggerExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	return systemObjectExists(ctx, db, name, "trigger")
}

func systemObjectExists(ctx context.Context, db *sql.DB, name, objType string) (bool, error) {
	var exists bool
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type=%q AND name=? COLLATE NOCASE);", objType)
	err := db.QueryRowContext(ctx, query, name).Scan(&exists)
	return exists, err
}

// ColumnExists reports whether table has a column with the given name.
func ColumnExists(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	var exists bool
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM pragma_table_info('%s') WHERE name = ?);", table)
	err := db.QueryRowContext(ctx, query, column).Scan(&exists)
	return exists, err
}

// ColumnIsBlob reports whether table.column was declared with BLOB
// affinity, matching sqlite_column_is_blob's affinity check via
// pragma_table_info's declared type string.
func ColumnIsBlob(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	var declType string
	query := fmt.Sprintf("SELECT type FROM pragma_table_info('%s') WHERE name=?;", table)
	if err := db.QueryRowContext(ctx, query, column).Scan(&declType); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return declType == "" || strings.Contains(strings.ToUpper(declType), "BLOB"), nil
}

// ResolvePrimaryKeyColumn returns the sole INTEGER PRIMARY KEY column name
// when the table has exactly one, and "rowid" otherwise, matching
// sqlite_get_int_prikey_column's resolution order. A table that has no
// such column and no rowid (a WITHOUT ROWID table) is an error.
func ResolvePrimaryKeyColumn(ctx context.Context, db *sql.DB, table string) (string, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT name, type, pk FROM pragma_table_info('%s');", table))
	if err != nil {
		return "", err
	}
	defer rows.Close()

	pkName := ""
	pkType := ""
	pkCount := 0
	for rows.Next() {
		var name, declType string
		var pk int
		if err := rows.Scan(&name, &declType, &pk); err != nil {
			return "", err
		}
		if pk > 0 {
			pkCount++
			pkName = name
			pkType = declType
		}
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	if pkCount == 1 && strings.EqualFold(pkType, "INTEGER") {
		return pkName, nil
	}
	check, err := db.QueryContext(ctx, fmt.Sprintf("SELECT rowid FROM %s LIMIT 0;", table))
	if err != nil {
		return "", fmt.Errorf("table %q has no rowid and no single INTEGER PRIMARY KEY column", table)
	}
	check.Close()
	return "rowid", nil
}
