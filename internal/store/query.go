package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Predicate matches rows whose fields equal every listed value (AND).
// Keys must be known column names; values are always bound parameters.
type Predicate map[string]any

var (
	// ErrNoFields rejects inserts and updates with an empty field map.
	ErrNoFields = errors.New("no fields given")
	// ErrNoPredicate rejects deletes without a predicate: a missing
	// predicate would wipe the whole table.
	ErrNoPredicate = errors.New("refusing to delete without a predicate")

	errUnknownTable  = errors.New("unknown table")
	errUnknownColumn = errors.New("unknown column")
)

// sortedColumns validates every key against the table's column set and
// returns the keys in deterministic order.
func sortedColumns(table string, fields map[string]any) ([]string, error) {
	known, ok := tableColumns[table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnknownTable, table)
	}
	cols := make([]string, 0, len(fields))
	for col := range fields {
		if !known[col] {
			return nil, fmt.Errorf("%w: %s.%s", errUnknownColumn, table, col)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols, nil
}

// whereClause builds " WHERE a = ? AND b = ?" plus its bound args.
// An empty predicate yields an empty clause (match everything).
func whereClause(table string, pred Predicate) (string, []any, error) {
	if len(pred) == 0 {
		return "", nil, nil
	}
	cols, err := sortedColumns(table, pred)
	if err != nil {
		return "", nil, err
	}
	terms := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols))
	for _, col := range cols {
		terms = append(terms, col+" = ?")
		args = append(args, pred[col])
	}
	return " WHERE " + strings.Join(terms, " AND "), args, nil
}

// Select returns the first row of the table matching pred, or an empty
// Record when nothing matches.
func (s *Store) Select(ctx context.Context, table string, pred Predicate) (Record, error) {
	records, err := s.selectRows(ctx, table, pred, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return Record{}, nil
	}
	return records[0], nil
}

// SelectAll returns every row of the table matching pred, in store order.
func (s *Store) SelectAll(ctx context.Context, table string, pred Predicate) ([]Record, error) {
	return s.selectRows(ctx, table, pred, 0)
}

func (s *Store) selectRows(ctx context.Context, table string, pred Predicate, limit int) ([]Record, error) {
	if _, ok := tableColumns[table]; !ok {
		return nil, fmt.Errorf("%w: %s", errUnknownTable, table)
	}
	where, args, err := whereClause(table, pred)
	if err != nil {
		return nil, err
	}
	query := "SELECT * FROM " + table + where
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var records []Record
	for rows.Next() {
		values := make([]any, len(cols))
		scans := make([]any, len(cols))
		for i := range values {
			scans[i] = &values[i]
		}
		if err := rows.Scan(scans...); err != nil {
			return nil, err
		}
		rec := make(Record, len(cols))
		for i, col := range cols {
			switch v := values[i].(type) {
			case nil:
				// NULL stays absent.
			case []byte:
				rec[col] = string(v)
			default:
				rec[col] = v
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Insert adds a row with the given fields and returns its generated id.
func (s *Store) Insert(ctx context.Context, table string, fields map[string]any) (int64, error) {
	if len(fields) == 0 {
		return 0, ErrNoFields
	}
	cols, err := sortedColumns(table, fields)
	if err != nil {
		return 0, err
	}
	args := make([]any, 0, len(cols))
	for _, col := range cols {
		args = append(args, fields[col])
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(cols, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "),
	)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", table, err)
	}
	return res.LastInsertId()
}

// Update sets the given fields on every row matching pred. An empty
// predicate updates the whole table.
func (s *Store) Update(ctx context.Context, table string, fields map[string]any, pred Predicate) error {
	if len(fields) == 0 {
		return ErrNoFields
	}
	cols, err := sortedColumns(table, fields)
	if err != nil {
		return err
	}
	sets := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols))
	for _, col := range cols {
		sets = append(sets, col+" = ?")
		args = append(args, fields[col])
	}
	where, whereArgs, err := whereClause(table, pred)
	if err != nil {
		return err
	}
	query := "UPDATE " + table + " SET " + strings.Join(sets, ", ") + where

	if _, err := s.db.ExecContext(ctx, query, append(args, whereArgs...)...); err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	return nil
}

// Delete removes every row matching pred. The predicate is required.
func (s *Store) Delete(ctx context.Context, table string, pred Predicate) error {
	if len(pred) == 0 {
		return ErrNoPredicate
	}
	where, args, err := whereClause(table, pred)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table+where, args...); err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	return nil
}
