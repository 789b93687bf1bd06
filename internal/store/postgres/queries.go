package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/alfredjeanlab/facets/internal/filter"
	"github.com/alfredjeanlab/facets/internal/model"
)

// recordColumns is the column list used for SELECT statements on the records table.
const recordColumns = `id, title, status, priority, assignee, created_at, updated_at, fields`

const viewColumns = `id, name, query, created_at`

// filterableColumns are the records columns a condition may name directly.
var filterableColumns = map[string]bool{
	"id": true, "title": true, "status": true, "priority": true,
	"assignee": true, "created_at": true, "updated_at": true,
}

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryCreateRecord(ctx context.Context, db executor, r *model.Record) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO records (
			id, title, status, priority, assignee, created_at, updated_at, fields
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)`,
		r.ID,
		r.Title,
		string(r.Status),
		r.Priority,
		r.Assignee,
		r.CreatedAt,
		r.UpdatedAt,
		jsonbBytes(r.Fields),
	)
	return err
}

func queryGetRecord(ctx context.Context, db executor, id string) (*model.Record, error) {
	row := db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM records WHERE id = $1`, id)
	return scanRecord(row)
}

// columnExpr returns the SQL expression a condition compares against.
// Attribute columns read a key out of the fields JSONB document.
func columnExpr(c model.Condition, nextArg func() string, args *[]any) (string, error) {
	if c.Attribute {
		p := nextArg()
		*args = append(*args, c.Column)
		return "fields->>" + p, nil
	}
	if !filterableColumns[c.Column] {
		return "", fmt.Errorf("unknown column %q", c.Column)
	}
	return c.Column, nil
}

func comparison(op filter.Operator) (string, error) {
	switch op {
	case filter.OpIs:
		return "=", nil
	case filter.OpIsNot:
		return "<>", nil
	case filter.OpBefore:
		return "<", nil
	case filter.OpAfter:
		return ">=", nil
	}
	return "", fmt.Errorf("unknown operator %q", op)
}

func queryListRecords(ctx context.Context, db executor, f model.RecordFilter) ([]*model.Record, int, error) {
	var (
		whereClauses []string
		args         []any
		argIdx       int
	)

	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	for _, c := range f.Conditions {
		col, err := columnExpr(c, nextArg, &args)
		if err != nil {
			return nil, 0, fmt.Errorf("list records: %w", err)
		}
		op, err := comparison(c.Operator)
		if err != nil {
			return nil, 0, fmt.Errorf("list records: %w", err)
		}
		if c.Operator == filter.OpIsNot {
			// A missing attribute is "not" any value.
			col = "COALESCE(" + col + ", '')"
		}
		whereClauses = append(whereClauses, col+" "+op+" "+nextArg())
		args = append(args, c.Value)
	}

	if f.Search != "" {
		p := nextArg()
		whereClauses = append(whereClauses, fmt.Sprintf("title ILIKE '%%' || %s || '%%'", p))
		args = append(args, f.Search)
	}

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	// Single query with COUNT(*) OVER() to get total and rows atomically.
	dataQuery := "SELECT COUNT(*) OVER() AS total_count, " + recordColumns + " FROM records" + whereSQL + " ORDER BY " + parseSortClause(f.Sort)

	if f.Limit > 0 {
		dataQuery += " LIMIT " + nextArg()
		args = append(args, f.Limit)
	}
	if f.Offset > 0 {
		dataQuery += " OFFSET " + nextArg()
		args = append(args, f.Offset)
	}

	rows, err := db.QueryContext(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []*model.Record
	var total int
	for rows.Next() {
		r, t, err := scanRecordWithTotal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan records: %w", err)
		}
		total = t
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("scan records: %w", err)
	}

	return records, total, nil
}

func queryDistinctValues(ctx context.Context, db executor, column string, attribute bool, query string, limit int) ([]string, error) {
	var args []any
	argIdx := 0
	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	col, err := columnExpr(model.Condition{Column: column, Attribute: attribute}, nextArg, &args)
	if err != nil {
		return nil, fmt.Errorf("distinct values: %w", err)
	}
	expr := col + "::text"

	q := "SELECT DISTINCT " + expr + " AS value FROM records WHERE " + expr + " <> ''"
	if query != "" {
		q += " AND " + expr + " ILIKE '%' || " + nextArg() + " || '%'"
		args = append(args, query)
	}
	q += " ORDER BY value"
	if limit > 0 {
		q += " LIMIT " + nextArg()
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("distinct values: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan distinct values: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan distinct values: %w", err)
	}
	return values, nil
}

// querySaveView inserts a view or replaces the query of the view with the
// same name. The stored id and created_at are written back to v.
func querySaveView(ctx context.Context, db executor, v *model.View) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO views (id, name, query, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE SET query = EXCLUDED.query
		RETURNING id, created_at`,
		v.ID, v.Name, v.Query, v.CreatedAt,
	).Scan(&v.ID, &v.CreatedAt)
}

func queryGetView(ctx context.Context, db executor, name string) (*model.View, error) {
	row := db.QueryRowContext(ctx, `SELECT `+viewColumns+` FROM views WHERE name = $1`, name)
	return scanView(row)
}

func queryListViews(ctx context.Context, db executor) ([]*model.View, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+viewColumns+` FROM views ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list views: %w", err)
	}
	defer rows.Close()
	return scanViews(rows)
}

func queryDeleteView(ctx context.Context, db executor, name string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM views WHERE name = $1`, name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func parseSortClause(sort string) string {
	if sort == "" {
		return "created_at DESC"
	}
	desc := strings.HasPrefix(sort, "-")
	col := strings.TrimPrefix(sort, "-")
	allowed := map[string]bool{
		"priority": true, "created_at": true, "updated_at": true,
		"title": true, "status": true, "assignee": true,
	}
	if !allowed[col] {
		return "created_at DESC"
	}
	if desc {
		return col + " DESC"
	}
	return col + " ASC"
}
