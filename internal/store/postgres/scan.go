package postgres

import (
	"database/sql"
	"encoding/json"

	"github.com/alfredjeanlab/facets/internal/model"
)

// scannable is satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanRecord scans a single row into a model.Record.
func scanRecord(row scannable) (*model.Record, error) {
	r, _, err := scanRecordColumns(row, false)
	return r, err
}

// scanRecordWithTotal scans a row that has a leading total_count column
// followed by the standard record columns. Used by queryListRecords with
// COUNT(*) OVER().
func scanRecordWithTotal(row scannable) (*model.Record, int, error) {
	return scanRecordColumns(row, true)
}

func scanRecordColumns(row scannable, withTotal bool) (*model.Record, int, error) {
	var (
		total    int
		r        model.Record
		assignee sql.NullString
		fields   []byte
	)
	dest := []any{
		&r.ID,
		&r.Title,
		&r.Status,
		&r.Priority,
		&assignee,
		&r.CreatedAt,
		&r.UpdatedAt,
		&fields,
	}
	if withTotal {
		dest = append([]any{&total}, dest...)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, 0, err
	}

	r.Assignee = assignee.String
	if len(fields) > 0 {
		r.Fields = json.RawMessage(fields)
	}
	return &r, total, nil
}

// scanView scans a single row into a model.View.
func scanView(row scannable) (*model.View, error) {
	var v model.View
	if err := row.Scan(&v.ID, &v.Name, &v.Query, &v.CreatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

// scanViews scans multiple rows into a slice of model.View pointers.
func scanViews(rows *sql.Rows) ([]*model.View, error) {
	var views []*model.View
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return views, nil
}

// jsonbBytes converts json.RawMessage to a []byte suitable for JSONB columns.
func jsonbBytes(m json.RawMessage) []byte {
	if len(m) == 0 {
		return nil
	}
	return []byte(m)
}
