package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/alfredjeanlab/facets/internal/filter"
	"github.com/alfredjeanlab/facets/internal/model"
	"github.com/alfredjeanlab/facets/internal/store"
)

// newMockDB creates a sqlmock database with automatic cleanup and expectation checking.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

// recordWithTotalColumns is the column list for queryListRecords results.
var recordWithTotalColumns = []string{
	"total_count",
	"id", "title", "status", "priority", "assignee", "created_at", "updated_at", "fields",
}

var recordRowColumns = recordWithTotalColumns[1:]

var viewRowColumns = []string{"id", "name", "query", "created_at"}

func TestParseSortClause(t *testing.T) {
	for _, tc := range []struct {
		input string
		want  string
	}{
		{"", "created_at DESC"},
		{"priority", "priority ASC"},
		{"-priority", "priority DESC"},
		{"evil_column", "created_at DESC"},
		{"-fields", "created_at DESC"},
	} {
		if got := parseSortClause(tc.input); got != tc.want {
			t.Errorf("parseSortClause(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
	for _, col := range []string{"priority", "created_at", "updated_at", "title", "status", "assignee"} {
		if got := parseSortClause("-" + col); got != col+" DESC" {
			t.Errorf("parseSortClause(-%q) = %q, want %q", col, got, col+" DESC")
		}
	}
}

func TestJSONBBytes(t *testing.T) {
	if jsonbBytes(nil) != nil {
		t.Error("jsonbBytes(nil) should be nil")
	}
	if jsonbBytes(json.RawMessage{}) != nil {
		t.Error("jsonbBytes({}) should be nil")
	}
	input := json.RawMessage(`{"team":"infra"}`)
	if string(jsonbBytes(input)) != `{"team":"infra"}` {
		t.Errorf("jsonbBytes = %s", jsonbBytes(input))
	}
}

func TestQueryCreateRecord(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()
	r := &model.Record{
		ID: "rec-1", Title: "Rotate keys", Status: model.StatusOpen, Priority: 1,
		Assignee: "alice", CreatedAt: now, UpdatedAt: now,
		Fields: json.RawMessage(`{"team":"infra"}`),
	}
	mock.ExpectExec("INSERT INTO records").
		WithArgs("rec-1", "Rotate keys", "open", 1, "alice", now, now, []byte(`{"team":"infra"}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := queryCreateRecord(context.Background(), db, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestQueryGetRecord(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()
	rows := sqlmock.NewRows(recordRowColumns).
		AddRow("rec-1", "Rotate keys", "open", 1, nil, now, now, []byte(`{"team":"infra"}`))
	mock.ExpectQuery("SELECT .+ FROM records WHERE id = \\$1").WithArgs("rec-1").WillReturnRows(rows)

	r, err := queryGetRecord(context.Background(), db, "rec-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.ID != "rec-1" || r.Status != model.StatusOpen || r.Assignee != "" {
		t.Fatalf("got %+v", r)
	}
	if string(r.Fields) != `{"team":"infra"}` {
		t.Errorf("fields = %s", r.Fields)
	}
}

func TestQueryGetRecord_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT .+ FROM records WHERE id = \\$1").WithArgs("nope").WillReturnError(sql.ErrNoRows)

	_, err := queryGetRecord(context.Background(), db, "nope")
	if err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestQueryListRecords(t *testing.T) {
	now := time.Now().UTC()

	for _, tc := range []struct {
		name      string
		filter    model.RecordFilter
		queryPat  string
		args      []driver.Value
		wantCount int
		wantTotal int
	}{
		{
			name:      "NoFilter",
			queryPat:  "SELECT COUNT\\(\\*\\) OVER\\(\\) AS total_count, .+ FROM records ORDER BY created_at DESC",
			wantCount: 2,
			wantTotal: 2,
		},
		{
			name: "Is",
			filter: model.RecordFilter{Conditions: []model.Condition{
				{Column: "status", Operator: filter.OpIs, Value: "open"},
			}},
			queryPat:  "SELECT .+ FROM records WHERE status = \\$1 ORDER BY",
			args:      []driver.Value{"open"},
			wantCount: 1,
			wantTotal: 1,
		},
		{
			name: "IsNot",
			filter: model.RecordFilter{Conditions: []model.Condition{
				{Column: "assignee", Operator: filter.OpIsNot, Value: "bob"},
			}},
			queryPat:  "SELECT .+ FROM records WHERE COALESCE\\(assignee, ''\\) <> \\$1 ORDER BY",
			args:      []driver.Value{"bob"},
			wantCount: 1,
			wantTotal: 1,
		},
		{
			name: "DateRange",
			filter: model.RecordFilter{Conditions: []model.Condition{
				{Column: "created_at", Operator: filter.OpAfter, Value: "2024-01-01"},
				{Column: "created_at", Operator: filter.OpBefore, Value: "2024-02-01"},
			}},
			queryPat: "SELECT .+ FROM records WHERE created_at >= \\$1 AND created_at < \\$2 ORDER BY",
			args:     []driver.Value{"2024-01-01", "2024-02-01"},
		},
		{
			name: "Attribute",
			filter: model.RecordFilter{Conditions: []model.Condition{
				{Column: "team", Attribute: true, Operator: filter.OpIs, Value: "infra"},
			}},
			queryPat:  "SELECT .+ FROM records WHERE fields->>\\$1 = \\$2 ORDER BY",
			args:      []driver.Value{"team", "infra"},
			wantCount: 1,
			wantTotal: 1,
		},
		{
			name:      "Search",
			filter:    model.RecordFilter{Search: "login"},
			queryPat:  "SELECT .+ FROM records WHERE title ILIKE .+ ORDER BY",
			args:      []driver.Value{"login"},
			wantCount: 1,
			wantTotal: 1,
		},
		{
			name:      "WithLimitAndOffset",
			filter:    model.RecordFilter{Limit: 20, Offset: 80},
			queryPat:  "SELECT .+ FROM records ORDER BY .+ LIMIT \\$1 OFFSET \\$2",
			args:      []driver.Value{20, 80},
			wantCount: 15,
			wantTotal: 95,
		},
		{
			name:     "WithSort",
			filter:   model.RecordFilter{Sort: "-priority"},
			queryPat: "SELECT .+ FROM records ORDER BY priority DESC",
		},
		{
			name: "Combined",
			filter: model.RecordFilter{
				Conditions: []model.Condition{{Column: "status", Operator: filter.OpIs, Value: "open"}},
				Search:     "key",
				Limit:      5,
			},
			queryPat:  "SELECT .+ FROM records WHERE status = \\$1 AND title ILIKE .+ ORDER BY .+ LIMIT \\$3",
			args:      []driver.Value{"open", "key", 5},
			wantCount: 1,
			wantTotal: 3,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			eq := mock.ExpectQuery(tc.queryPat)
			if len(tc.args) > 0 {
				eq.WithArgs(tc.args...)
			}
			r := sqlmock.NewRows(recordWithTotalColumns)
			for i := range tc.wantCount {
				r.AddRow(tc.wantTotal, fmt.Sprintf("rec-%d", i+1), "T", "open", 2, nil, now, now, nil)
			}
			eq.WillReturnRows(r)

			records, total, err := queryListRecords(context.Background(), db, tc.filter)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(records) != tc.wantCount {
				t.Fatalf("expected %d records, got %d", tc.wantCount, len(records))
			}
			if total != tc.wantTotal {
				t.Fatalf("expected total=%d, got %d", tc.wantTotal, total)
			}
		})
	}
}

func TestQueryListRecords_RejectsUnknownColumn(t *testing.T) {
	db, _ := newMockDB(t)
	f := model.RecordFilter{Conditions: []model.Condition{
		{Column: "title; DROP TABLE records", Operator: filter.OpIs, Value: "x"},
	}}
	if _, _, err := queryListRecords(context.Background(), db, f); err == nil {
		t.Fatal("expected error for unknown column")
	}
}

func TestQueryListRecords_RejectsUnknownOperator(t *testing.T) {
	db, _ := newMockDB(t)
	f := model.RecordFilter{Conditions: []model.Condition{
		{Column: "status", Operator: "like", Value: "x"},
	}}
	if _, _, err := queryListRecords(context.Background(), db, f); err == nil {
		t.Fatal("expected error for unknown operator")
	}
}

func TestQueryDistinctValues(t *testing.T) {
	for _, tc := range []struct {
		name      string
		column    string
		attribute bool
		query     string
		limit     int
		queryPat  string
		args      []driver.Value
	}{
		{
			name:     "Column",
			column:   "assignee",
			query:    "al",
			limit:    10,
			queryPat: "SELECT DISTINCT assignee::text AS value FROM records WHERE assignee::text <> '' AND assignee::text ILIKE .+\\$1.+ ORDER BY value LIMIT \\$2",
			args:     []driver.Value{"al", 10},
		},
		{
			name:      "Attribute",
			column:    "team",
			attribute: true,
			queryPat:  "SELECT DISTINCT fields->>\\$1::text AS value FROM records WHERE .+ ORDER BY value$",
			args:      []driver.Value{"team"},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			mock.ExpectQuery(tc.queryPat).WithArgs(tc.args...).
				WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("alice").AddRow("alan"))

			got, err := queryDistinctValues(context.Background(), db, tc.column, tc.attribute, tc.query, tc.limit)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != 2 || got[0] != "alice" {
				t.Errorf("got %v", got)
			}
		})
	}
}

func TestQuerySaveView(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()
	earlier := now.Add(-time.Hour)
	v := &model.View{ID: "vw-new", Name: "open", Query: "filters=status:is:open", CreatedAt: now}

	// An existing view keeps its id and creation time.
	mock.ExpectQuery("INSERT INTO views .+ ON CONFLICT \\(name\\) DO UPDATE SET query = EXCLUDED.query RETURNING id, created_at").
		WithArgs("vw-new", "open", "filters=status:is:open", now).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("vw-old", earlier))

	if err := querySaveView(context.Background(), db, v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.ID != "vw-old" || !v.CreatedAt.Equal(earlier) {
		t.Errorf("view = %+v", v)
	}
}

func TestQueryGetView(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()
	mock.ExpectQuery("SELECT .+ FROM views WHERE name = \\$1").WithArgs("open").
		WillReturnRows(sqlmock.NewRows(viewRowColumns).AddRow("vw-1", "open", "page=2", now))

	v, err := queryGetView(context.Background(), db, "open")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Query != "page=2" {
		t.Errorf("query = %q", v.Query)
	}
}

func TestQueryListViews(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()
	mock.ExpectQuery("SELECT .+ FROM views ORDER BY name").
		WillReturnRows(sqlmock.NewRows(viewRowColumns).
			AddRow("vw-1", "a", "", now).
			AddRow("vw-2", "b", "page=3", now))

	views, err := queryListViews(context.Background(), db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 2 || views[1].Name != "b" {
		t.Errorf("views = %+v", views)
	}
}

func TestQueryDeleteView(t *testing.T) {
	for _, tc := range []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{name: "Deleted", affected: 1},
		{name: "NotFound", affected: 0, wantErr: sql.ErrNoRows},
	} {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			mock.ExpectExec("DELETE FROM views WHERE name = \\$1").WithArgs("open").
				WillReturnResult(sqlmock.NewResult(0, tc.affected))

			err := queryDeleteView(context.Background(), db, "open")
			if err != tc.wantErr {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestRunInTransaction(t *testing.T) {
	t.Run("Commit", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := &PostgresStore{db: db}
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM views").WithArgs("a").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := s.RunInTransaction(context.Background(), func(tx store.Store) error {
			return tx.DeleteView(context.Background(), "a")
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("Rollback", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := &PostgresStore{db: db}
		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := s.RunInTransaction(context.Background(), func(store.Store) error { return boom })
		if !errors.Is(err, boom) {
			t.Fatalf("err = %v, want boom", err)
		}
	})
}
