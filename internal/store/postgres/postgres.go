// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/alfredjeanlab/facets/internal/model"
	"github.com/alfredjeanlab/facets/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) CreateRecord(ctx context.Context, record *model.Record) error {
	return queryCreateRecord(ctx, s.db, record)
}

func (s *PostgresStore) GetRecord(ctx context.Context, id string) (*model.Record, error) {
	return queryGetRecord(ctx, s.db, id)
}

func (s *PostgresStore) ListRecords(ctx context.Context, filter model.RecordFilter) ([]*model.Record, int, error) {
	return queryListRecords(ctx, s.db, filter)
}

func (s *PostgresStore) DistinctValues(ctx context.Context, column string, attribute bool, query string, limit int) ([]string, error) {
	return queryDistinctValues(ctx, s.db, column, attribute, query, limit)
}

func (s *PostgresStore) SaveView(ctx context.Context, view *model.View) error {
	return querySaveView(ctx, s.db, view)
}

func (s *PostgresStore) GetView(ctx context.Context, name string) (*model.View, error) {
	return queryGetView(ctx, s.db, name)
}

func (s *PostgresStore) ListViews(ctx context.Context) ([]*model.View, error) {
	return queryListViews(ctx, s.db)
}

func (s *PostgresStore) DeleteView(ctx context.Context, name string) error {
	return queryDeleteView(ctx, s.db, name)
}

// RunInTransaction begins a database transaction, creates a txStore that
// delegates to it, calls fn, and commits on success or rolls back on error.
func (s *PostgresStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txS := &txStore{tx: tx}
	if err := fn(txS); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txStore implements store.Store using a *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

var _ store.Store = (*txStore)(nil)

func (s *txStore) CreateRecord(ctx context.Context, record *model.Record) error {
	return queryCreateRecord(ctx, s.tx, record)
}

func (s *txStore) GetRecord(ctx context.Context, id string) (*model.Record, error) {
	return queryGetRecord(ctx, s.tx, id)
}

func (s *txStore) ListRecords(ctx context.Context, filter model.RecordFilter) ([]*model.Record, int, error) {
	return queryListRecords(ctx, s.tx, filter)
}

func (s *txStore) DistinctValues(ctx context.Context, column string, attribute bool, query string, limit int) ([]string, error) {
	return queryDistinctValues(ctx, s.tx, column, attribute, query, limit)
}

func (s *txStore) SaveView(ctx context.Context, view *model.View) error {
	return querySaveView(ctx, s.tx, view)
}

func (s *txStore) GetView(ctx context.Context, name string) (*model.View, error) {
	return queryGetView(ctx, s.tx, name)
}

func (s *txStore) ListViews(ctx context.Context) ([]*model.View, error) {
	return queryListViews(ctx, s.tx)
}

func (s *txStore) DeleteView(ctx context.Context, name string) error {
	return queryDeleteView(ctx, s.tx, name)
}

// RunInTransaction on a txStore reuses the existing transaction (no nesting).
func (s *txStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

// Close is a no-op for a transaction store; the parent store owns the connection.
func (s *txStore) Close() error {
	return nil
}
