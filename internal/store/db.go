package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrLocked   = errors.New("database is in use by another engine process")
	// ErrInUse is returned when a delete would orphan referencing rows.
	ErrInUse = errors.New("record is still referenced")
)

type Options struct {
	Driver string // sqlite | postgres
	Path   string // sqlite file
	DSN    string // postgres connection string
}

type DB struct {
	Pool    *sql.DB
	Dialect Dialect

	lock *flock.Flock
	log  *zap.Logger
}

func Open(opts Options, logger *zap.Logger) (*DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch Dialect(strings.ToLower(opts.Driver)) {
	case Postgres:
		return openPostgres(opts, logger)
	case SQLite, "":
		return openSQLite(opts, logger)
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}

func openSQLite(opts Options, logger *zap.Logger) (*DB, error) {
	if opts.Path == "" {
		return nil, errors.New("store.path is required for sqlite")
	}

	// One engine per database file; a second process would fight over the writer.
	lock := flock.New(opts.Path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", opts.Path, err)
	}
	if !ok {
		return nil, ErrLocked
	}

	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", opts.Path)
	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}

	pool.SetMaxOpenConns(1) // sqlite typically wants 1 writer
	pool.SetConnMaxLifetime(5 * time.Minute)

	d := &DB{Pool: pool, Dialect: SQLite, lock: lock, log: logger}
	if err := d.ping(); err != nil {
		_ = d.Close()
		return nil, err
	}
	logger.Info("store opened", zap.String("driver", "sqlite"), zap.String("path", opts.Path))
	return d, nil
}

func openPostgres(opts Options, logger *zap.Logger) (*DB, error) {
	if opts.DSN == "" {
		return nil, errors.New("store.dsn is required for postgres")
	}
	pool, err := sql.Open("pgx", opts.DSN)
	if err != nil {
		return nil, err
	}
	pool.SetMaxOpenConns(10)
	pool.SetMaxIdleConns(5)
	pool.SetConnMaxLifetime(time.Hour)

	d := &DB{Pool: pool, Dialect: Postgres, log: logger}
	if err := d.ping(); err != nil {
		_ = d.Close()
		return nil, err
	}
	logger.Info("store opened", zap.String("driver", "postgres"))
	return d, nil
}

func (d *DB) ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return d.Pool.PingContext(ctx)
}

// Ping checks the connection.
func (d *DB) Ping(ctx context.Context) error { return d.Pool.PingContext(ctx) }

// Checkpoint folds the sqlite write-ahead log into the database file.
// Postgres manages its own WAL, so it is a no-op there.
func (d *DB) Checkpoint(ctx context.Context) error {
	if d.Dialect != SQLite {
		return nil
	}
	_, err := d.Pool.ExecContext(ctx, `PRAGMA wal_checkpoint(FULL);`)
	return err
}

func (d *DB) Close() error {
	if d == nil {
		return nil
	}
	var err error
	if d.Pool != nil {
		err = d.Pool.Close()
	}
	if d.lock != nil {
		if uerr := d.lock.Unlock(); uerr != nil && err == nil {
			err = uerr
		}
	}
	return err
}

// Rebind rewrites ? placeholders into $n for postgres.
func (d *DB) Rebind(q string) string {
	if d.Dialect != Postgres {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d *DB) exec(ctx context.Context, q string, args ...any) (sql.Result, error) {
	return d.Pool.ExecContext(ctx, d.Rebind(q), args...)
}

func (d *DB) query(ctx context.Context, q string, args ...any) (*sql.Rows, error) {
	return d.Pool.QueryContext(ctx, d.Rebind(q), args...)
}

func (d *DB) queryRow(ctx context.Context, q string, args ...any) *sql.Row {
	return d.Pool.QueryRowContext(ctx, d.Rebind(q), args...)
}

// mustAffect maps an UPDATE/DELETE that touched no rows to ErrNotFound.
func mustAffect(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// affected reports whether an UPDATE/DELETE touched any row.
func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func isForeignKeyViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY ||
			(code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "FOREIGN KEY"))
	}
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return pe.Code == "23503"
	}
	return false
}

func (d *DB) count(ctx context.Context, table string) (int, error) {
	var n int
	err := d.queryRow(ctx, `SELECT COUNT(*) FROM `+table+`;`).Scan(&n)
	return n, err
}

// timeLayout is fixed width so that text order on created_at is time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		// rows written before the fixed-width layout
		if t, err = time.Parse(time.RFC3339Nano, s); err != nil {
			return time.Time{}
		}
	}
	return t
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
