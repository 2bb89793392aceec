// Package sqlstore implements the record store on database/sql.
// Each resource gets one table holding the record as a JSON payload keyed by
// its id, so the same code serves SQLite, PostgreSQL and MySQL.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/idilsaglam/taskhub/internal/store"
)

// DB is a database handle plus the dialect needed to talk to it.
type DB struct {
	db     *sql.DB
	driver string
}

// Open connects to dsn. driver is one of sqlite, postgres (pgx) or mysql.
func Open(driver, dsn string) (*DB, error) {
	name, err := driverName(driver)
	if err != nil {
		return nil, err
	}
	if dsn == "" {
		return nil, fmt.Errorf("sqlstore: empty dsn for driver %s", driver)
	}
	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	if name == "sqlite" {
		// one writer; avoids SQLITE_BUSY between pooled connections
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", name, err)
	}
	return &DB{db: db, driver: name}, nil
}

func driverName(driver string) (string, error) {
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		return "sqlite", nil
	case "postgres", "postgresql", "pgx":
		return "pgx", nil
	case "mysql":
		return "mysql", nil
	}
	return "", fmt.Errorf("sqlstore: unsupported driver %q", driver)
}

// Driver returns the database/sql driver name in use.
func (d *DB) Driver() string { return d.driver }

func (d *DB) Close() error { return d.db.Close() }

// rebind turns ? placeholders into $n for PostgreSQL.
func (d *DB) rebind(q string) string {
	if d.driver != "pgx" {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var tableRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Store is a store.Store backed by one SQL table.
type Store[K comparable, R any] struct {
	db     *DB
	table  string
	key    store.KeyFunc[K, R]
	encode func(K) string
}

// New creates the table if needed and returns a store over it.
func New[K comparable, R any](ctx context.Context, db *DB, table string, key store.KeyFunc[K, R], encode func(K) string) (*Store[K, R], error) {
	if !tableRe.MatchString(table) {
		return nil, fmt.Errorf("sqlstore: invalid table name %q", table)
	}
	s := &Store[K, R]{db: db, table: table, key: key, encode: encode}
	if err := s.migrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store[K, R]) migrate(ctx context.Context) error {
	ddl := `CREATE TABLE IF NOT EXISTS ` + s.table + ` (
    id VARCHAR(64) PRIMARY KEY,
    payload TEXT NOT NULL
)`
	if _, err := s.db.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

// insertQuery is a single statement that adds the row or does nothing when
// the id is taken, so concurrent duplicate inserts never reach a unique
// violation.
func (d *DB) insertQuery(table string) string {
	switch d.driver {
	case "mysql":
		// with the default client flags an unchanged row counts as zero affected
		return `INSERT INTO ` + table + ` (id, payload) VALUES (?, ?) ON DUPLICATE KEY UPDATE id = id`
	default:
		return d.rebind(`INSERT INTO ` + table + ` (id, payload) VALUES (?, ?) ON CONFLICT (id) DO NOTHING`)
	}
}

func (s *Store[K, R]) Insert(ctx context.Context, r R) (bool, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return false, fmt.Errorf("encode record: %w", err)
	}
	id := s.encode(s.key(r))
	res, err := s.db.db.ExecContext(ctx, s.db.insertQuery(s.table), id, string(payload))
	if err != nil {
		return false, fmt.Errorf("insert %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store[K, R]) Update(ctx context.Context, r R) (bool, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return false, fmt.Errorf("encode record: %w", err)
	}
	id := s.encode(s.key(r))
	if ok, err := s.exists(ctx, id); err != nil || !ok {
		return false, err
	}
	// MySQL reports zero affected rows for a no-op update, so existence is checked first.
	if _, err := s.db.db.ExecContext(ctx, s.db.rebind(`UPDATE `+s.table+` SET payload = ? WHERE id = ?`), string(payload), id); err != nil {
		return false, fmt.Errorf("update %s: %w", id, err)
	}
	return true, nil
}

func (s *Store[K, R]) Delete(ctx context.Context, id K) (bool, error) {
	res, err := s.db.db.ExecContext(ctx, s.db.rebind(`DELETE FROM `+s.table+` WHERE id = ?`), s.encode(id))
	if err != nil {
		return false, fmt.Errorf("delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store[K, R]) FindByID(ctx context.Context, id K) (R, bool, error) {
	var zero R
	var payload string
	err := s.db.db.QueryRowContext(ctx, s.db.rebind(`SELECT payload FROM `+s.table+` WHERE id = ?`), s.encode(id)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("select: %w", err)
	}
	var r R
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return zero, false, fmt.Errorf("decode record: %w", err)
	}
	return r, true, nil
}

func (s *Store[K, R]) FindAll(ctx context.Context) ([]R, error) {
	rows, err := s.db.db.QueryContext(ctx, `SELECT payload FROM `+s.table+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select all: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []R{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		var r R
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store[K, R]) exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.db.QueryRowContext(ctx, s.db.rebind(`SELECT 1 FROM `+s.table+` WHERE id = ?`), id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup %s: %w", id, err)
	}
	return true, nil
}

// Int64Key encodes integer ids.
func Int64Key(id int64) string { return strconv.FormatInt(id, 10) }

// UUIDKey encodes UUID ids.
func UUIDKey(id uuid.UUID) string { return id.String() }
