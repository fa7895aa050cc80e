package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/worklab/newsdigest/internal/logger"
)

type dialect struct {
	driver      string
	placeholder func(n int) string
}

var (
	postgresDialect = dialect{driver: "postgres", placeholder: func(n int) string { return "$" + strconv.Itoa(n) }}
	sqliteDialect   = dialect{driver: "sqlite", placeholder: func(int) string { return "?" }}
)

// SQLBackend stores the history snapshot as rows of sent_history. Save
// replaces all rows in one transaction.
type SQLBackend struct {
	db      *sql.DB
	dialect dialect
}

// NewPostgresBackend connects to PostgreSQL and creates the table if needed.
func NewPostgresBackend(ctx context.Context, dsn string) (*SQLBackend, error) {
	return openSQLBackend(ctx, postgresDialect, dsn)
}

// NewSQLiteBackend opens (or creates) a SQLite database file.
func NewSQLiteBackend(ctx context.Context, path string) (*SQLBackend, error) {
	return openSQLBackend(ctx, sqliteDialect, path)
}

func openSQLBackend(ctx context.Context, d dialect, dsn string) (*SQLBackend, error) {
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.driver, err)
	}
	if d.driver == sqliteDialect.driver {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", d.driver, err)
	}

	b := &SQLBackend{db: db, dialect: d}
	if err := b.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("history database ready", "driver", d.driver)
	return b, nil
}

func (b *SQLBackend) initSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS sent_history (
		position   INTEGER NOT NULL,
		url        TEXT NOT NULL,
		title_norm TEXT NOT NULL,
		sent_at    TEXT NOT NULL
	)`

	if _, err := b.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create history schema: %w", err)
	}
	return nil
}

func (b *SQLBackend) Load(ctx context.Context) ([]Record, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT url, title_norm, sent_at FROM sent_history ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.URL, &r.TitleNorm, &r.SentAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read history rows: %w", err)
	}
	return records, nil
}

func (b *SQLBackend) Save(ctx context.Context, records []Record) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sent_history`); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}

	p := b.dialect.placeholder
	insert := fmt.Sprintf(`INSERT INTO sent_history (position, url, title_norm, sent_at) VALUES (%s, %s, %s, %s)`, p(1), p(2), p(3), p(4))
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("prepare history insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, i, r.URL, r.TitleNorm, r.SentAt); err != nil {
			return fmt.Errorf("insert history row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit history: %w", err)
	}
	return nil
}

func (b *SQLBackend) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
