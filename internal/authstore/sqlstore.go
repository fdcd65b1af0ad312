package authstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/dmarkhas/lingobot/internal/chat"
)

// Supported relational providers.
const (
	ProviderPostgres = "postgres"
	ProviderSQLite   = "sqlite"
)

// DefaultProvider is used when none is configured.
const DefaultProvider = ProviderPostgres

const connectTimeout = 5 * time.Second

// chat_id is a 64-bit column: group and channel ids from Telegram exceed
// the 32-bit range.
const schema = `
	CREATE TABLE IF NOT EXISTS authorized_chats (
		chat_id BIGINT NOT NULL,
		chat_type VARCHAR(16) NOT NULL,
		PRIMARY KEY (chat_id, chat_type)
	)
`

// SQLStore is the Store backed by a relational database.
type SQLStore struct {
	db       *sql.DB
	provider string
}

// NewSQL opens the database, verifies connectivity, and creates the
// authorized_chats table if absent. This is the only operation on the
// adapter that may fail fatally; the caller decides how to degrade.
func NewSQL(url, provider string) (*SQLStore, error) {
	driver, err := driverFor(provider)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if provider == ProviderSQLite {
		// sqlite has a single writer; one connection avoids busy errors
		// under concurrent authorize calls.
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLStore{db: db, provider: provider}, nil
}

func driverFor(provider string) (string, error) {
	switch provider {
	case ProviderPostgres:
		return "postgres", nil
	case ProviderSQLite:
		return "sqlite", nil
	default:
		return "", fmt.Errorf("unsupported database provider %q", provider)
	}
}

// Provider returns the provider the store was constructed with.
func (s *SQLStore) Provider() string {
	return s.provider
}

// Close releases the underlying connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Authorize checks existence by primary key and inserts if absent. A
// concurrent authorizer from another connection can win the race between
// the check and the insert; the resulting duplicate-key error is
// reinterpreted as "already authorized" rather than surfaced.
func (s *SQLStore) Authorize(ctx context.Context, ref chat.Ref) (Result, error) {
	class := chat.Classify(ref)

	exists, err := s.exists(ctx, ref.ID, class)
	if err != nil {
		return Result{}, err
	}
	if exists {
		return Result{AlreadyAuthorized: true, Class: class}, nil
	}

	query := s.bind(`INSERT INTO authorized_chats (chat_id, chat_type) VALUES (?, ?)`)
	if _, err := s.db.ExecContext(ctx, query, ref.ID, string(class)); err != nil {
		if isDuplicateKey(err) {
			return Result{AlreadyAuthorized: true, Class: class}, nil
		}
		return Result{}, fmt.Errorf("insert authorized chat: %w", err)
	}
	return Result{AlreadyAuthorized: false, Class: class}, nil
}

// IsAuthorized reports whether a record exists for the chat and its class.
func (s *SQLStore) IsAuthorized(ctx context.Context, ref chat.Ref) (bool, error) {
	return s.exists(ctx, ref.ID, chat.Classify(ref))
}

// Snapshot reads the whole table grouped by class.
func (s *SQLStore) Snapshot(ctx context.Context) (Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT chat_id, chat_type FROM authorized_chats`)
	if err != nil {
		return nil, fmt.Errorf("read authorized chats: %w", err)
	}
	defer rows.Close()

	snap := emptySnapshot()
	for rows.Next() {
		var (
			id    int64
			class string
		)
		if err := rows.Scan(&id, &class); err != nil {
			return nil, fmt.Errorf("scan authorized chat: %w", err)
		}
		snap[chat.Class(class)] = append(snap[chat.Class(class)], id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read authorized chats: %w", err)
	}
	return snap, nil
}

func (s *SQLStore) exists(ctx context.Context, id int64, class chat.Class) (bool, error) {
	query := s.bind(`SELECT EXISTS (SELECT 1 FROM authorized_chats WHERE chat_id = ? AND chat_type = ?)`)
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, id, string(class)).Scan(&exists); err != nil {
		return false, fmt.Errorf("check authorized chat: %w", err)
	}
	return exists, nil
}

// bind rewrites ? placeholders to the $N form Postgres expects.
func (s *SQLStore) bind(query string) string {
	if s.provider != ProviderPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
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

// isDuplicateKey recognizes a primary-key violation from either provider:
// pq reports SQLSTATE 23505, modernc/sqlite a UNIQUE constraint message.
func isDuplicateKey(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(strings.ToUpper(err.Error()), "UNIQUE CONSTRAINT")
}
