package vette

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite"
)

const (
	sqlitePendingQuery string = "insert into pendings (token, kind, held_id, occurred_at) values ($1, $2, $3, $4)"
	sqliteLookupQuery  string = "select kind, held_id from pendings where token = $1"
	sqliteHeldQuery    string = "insert into held_messages (id, list, sender, message_id, reason, message, occurred_at) values ($1, $2, $3, $4, $5, $6, $7)"

	sqlitePendingCreateTable string = `
	create table if not exists pendings (
    token text primary key,
    kind text,
    held_id text,
    occurred_at datetime default CURRENT_TIMESTAMP
	)`
	sqliteHeldCreateTable string = `
	create table if not exists held_messages (
    id text primary key,
    list text,
    sender text,
    message_id text,
    reason text,
    message blob,
    occurred_at datetime default CURRENT_TIMESTAMP
	)`
)

type StoreSqlite struct {
	pool *sql.DB // Database connection pool.
}

func (s *StoreSqlite) Name() string {
	return "sqlite"
}

func (s *StoreSqlite) conn() (*sql.DB, error) {
	if s.pool != nil {
		return s.pool, nil
	}

	dsn := os.Getenv("DSN")
	if len(dsn) == 0 {
		return nil, fmt.Errorf("missing dsn for sqlite, please set `DSN`")
	}

	var err error
	s.pool, err = sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open error: %s", err)
	}

	return s.pool, nil
}

// Init creates the tables when they do not exist yet.
func (s *StoreSqlite) Init() error {
	conn, err := s.conn()
	if err != nil {
		return err
	}

	if _, err = conn.Exec(sqlitePendingCreateTable); err != nil {
		return fmt.Errorf("db exec error: %s", err)
	}
	if _, err = conn.Exec(sqliteHeldCreateTable); err != nil {
		return fmt.Errorf("db exec error: %s", err)
	}

	return nil
}

func (s *StoreSqlite) Add(p Pending) (string, error) {
	conn, err := s.conn()
	if err != nil {
		return "", err
	}

	token := NewToken().String()
	_, err = conn.Exec(
		sqlitePendingQuery,
		token,
		p.Kind,
		p.HeldID,
		time.Now().Format(TimeFormat),
	)
	if err != nil {
		return "", fmt.Errorf("db exec error: %s", err)
	}

	return token, nil
}

func (s *StoreSqlite) Lookup(token string) (Pending, error) {
	conn, err := s.conn()
	if err != nil {
		return Pending{}, err
	}

	var p Pending
	err = conn.QueryRow(sqliteLookupQuery, token).Scan(&p.Kind, &p.HeldID)
	if err == sql.ErrNoRows {
		return Pending{}, ErrPendingNotFound
	}
	if err != nil {
		return Pending{}, fmt.Errorf("db scan error: %s", err)
	}

	return p, nil
}

func (s *StoreSqlite) HoldMessage(l *List, m *Message, meta *Metadata, reason string) (string, error) {
	conn, err := s.conn()
	if err != nil {
		return "", err
	}

	id := NewToken().String()
	_, err = conn.Exec(
		sqliteHeldQuery,
		id,
		l.Name,
		effectiveSender(m, meta),
		m.MessageID(),
		reason,
		m.Raw,
		time.Now().Format(TimeFormat),
	)
	if err != nil {
		return "", fmt.Errorf("db exec error: %s", err)
	}

	return id, nil
}
