package vette

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

const (
	mysqlPendingQuery string = "insert into pendings (token, kind, held_id, occurred_at) values (?, ?, ?, ?)"
	mysqlLookupQuery  string = "select kind, held_id from pendings where token = ?"
	mysqlHeldQuery    string = "insert into held_messages (id, list, sender, message_id, reason, message, occurred_at) values (?, ?, ?, ?, ?, ?, ?)"
)

type StoreMysql struct {
	pool *sql.DB // Database connection pool.
}

func (s *StoreMysql) Name() string {
	return "mysql"
}

func (s *StoreMysql) conn() (*sql.DB, error) {
	if s.pool != nil {
		return s.pool, nil
	}

	dsn := os.Getenv("DSN")
	if len(dsn) == 0 {
		return nil, fmt.Errorf("missing dsn for mysql, please set `DSN`")
	}

	var err error
	s.pool, err = sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open error: %s", err)
	}

	return s.pool, nil
}

// Init is a no-op: mysql tables are provisioned out of band.
func (s *StoreMysql) Init() error {
	return nil
}

func (s *StoreMysql) Add(p Pending) (string, error) {
	conn, err := s.conn()
	if err != nil {
		return "", err
	}

	token := NewToken().String()
	_, err = conn.Exec(
		mysqlPendingQuery,
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

func (s *StoreMysql) Lookup(token string) (Pending, error) {
	conn, err := s.conn()
	if err != nil {
		return Pending{}, err
	}

	var p Pending
	err = conn.QueryRow(mysqlLookupQuery, token).Scan(&p.Kind, &p.HeldID)
	if err == sql.ErrNoRows {
		return Pending{}, ErrPendingNotFound
	}
	if err != nil {
		return Pending{}, fmt.Errorf("db scan error: %s", err)
	}

	return p, nil
}

func (s *StoreMysql) HoldMessage(l *List, m *Message, meta *Metadata, reason string) (string, error) {
	conn, err := s.conn()
	if err != nil {
		return "", err
	}

	id := NewToken().String()
	_, err = conn.Exec(
		mysqlHeldQuery,
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
