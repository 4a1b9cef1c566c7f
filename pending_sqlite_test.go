package vette

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStoreSqliteConst(t *testing.T) {
	var expect string
	var got string

	expect = "insert into pendings (token, kind, held_id, occurred_at) values ($1, $2, $3, $4)"
	got = sqlitePendingQuery
	if got != expect {
		t.Errorf("expected %s, got %s", expect, got)
	}

	expect = "insert into held_messages (id, list, sender, message_id, reason, message, occurred_at) values ($1, $2, $3, $4, $5, $6, $7)"
	got = sqliteHeldQuery
	if got != expect {
		t.Errorf("expected %s, got %s", expect, got)
	}
}

func TestStoreSqliteName(t *testing.T) {
	sqlite := &StoreSqlite{}
	expect := "sqlite"
	got := sqlite.Name()
	if got != expect {
		t.Errorf("expected %s, got %s", expect, got)
	}
}

func TestStoreSqliteConn(t *testing.T) {
	expectError := "missing dsn for sqlite, please set `DSN`"
	sqlite := &StoreSqlite{}
	_, err := sqlite.conn()

	if err != nil && fmt.Sprintf("%s", err) != expectError {
		t.Errorf("expected %s, got %s", expectError, err)
	}
}

func TestStoreSqliteAdd(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	mock.ExpectExec("insert into pendings").WithArgs(
		AnyToken{},
		PendKindHeldMessage,
		"held-1",
		AnyTime{},
	).WillReturnResult(sqlmock.NewResult(1, 1))

	sqlite := &StoreSqlite{pool: db}
	token, err := sqlite.Add(Pending{Kind: PendKindHeldMessage, HeldID: "held-1"})
	if err != nil {
		t.Fatalf("Add error: %s", err)
	}
	if token == "" {
		t.Error("expected a token")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %s", err)
	}
}

func TestStoreSqliteHoldMessage(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	m := testMessage(t, map[string]string{
		"From":       "alice@example.test",
		"Message-Id": "<x1@example.test>",
	}, "hi\n")

	mock.ExpectExec("insert into held_messages").WithArgs(
		AnyToken{},
		"dev",
		"alice@example.test",
		"<x1@example.test>",
		"Post to moderated list",
		m.Raw,
		AnyTime{},
	).WillReturnResult(sqlmock.NewResult(1, 1))

	sqlite := &StoreSqlite{pool: db}
	id, err := sqlite.HoldMessage(testList(), m, &Metadata{}, "Post to moderated list")
	if err != nil {
		t.Fatalf("HoldMessage error: %s", err)
	}
	if id == "" {
		t.Error("expected an id")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %s", err)
	}
}

func TestStoreSqliteLookup(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"kind", "held_id"}).AddRow(PendKindHeldMessage, "held-1")
	mock.ExpectQuery("select kind, held_id from pendings").WithArgs("tok-1").WillReturnRows(rows)

	sqlite := &StoreSqlite{pool: db}
	p, err := sqlite.Lookup("tok-1")
	if err != nil {
		t.Fatalf("Lookup error: %s", err)
	}
	if p.Kind != PendKindHeldMessage || p.HeldID != "held-1" {
		t.Errorf("unexpected pending: %+v", p)
	}
}

func TestStoreSqliteLookupMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"kind", "held_id"})
	mock.ExpectQuery("select kind, held_id from pendings").WithArgs("nope").WillReturnRows(rows)

	sqlite := &StoreSqlite{pool: db}
	if _, err := sqlite.Lookup("nope"); err != ErrPendingNotFound {
		t.Errorf("expected ErrPendingNotFound, got %s", err)
	}
}

func TestStoreSqliteIntegration(t *testing.T) {
	t.Setenv("DSN", filepath.Join(t.TempDir(), "vette.sqlite"))

	sqlite := &StoreSqlite{}
	if err := sqlite.Init(); err != nil {
		t.Fatalf("Init error: %s", err)
	}

	m := testMessage(t, map[string]string{"From": "alice@example.test"}, "hi\n")
	id, err := sqlite.HoldMessage(testList(), m, &Metadata{}, "Post to moderated list")
	if err != nil {
		t.Fatalf("HoldMessage error: %s", err)
	}

	token, err := sqlite.Add(Pending{Kind: PendKindHeldMessage, HeldID: id})
	if err != nil {
		t.Fatalf("Add error: %s", err)
	}

	p, err := sqlite.Lookup(token)
	if err != nil {
		t.Fatalf("Lookup error: %s", err)
	}
	if p.HeldID != id {
		t.Errorf("expected held id %s, got %s", id, p.HeldID)
	}
}
