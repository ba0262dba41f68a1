package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newSQLKV(t *testing.T) (*SQLKV, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSQLKV(db), mock
}

var (
	upsertSQL = regexp.QuoteMeta("INSERT INTO app_state (state_key, state_value, updated_at)")
	deleteSQL = regexp.QuoteMeta("DELETE FROM app_state WHERE state_key = ?")
	selectSQL = regexp.QuoteMeta("SELECT state_value FROM app_state WHERE state_key = ?")
)

func TestSQLKVEnsureSchema(t *testing.T) {
	kv, mock := newSQLKV(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS app_state")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	if err := kv.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSQLKVApplyIsOneTransaction(t *testing.T) {
	kv, mock := newSQLKV(t)
	mock.ExpectBegin()
	mock.ExpectExec(upsertSQL).WithArgs("a", []byte("1")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(upsertSQL).WithArgs("b", []byte("2")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(deleteSQL).WithArgs("c").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := kv.Apply(context.Background(), map[string][]byte{"b": []byte("2"), "a": []byte("1")}, []string{"c"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSQLKVApplyRollsBackOnError(t *testing.T) {
	kv, mock := newSQLKV(t)
	boom := errors.New("deadlock")
	mock.ExpectBegin()
	mock.ExpectExec(upsertSQL).WithArgs("a", []byte("1")).WillReturnError(boom)
	mock.ExpectRollback()

	err := kv.Apply(context.Background(), map[string][]byte{"a": []byte("1")}, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("Apply err = %v, want %v", err, boom)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSQLKVGet(t *testing.T) {
	kv, mock := newSQLKV(t)
	mock.ExpectQuery(selectSQL).WithArgs("role").
		WillReturnRows(sqlmock.NewRows([]string{"state_value"}).AddRow([]byte("x")))
	mock.ExpectQuery(selectSQL).WithArgs("missing").WillReturnError(sql.ErrNoRows)

	got, err := kv.Get(context.Background(), "role")
	if err != nil || string(got) != "x" {
		t.Fatalf("Get(role) = %q, %v", got, err)
	}
	if _, err := kv.Get(context.Background(), "missing"); err != ErrNotFound {
		t.Fatalf("Get(missing) err = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
