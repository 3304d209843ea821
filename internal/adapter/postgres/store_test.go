package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fintrack/user-auth-service/internal/core/domain"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func TestInsertUser_TranslatesUniqueViolation(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs("u1", "alice", "alice@example.com", "hash").
		WillReturnError(&pq.Error{Code: "23505"})

	err := s.InsertUser(context.Background(), &domain.User{
		ID: "u1", Name: "alice", Email: "alice@example.com", Password: "hash",
	})
	assert.ErrorIs(t, err, domain.ErrEmailExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertUser_OtherErrorsPassThrough(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(&pq.Error{Code: "23502"})

	err := s.InsertUser(context.Background(), &domain.User{ID: "u1"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrEmailExists)
}

func TestGetUserByEmail_NoRowsIsNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, email, password_hash FROM users WHERE email = $1`)).
		WithArgs("ghost@ex.com").
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetUserByEmail(context.Background(), "ghost@ex.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestGetUserByID_ScansRow(t *testing.T) {
	s, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "name", "email", "password_hash"}).
		AddRow("u1", "alice", "alice@example.com", "hash")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, email, password_hash FROM users WHERE id = $1`)).
		WithArgs("u1").
		WillReturnRows(rows)

	user, err := s.GetUserByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "hash", user.Password)
}

func TestUpdateUser_MissingRowIsNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users`)).
		WithArgs("alice", "alice@example.com", "hash", "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.UpdateUser(context.Background(), "ghost", &domain.User{
		Name: "alice", Email: "alice@example.com", Password: "hash",
	})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestDeleteUser_MissingRowIsNoop(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, s.DeleteUser(context.Background(), "ghost"))
}

func TestDeleteUserTransaction_ScopedByOwner(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM transactions WHERE id = $1 AND user_id = $2`)).
		WithArgs("t1", "userB").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, s.DeleteUserTransaction(context.Background(), "userB", "t1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserPreferences_NoRowsIsNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, theme, currency, language, notifications`)).
		WithArgs("u1").
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetUserPreferences(context.Background(), "u1")
	assert.ErrorIs(t, err, domain.ErrPreferencesNotFound)
}

func TestInit_UnreachableIsStoreUnavailable(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	s := New(db)

	mock.ExpectPing().WillReturnError(sql.ErrConnDone)

	err = s.Init(context.Background())
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}
