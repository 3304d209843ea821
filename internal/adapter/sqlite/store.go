// Package sqlite is the reference store backend: an embedded relational
// engine carrying the schema and error-translation rules every other backend
// mirrors.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fintrack/user-auth-service/internal/core/domain"
	"github.com/fintrack/user-auth-service/internal/core/ports"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	usersTable        = "users"
	preferencesTable  = "preferences"
	transactionsTable = "transactions"
)

type Store struct {
	db *sql.DB
}

// New opens the database file (":memory:" works for tests). The schema is
// not touched until Init.
func New(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		dsn += "?_busy_timeout=5000"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// modernc's driver serializes writes through a single connection; more
	// than one would trade SQLITE_BUSY errors for nothing.
	db.SetMaxOpenConns(1)
	return &Store{db: db}, nil
}

// Init creates the three tables if absent. Safe to call on every startup.
func (s *Store) Init(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ` + usersTable + ` (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			passwordHash TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ` + preferencesTable + ` (
			id TEXT PRIMARY KEY,
			userId TEXT NOT NULL UNIQUE,
			theme TEXT,
			currency TEXT,
			language TEXT,
			notifications INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS ` + transactionsTable + ` (
			id TEXT PRIMARY KEY,
			userId TEXT NOT NULL,
			name TEXT,
			amount REAL,
			description TEXT,
			date TEXT,
			category TEXT,
			source TEXT
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) InsertUser(ctx context.Context, user *domain.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO `+usersTable+` (id, name, email, passwordHash) VALUES (?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.Password)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return s.getUser(ctx, `SELECT id, name, email, passwordHash FROM `+usersTable+` WHERE id = ?`, id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getUser(ctx, `SELECT id, name, email, passwordHash FROM `+usersTable+` WHERE email = ?`, email)
}

func (s *Store) getUser(ctx context.Context, query string, arg string) (*domain.User, error) {
	user := &domain.User{}
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Name, &user.Email, &user.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, user *domain.User) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE `+usersTable+` SET name = ?, email = ?, passwordHash = ? WHERE id = ?`,
		user.Name, user.Email, user.Password, id)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if affected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM `+usersTable+` WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (s *Store) GetUserPreferences(ctx context.Context, userID string) (*domain.Preference, error) {
	prefs := &domain.Preference{}
	var notifications int
	err := s.db.QueryRowContext(ctx,
		`SELECT id, userId, theme, currency, language, notifications FROM `+preferencesTable+` WHERE userId = ?`,
		userID).Scan(&prefs.ID, &prefs.UserID, &prefs.Theme, &prefs.Currency, &prefs.Language, &notifications)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPreferencesNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	prefs.Notifications = notifications != 0
	return prefs, nil
}

func (s *Store) UpsertUserPreferences(ctx context.Context, userID string, prefs *domain.Preference) error {
	notifications := 0
	if prefs.Notifications {
		notifications = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO `+preferencesTable+` (id, userId, theme, currency, language, notifications)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(userId) DO UPDATE SET
			theme = excluded.theme,
			currency = excluded.currency,
			language = excluded.language,
			notifications = excluded.notifications`,
		prefs.ID, userID, prefs.Theme, prefs.Currency, prefs.Language, notifications)
	if err != nil {
		return fmt.Errorf("upsert preferences: %w", err)
	}
	return nil
}

func (s *Store) GetUserTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, userId, name, amount, description, date, category, source
		 FROM `+transactionsTable+` WHERE userId = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("get transactions: %w", err)
	}
	defer rows.Close()

	txs := []domain.Transaction{}
	for rows.Next() {
		var tx domain.Transaction
		var date string
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Name, &tx.Amount,
			&tx.Description, &date, &tx.Category, &tx.Source); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339Nano, date); err == nil {
			tx.Date = parsed
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get transactions: %w", err)
	}
	return txs, nil
}

func (s *Store) InsertUserTransaction(ctx context.Context, userID string, tx *domain.Transaction) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO `+transactionsTable+` (id, userId, name, amount, description, date, category, source)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, userID, tx.Name, tx.Amount, tx.Description,
		tx.Date.UTC().Format(time.RFC3339Nano), tx.Category, tx.Source)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// UpdateUserTransaction filters by both ids: a transaction owned by another
// user is left untouched.
func (s *Store) UpdateUserTransaction(ctx context.Context, userID, txID string, tx *domain.Transaction) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE `+transactionsTable+`
		 SET name = ?, amount = ?, description = ?, date = ?, category = ?, source = ?
		 WHERE id = ? AND userId = ?`,
		tx.Name, tx.Amount, tx.Description, tx.Date.UTC().Format(time.RFC3339Nano),
		tx.Category, tx.Source, txID, userID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return nil
}

func (s *Store) DeleteUserTransaction(ctx context.Context, userID, txID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM `+transactionsTable+` WHERE id = ? AND userId = ?`, txID, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT, sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}

var _ ports.Store = (*Store)(nil)
