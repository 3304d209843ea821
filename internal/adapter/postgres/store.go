// Package postgres implements the store contract against a PostgreSQL
// server. Schema lives in goose migrations under migrations/ and is applied
// at startup; Init only verifies connectivity.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fintrack/user-auth-service/internal/core/domain"
	"github.com/fintrack/user-auth-service/internal/core/ports"

	"github.com/lib/pq"
)

// uniqueViolation is the class 23 integrity error raised when an insert hits
// the users email unique constraint.
const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Init(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) InsertUser(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (id, name, email, password_hash)
		VALUES ($1, $2, $3, $4)`

	if _, err := s.db.ExecContext(ctx, query, user.ID, user.Name, user.Email, user.Password); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT id, name, email, password_hash FROM users WHERE id = $1`
	return s.getUser(ctx, query, id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, name, email, password_hash FROM users WHERE email = $1`
	return s.getUser(ctx, query, email)
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
	query := `UPDATE users
		SET name = $1, email = $2, password_hash = $3
		WHERE id = $4`

	result, err := s.db.ExecContext(ctx, query, user.Name, user.Email, user.Password, id)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if affected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (s *Store) GetUserPreferences(ctx context.Context, userID string) (*domain.Preference, error) {
	query := `SELECT id, user_id, theme, currency, language, notifications
		FROM preferences WHERE user_id = $1`

	prefs := &domain.Preference{}
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&prefs.ID, &prefs.UserID, &prefs.Theme, &prefs.Currency,
		&prefs.Language, &prefs.Notifications)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPreferencesNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	return prefs, nil
}

func (s *Store) UpsertUserPreferences(ctx context.Context, userID string, prefs *domain.Preference) error {
	query := `INSERT INTO preferences (id, user_id, theme, currency, language, notifications)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			theme = EXCLUDED.theme,
			currency = EXCLUDED.currency,
			language = EXCLUDED.language,
			notifications = EXCLUDED.notifications`

	if _, err := s.db.ExecContext(ctx, query,
		prefs.ID, userID, prefs.Theme, prefs.Currency, prefs.Language, prefs.Notifications); err != nil {
		return fmt.Errorf("upsert preferences: %w", err)
	}
	return nil
}

func (s *Store) GetUserTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	query := `SELECT id, user_id, name, amount, description, date, category, source
		FROM transactions WHERE user_id = $1`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get transactions: %w", err)
	}
	defer rows.Close()

	txs := []domain.Transaction{}
	for rows.Next() {
		var tx domain.Transaction
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Name, &tx.Amount,
			&tx.Description, &tx.Date, &tx.Category, &tx.Source); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get transactions: %w", err)
	}
	return txs, nil
}

func (s *Store) InsertUserTransaction(ctx context.Context, userID string, tx *domain.Transaction) error {
	query := `INSERT INTO transactions (id, user_id, name, amount, description, date, category, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if _, err := s.db.ExecContext(ctx, query,
		tx.ID, userID, tx.Name, tx.Amount, tx.Description, tx.Date, tx.Category, tx.Source); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (s *Store) UpdateUserTransaction(ctx context.Context, userID, txID string, tx *domain.Transaction) error {
	query := `UPDATE transactions
		SET name = $1, amount = $2, description = $3, date = $4, category = $5, source = $6
		WHERE id = $7 AND user_id = $8`

	if _, err := s.db.ExecContext(ctx, query,
		tx.Name, tx.Amount, tx.Description, tx.Date, tx.Category, tx.Source, txID, userID); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return nil
}

func (s *Store) DeleteUserTransaction(ctx context.Context, userID, txID string) error {
	query := `DELETE FROM transactions WHERE id = $1 AND user_id = $2`
	if _, err := s.db.ExecContext(ctx, query, txID, userID); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}

var _ ports.Store = (*Store)(nil)
