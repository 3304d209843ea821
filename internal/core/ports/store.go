package ports

import (
	"context"

	"github.com/fintrack/user-auth-service/internal/core/domain"
)

// Store is the capability set every storage backend must expose. The auth
// core only ever talks to this interface, so any backend satisfying it is
// interchangeable without touching service code.
//
// Semantics every implementation must honor:
//
//   - InsertUser is atomic with respect to email uniqueness: under any
//     interleaving of concurrent inserts with the same email, exactly one
//     succeeds and the rest get domain.ErrEmailExists.
//   - Lookups report absence with the domain sentinel errors, never with a
//     nil result and nil error.
//   - UpdateUser on a missing id returns domain.ErrUserNotFound; DeleteUser
//     on a missing id is an idempotent no-op.
//   - Transaction updates and deletes are scoped by both the transaction id
//     and the owning user id; a mismatched pair touches nothing.
//   - Identifiers are generated by the caller, never by the store.
type Store interface {
	// Init idempotently prepares the backend: opens connections, creates
	// schema if absent. Safe to call on every startup.
	Init(ctx context.Context) error

	InsertUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, user *domain.User) error
	DeleteUser(ctx context.Context, id string) error

	GetUserPreferences(ctx context.Context, userID string) (*domain.Preference, error)
	UpsertUserPreferences(ctx context.Context, userID string, prefs *domain.Preference) error

	GetUserTransactions(ctx context.Context, userID string) ([]domain.Transaction, error)
	InsertUserTransaction(ctx context.Context, userID string, tx *domain.Transaction) error
	UpdateUserTransaction(ctx context.Context, userID, txID string, tx *domain.Transaction) error
	DeleteUserTransaction(ctx context.Context, userID, txID string) error

	Close() error
}
