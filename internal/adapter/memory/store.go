// Package memory is a map-backed store used by tests and local development.
// Email uniqueness is checked under the write lock, which makes InsertUser
// atomic by construction.
package memory

import (
	"context"
	"sync"

	"github.com/fintrack/user-auth-service/internal/core/domain"
	"github.com/fintrack/user-auth-service/internal/core/ports"
)

type Store struct {
	mu           sync.RWMutex
	users        map[string]domain.User
	emails       map[string]string // email -> user id
	preferences  map[string]domain.Preference       // keyed by user id
	transactions map[string]map[string]domain.Transaction // user id -> tx id -> tx
}

func New() *Store {
	return &Store{
		users:        make(map[string]domain.User),
		emails:       make(map[string]string),
		preferences:  make(map[string]domain.Preference),
		transactions: make(map[string]map[string]domain.Transaction),
	}
}

func (s *Store) Init(ctx context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func (s *Store) InsertUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.emails[user.Email]; taken {
		return domain.ErrEmailExists
	}
	s.users[user.ID] = *user
	s.emails[user.Email] = user.ID
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user := s.users[id]
	return &user, nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if user.Email != existing.Email {
		if owner, taken := s.emails[user.Email]; taken && owner != id {
			return domain.ErrEmailExists
		}
		delete(s.emails, existing.Email)
		s.emails[user.Email] = id
	}
	updated := *user
	updated.ID = id
	s.users[id] = updated
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user, ok := s.users[id]; ok {
		delete(s.emails, user.Email)
		delete(s.users, id)
	}
	return nil
}

func (s *Store) GetUserPreferences(ctx context.Context, userID string) (*domain.Preference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefs, ok := s.preferences[userID]
	if !ok {
		return nil, domain.ErrPreferencesNotFound
	}
	return &prefs, nil
}

func (s *Store) UpsertUserPreferences(ctx context.Context, userID string, prefs *domain.Preference) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *prefs
	stored.UserID = userID
	if existing, ok := s.preferences[userID]; ok {
		stored.ID = existing.ID
	}
	s.preferences[userID] = stored
	return nil
}

func (s *Store) GetUserTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txs := []domain.Transaction{}
	for _, tx := range s.transactions[userID] {
		txs = append(txs, tx)
	}
	return txs, nil
}

func (s *Store) InsertUserTransaction(ctx context.Context, userID string, tx *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.transactions[userID] == nil {
		s.transactions[userID] = make(map[string]domain.Transaction)
	}
	stored := *tx
	stored.UserID = userID
	s.transactions[userID][tx.ID] = stored
	return nil
}

func (s *Store) UpdateUserTransaction(ctx context.Context, userID, txID string, tx *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	owned, ok := s.transactions[userID][txID]
	if !ok {
		return nil
	}
	updated := *tx
	updated.ID = owned.ID
	updated.UserID = userID
	s.transactions[userID][txID] = updated
	return nil
}

func (s *Store) DeleteUserTransaction(ctx context.Context, userID, txID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.transactions[userID], txID)
	return nil
}

var _ ports.Store = (*Store)(nil)
