// Package redisstore implements the store contract as a document backend:
// users and preferences are JSON documents under plain keys, a user's ledger
// is a hash of JSON entries, and email uniqueness is an atomic SETNX claim on
// an index key.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fintrack/user-auth-service/internal/core/domain"
	"github.com/fintrack/user-auth-service/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

type Store struct {
	client *redis.Client
}

// userDoc is the stored shape of a user. domain.User hides the password hash
// from JSON output, so the document gets its own field set.
type userDoc struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
}

func toUserDoc(user *domain.User) userDoc {
	return userDoc{ID: user.ID, Name: user.Name, Email: user.Email, PasswordHash: user.Password}
}

func (d userDoc) toDomain() *domain.User {
	return &domain.User{ID: d.ID, Name: d.Name, Email: d.Email, Password: d.PasswordHash}
}

func New(client *redis.Client) *Store {
	return &Store{client: client}
}

func userKey(id string) string      { return "user:" + id }
func emailKey(email string) string  { return "email:" + email }
func prefsKey(userID string) string { return "prefs:" + userID }
func txsKey(userID string) string   { return "txs:" + userID }

// Init verifies the server is reachable. Redis needs no schema.
func (s *Store) Init(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// InsertUser claims the email index with SETNX before writing the document.
// SETNX is atomic on the server, so concurrent inserts with the same email
// resolve to exactly one winner. A failed document write releases the claim.
func (s *Store) InsertUser(ctx context.Context, user *domain.User) error {
	claimed, err := s.client.SetNX(ctx, emailKey(user.Email), user.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("claim email: %w", err)
	}
	if !claimed {
		return domain.ErrEmailExists
	}

	data, err := json.Marshal(toUserDoc(user))
	if err != nil {
		s.client.Del(ctx, emailKey(user.Email))
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := s.client.Set(ctx, userKey(user.ID), data, 0).Err(); err != nil {
		s.client.Del(ctx, emailKey(user.Email))
		return fmt.Errorf("store user: %w", err)
	}
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	data, err := s.client.Get(ctx, userKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	doc := userDoc{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return doc.toDomain(), nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	id, err := s.client.Get(ctx, emailKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve email: %w", err)
	}
	return s.GetUserByID(ctx, id)
}

func (s *Store) UpdateUser(ctx context.Context, id string, user *domain.User) error {
	existing, err := s.GetUserByID(ctx, id)
	if err != nil {
		return err
	}

	if user.Email != existing.Email {
		claimed, err := s.client.SetNX(ctx, emailKey(user.Email), id, 0).Result()
		if err != nil {
			return fmt.Errorf("claim email: %w", err)
		}
		if !claimed {
			return domain.ErrEmailExists
		}
		s.client.Del(ctx, emailKey(existing.Email))
	}

	updated := *user
	updated.ID = id
	data, err := json.Marshal(toUserDoc(&updated))
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := s.client.Set(ctx, userKey(id), data, 0).Err(); err != nil {
		return fmt.Errorf("store user: %w", err)
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	user, err := s.GetUserByID(ctx, id)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, userKey(id))
	pipe.Del(ctx, emailKey(user.Email))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (s *Store) GetUserPreferences(ctx context.Context, userID string) (*domain.Preference, error) {
	data, err := s.client.Get(ctx, prefsKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrPreferencesNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	prefs := &domain.Preference{}
	if err := json.Unmarshal(data, prefs); err != nil {
		return nil, fmt.Errorf("decode preferences: %w", err)
	}
	return prefs, nil
}

func (s *Store) UpsertUserPreferences(ctx context.Context, userID string, prefs *domain.Preference) error {
	stored := *prefs
	stored.UserID = userID
	data, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}
	if err := s.client.Set(ctx, prefsKey(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("store preferences: %w", err)
	}
	return nil
}

func (s *Store) GetUserTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	entries, err := s.client.HGetAll(ctx, txsKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("get transactions: %w", err)
	}
	txs := []domain.Transaction{}
	for _, raw := range entries {
		var tx domain.Transaction
		if err := json.Unmarshal([]byte(raw), &tx); err != nil {
			return nil, fmt.Errorf("decode transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func (s *Store) InsertUserTransaction(ctx context.Context, userID string, tx *domain.Transaction) error {
	stored := *tx
	stored.UserID = userID
	data, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("marshal transaction: %w", err)
	}
	if err := s.client.HSet(ctx, txsKey(userID), tx.ID, data).Err(); err != nil {
		return fmt.Errorf("store transaction: %w", err)
	}
	return nil
}

// UpdateUserTransaction only writes when the entry already exists in this
// user's hash, so a foreign transaction id is a no-op rather than a create.
func (s *Store) UpdateUserTransaction(ctx context.Context, userID, txID string, tx *domain.Transaction) error {
	exists, err := s.client.HExists(ctx, txsKey(userID), txID).Result()
	if err != nil {
		return fmt.Errorf("check transaction: %w", err)
	}
	if !exists {
		return nil
	}
	updated := *tx
	updated.ID = txID
	updated.UserID = userID
	data, err := json.Marshal(&updated)
	if err != nil {
		return fmt.Errorf("marshal transaction: %w", err)
	}
	if err := s.client.HSet(ctx, txsKey(userID), txID, data).Err(); err != nil {
		return fmt.Errorf("store transaction: %w", err)
	}
	return nil
}

func (s *Store) DeleteUserTransaction(ctx context.Context, userID, txID string) error {
	if err := s.client.HDel(ctx, txsKey(userID), txID).Err(); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

var _ ports.Store = (*Store)(nil)
