package services

import (
	"context"
	"fmt"
	"time"

	"github.com/fintrack/user-auth-service/internal/core/domain"
	"github.com/fintrack/user-auth-service/internal/core/ports"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ProfileService exposes the per-user preference and transaction surface of
// the store. Ownership scoping is enforced by the store contract itself, so
// the service stays a thin validation-and-id layer.
type ProfileService struct {
	store    ports.Store
	logger   ports.LoggerPort
	validate *validator.Validate
}

func NewProfileService(
	store ports.Store,
	logger ports.LoggerPort,
	validate *validator.Validate,
) *ProfileService {
	return &ProfileService{
		store:    store,
		logger:   logger,
		validate: validate,
	}
}

func (s *ProfileService) GetPreferences(ctx context.Context, userID string) (*domain.Preference, error) {
	return s.store.GetUserPreferences(ctx, userID)
}

// SavePreferences upserts the user's single preference record. A missing id
// gets a fresh one; callers never need a separate create path.
func (s *ProfileService) SavePreferences(ctx context.Context, userID string, prefs *domain.Preference) (*domain.Preference, error) {
	if prefs.ID == "" {
		prefs.ID = uuid.NewString()
	}
	prefs.UserID = userID

	if err := s.validate.Struct(prefs); err != nil {
		s.logger.Error("Validation failed", map[string]interface{}{
			"error":  err.Error(),
			"method": "SavePreferences",
		})
		return nil, fmt.Errorf("validation failed: %s", err.Error())
	}

	if err := s.store.UpsertUserPreferences(ctx, userID, prefs); err != nil {
		s.logger.Error("Failed to upsert preferences", map[string]interface{}{
			"error":   err.Error(),
			"user_id": userID,
		})
		return nil, err
	}
	return prefs, nil
}

func (s *ProfileService) ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	return s.store.GetUserTransactions(ctx, userID)
}

func (s *ProfileService) AddTransaction(ctx context.Context, userID string, tx *domain.Transaction) (*domain.Transaction, error) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	tx.UserID = userID
	if tx.Date.IsZero() {
		tx.Date = time.Now().UTC()
	}

	if err := s.validate.Struct(tx); err != nil {
		s.logger.Error("Validation failed", map[string]interface{}{
			"error":  err.Error(),
			"method": "AddTransaction",
		})
		return nil, fmt.Errorf("validation failed: %s", err.Error())
	}

	if err := s.store.InsertUserTransaction(ctx, userID, tx); err != nil {
		s.logger.Error("Failed to insert transaction", map[string]interface{}{
			"error":   err.Error(),
			"user_id": userID,
		})
		return nil, err
	}
	return tx, nil
}

func (s *ProfileService) UpdateTransaction(ctx context.Context, userID, txID string, tx *domain.Transaction) error {
	tx.ID = txID
	tx.UserID = userID
	if err := s.validate.Struct(tx); err != nil {
		return fmt.Errorf("validation failed: %s", err.Error())
	}
	return s.store.UpdateUserTransaction(ctx, userID, txID, tx)
}

func (s *ProfileService) RemoveTransaction(ctx context.Context, userID, txID string) error {
	return s.store.DeleteUserTransaction(ctx, userID, txID)
}
