package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/fintrack/user-auth-service/internal/core/domain"
	"github.com/fintrack/user-auth-service/internal/core/ports"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService implements registration, login and token authentication on top
// of a Store. It holds no mutable state of its own, so a single instance is
// safe for concurrent use; correctness under racing registrations is owned by
// the store's atomic uniqueness guarantee, not by any lock here.
type AuthService struct {
	store    ports.Store
	tokens   ports.TokenService
	logger   ports.LoggerPort
	validate *validator.Validate
}

func NewAuthService(
	store ports.Store,
	tokens ports.TokenService,
	logger ports.LoggerPort,
	validate *validator.Validate,
) *AuthService {
	return &AuthService{
		store:    store,
		tokens:   tokens,
		logger:   logger,
		validate: validate,
	}
}

// Register creates a new user with a bcrypt-hashed password and a fresh
// random id. The email lookup before the insert is only a fast path for a
// friendlier rejection; the store's uniqueness constraint decides the race.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	user := &domain.User{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    email,
		Password: password,
	}

	if err := s.validate.Struct(user); err != nil {
		s.logger.Error("Validation failed", map[string]interface{}{
			"error":  err.Error(),
			"method": "Register",
		})
		return nil, fmt.Errorf("validation failed: %s", err.Error())
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("Error during hashing", map[string]interface{}{
			"error":  err.Error(),
			"method": "Register",
		})
		return nil, err
	}
	user.Password = string(hashedPassword)

	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		s.logger.Info("Registration rejected: duplicate email", map[string]interface{}{
			"email": email,
		})
		return nil, domain.ErrEmailExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	if err := s.store.InsertUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailExists) {
			s.logger.Info("Registration lost insert race", map[string]interface{}{
				"email": email,
			})
			return nil, domain.ErrEmailExists
		}
		s.logger.Error("Failed to create user", map[string]interface{}{
			"error":  err.Error(),
			"method": "Register",
		})
		return nil, err
	}

	return user, nil
}

// Login verifies the password against the stored hash and issues a signed
// token bound to the user's id. ErrUserNotFound and ErrInvalidCredentials
// stay distinct here for logging; external surfaces are expected to collapse
// them into one generic response.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrUserNotFound
		}
		s.logger.Error("Failed to get user by email", map[string]interface{}{
			"error":  err.Error(),
			"method": "Login",
		})
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.logger.Info("Invalid password attempt", map[string]interface{}{
			"email": email,
		})
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.CreateToken(user.ID)
	if err != nil {
		s.logger.Error("Failed to create token", map[string]interface{}{
			"error":   err.Error(),
			"user_id": user.ID,
		})
		return "", err
	}
	return token, nil
}

// Authenticate redeems a token for its user. Every way the token can be bad
// (malformed, wrong signature, expired) and a user deleted after issuance all
// collapse to (nil, nil) so callers cannot tell the failure modes apart.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	payload, err := s.tokens.VerifyToken(token)
	if err != nil {
		return nil, nil
	}

	user, err := s.store.GetUserByID(ctx, payload.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		s.logger.Error("Failed to resolve token user", map[string]interface{}{
			"error":   err.Error(),
			"user_id": payload.UserID,
		})
		return nil, err
	}
	return user, nil
}

var _ ports.AuthService = (*AuthService)(nil)
