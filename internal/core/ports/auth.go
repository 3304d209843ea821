package ports

import (
	"context"

	"github.com/fintrack/user-auth-service/internal/core/domain"
)

type TokenService interface {
	CreateToken(userID string) (string, error)
	VerifyToken(token string) (domain.TokenPayload, error)
}

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	// Authenticate resolves a bearer token to its user. Every token failure
	// (malformed, bad signature, expired) and a deleted user all yield
	// (nil, nil); only store infrastructure errors are returned.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}
