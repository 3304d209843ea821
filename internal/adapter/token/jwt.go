package token

import (
	"errors"
	"time"

	"github.com/fintrack/user-auth-service/internal/core/domain"
	"github.com/fintrack/user-auth-service/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
)

const defaultValidity = time.Hour

type claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// JWTTokenService signs and verifies HS256 access tokens. The secret is
// injected at construction and never changes afterwards, so one instance
// serves concurrent callers.
type JWTTokenService struct {
	secretKey []byte
	validity  time.Duration
	logger    ports.LoggerPort
}

func NewJWTTokenService(secretKey string, durationStr string, logger ports.LoggerPort) *JWTTokenService {
	validity := defaultValidity
	if durationStr != "" {
		parsed, err := time.ParseDuration(durationStr)
		if err != nil {
			logger.Error("Invalid token duration, using default 1h", map[string]interface{}{
				"duration": durationStr,
				"error":    err.Error(),
			})
		} else {
			validity = parsed
		}
	}

	return &JWTTokenService{
		secretKey: []byte(secretKey),
		validity:  validity,
		logger:    logger,
	}
}

func (j *JWTTokenService) CreateToken(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.validity)),
		},
		UserID: userID,
	})
	return token.SignedString(j.secretKey)
}

// VerifyToken checks signature and expiry and returns the embedded payload.
// jwt.Parse enforces exp/iat itself, so an expired token surfaces as an error
// here rather than as a payload with a stale timestamp.
func (j *JWTTokenService) VerifyToken(tokenString string) (domain.TokenPayload, error) {
	parsed := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, parsed, func(t *jwt.Token) (interface{}, error) {
		return j.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return domain.TokenPayload{}, err
	}
	if !token.Valid {
		return domain.TokenPayload{}, errors.New("invalid token")
	}
	if parsed.UserID == "" {
		return domain.TokenPayload{}, errors.New("missing user_id claim")
	}

	payload := domain.TokenPayload{UserID: parsed.UserID}
	if parsed.ExpiresAt != nil {
		payload.ExpiresAt = parsed.ExpiresAt.Time
	}
	return payload, nil
}

var _ ports.TokenService = (*JWTTokenService)(nil)
