package services

import (
	"context"
	"sync"
	"testing"

	"github.com/fintrack/user-auth-service/internal/adapter/memory"
	"github.com/fintrack/user-auth-service/internal/adapter/token"
	"github.com/fintrack/user-auth-service/internal/core/domain"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}
func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Warn(string, map[string]interface{})  {}

func newAuthService(t *testing.T, store *memory.Store) *AuthService {
	t.Helper()
	tokens := token.NewJWTTokenService("test-secret", "1h", nopLogger{})
	return NewAuthService(store, tokens, nopLogger{}, validator.New())
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()
	s := newAuthService(t, memory.New())

	user, err := s.Register(context.Background(), "alice", "alice@example.com", "password1")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "password1", user.Password, "stored password must be a hash")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()
	s := newAuthService(t, memory.New())

	_, err := s.Register(context.Background(), "alice", "alice@example.com", "password1")
	require.NoError(t, err)

	_, err = s.Register(context.Background(), "other", "alice@example.com", "password2")
	assert.ErrorIs(t, err, domain.ErrEmailExists)
}

func TestRegister_ConcurrentSameEmail(t *testing.T) {
	t.Parallel()
	s := newAuthService(t, memory.New())

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Register(context.Background(), "bob", "bob@ex.com", "s3cret99")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, domain.ErrEmailExists)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one registration may win")
}

func TestRegister_ValidationFailures(t *testing.T) {
	t.Parallel()
	s := newAuthService(t, memory.New())

	cases := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"bad email", "alice", "not-an-email", "password1"},
		{"short password", "alice", "alice@example.com", "short"},
		{"missing name", "", "alice@example.com", "password1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Register(context.Background(), tc.username, tc.email, tc.password)
			assert.Error(t, err)
		})
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	t.Parallel()
	s := newAuthService(t, memory.New())

	_, err := s.Login(context.Background(), "nobody@example.com", "whatever1")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()
	s := newAuthService(t, memory.New())

	_, err := s.Register(context.Background(), "bob", "bob@ex.com", "s3cret99")
	require.NoError(t, err)

	_, err = s.Login(context.Background(), "bob@ex.com", "wrong-password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()
	s := newAuthService(t, memory.New())

	registered, err := s.Register(context.Background(), "bob", "bob@ex.com", "s3cret99")
	require.NoError(t, err)

	tok, err := s.Login(context.Background(), "bob@ex.com", "s3cret99")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	user, err := s.Authenticate(context.Background(), tok)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, registered.ID, user.ID)
}

func TestAuthenticate_RoundTrip(t *testing.T) {
	t.Parallel()
	s := newAuthService(t, memory.New())

	_, err := s.Register(context.Background(), "alice", "alice@example.com", "password1")
	require.NoError(t, err)

	tok, err := s.Login(context.Background(), "alice@example.com", "password1")
	require.NoError(t, err)

	user, err := s.Authenticate(context.Background(), tok)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "alice@example.com", user.Email)
}

func TestAuthenticate_AbsenceModes(t *testing.T) {
	t.Parallel()
	store := memory.New()
	s := newAuthService(t, store)

	registered, err := s.Register(context.Background(), "carol", "carol@example.com", "password1")
	require.NoError(t, err)

	t.Run("malformed token", func(t *testing.T) {
		user, err := s.Authenticate(context.Background(), "garbage")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("wrong secret", func(t *testing.T) {
		foreign := token.NewJWTTokenService("other-secret", "1h", nopLogger{})
		tok, err := foreign.CreateToken(registered.ID)
		require.NoError(t, err)

		user, err := s.Authenticate(context.Background(), tok)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := token.NewJWTTokenService("test-secret", "-1s", nopLogger{})
		tok, err := expired.CreateToken(registered.ID)
		require.NoError(t, err)

		user, err := s.Authenticate(context.Background(), tok)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("deleted user", func(t *testing.T) {
		tok, err := s.Login(context.Background(), "carol@example.com", "password1")
		require.NoError(t, err)
		require.NoError(t, store.DeleteUser(context.Background(), registered.ID))

		user, err := s.Authenticate(context.Background(), tok)
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}
