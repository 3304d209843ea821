package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/fintrack/user-auth-service/internal/core/domain"
	"github.com/fintrack/user-auth-service/internal/core/ports"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService ports.AuthService
	logger      ports.LoggerPort
	metrics     ports.MetricsPort
}

func NewAuthHandler(
	authService ports.AuthService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
		metrics:     metrics,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required" example:"Alice Smith"`
	Email    string `json:"email" binding:"required,email" example:"alice@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"alice@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

type UserInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toUserInfo(user *domain.User) UserInfo {
	return UserInfo{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in registration", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrEmailExists) {
			h.logger.Info("Registration failed: duplicate email", map[string]interface{}{
				"email": req.Email,
			})
			newErrorResponse(c, http.StatusConflict, "Email already registered")
			return
		}
		newErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.Info("User registered", map[string]interface{}{
		"user_id": user.ID,
	})
	newSuccessResponse(c, http.StatusCreated, "User created", toUserInfo(user))
}

// Login collapses "no such user" and "wrong password" into one generic 401;
// the internal distinction stays in service logs only.
func (h *AuthHandler) Login(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in login", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid request")
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrInvalidCredentials) {
			newErrorResponse(c, http.StatusUnauthorized, "invalid email or password")
			return
		}
		newErrorResponse(c, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	user, err := h.authService.Authenticate(c.Request.Context(), token)
	if err != nil || user == nil {
		newErrorResponse(c, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	h.logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
	})
	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User:  toUserInfo(user),
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	user, ok := getAuthUser(c)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "authorization required")
		return
	}
	newSuccessResponse(c, http.StatusOK, "", toUserInfo(user))
}
