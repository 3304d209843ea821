package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/fintrack/user-auth-service/internal/core/domain"
	"github.com/fintrack/user-auth-service/internal/core/ports"
	"github.com/fintrack/user-auth-service/internal/core/services"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService *services.ProfileService
	logger         ports.LoggerPort
	metrics        ports.MetricsPort
}

func NewProfileHandler(
	profileService *services.ProfileService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		logger:         logger,
		metrics:        metrics,
	}
}

type PreferencesRequest struct {
	Theme         string `json:"theme" binding:"required" example:"dark"`
	Currency      string `json:"currency" binding:"required" example:"EUR"`
	Language      string `json:"language" binding:"required" example:"en"`
	Notifications bool   `json:"notifications"`
}

type TransactionRequest struct {
	Name        string    `json:"name" binding:"required" example:"Groceries"`
	Amount      float64   `json:"amount" binding:"required" example:"42.50"`
	Description string    `json:"description" example:"Weekly shop"`
	Date        time.Time `json:"date"`
	Category    string    `json:"category" example:"food"`
	Source      string    `json:"source" example:"manual"`
}

func (h *ProfileHandler) GetPreferences(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	user, ok := getAuthUser(c)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "authorization required")
		return
	}

	prefs, err := h.profileService.GetPreferences(c.Request.Context(), user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrPreferencesNotFound) {
			newErrorResponse(c, http.StatusNotFound, "Preferences not set")
			return
		}
		newErrorResponse(c, http.StatusServiceUnavailable, "service unavailable")
		return
	}
	newSuccessResponse(c, http.StatusOK, "", prefs)
}

func (h *ProfileHandler) SavePreferences(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	user, ok := getAuthUser(c)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "authorization required")
		return
	}

	var req PreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	prefs, err := h.profileService.SavePreferences(c.Request.Context(), user.ID, &domain.Preference{
		Theme:         req.Theme,
		Currency:      req.Currency,
		Language:      req.Language,
		Notifications: req.Notifications,
	})
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	newSuccessResponse(c, http.StatusOK, "Preferences saved", prefs)
}

func (h *ProfileHandler) ListTransactions(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	user, ok := getAuthUser(c)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "authorization required")
		return
	}

	txs, err := h.profileService.ListTransactions(c.Request.Context(), user.ID)
	if err != nil {
		newErrorResponse(c, http.StatusServiceUnavailable, "service unavailable")
		return
	}
	newSuccessResponse(c, http.StatusOK, "", txs)
}

func (h *ProfileHandler) AddTransaction(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	user, ok := getAuthUser(c)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "authorization required")
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	tx, err := h.profileService.AddTransaction(c.Request.Context(), user.ID, &domain.Transaction{
		Name:        req.Name,
		Amount:      req.Amount,
		Description: req.Description,
		Date:        req.Date,
		Category:    req.Category,
		Source:      req.Source,
	})
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	newSuccessResponse(c, http.StatusCreated, "Transaction created", tx)
}

func (h *ProfileHandler) UpdateTransaction(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	user, ok := getAuthUser(c)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "authorization required")
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	err := h.profileService.UpdateTransaction(c.Request.Context(), user.ID, c.Param("id"), &domain.Transaction{
		Name:        req.Name,
		Amount:      req.Amount,
		Description: req.Description,
		Date:        req.Date,
		Category:    req.Category,
		Source:      req.Source,
	})
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	newSuccessResponse(c, http.StatusOK, "Transaction updated", nil)
}

func (h *ProfileHandler) RemoveTransaction(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	user, ok := getAuthUser(c)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "authorization required")
		return
	}

	if err := h.profileService.RemoveTransaction(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		newErrorResponse(c, http.StatusServiceUnavailable, "service unavailable")
		return
	}
	newSuccessResponse(c, http.StatusOK, "Transaction deleted", nil)
}
