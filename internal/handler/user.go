package handler

import (
	"net/http"

	"github.com/osse101/StarCase_Go/internal/domain"
	"github.com/osse101/StarCase_Go/internal/logger"
	"github.com/osse101/StarCase_Go/internal/user"
)

// RegisterUserRequest registers a Telegram user
type RegisterUserRequest struct {
	TelegramID int64  `json:"telegram_id" validate:"required,gt=0"`
	Username   string `json:"username" validate:"required,max=64,excludesall=<>"`
}

// RegisterUserResponse wraps the stored user
type RegisterUserResponse struct {
	User    *domain.User `json:"user"`
	Created bool         `json:"created"`
}

// InventoryResponse lists a user's items, newest first
type InventoryResponse struct {
	UserID string                 `json:"user_id"`
	Items  []domain.InventoryItem `json:"items"`
}

// HandleRegisterUser registers a user or returns the existing registration
// @Summary Register a user
// @Description Idempotent on telegram_id. New users receive the starting balance.
// @Tags user
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body RegisterUserRequest true "Telegram identity"
// @Success 200 {object} RegisterUserResponse
// @Success 201 {object} RegisterUserResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/user/register [post]
func HandleRegisterUser(svc user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterUserRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Register user"); err != nil {
			return
		}

		u, created, err := svc.Register(r.Context(), req.TelegramID, req.Username)
		if err != nil {
			respondServiceError(w, r, ErrMsgRegisterUserFailed, err)
			return
		}

		logger.FromContext(r.Context()).Info(LogMsgUserRegistered,
			"user_id", u.ID,
			"telegram_id", u.TelegramID,
			"created", created)

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		respondJSON(w, status, RegisterUserResponse{User: u, Created: created})
	}
}

// HandleGetProfile returns a user's balances and weekly spending
// @Summary Get a profile
// @Tags user
// @Produce json
// @Security ApiKeyAuth
// @Param user_id query string true "User ID"
// @Success 200 {object} domain.User
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/user/profile [get]
func HandleGetProfile(svc user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetQueryParam(r, w, "user_id")
		if !ok {
			return
		}

		u, err := svc.GetProfile(r.Context(), userID)
		if err != nil {
			respondServiceError(w, r, ErrMsgGetProfileFailed, err)
			return
		}
		respondJSON(w, http.StatusOK, u)
	}
}

// HandleGetInventory returns a user's items
// @Summary Get an inventory
// @Tags user
// @Produce json
// @Security ApiKeyAuth
// @Param user_id query string true "User ID"
// @Success 200 {object} InventoryResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/user/inventory [get]
func HandleGetInventory(svc user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetQueryParam(r, w, "user_id")
		if !ok {
			return
		}

		items, err := svc.GetInventory(r.Context(), userID)
		if err != nil {
			respondServiceError(w, r, ErrMsgGetInventoryFailed, err)
			return
		}
		respondJSON(w, http.StatusOK, InventoryResponse{UserID: userID, Items: items})
	}
}
