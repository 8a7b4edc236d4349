package handler

import (
	"context"
	"net/http"

	"github.com/osse101/StarCase_Go/internal/domain"
	"github.com/osse101/StarCase_Go/internal/logger"
	"github.com/osse101/StarCase_Go/internal/user"
)

// CreditUserRequest adds currency to a user's balance
type CreditUserRequest struct {
	UserID   string `json:"user_id" validate:"required,max=64"`
	Stars    int64  `json:"stars" validate:"gte=0,max=1000000000"`
	Diamonds int64  `json:"diamonds" validate:"gte=0,max=1000000000"`
}

// CreditUserResponse carries the balance after the credit
type CreditUserResponse struct {
	UserID  string         `json:"user_id"`
	Balance domain.Balance `json:"balance"`
}

// WeeklyResetResponse reports how many users were reset
type WeeklyResetResponse struct {
	Message  string `json:"message"`
	Affected int64  `json:"affected"`
}

// WeeklyResetter runs the weekly spending reset on demand
type WeeklyResetter interface {
	RunNow(ctx context.Context) (int64, error)
}

// HandleCreditUser credits stars and diamonds to a user
// @Summary Credit a user
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body CreditUserRequest true "Amounts"
// @Success 200 {object} CreditUserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/admin/user/credit [post]
func HandleCreditUser(svc user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreditUserRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Credit user"); err != nil {
			return
		}

		balance, err := svc.Credit(r.Context(), req.UserID, req.Stars, req.Diamonds)
		if err != nil {
			respondServiceError(w, r, ErrMsgCreditFailed, err)
			return
		}

		logger.FromContext(r.Context()).Info(LogMsgUserCredited,
			"user_id", req.UserID,
			"stars", req.Stars,
			"diamonds", req.Diamonds)

		respondJSON(w, http.StatusOK, CreditUserResponse{UserID: req.UserID, Balance: *balance})
	}
}

// HandleWeeklyReset zeroes weekly spending outside the cron schedule
// @Summary Reset weekly spending
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} WeeklyResetResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/admin/leaderboard/reset [post]
func HandleWeeklyReset(resetter WeeklyResetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		affected, err := resetter.RunNow(r.Context())
		if err != nil {
			respondServiceError(w, r, ErrMsgWeeklyResetFailed, err)
			return
		}

		logger.FromContext(r.Context()).Info(LogMsgWeeklyReset, "affected", affected)
		respondJSON(w, http.StatusOK, WeeklyResetResponse{Message: MsgWeeklyReset, Affected: affected})
	}
}
