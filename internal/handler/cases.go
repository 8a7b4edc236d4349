package handler

import (
	"net/http"

	"github.com/osse101/StarCase_Go/internal/casebox"
	"github.com/osse101/StarCase_Go/internal/logger"
)

// OpenCaseRequest opens multiplier copies of a case in one transaction
type OpenCaseRequest struct {
	CaseID     string `json:"case_id" validate:"required,max=64"`
	UserID     string `json:"user_id" validate:"required,max=64"`
	Multiplier int    `json:"multiplier" validate:"omitempty,min=1,max=100"`
}

// HandleOpenCase debits the case price and grants the drawn prizes
// @Summary Open a case
// @Description Debits price x multiplier and draws one prize per copy, all in one transaction
// @Tags cases
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body OpenCaseRequest true "Opening"
// @Success 200 {object} casebox.OpenResult
// @Failure 400 {object} ErrorResponse
// @Failure 402 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/v1/cases/open [post]
func HandleOpenCase(svc casebox.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req OpenCaseRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Open case"); err != nil {
			return
		}
		if req.Multiplier == 0 {
			req.Multiplier = 1
		}

		result, err := svc.OpenCases(r.Context(), req.CaseID, req.UserID, req.Multiplier)
		if err != nil {
			respondServiceError(w, r, ErrMsgOpenCaseFailed, err)
			return
		}

		logger.FromContext(r.Context()).Info(LogMsgCaseOpened,
			"user_id", req.UserID,
			"case_id", req.CaseID,
			"multiplier", req.Multiplier,
			"spent", result.Spent)

		respondJSON(w, http.StatusOK, result)
	}
}
