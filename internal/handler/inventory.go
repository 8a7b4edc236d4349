package handler

import (
	"net/http"

	"github.com/osse101/StarCase_Go/internal/casebox"
	"github.com/osse101/StarCase_Go/internal/logger"
)

// SellItemRequest sells one owned item back for its star value
type SellItemRequest struct {
	UserID      string `json:"user_id" validate:"required,max=64"`
	InventoryID string `json:"inventory_id" validate:"required,max=64"`
}

// WithdrawItemRequest ships an owned NFT to an external wallet
type WithdrawItemRequest struct {
	UserID      string `json:"user_id" validate:"required,max=64"`
	InventoryID string `json:"inventory_id" validate:"required,max=64"`
	Wallet      string `json:"wallet" validate:"required,wallet"`
}

// UpgradeItemRequest gambles an owned item for a more valuable one
type UpgradeItemRequest struct {
	UserID       string `json:"user_id" validate:"required,max=64"`
	InventoryID  string `json:"inventory_id" validate:"required,max=64"`
	TargetItemID string `json:"target_item_id" validate:"required,max=64"`
}

// HandleSellItem handles selling an inventory item
// @Summary Sell an item
// @Tags inventory
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body SellItemRequest true "Sale"
// @Success 200 {object} casebox.SellResult
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/user/item/sell [post]
func HandleSellItem(svc casebox.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SellItemRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Sell item"); err != nil {
			return
		}

		result, err := svc.SellItem(r.Context(), req.UserID, req.InventoryID)
		if err != nil {
			respondServiceError(w, r, ErrMsgSellItemFailed, err)
			return
		}

		logger.FromContext(r.Context()).Info(LogMsgItemSold,
			"user_id", req.UserID,
			"inventory_id", req.InventoryID,
			"stars", result.StarsCredited)

		respondJSON(w, http.StatusOK, result)
	}
}

// HandleWithdrawItem handles NFT withdrawal requests
// @Summary Withdraw an NFT
// @Tags inventory
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body WithdrawItemRequest true "Withdrawal"
// @Success 201 {object} casebox.WithdrawResult
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/user/item/withdraw [post]
func HandleWithdrawItem(svc casebox.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req WithdrawItemRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Withdraw item"); err != nil {
			return
		}

		result, err := svc.WithdrawItem(r.Context(), req.UserID, req.InventoryID, req.Wallet)
		if err != nil {
			respondServiceError(w, r, ErrMsgWithdrawItemFailed, err)
			return
		}

		logger.FromContext(r.Context()).Info(LogMsgItemWithdrawn,
			"user_id", req.UserID,
			"inventory_id", req.InventoryID,
			"withdrawal_id", result.Request.ID)

		respondJSON(w, http.StatusCreated, result)
	}
}

// HandleUpgradeItem handles upgrade attempts
// @Summary Upgrade an item
// @Description Consumes the item and, on a winning roll, grants the target
// @Tags inventory
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body UpgradeItemRequest true "Upgrade"
// @Success 200 {object} casebox.UpgradeResult
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/user/item/upgrade [post]
func HandleUpgradeItem(svc casebox.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpgradeItemRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Upgrade item"); err != nil {
			return
		}

		result, err := svc.Upgrade(r.Context(), req.UserID, req.InventoryID, req.TargetItemID)
		if err != nil {
			respondServiceError(w, r, ErrMsgUpgradeItemFailed, err)
			return
		}

		logger.FromContext(r.Context()).Info(LogMsgItemUpgraded,
			"user_id", req.UserID,
			"inventory_id", req.InventoryID,
			"target_item_id", req.TargetItemID,
			"success", result.Success,
			"chance", result.Chance)

		respondJSON(w, http.StatusOK, result)
	}
}
