package casebox

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/osse101/StarCase_Go/internal/domain"
	"github.com/osse101/StarCase_Go/internal/event"
	"github.com/osse101/StarCase_Go/internal/logger"
	"github.com/osse101/StarCase_Go/internal/repository"
)

// SellItem removes exactly one owned item and credits its star value
func (s *service) SellItem(ctx context.Context, userID, inventoryID string) (*SellResult, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgSellItemCalled, "user_id", userID, "inventory_id", inventoryID)

	if userID == "" || inventoryID == "" {
		return nil, fmt.Errorf("%w: user_id and inventory_id are required", domain.ErrInvalidInput)
	}

	var (
		result *SellResult
		sold   *domain.InventoryItem
		soldAt time.Time
	)
	err := s.runInTx(ctx, OpSell, func(tx repository.EconomyTx) error {
		user, err := tx.GetUserForUpdate(ctx, userID)
		if err != nil {
			return fmt.Errorf(ErrMsgGetUserFailed, err)
		}
		item, err := s.loadActiveItem(ctx, tx, userID, inventoryID)
		if err != nil {
			return err
		}

		if err := tx.DeleteInventoryItem(ctx, item.InventoryID); err != nil {
			return fmt.Errorf(ErrMsgDeleteInventoryFailed, err)
		}
		balance := user.Balance
		balance.Stars += item.StarValue
		if err := tx.UpdateUserBalance(ctx, user.ID, balance, user.WeeklySpending); err != nil {
			return fmt.Errorf(ErrMsgUpdateBalanceFailed, err)
		}

		sold = item
		soldAt = tx.StartedAt()
		result = &SellResult{InventoryID: item.InventoryID, StarsCredited: item.StarValue, Balance: balance}
		return nil
	})
	if err != nil {
		s.recordFailure(ctx, OpSell, err)
		return nil, err
	}

	s.publish(ctx, event.NewItemSoldEvent(event.ItemSoldPayloadV1{
		UserID:      userID,
		InventoryID: sold.InventoryID,
		ItemID:      sold.ID,
		StarValue:   sold.StarValue,
		Timestamp:   soldAt.Unix(),
	}))
	log.Info(LogMsgItemSold, "user_id", userID, "item_id", sold.ID, "stars", result.StarsCredited)
	return result, nil
}

// WithdrawItem marks an owned NFT as shipped and queues the delivery request in the same transaction
func (s *service) WithdrawItem(ctx context.Context, userID, inventoryID, wallet string) (*WithdrawResult, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgWithdrawCalled, "user_id", userID, "inventory_id", inventoryID)

	wallet = strings.TrimSpace(wallet)
	if userID == "" || inventoryID == "" || wallet == "" {
		return nil, fmt.Errorf("%w: user_id, inventory_id and wallet are required", domain.ErrInvalidInput)
	}

	var result *WithdrawResult
	err := s.runInTx(ctx, OpWithdraw, func(tx repository.EconomyTx) error {
		item, err := s.loadActiveItem(ctx, tx, userID, inventoryID)
		if err != nil {
			return err
		}
		if item.Rarity != domain.RarityNFT {
			return fmt.Errorf("%w: %s is %s", domain.ErrNotWithdrawable, item.ID, item.Rarity)
		}

		if err := moveStatus(ctx, tx, item, domain.StatusShipped); err != nil {
			return err
		}
		req := domain.WithdrawalRequest{
			ID:          s.newID(),
			UserID:      userID,
			InventoryID: item.InventoryID,
			ItemID:      item.ID,
			Wallet:      wallet,
			CreatedAt:   tx.StartedAt(),
		}
		if err := tx.AddWithdrawalRequest(ctx, req); err != nil {
			return fmt.Errorf(ErrMsgAddWithdrawalFailed, err)
		}

		result = &WithdrawResult{Request: req, Item: *item}
		return nil
	})
	if err != nil {
		s.recordFailure(ctx, OpWithdraw, err)
		return nil, err
	}

	s.publish(ctx, event.NewItemWithdrawnEvent(event.ItemWithdrawnPayloadV1{
		UserID:       userID,
		WithdrawalID: result.Request.ID,
		InventoryID:  result.Item.InventoryID,
		ItemID:       result.Item.ID,
		Wallet:       result.Request.Wallet,
		Timestamp:    result.Request.CreatedAt.Unix(),
	}))
	log.Info(LogMsgWithdrawalQueued, "user_id", userID, "withdrawal_id", result.Request.ID)
	return result, nil
}

// loadActiveItem reads an owned item that is still in the won state
func (s *service) loadActiveItem(ctx context.Context, tx repository.EconomyTx, userID, inventoryID string) (*domain.InventoryItem, error) {
	item, err := tx.GetInventoryItemForUpdate(ctx, userID, inventoryID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetInventoryItemFailed, err)
	}
	if item.Status != domain.StatusWon {
		return nil, fmt.Errorf("%w: %s is %s", domain.ErrItemNotActive, inventoryID, item.Status)
	}
	return item, nil
}

// moveStatus applies a one-way lifecycle transition to an owned item
func moveStatus(ctx context.Context, tx repository.EconomyTx, item *domain.InventoryItem, next domain.InventoryStatus) error {
	if !item.Status.CanTransitionTo(next) {
		return fmt.Errorf(ErrMsgStatusTransitionFmt, domain.ErrItemNotActive, item.InventoryID, item.Status, next)
	}
	if err := tx.UpdateInventoryStatus(ctx, item.InventoryID, next); err != nil {
		return fmt.Errorf(ErrMsgUpdateInventoryFailed, err)
	}
	item.Status = next
	return nil
}
