package casebox

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/StarCase_Go/internal/domain"
	"github.com/osse101/StarCase_Go/internal/event"
	"github.com/osse101/StarCase_Go/internal/logger"
	"github.com/osse101/StarCase_Go/internal/repository"
)

// UpgradeChance returns the probability of turning an item worth sourceValue
// into one worth targetValue: the value ratio less the house edge, capped at maxChance.
func UpgradeChance(sourceValue, targetValue int64, houseEdge, maxChance float64) float64 {
	if sourceValue <= 0 || targetValue <= 0 {
		return 0
	}
	chance := float64(sourceValue) / float64(targetValue) * (1 - houseEdge)
	if chance > maxChance {
		chance = maxChance
	}
	if chance < 0 {
		chance = 0
	}
	return chance
}

// Upgrade stakes an owned item for a chance at a more valuable catalog item.
// The source is always exchanged; the target is granted only on a winning roll.
func (s *service) Upgrade(ctx context.Context, userID, inventoryID, targetItemID string) (*UpgradeResult, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgUpgradeCalled, "user_id", userID, "inventory_id", inventoryID, "target_item_id", targetItemID)

	if userID == "" || inventoryID == "" || targetItemID == "" {
		return nil, fmt.Errorf("%w: user_id, inventory_id and target_item_id are required", domain.ErrInvalidInput)
	}

	var (
		result     *UpgradeResult
		username   string
		resolvedAt time.Time
	)
	err := s.runInTx(ctx, OpUpgrade, func(tx repository.EconomyTx) error {
		user, err := tx.GetUserForUpdate(ctx, userID)
		if err != nil {
			return fmt.Errorf(ErrMsgGetUserFailed, err)
		}
		source, err := s.loadActiveItem(ctx, tx, userID, inventoryID)
		if err != nil {
			return err
		}
		target, err := tx.GetItem(ctx, targetItemID)
		if err != nil {
			return fmt.Errorf(ErrMsgGetItemFailed, err)
		}
		if target.IsCurrency() || target.StarValue <= source.StarValue {
			return fmt.Errorf("%w: %s (%d) -> %s (%d)", domain.ErrInvalidUpgrade, source.ID, source.StarValue, target.ID, target.StarValue)
		}

		chance := UpgradeChance(source.StarValue, target.StarValue, s.cfg.UpgradeHouseEdge, s.cfg.UpgradeMaxChance)
		roll, err := s.selector.Roll()
		if err != nil {
			return fmt.Errorf(ErrMsgDrawFailed, err)
		}

		if err := moveStatus(ctx, tx, source, domain.StatusExchanged); err != nil {
			return err
		}

		attempt := &UpgradeResult{Success: roll < chance, Chance: chance, Roll: roll, Source: *source}
		if attempt.Success {
			won := domain.InventoryItem{
				Item:        *target,
				InventoryID: s.newID(),
				UserID:      userID,
				Status:      domain.StatusWon,
				WonAt:       tx.StartedAt(),
			}
			if err := tx.AddInventoryItem(ctx, won); err != nil {
				return fmt.Errorf(ErrMsgAddInventoryFailed, err)
			}
			attempt.Item = &won
		}
		result = attempt
		username = user.Username
		resolvedAt = tx.StartedAt()
		return nil
	})
	if err != nil {
		s.recordFailure(ctx, OpUpgrade, err)
		return nil, err
	}

	payload := event.ItemUpgradedPayloadV1{
		UserID:       userID,
		Username:     username,
		SourceItemID: result.Source.ID,
		TargetItemID: targetItemID,
		Success:      result.Success,
		Chance:       result.Chance,
		Timestamp:    resolvedAt.Unix(),
	}
	if result.Item != nil {
		drop := event.NewDrop(result.Item.Item, result.Item.InventoryID)
		payload.Drop = &drop
	}
	s.publish(ctx, event.NewItemUpgradedEvent(payload))

	log.Info(LogMsgUpgradeResolved, "user_id", userID, "success", result.Success, "chance", result.Chance, "roll", result.Roll)
	return result, nil
}
