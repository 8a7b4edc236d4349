package casebox

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/osse101/StarCase_Go/internal/domain"
	"github.com/osse101/StarCase_Go/internal/event"
	"github.com/osse101/StarCase_Go/internal/logger"
	"github.com/osse101/StarCase_Go/internal/metrics"
	"github.com/osse101/StarCase_Go/internal/repository"
)

func (s *service) OpenCase(ctx context.Context, caseID, userID string) (*OpenResult, error) {
	return s.OpenCases(ctx, caseID, userID, 1)
}

func (s *service) OpenCases(ctx context.Context, caseID, userID string, multiplier int) (*OpenResult, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgOpenCaseCalled, "case_id", caseID, "user_id", userID, "multiplier", multiplier)

	if caseID == "" || userID == "" {
		return nil, fmt.Errorf("%w: case_id and user_id are required", domain.ErrInvalidInput)
	}
	if multiplier < 1 || multiplier > s.cfg.MaxMultiplier {
		return nil, fmt.Errorf(ErrMsgMultiplierRangeFmt, domain.ErrInvalidInput, domain.ErrMsgInvalidMultiplier, multiplier, s.cfg.MaxMultiplier)
	}

	var (
		result *OpenResult
		user   *domain.User
		opened *domain.Case
	)
	err := s.runInTx(ctx, OpOpenCase, func(tx repository.EconomyTx) error {
		var err error
		result, user, opened, err = s.openInTx(ctx, tx, caseID, userID, multiplier)
		return err
	})
	if err != nil {
		s.recordFailure(ctx, OpOpenCase, err)
		return nil, err
	}

	s.publish(ctx, event.NewCaseOpenedEvent(caseOpenedPayload(user, opened, result)))
	log.Info(LogMsgCaseOpened, "case_id", caseID, "user_id", userID, "multiplier", multiplier, "spent", result.Spent, "stars", result.Balance.Stars)
	return result, nil
}

// openInTx performs one attempt of the opening procedure against tx.
// All reads happen through tx so a retry never sees stale data.
func (s *service) openInTx(ctx context.Context, tx repository.EconomyTx, caseID, userID string, n int) (*OpenResult, *domain.User, *domain.Case, error) {
	user, err := tx.GetUserForUpdate(ctx, userID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf(ErrMsgGetUserFailed, err)
	}
	c, err := tx.GetCase(ctx, caseID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf(ErrMsgGetCaseFailed, err)
	}
	if len(c.Entries) == 0 {
		logger.FromContext(ctx).Error(LogMsgConfigurationFault, "case_id", c.ID, "error", domain.ErrEmptyProbabilityTable)
		return nil, nil, nil, fmt.Errorf("%w: %s", domain.ErrEmptyProbabilityTable, c.ID)
	}

	total, err := totalPrice(c.Price, n)
	if err != nil {
		return nil, nil, nil, err
	}
	if user.Balance.Stars < total {
		return nil, nil, nil, fmt.Errorf(ErrMsgInsufficientFundsFmt, total, user.Balance.Stars, domain.ErrInsufficientFunds)
	}

	balance := user.Balance
	balance.Stars -= total
	wonAt := tx.StartedAt()

	prizes := make([]Prize, 0, n)
	var grants []domain.InventoryItem
	for i := 0; i < n; i++ {
		itemID, _, err := s.selector.Draw(c.Entries)
		if err != nil {
			return nil, nil, nil, fmt.Errorf(ErrMsgDrawFailed, err)
		}

		item, err := tx.GetItem(ctx, itemID)
		if errors.Is(err, domain.ErrItemNotFound) {
			metrics.CatalogIntegrityFaults.WithLabelValues(c.ID).Inc()
			logger.FromContext(ctx).Error(LogMsgCatalogIntegrity, "case_id", c.ID, "item_id", itemID)
			return nil, nil, nil, fmt.Errorf(ErrMsgMissingPrizeFmt, domain.ErrCatalogIntegrity, c.ID, itemID)
		}
		if err != nil {
			return nil, nil, nil, fmt.Errorf(ErrMsgGetItemFailed, err)
		}

		if item.IsCurrency() {
			balance.Stars += item.StarValue
			prizes = append(prizes, Prize{Item: *item, StarsCredited: item.StarValue})
			continue
		}

		grant := domain.InventoryItem{
			Item:         *item,
			InventoryID:  s.newID(),
			UserID:       user.ID,
			Status:       domain.StatusWon,
			WonAt:        wonAt,
			SourceCaseID: c.ID,
		}
		granted := grant
		grants = append(grants, grant)
		prizes = append(prizes, Prize{Item: *item, InventoryItem: &granted})
	}

	// Debit first, then grant; a failure anywhere aborts the whole transaction.
	if err := tx.UpdateUserBalance(ctx, user.ID, balance, user.WeeklySpending+total); err != nil {
		return nil, nil, nil, fmt.Errorf(ErrMsgUpdateBalanceFailed, err)
	}
	for _, grant := range grants {
		if err := tx.AddInventoryItem(ctx, grant); err != nil {
			return nil, nil, nil, fmt.Errorf(ErrMsgAddInventoryFailed, err)
		}
	}

	return &OpenResult{
		CaseID:     c.ID,
		Multiplier: n,
		Spent:      total,
		Prizes:     prizes,
		Balance:    balance,
		OpenedAt:   wonAt,
	}, user, c, nil
}

func totalPrice(price int64, n int) (int64, error) {
	if price < 0 {
		return 0, fmt.Errorf("%w: negative case price %d", domain.ErrInvalidInput, price)
	}
	if price > 0 && int64(n) > math.MaxInt64/price {
		return 0, fmt.Errorf(ErrMsgPriceOverflowFmt, domain.ErrInvalidInput, price, n)
	}
	return price * int64(n), nil
}

func caseOpenedPayload(user *domain.User, c *domain.Case, result *OpenResult) event.CaseOpenedPayloadV1 {
	drops := make([]event.DropV1, len(result.Prizes))
	for i, p := range result.Prizes {
		invID := ""
		if p.InventoryItem != nil {
			invID = p.InventoryItem.InventoryID
		}
		drops[i] = event.NewDrop(p.Item, invID)
	}
	return event.CaseOpenedPayloadV1{
		UserID:     user.ID,
		Username:   user.Username,
		CaseID:     c.ID,
		CaseName:   c.Name,
		Multiplier: result.Multiplier,
		Spent:      result.Spent,
		Drops:      drops,
		Timestamp:  result.OpenedAt.Unix(),
	}
}
