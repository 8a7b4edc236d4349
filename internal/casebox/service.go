// Package casebox runs every money-moving operation as one store transaction:
// case openings, sales, NFT withdrawals and upgrades.
package casebox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/StarCase_Go/internal/domain"
	"github.com/osse101/StarCase_Go/internal/event"
	"github.com/osse101/StarCase_Go/internal/logger"
	"github.com/osse101/StarCase_Go/internal/metrics"
	"github.com/osse101/StarCase_Go/internal/prize"
	"github.com/osse101/StarCase_Go/internal/repository"
)

// Service defines the interface for transactional economy operations
type Service interface {
	// OpenCase opens a single case
	OpenCase(ctx context.Context, caseID, userID string) (*OpenResult, error)
	// OpenCases opens multiplier copies of a case with independent draws.
	// The combined price is checked once and all draws commit together.
	OpenCases(ctx context.Context, caseID, userID string, multiplier int) (*OpenResult, error)
	SellItem(ctx context.Context, userID, inventoryID string) (*SellResult, error)
	WithdrawItem(ctx context.Context, userID, inventoryID, wallet string) (*WithdrawResult, error)
	Upgrade(ctx context.Context, userID, inventoryID, targetItemID string) (*UpgradeResult, error)
}

type service struct {
	repo      repository.Economy
	selector  *prize.Selector
	publisher event.Publisher
	cfg       Config
	newID     func() string
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewService creates the transaction manager. publisher may be nil.
func NewService(repo repository.Economy, selector *prize.Selector, publisher event.Publisher, cfg Config) Service {
	if selector == nil {
		selector = prize.NewSelector(nil)
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.MaxMultiplier < 1 {
		cfg.MaxMultiplier = DefaultMaxMultiplier
	}
	if cfg.UpgradeMaxChance <= 0 || cfg.UpgradeMaxChance > 1 {
		cfg.UpgradeMaxChance = DefaultUpgradeMaxChance
	}
	return &service{
		repo:      repo,
		selector:  selector,
		publisher: publisher,
		cfg:       cfg,
		newID:     uuid.NewString,
		sleep:     repository.SleepContext,
	}
}

// runInTx executes fn inside a fresh transaction, restarting from scratch on
// store conflicts until the attempt budget is spent. fn must not keep state
// between attempts.
func (s *service) runInTx(ctx context.Context, op string, fn func(tx repository.EconomyTx) error) error {
	log := logger.FromContext(ctx)
	retry := repository.ConflictRetry{
		MaxAttempts: s.cfg.MaxAttempts,
		Backoff:     s.cfg.RetryBackoff,
		Sleep:       s.sleep,
		OnRetry: func(attempt int, err error) {
			log.Warn(LogMsgTxConflict, "operation", op, "attempt", attempt, "error", err)
			metrics.TxRetries.WithLabelValues(op).Inc()
		},
	}
	err := retry.Do(ctx, func(ctx context.Context) error {
		return s.attempt(ctx, fn)
	})
	if errors.Is(err, domain.ErrTryAgain) {
		return fmt.Errorf(ErrMsgRetriesExhaustedFmt, op, err)
	}
	return err
}

func (s *service) attempt(ctx context.Context, fn func(tx repository.EconomyTx) error) error {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}
	return nil
}

// recordFailure logs and counts a failed operation. Integrity and configuration
// faults are server defects and log at error level.
func (s *service) recordFailure(ctx context.Context, op string, err error) {
	log := logger.FromContext(ctx)
	reason := failureReason(err)
	metrics.TxFailures.WithLabelValues(op, reason).Inc()

	switch reason {
	case ReasonIntegrity, ReasonConfiguration, ReasonOther:
		log.Error(LogMsgTxFailed, "operation", op, "reason", reason, "error", err)
	default:
		log.Info(LogMsgTxFailed, "operation", op, "reason", reason, "error", err)
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return ReasonNotFound
	case errors.Is(err, domain.ErrInsufficientFunds):
		return ReasonInsufficientFunds
	case errors.Is(err, domain.ErrCatalogIntegrity):
		return ReasonIntegrity
	case errors.Is(err, domain.ErrEmptyProbabilityTable):
		return ReasonConfiguration
	case errors.Is(err, domain.ErrTryAgain), errors.Is(err, domain.ErrStoreConflict):
		return ReasonConflict
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrItemNotActive),
		errors.Is(err, domain.ErrNotWithdrawable),
		errors.Is(err, domain.ErrInvalidUpgrade):
		return ReasonInvalidInput
	default:
		return ReasonOther
	}
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishWithRetry(ctx, evt)
}
