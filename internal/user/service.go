// Package user handles registration, profiles and administrative balance
// adjustments.
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/osse101/StarCase_Go/internal/domain"
	"github.com/osse101/StarCase_Go/internal/logger"
	"github.com/osse101/StarCase_Go/internal/metrics"
	"github.com/osse101/StarCase_Go/internal/repository"
)

// Repository is the storage the user service needs
type Repository interface {
	repository.User
	repository.Economy
}

// Service defines the interface for user operations
type Service interface {
	// Register creates the user on first sight of a Telegram ID and returns
	// the existing row afterwards. created reports which case happened.
	Register(ctx context.Context, telegramID int64, username string) (u *domain.User, created bool, err error)
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	GetProfileByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)
	GetInventory(ctx context.Context, userID string) ([]domain.InventoryItem, error)
	// Credit adds non-negative amounts to a user's balance
	Credit(ctx context.Context, userID string, stars, diamonds int64) (*domain.Balance, error)
}

// Config tunes the user service
type Config struct {
	StartingStars int64
	MaxAttempts   int
	RetryBackoff  time.Duration
	CacheSize     int
	CacheTTL      time.Duration
}

type service struct {
	repo  Repository
	cfg   Config
	cache *idCache
}

// NewService creates a user service
func NewService(repo Repository, cfg Config) Service {
	if cfg.StartingStars < 0 {
		cfg.StartingStars = 0
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultCacheSize
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	return &service{
		repo:  repo,
		cfg:   cfg,
		cache: newIDCache(cfg.CacheSize, cfg.CacheTTL),
	}
}

func (s *service) Register(ctx context.Context, telegramID int64, username string) (*domain.User, bool, error) {
	log := logger.FromContext(ctx)

	if telegramID <= 0 {
		return nil, false, fmt.Errorf(ErrMsgInvalidTelegramID, domain.ErrInvalidInput)
	}
	username = strings.TrimSpace(username)
	if n := utf8.RuneCountInString(username); n == 0 || n > MaxUsernameLength {
		return nil, false, fmt.Errorf(ErrMsgInvalidUsername, domain.ErrInvalidInput, MaxUsernameLength)
	}

	u, created, err := s.repo.CreateUser(ctx, domain.User{
		ID:         uuid.NewString(),
		TelegramID: telegramID,
		Username:   username,
		Balance:    domain.Balance{Stars: s.cfg.StartingStars},
	})
	if err != nil {
		return nil, false, fmt.Errorf(ErrMsgCreateUserFailed, err)
	}
	s.cache.Set(u.TelegramID, u.ID)

	if created {
		metrics.UsersRegistered.Inc()
		log.Info(LogMsgUserRegistered, "user_id", u.ID, "telegram_id", telegramID, "starting_stars", s.cfg.StartingStars)
	} else {
		log.Debug(LogMsgUserAlreadyExists, "user_id", u.ID, "telegram_id", telegramID)
	}
	return u, created, nil
}

func (s *service) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf(ErrMsgMissingUserID, domain.ErrInvalidInput)
	}
	return s.repo.GetUserByID(ctx, userID)
}

func (s *service) GetProfileByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	if id, ok := s.cache.Get(telegramID); ok {
		return s.repo.GetUserByID(ctx, id)
	}
	u, err := s.repo.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(telegramID, u.ID)
	return u, nil
}

func (s *service) GetInventory(ctx context.Context, userID string) ([]domain.InventoryItem, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf(ErrMsgMissingUserID, domain.ErrInvalidInput)
	}
	// Surface a missing user instead of an empty list
	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	items, err := s.repo.GetInventory(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.InventoryItem{}
	}
	return items, nil
}

func (s *service) Credit(ctx context.Context, userID string, stars, diamonds int64) (*domain.Balance, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf(ErrMsgMissingUserID, domain.ErrInvalidInput)
	}
	if stars < 0 || diamonds < 0 {
		return nil, fmt.Errorf(ErrMsgNegativeAmount, domain.ErrInvalidInput, domain.ErrMsgNegativeBalanceRequest)
	}
	if stars == 0 && diamonds == 0 {
		return nil, fmt.Errorf(ErrMsgEmptyCredit, domain.ErrInvalidInput)
	}

	var balance domain.Balance
	retry := repository.ConflictRetry{
		MaxAttempts: s.cfg.MaxAttempts,
		Backoff:     s.cfg.RetryBackoff,
		OnRetry: func(attempt int, err error) {
			metrics.TxRetries.WithLabelValues(OpCredit).Inc()
			log.Warn(LogMsgCreditConflict, "user_id", userID, "attempt", attempt, "error", err)
		},
	}
	err := retry.Do(ctx, func(ctx context.Context) error {
		return s.credit(ctx, userID, stars, diamonds, &balance)
	})
	if err != nil {
		metrics.TxFailures.WithLabelValues(OpCredit, "error").Inc()
		if errors.Is(err, domain.ErrTryAgain) {
			return nil, fmt.Errorf(ErrMsgCreditRetriesFmt, err)
		}
		return nil, err
	}
	log.Info(LogMsgUserCredited, "user_id", userID, "stars", stars, "diamonds", diamonds)
	return &balance, nil
}

func (s *service) credit(ctx context.Context, userID string, stars, diamonds int64, out *domain.Balance) error {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf(ErrMsgCreditFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	u, err := tx.GetUserForUpdate(ctx, userID)
	if err != nil {
		return err
	}
	balance := domain.Balance{
		Stars:    u.Balance.Stars + stars,
		Diamonds: u.Balance.Diamonds + diamonds,
	}
	if balance.Stars < u.Balance.Stars || balance.Diamonds < u.Balance.Diamonds {
		return fmt.Errorf("%w: balance overflow", domain.ErrInvalidInput)
	}
	if err := tx.UpdateUserBalance(ctx, userID, balance, u.WeeklySpending); err != nil {
		return fmt.Errorf(ErrMsgCreditFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf(ErrMsgCreditFailed, err)
	}
	*out = balance
	return nil
}
