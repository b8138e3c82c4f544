package store

import (
	"context"
	"strconv"

	"github.com/johanvictor/FinDocAPI/internal/config"
	"github.com/johanvictor/FinDocAPI/internal/data/redisStore"
	"github.com/johanvictor/FinDocAPI/pkg/logger_i"
)

// RedisCreditStore holds the remaining report credits per user. The payment
// webhook service owns writing credits in; this side only gates and consumes.
type RedisCreditStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisCreditStore(ctx context.Context) *RedisCreditStore {
	return &RedisCreditStore{
		store:  redisStore.GetRedisStore(ctx, config.RedisCreditStore),
		logger: logger_i.NewLogger("CreditStore"),
	}
}

func (s *RedisCreditStore) HasRemainingCredit(ctx context.Context, userId string) (bool, error) {
	val, err := s.store.Get(ctx, creditKey(userId))
	if s.store.IsNil(err) {
		return false, nil
	} else if err != nil {
		s.logger.Error("Error checking credits", "user Id", userId, "error", err)
		return false, err
	}

	credits, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		s.logger.Error("Corrupt credit counter", "user Id", userId, "value", val)
		return false, nil
	}
	return credits > 0, nil
}

func (s *RedisCreditStore) ConsumeCredit(ctx context.Context, userId string) error {
	remaining, err := s.store.Decr(ctx, creditKey(userId))
	if err != nil {
		return err
	}
	s.logger.Debug("Consumed report credit", "user Id", userId, "remaining", remaining)
	return nil
}

func creditKey(userId string) string {
	return "credits:" + userId
}

func TestCreditStore(store *redisStore.Store) *RedisCreditStore {
	return &RedisCreditStore{
		store:  store,
		logger: logger_i.NewLogger("test credit store"),
	}
}
