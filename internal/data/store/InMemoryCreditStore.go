package store

import (
	"context"

	"github.com/johanvictor/FinDocAPI/pkg/logger_i"
)

// InMemoryCreditStore is the redis-offline fallback. It never blocks an
// analysis: every user has credit and consumption is a logged no-op, so local
// development works without seeding counters.
type InMemoryCreditStore struct {
	logger *logger_i.Logger
}

func InitInMemoryCreditStore() *InMemoryCreditStore {
	return &InMemoryCreditStore{
		logger: logger_i.NewLogger("InMem CreditStore"),
	}
}

func (store *InMemoryCreditStore) HasRemainingCredit(ctx context.Context, userId string) (bool, error) {
	return true, nil
}

func (store *InMemoryCreditStore) ConsumeCredit(ctx context.Context, userId string) error {
	store.logger.Debug("Credit consumption skipped, no backing store", "user Id", userId)
	return nil
}
