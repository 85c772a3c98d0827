package storage

import (
	"context"

	"watch/internal/domain"
)

// SubscriptionStore определяет общий интерфейс хранилища push-подписок.
// Реализации должны быть безопасны для одновременного использования
// обработчиком подписки и нотификатором.
type SubscriptionStore interface {
	Add(ctx context.Context, sub domain.Subscription) error
	Remove(ctx context.Context, endpoint string) error
	List(ctx context.Context) ([]domain.Subscription, error)
	Count(ctx context.Context) (int, error)
	Close()
}
