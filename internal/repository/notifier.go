package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/sos_shield/internal/service"
	"github.com/sirupsen/logrus"
)

// RedisInboxNotifier рассылает сигналы об изменении инбокса через Redis pub/sub,
// поэтому подписка работает поверх нескольких реплик сервиса
type RedisInboxNotifier struct {
	redisClient *redis.Client
	logger      *logrus.Logger
}

func NewRedisInboxNotifier(redisClient *redis.Client, logger *logrus.Logger) service.InboxNotifier {
	return &RedisInboxNotifier{
		redisClient: redisClient,
		logger:      logger,
	}
}

func inboxChannel(userID uuid.UUID) string {
	return fmt.Sprintf("sos:inbox:%s", userID)
}

// Notify публикует сигнал изменения инбокса пользователя
func (n *RedisInboxNotifier) Notify(ctx context.Context, userID uuid.UUID) error {
	if err := n.redisClient.Publish(ctx, inboxChannel(userID), "changed").Err(); err != nil {
		return fmt.Errorf("failed to publish inbox signal: %w", err)
	}
	return nil
}

// Subscribe возвращает канал сигналов. Канал закрывается при отмене ctx
// или когда Redis закрывает подписку.
func (n *RedisInboxNotifier) Subscribe(ctx context.Context, userID uuid.UUID) (<-chan struct{}, error) {
	pubsub := n.redisClient.Subscribe(ctx, inboxChannel(userID))
	// Дожидаемся подтверждения подписки, чтобы не потерять сигналы сразу после возврата
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to inbox: %w", err)
	}

	signals := make(chan struct{}, 1)
	go func() {
		defer close(signals)
		defer pubsub.Close()

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-messages:
				if !ok {
					n.logger.WithField("user_id", userID).Warn("Inbox subscription closed by Redis")
					return
				}
				// Сигналы схлопываются: достаточно одного непрочитанного
				select {
				case signals <- struct{}{}:
				default:
				}
			}
		}
	}()
	return signals, nil
}
