package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/sos_shield/internal/models"
)

const (
	deliveryQueueKey = "sos_delivery_tasks"
	deadLetterKey    = "sos_delivery_dead"
)

const (
	// TaskInboxWrite - повторная запись SOS события в инбокс получателя
	TaskInboxWrite = "inbox_write"
	// TaskAlertWebhook - зеркалирование рассылки на внешний вебхук
	TaskAlertWebhook = "alert_webhook"
)

// AlertPayload - тело вебхука об отправленном SOS
type AlertPayload struct {
	DispatchID uuid.UUID        `json:"dispatch_id"`
	SenderID   uuid.UUID        `json:"sender_id"`
	SenderName string           `json:"sender_name"`
	Telemetry  models.Telemetry `json:"telemetry"`
	Recipients []uuid.UUID      `json:"recipients"`
	Timestamp  time.Time        `json:"timestamp"`
}

// Task - задача очереди доставки
type Task struct {
	Kind      string           `json:"kind"`
	Event     *models.SOSEvent `json:"event,omitempty"`
	Alert     *AlertPayload    `json:"alert,omitempty"`
	LastError string           `json:"last_error,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// Key - идемпотентный ключ задачи
func (t Task) Key() string {
	switch t.Kind {
	case TaskInboxWrite:
		if t.Event != nil {
			return fmt.Sprintf("%s:%s:%s", t.Kind, t.Event.DispatchID, t.Event.RecipientID)
		}
	case TaskAlertWebhook:
		if t.Alert != nil {
			return fmt.Sprintf("%s:%s", t.Kind, t.Alert.DispatchID)
		}
	}
	return t.Kind
}

//go:generate mockgen -source=publisher.go -destination=mocks/mock_publisher.go -package=mocks

// Publisher - интерфейс для публикации задач доставки
type Publisher interface {
	Publish(ctx context.Context, task Task) error
}

// TaskQueue - очередь задач, из которой читает воркер
type TaskQueue interface {
	Publisher
	Pop(ctx context.Context, timeout time.Duration) (*Task, error)
	DeadLetter(ctx context.Context, task Task) error
	Depth(ctx context.Context) (int64, error)
}

// RedisTaskQueue - реализация TaskQueue, использующая списки Redis
type RedisTaskQueue struct {
	redisClient *redis.Client
}

// NewRedisTaskQueue создает новый RedisTaskQueue
func NewRedisTaskQueue(client *redis.Client) *RedisTaskQueue {
	return &RedisTaskQueue{
		redisClient: client,
	}
}

// Publish публикует задачу в очередь Redis
func (q *RedisTaskQueue) Publish(ctx context.Context, task Task) error {
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal delivery task: %w", err)
	}

	// LPUSH в левую часть списка, воркер забирает справа
	if err := q.redisClient.LPush(ctx, deliveryQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish delivery task to Redis: %w", err)
	}
	return nil
}

// Pop блокирующе забирает задачу. nil без ошибки - таймаут ожидания
func (q *RedisTaskQueue) Pop(ctx context.Context, timeout time.Duration) (*Task, error) {
	result, err := q.redisClient.BRPop(ctx, timeout, deliveryQueueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to pop delivery task from Redis: %w", err)
	}

	// result[0] - ключ, result[1] - значение
	var task Task
	if err := json.Unmarshal([]byte(result[1]), &task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal delivery task: %w", err)
	}
	return &task, nil
}

// DeadLetter складывает задачу, исчерпавшую попытки, для ручного разбора
func (q *RedisTaskQueue) DeadLetter(ctx context.Context, task Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal dead delivery task: %w", err)
	}
	if err := q.redisClient.LPush(ctx, deadLetterKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to push dead delivery task: %w", err)
	}
	return nil
}

// Depth возвращает текущую длину очереди
func (q *RedisTaskQueue) Depth(ctx context.Context) (int64, error) {
	n, err := q.redisClient.LLen(ctx, deliveryQueueKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get delivery queue length: %w", err)
	}
	return n, nil
}
