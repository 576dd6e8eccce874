package delivery

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/sos_shield/internal/config"
	"github.com/shenikar/sos_shield/internal/models"
	"github.com/shenikar/sos_shield/pkg/metrics"
	"github.com/sirupsen/logrus"
)

const popTimeout = 5 * time.Second

//go:generate mockgen -source=worker.go -destination=mocks/mock_worker.go -package=mocks

// EventWriter - идемпотентная запись SOS события в инбокс
type EventWriter interface {
	Create(ctx context.Context, event *models.SOSEvent) error
}

// Notifier - сигнал подписчикам инбокса
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID) error
}

// Worker - структура для обработки очереди доставки
type Worker struct {
	queue      TaskQueue
	events     EventWriter
	notifier   Notifier
	logger     *logrus.Logger
	cfg        *config.Config
	httpClient *http.Client
}

// NewWorker создает новый Worker
func NewWorker(queue TaskQueue, events EventWriter, notifier Notifier, logger *logrus.Logger, cfg *config.Config) *Worker {
	return &Worker{
		queue:    queue,
		events:   events,
		notifier: notifier,
		logger:   logger,
		cfg:      cfg,
		httpClient: &http.Client{
			Timeout: cfg.AlertWebhookTimeout,
		},
	}
}

// Start запускает горутину для обработки очереди
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Starting delivery worker...")
	go func() {
		for {
			if ctx.Err() != nil {
				w.logger.Info("Stopping delivery worker.")
				return
			}

			task, err := w.queue.Pop(ctx, popTimeout)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					continue // Контекст отменен, выйдем на следующей итерации
				}
				w.logger.WithError(err).Error("Failed to pop delivery task")
				w.wait(ctx, w.cfg.DeliveryBaseDelay)
				continue
			}
			if task == nil {
				continue
			}

			w.Process(ctx, *task)
		}
	}()
}

// Process выполняет задачу с экспоненциальной задержкой между попытками.
// Задача, исчерпавшая попытки, уходит в dead-letter список.
func (w *Worker) Process(ctx context.Context, task Task) {
	log := w.logger.WithField("task_kind", task.Kind).WithField("task_key", task.Key())
	log.Debug("Processing delivery task...")

	var handle func(context.Context, Task) error
	switch task.Kind {
	case TaskInboxWrite:
		handle = w.writeInbox
	case TaskAlertWebhook:
		if w.cfg.AlertWebhookURL == "" {
			log.Warn("Alert webhook URL is not configured. Skipping webhook delivery.")
			return
		}
		handle = w.sendWebhook
	default:
		log.Error("Unknown delivery task kind, dropping")
		metrics.ObserveDeliveryTask(task.Kind, "dropped")
		return
	}

	maxRetries := max(w.cfg.DeliveryMaxRetries, 1)
	delay := w.cfg.DeliveryBaseDelay

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		if lastErr = handle(ctx, task); lastErr == nil {
			log.Info("Delivery task completed successfully.")
			metrics.ObserveDeliveryTask(task.Kind, "ok")
			return
		}
		if ctx.Err() != nil {
			w.requeue(ctx, task, lastErr, log)
			return
		}
		if i < maxRetries-1 {
			log.WithError(lastErr).Warnf("Delivery task failed. Retrying in %v. Retries left: %d", delay, maxRetries-1-i)
			w.wait(ctx, delay)
			delay *= 2 // Экспоненциальная задержка
		}
	}

	log.WithError(lastErr).Errorf("Failed to deliver task after %d retries.", maxRetries)
	metrics.ObserveDeliveryTask(task.Kind, "dead")
	task.LastError = lastErr.Error()
	if err := w.queue.DeadLetter(context.WithoutCancel(ctx), task); err != nil {
		log.WithError(err).Error("Failed to dead-letter delivery task")
	}
}

func (w *Worker) writeInbox(ctx context.Context, task Task) error {
	if task.Event == nil {
		return fmt.Errorf("inbox write task has no event")
	}
	if err := w.events.Create(ctx, task.Event); err != nil {
		return err
	}
	if err := w.notifier.Notify(ctx, task.Event.RecipientID); err != nil {
		// Событие записано; подписчик увидит его при следующем сигнале
		w.logger.WithError(err).WithField("recipient_id", task.Event.RecipientID).Warn("Failed to notify inbox subscribers")
	}
	return nil
}

func (w *Worker) sendWebhook(ctx context.Context, task Task) error {
	if task.Alert == nil {
		return fmt.Errorf("alert webhook task has no payload")
	}
	payload, err := json.Marshal(task.Alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.AlertWebhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// Добавляем HMAC подпись, если ALERT_WEBHOOK_SECRET задан
	if w.cfg.AlertWebhookSecret != "" {
		req.Header.Set("X-Webhook-Signature", generateHMACSHA256(payload, w.cfg.AlertWebhookSecret))
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded with status code %d", resp.StatusCode)
	}
	return nil
}

// requeue возвращает прерванную задачу в основную очередь, попытки не считаются исчерпанными
func (w *Worker) requeue(ctx context.Context, task Task, lastErr error, log *logrus.Entry) {
	log.WithError(lastErr).Warn("Worker stopped during delivery. Returning task to queue.")
	metrics.ObserveDeliveryTask(task.Kind, "requeued")
	task.LastError = lastErr.Error()
	if err := w.queue.Publish(context.WithoutCancel(ctx), task); err != nil {
		log.WithError(err).Error("Failed to requeue delivery task")
	}
}

func (w *Worker) wait(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// generateHMACSHA256 генерирует HMAC-SHA256 подпись для данных
func generateHMACSHA256(data []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
