package delivery_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/sos_shield/internal/config"
	"github.com/shenikar/sos_shield/internal/delivery"
	"github.com/shenikar/sos_shield/internal/delivery/mocks"
	"github.com/shenikar/sos_shield/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type workerMocks struct {
	queue    *mocks.MockTaskQueue
	events   *mocks.MockEventWriter
	notifier *mocks.MockNotifier
}

func newTestWorker(t *testing.T, cfg *config.Config) (*delivery.Worker, workerMocks) {
	ctrl := gomock.NewController(t)
	m := workerMocks{
		queue:    mocks.NewMockTaskQueue(ctrl),
		events:   mocks.NewMockEventWriter(ctrl),
		notifier: mocks.NewMockNotifier(ctrl),
	}

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	return delivery.NewWorker(m.queue, m.events, m.notifier, logger, cfg), m
}

func inboxTask() delivery.Task {
	return delivery.Task{
		Kind: delivery.TaskInboxWrite,
		Event: &models.SOSEvent{
			ID:          uuid.New(),
			DispatchID:  uuid.New(),
			RecipientID: uuid.New(),
			SenderName:  "Ravi",
			Status:      models.SOSStatusActive,
		},
	}
}

func TestProcess_InboxWriteRetriesThenSucceeds(t *testing.T) {
	// Подготовка
	worker, m := newTestWorker(t, &config.Config{DeliveryMaxRetries: 3, DeliveryBaseDelay: time.Millisecond})
	ctx := context.Background()
	task := inboxTask()

	// Ожидания
	gomock.InOrder(
		m.events.EXPECT().Create(ctx, task.Event).Return(errors.New("write timeout")),
		m.events.EXPECT().Create(ctx, task.Event).Return(nil),
	)
	m.notifier.EXPECT().Notify(ctx, task.Event.RecipientID).Return(nil).Times(1)
	m.queue.EXPECT().DeadLetter(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	worker.Process(ctx, task)
}

func TestProcess_InboxWriteDeadLetter(t *testing.T) {
	// Подготовка
	worker, m := newTestWorker(t, &config.Config{DeliveryMaxRetries: 3, DeliveryBaseDelay: time.Millisecond})
	ctx := context.Background()
	task := inboxTask()

	// Ожидания
	m.events.EXPECT().Create(ctx, task.Event).Return(errors.New("write timeout")).Times(3)
	m.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Times(0)
	m.queue.EXPECT().
		DeadLetter(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, dead delivery.Task) {
			assert.Equal(t, task.Key(), dead.Key())
			assert.Equal(t, "write timeout", dead.LastError)
		}).Return(nil).Times(1)

	// Действие
	worker.Process(ctx, task)
}

func TestProcess_CancelledDuringRetryRequeues(t *testing.T) {
	// Подготовка
	worker, m := newTestWorker(t, &config.Config{DeliveryMaxRetries: 5, DeliveryBaseDelay: time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	task := inboxTask()

	// Ожидания
	m.events.EXPECT().
		Create(ctx, task.Event).
		DoAndReturn(func(context.Context, *models.SOSEvent) error {
			cancel()
			return errors.New("write timeout")
		}).Times(1)
	m.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Times(0)
	m.queue.EXPECT().DeadLetter(gomock.Any(), gomock.Any()).Times(0)
	m.queue.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(pubCtx context.Context, requeued delivery.Task) error {
			assert.NoError(t, pubCtx.Err())
			assert.Equal(t, task.Key(), requeued.Key())
			assert.Equal(t, "write timeout", requeued.LastError)
			return nil
		}).Times(1)

	// Действие
	worker.Process(ctx, task)
}

func TestProcess_UnknownKindDropped(t *testing.T) {
	// Подготовка
	worker, m := newTestWorker(t, &config.Config{DeliveryMaxRetries: 3})

	// Ожидания
	m.events.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
	m.queue.EXPECT().DeadLetter(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	worker.Process(context.Background(), delivery.Task{Kind: "carrier_pigeon"})
}

func TestProcess_AlertWebhookSigned(t *testing.T) {
	// Подготовка
	const secret = "s3cret"
	var received delivery.AlertPayload
	var signatureOK atomic.Bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(body)
		signatureOK.Store(r.Header.Get("X-Webhook-Signature") == hex.EncodeToString(mac.Sum(nil)))

		_ = json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	worker, m := newTestWorker(t, &config.Config{
		AlertWebhookURL:     server.URL,
		AlertWebhookSecret:  secret,
		AlertWebhookTimeout: time.Second,
		DeliveryMaxRetries:  1,
	})
	alert := &delivery.AlertPayload{
		DispatchID: uuid.New(),
		SenderID:   uuid.New(),
		SenderName: "Ravi",
		Telemetry:  models.Telemetry{Latitude: 13.08, Longitude: 80.27, Impact: 6.1},
		Recipients: []uuid.UUID{uuid.New()},
	}

	// Ожидания
	m.queue.EXPECT().DeadLetter(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	worker.Process(context.Background(), delivery.Task{Kind: delivery.TaskAlertWebhook, Alert: alert})

	// Проверки
	assert.True(t, signatureOK.Load())
	assert.Equal(t, alert.DispatchID, received.DispatchID)
	assert.Equal(t, alert.Telemetry, received.Telemetry)
}

func TestProcess_AlertWebhookNon2xx(t *testing.T) {
	// Подготовка
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	worker, m := newTestWorker(t, &config.Config{
		AlertWebhookURL:     server.URL,
		AlertWebhookTimeout: time.Second,
		DeliveryMaxRetries:  2,
		DeliveryBaseDelay:   time.Millisecond,
	})
	task := delivery.Task{Kind: delivery.TaskAlertWebhook, Alert: &delivery.AlertPayload{DispatchID: uuid.New()}}

	// Ожидания
	m.queue.EXPECT().
		DeadLetter(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, dead delivery.Task) {
			assert.Contains(t, dead.LastError, "502")
		}).Return(nil).Times(1)

	// Действие
	worker.Process(context.Background(), task)

	// Проверки
	assert.Equal(t, int32(2), calls.Load())
}

func TestProcess_AlertWebhookNotConfigured(t *testing.T) {
	// Подготовка
	worker, m := newTestWorker(t, &config.Config{DeliveryMaxRetries: 3})

	// Ожидания
	m.queue.EXPECT().DeadLetter(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	worker.Process(context.Background(), delivery.Task{Kind: delivery.TaskAlertWebhook, Alert: &delivery.AlertPayload{}})
}

func TestStart_DrainsQueue(t *testing.T) {
	// Подготовка
	worker, m := newTestWorker(t, &config.Config{DeliveryMaxRetries: 1, DeliveryBaseDelay: time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	task := inboxTask()
	done := make(chan struct{})

	// Ожидания
	gomock.InOrder(
		m.queue.EXPECT().Pop(gomock.Any(), gomock.Any()).Return(&task, nil),
		m.queue.EXPECT().Pop(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, _ time.Duration) (*delivery.Task, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}).AnyTimes(),
	)
	m.events.EXPECT().Create(gomock.Any(), task.Event).Return(nil).Times(1)
	m.notifier.EXPECT().
		Notify(gomock.Any(), task.Event.RecipientID).
		DoAndReturn(func(context.Context, uuid.UUID) error {
			close(done)
			return nil
		}).Times(1)

	// Действие
	worker.Start(ctx)

	// Проверки
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not process the queued task")
	}
}

func TestTaskKey(t *testing.T) {
	task := inboxTask()
	assert.Equal(t, "inbox_write:"+task.Event.DispatchID.String()+":"+task.Event.RecipientID.String(), task.Key())

	alert := delivery.Task{Kind: delivery.TaskAlertWebhook, Alert: &delivery.AlertPayload{DispatchID: uuid.New()}}
	assert.Equal(t, "alert_webhook:"+alert.Alert.DispatchID.String(), alert.Key())

	require.Equal(t, "inbox_write", delivery.Task{Kind: delivery.TaskInboxWrite}.Key())
}
