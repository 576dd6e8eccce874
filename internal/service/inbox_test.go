package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/sos_shield/internal/models"
	"github.com/shenikar/sos_shield/internal/service/mocks"
	apperrors "github.com/shenikar/sos_shield/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestInboxService — вспомогательная функция для создания инстанса сервиса с моками.
func newTestInboxService(t *testing.T) (*inboxService, *mocks.MockEventRepository, *mocks.MockInboxNotifier) {
	ctrl := gomock.NewController(t)
	events := mocks.NewMockEventRepository(ctrl)
	notifier := mocks.NewMockInboxNotifier(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	svc := NewInboxService(events, notifier, logger).(*inboxService)
	svc.now = func() time.Time { return fixedNow }
	return svc, events, notifier
}

func testEvent(recipient uuid.UUID, status models.SOSStatus) *models.SOSEvent {
	return &models.SOSEvent{
		ID:          uuid.New(),
		DispatchID:  uuid.New(),
		RecipientID: recipient,
		SenderID:    uuid.New(),
		SenderName:  "Ravi",
		Latitude:    13.08,
		Longitude:   80.27,
		Status:      status,
	}
}

func TestActive(t *testing.T) {
	// Подготовка
	svc, events, _ := newTestInboxService(t)
	ctx := context.Background()
	me := uuid.New()
	event := testEvent(me, models.SOSStatusActive)

	// Ожидания
	events.EXPECT().LatestActive(ctx, me).Return(event, nil).Times(1)

	// Действие
	got, err := svc.Active(ctx, &models.Session{UserID: me})

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, event, got)
}

func TestHistory_ClampsLimit(t *testing.T) {
	testCases := []struct {
		name     string
		limit    int
		expected int
	}{
		{name: "Default", limit: 0, expected: defaultHistoryLimit},
		{name: "Explicit", limit: 5, expected: 5},
		{name: "TooLarge", limit: 1000, expected: defaultHistoryLimit},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, events, _ := newTestInboxService(t)
			me := uuid.New()

			events.EXPECT().ListByRecipient(gomock.Any(), me, tc.expected).Return([]*models.SOSEvent{}, nil).Times(1)

			_, err := svc.History(context.Background(), &models.Session{UserID: me}, tc.limit)
			require.NoError(t, err)
		})
	}
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	// Подготовка
	svc, events, _ := newTestInboxService(t)

	// Ожидания
	events.EXPECT().GetByID(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	// Действие
	_, err := svc.UpdateStatus(context.Background(), &models.Session{UserID: uuid.New()}, uuid.New(), "false_alarm")

	// Проверки
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	// Подготовка
	svc, events, _ := newTestInboxService(t)
	ctx := context.Background()
	me, id := uuid.New(), uuid.New()

	// Ожидания
	events.EXPECT().GetByID(ctx, me, id).Return(nil, apperrors.ErrEventNotFound).Times(1)

	// Действие
	_, err := svc.UpdateStatus(ctx, &models.Session{UserID: me}, id, models.SOSStatusAcknowledged)

	// Проверки
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestUpdateStatus_RejectsBackwardTransition(t *testing.T) {
	testCases := []struct {
		name    string
		current models.SOSStatus
		next    models.SOSStatus
	}{
		{name: "ResolvedToActive", current: models.SOSStatusResolved, next: models.SOSStatusActive},
		{name: "ResolvedToAcknowledged", current: models.SOSStatusResolved, next: models.SOSStatusAcknowledged},
		{name: "AcknowledgedToActive", current: models.SOSStatusAcknowledged, next: models.SOSStatusActive},
		{name: "SameStatus", current: models.SOSStatusActive, next: models.SOSStatusActive},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, events, _ := newTestInboxService(t)
			me := uuid.New()
			event := testEvent(me, tc.current)

			events.EXPECT().GetByID(gomock.Any(), me, event.ID).Return(event, nil).Times(1)
			events.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

			_, err := svc.UpdateStatus(context.Background(), &models.Session{UserID: me}, event.ID, tc.next)

			assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
		})
	}
}

func TestUpdateStatus_ConcurrentChange(t *testing.T) {
	// Подготовка
	svc, events, _ := newTestInboxService(t)
	ctx := context.Background()
	me := uuid.New()
	event := testEvent(me, models.SOSStatusActive)

	// Ожидания
	events.EXPECT().GetByID(ctx, me, event.ID).Return(event, nil).Times(1)
	events.EXPECT().
		UpdateStatus(ctx, me, event.ID, models.SOSStatusActive, models.SOSStatusAcknowledged).
		Return(apperrors.ErrStatusChanged).Times(1)

	// Действие
	_, err := svc.UpdateStatus(ctx, &models.Session{UserID: me}, event.ID, models.SOSStatusAcknowledged)

	// Проверки
	assert.ErrorIs(t, err, apperrors.ErrStatusChanged)
}

// active -> acknowledged -> resolved, после чего слушатель событие не показывает
func TestUpdateStatus_LifecycleHidesResolved(t *testing.T) {
	// Подготовка
	svc, events, notifier := newTestInboxService(t)
	ctx := context.Background()
	me := uuid.New()
	stored := testEvent(me, models.SOSStatusActive)
	session := &models.Session{UserID: me}

	// Ожидания
	events.EXPECT().
		GetByID(ctx, me, stored.ID).
		DoAndReturn(func(_ context.Context, _, _ uuid.UUID) (*models.SOSEvent, error) {
			copied := *stored
			return &copied, nil
		}).AnyTimes()
	events.EXPECT().
		UpdateStatus(ctx, me, stored.ID, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ uuid.UUID, from, to models.SOSStatus) error {
			if stored.Status != from {
				return apperrors.ErrStatusChanged
			}
			stored.Status = to
			return nil
		}).Times(2)
	events.EXPECT().
		LatestActive(ctx, me).
		DoAndReturn(func(_ context.Context, _ uuid.UUID) (*models.SOSEvent, error) {
			if stored.Status != models.SOSStatusActive {
				return nil, nil
			}
			return stored, nil
		}).Times(3)
	notifier.EXPECT().Notify(ctx, me).Return(nil).Times(2)

	// Действие и проверки
	active, err := svc.Active(ctx, session)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, stored.ID, active.ID)

	acked, err := svc.UpdateStatus(ctx, session, stored.ID, models.SOSStatusAcknowledged)
	require.NoError(t, err)
	assert.Equal(t, models.SOSStatusAcknowledged, acked.Status)
	assert.Equal(t, fixedNow, acked.UpdatedAt)

	active, err = svc.Active(ctx, session)
	require.NoError(t, err)
	assert.Nil(t, active)

	resolved, err := svc.UpdateStatus(ctx, session, stored.ID, models.SOSStatusResolved)
	require.NoError(t, err)
	assert.Equal(t, models.SOSStatusResolved, resolved.Status)

	active, err = svc.Active(ctx, session)
	require.NoError(t, err)
	assert.Nil(t, active)

	_, err = svc.UpdateStatus(ctx, session, stored.ID, models.SOSStatusActive)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestUpdateStatus_NotifyFailureIsNotFatal(t *testing.T) {
	// Подготовка
	svc, events, notifier := newTestInboxService(t)
	ctx := context.Background()
	me := uuid.New()
	event := testEvent(me, models.SOSStatusActive)

	// Ожидания
	events.EXPECT().GetByID(ctx, me, event.ID).Return(event, nil).Times(1)
	events.EXPECT().UpdateStatus(ctx, me, event.ID, models.SOSStatusActive, models.SOSStatusResolved).Return(nil).Times(1)
	notifier.EXPECT().Notify(ctx, me).Return(errors.New("redis down")).Times(1)

	// Действие
	updated, err := svc.UpdateStatus(ctx, &models.Session{UserID: me}, event.ID, models.SOSStatusResolved)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, models.SOSStatusResolved, updated.Status)
}

func TestSubscribe_EmitsChanges(t *testing.T) {
	// Подготовка
	svc, events, notifier := newTestInboxService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	me := uuid.New()
	first := testEvent(me, models.SOSStatusActive)
	second := testEvent(me, models.SOSStatusActive)
	signals := make(chan struct{}, 1)

	// Ожидания
	notifier.EXPECT().Subscribe(ctx, me).Return((<-chan struct{})(signals), nil).Times(1)
	gomock.InOrder(
		events.EXPECT().LatestActive(ctx, me).Return(nil, nil),
		events.EXPECT().LatestActive(ctx, me).Return(first, nil),
		// Тот же самый event повторно не отдается
		events.EXPECT().LatestActive(ctx, me).Return(first, nil),
		events.EXPECT().LatestActive(ctx, me).Return(second, nil),
	)

	// Действие
	stream, err := svc.Subscribe(ctx, me)
	require.NoError(t, err)

	// Проверки
	assert.Nil(t, receive(t, stream))

	signals <- struct{}{}
	assert.Equal(t, first, receive(t, stream))

	signals <- struct{}{}
	signals <- struct{}{}
	assert.Equal(t, second, receive(t, stream))

	close(signals)
	_, ok := <-stream
	assert.False(t, ok, "stream must close when the signal source closes")
}

func TestSubscribe_ClosesOnCancel(t *testing.T) {
	// Подготовка
	svc, events, notifier := newTestInboxService(t)
	ctx, cancel := context.WithCancel(context.Background())
	me := uuid.New()
	signals := make(chan struct{})

	// Ожидания
	notifier.EXPECT().Subscribe(ctx, me).Return((<-chan struct{})(signals), nil).Times(1)
	events.EXPECT().LatestActive(ctx, me).Return(nil, nil).Times(1)

	// Действие
	stream, err := svc.Subscribe(ctx, me)
	require.NoError(t, err)
	assert.Nil(t, receive(t, stream))
	cancel()

	// Проверки
	select {
	case _, ok := <-stream:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("stream was not closed after cancel")
	}
}

func TestSubscribe_InitialReadError(t *testing.T) {
	// Подготовка
	svc, events, notifier := newTestInboxService(t)
	ctx := context.Background()
	me := uuid.New()
	signals := make(chan struct{})

	// Ожидания
	notifier.EXPECT().Subscribe(ctx, me).Return((<-chan struct{})(signals), nil).Times(1)
	events.EXPECT().LatestActive(ctx, me).Return(nil, errors.New("db blip")).Times(1)

	// Действие
	stream, err := svc.Subscribe(ctx, me)
	require.NoError(t, err)

	// Проверки
	select {
	case event, ok := <-stream:
		assert.False(t, ok)
		assert.Nil(t, event)
	case <-time.After(time.Second):
		t.Fatal("stream was not closed after failed initial read")
	}
}

func TestSubscribe_ReloadErrorEndsStream(t *testing.T) {
	// Подготовка
	svc, events, notifier := newTestInboxService(t)
	ctx := context.Background()
	me := uuid.New()
	signals := make(chan struct{}, 1)
	active := testEvent(me, models.SOSStatusActive)

	// Ожидания
	notifier.EXPECT().Subscribe(ctx, me).Return((<-chan struct{})(signals), nil).Times(1)
	gomock.InOrder(
		events.EXPECT().LatestActive(ctx, me).Return(active, nil),
		events.EXPECT().LatestActive(ctx, me).Return(nil, errors.New("db blip")),
	)

	// Действие
	stream, err := svc.Subscribe(ctx, me)
	require.NoError(t, err)
	assert.Equal(t, active, receive(t, stream))
	signals <- struct{}{}

	// Проверки
	select {
	case _, ok := <-stream:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("stream was not closed after failed reload")
	}
}

func TestSubscribe_SignalSourceError(t *testing.T) {
	// Подготовка
	svc, _, notifier := newTestInboxService(t)
	ctx := context.Background()
	me := uuid.New()

	// Ожидания
	notifier.EXPECT().Subscribe(ctx, me).Return(nil, errors.New("redis down")).Times(1)

	// Действие
	stream, err := svc.Subscribe(ctx, me)

	// Проверки
	require.Error(t, err)
	assert.Nil(t, stream)
}

func receive(t *testing.T, stream <-chan *models.SOSEvent) *models.SOSEvent {
	t.Helper()
	select {
	case event, ok := <-stream:
		require.True(t, ok, "stream closed unexpectedly")
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for inbox update")
		return nil
	}
}
