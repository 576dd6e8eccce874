package service

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/shenikar/sos_shield/internal/models"
	"github.com/shenikar/sos_shield/internal/service/mocks"
	apperrors "github.com/shenikar/sos_shield/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestContactService — вспомогательная функция для создания инстанса сервиса с моками.
func newTestContactService(t *testing.T) (*contactService, *mocks.MockUserRepository, *mocks.MockContactRepository) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	contacts := mocks.NewMockContactRepository(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	svc := NewContactService(users, contacts, logger).(*contactService)
	return svc, users, contacts
}

func TestDirectory_FromRepository(t *testing.T) {
	// Подготовка
	svc, users, _ := newTestContactService(t)
	ctx := context.Background()
	me := &models.User{ID: uuid.New(), Name: "Me", PushToken: "ExponentPushToken[me]"}
	priya := &models.User{ID: uuid.New(), Name: "Priya", PushToken: "ExponentPushToken[priya]"}
	stale := &models.User{ID: uuid.New(), Name: "Stale", PushToken: models.PushTokenNotAvailable}
	all := []*models.User{me, priya, stale}

	// Ожидания
	users.EXPECT().GetDirectoryFromCache(ctx).Return(nil, nil).Times(1)
	users.EXPECT().ListWithPushToken(ctx).Return(all, nil).Times(1)
	users.EXPECT().SetDirectoryCache(ctx, all).Return(nil).Times(1)

	// Действие
	directory, err := svc.Directory(ctx, &models.Session{UserID: me.ID})

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, []*models.User{priya}, directory)
}

func TestDirectory_FromCache(t *testing.T) {
	// Подготовка
	svc, users, _ := newTestContactService(t)
	ctx := context.Background()
	priya := &models.User{ID: uuid.New(), Name: "Priya", PushToken: "ExponentPushToken[priya]"}

	// Ожидания
	users.EXPECT().GetDirectoryFromCache(ctx).Return([]*models.User{priya}, nil).Times(1)
	users.EXPECT().ListWithPushToken(gomock.Any()).Times(0)

	// Действие
	directory, err := svc.Directory(ctx, &models.Session{UserID: uuid.New()})

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, []*models.User{priya}, directory)
}

func TestDirectory_CacheErrorFallsBack(t *testing.T) {
	// Подготовка
	svc, users, _ := newTestContactService(t)
	ctx := context.Background()

	// Ожидания
	users.EXPECT().GetDirectoryFromCache(ctx).Return(nil, errors.New("redis down")).Times(1)
	users.EXPECT().ListWithPushToken(ctx).Return(nil, errors.New("db down")).Times(1)

	// Действие
	directory, err := svc.Directory(ctx, &models.Session{UserID: uuid.New()})

	// Проверки
	require.Error(t, err)
	assert.Nil(t, directory)
	assert.ErrorContains(t, err, "db down")
}

func TestToggle_Self(t *testing.T) {
	// Подготовка
	svc, _, contacts := newTestContactService(t)
	me := uuid.New()

	// Ожидания
	contacts.EXPECT().IsSelected(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	// Действие
	selected, err := svc.Toggle(context.Background(), &models.Session{UserID: me}, me)

	// Проверки
	assert.False(t, selected)
	assert.ErrorIs(t, err, apperrors.ErrContactIsSelf)
}

func TestToggle_ContactNotFound(t *testing.T) {
	// Подготовка
	svc, users, contacts := newTestContactService(t)
	ctx := context.Background()
	me, other := uuid.New(), uuid.New()

	// Ожидания
	contacts.EXPECT().IsSelected(ctx, me, other).Return(false, nil).Times(1)
	users.EXPECT().GetByID(ctx, other).Return(nil, apperrors.ErrUserNotFound).Times(1)
	contacts.EXPECT().Add(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	selected, err := svc.Toggle(ctx, &models.Session{UserID: me}, other)

	// Проверки
	assert.False(t, selected)
	assert.ErrorIs(t, err, apperrors.ErrContactNotFound)
}

func TestToggle_ContactWithoutToken(t *testing.T) {
	// Подготовка
	svc, users, contacts := newTestContactService(t)
	ctx := context.Background()
	me := uuid.New()
	other := &models.User{ID: uuid.New(), Email: "no-push@example.com", PushToken: models.PushTokenNotAvailable}

	// Ожидания
	contacts.EXPECT().IsSelected(ctx, me, other.ID).Return(false, nil).Times(1)
	users.EXPECT().GetByID(ctx, other.ID).Return(other, nil).Times(1)
	contacts.EXPECT().Add(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	_, err := svc.Toggle(ctx, &models.Session{UserID: me}, other.ID)

	// Проверки
	assert.ErrorIs(t, err, apperrors.ErrContactNoToken)
}

// Двойное переключение возвращает исходный набор
func TestToggle_TwiceRestoresSelection(t *testing.T) {
	// Подготовка
	svc, users, contacts := newTestContactService(t)
	ctx := context.Background()
	me := uuid.New()
	existing := uuid.New()
	other := &models.User{ID: uuid.New(), Email: "asha@example.com", PushToken: "ExponentPushToken[asha]"}
	session := &models.Session{UserID: me}

	set := map[uuid.UUID]*models.SelectedContact{
		existing: {OwnerID: me, ContactID: existing, Name: "Existing", PushToken: "ExponentPushToken[x]"},
	}
	snapshot := func() []string {
		ids := make([]string, 0, len(set))
		for id := range set {
			ids = append(ids, id.String())
		}
		sort.Strings(ids)
		return ids
	}
	before := snapshot()

	// Ожидания
	contacts.EXPECT().
		IsSelected(ctx, me, other.ID).
		DoAndReturn(func(_ context.Context, _, id uuid.UUID) (bool, error) {
			_, ok := set[id]
			return ok, nil
		}).Times(2)
	users.EXPECT().GetByID(ctx, other.ID).Return(other, nil).Times(1)
	contacts.EXPECT().
		Add(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, c *models.SelectedContact) error {
			assert.Equal(t, me, c.OwnerID)
			// Без имени берется email
			assert.Equal(t, "asha@example.com", c.Name)
			assert.Equal(t, other.PushToken, c.PushToken)
			set[c.ContactID] = c
			return nil
		}).Times(1)
	contacts.EXPECT().
		Remove(ctx, me, other.ID).
		DoAndReturn(func(_ context.Context, _, id uuid.UUID) error {
			delete(set, id)
			return nil
		}).Times(1)

	// Действие
	first, err1 := svc.Toggle(ctx, session, other.ID)
	second, err2 := svc.Toggle(ctx, session, other.ID)

	// Проверки
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.True(t, first)
	assert.False(t, second)
	assert.Equal(t, before, snapshot())
}

func TestToggle_RemoveFails(t *testing.T) {
	// Подготовка
	svc, _, contacts := newTestContactService(t)
	ctx := context.Background()
	me, other := uuid.New(), uuid.New()

	// Ожидания
	contacts.EXPECT().IsSelected(ctx, me, other).Return(true, nil).Times(1)
	contacts.EXPECT().Remove(ctx, me, other).Return(errors.New("write failed")).Times(1)

	// Действие
	selected, err := svc.Toggle(ctx, &models.Session{UserID: me}, other)

	// Проверки
	require.Error(t, err)
	// Членство не изменилось
	assert.True(t, selected)
}

func TestSelected(t *testing.T) {
	// Подготовка
	svc, _, contacts := newTestContactService(t)
	ctx := context.Background()
	me := uuid.New()
	want := []*models.SelectedContact{{OwnerID: me, ContactID: uuid.New(), Name: "A"}}

	// Ожидания
	contacts.EXPECT().ListSelected(ctx, me).Return(want, nil).Times(1)

	// Действие
	got, err := svc.Selected(ctx, &models.Session{UserID: me})

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
