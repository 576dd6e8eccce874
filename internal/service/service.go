package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shenikar/sos_shield/internal/models"
)

//go:generate mockgen -source=service.go -destination=mocks/mock_service.go -package=mocks

// UserRepository определяет контракт для работы с бд пользователей
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdatePushToken(ctx context.Context, id uuid.UUID, token string) error
	ListWithPushToken(ctx context.Context) ([]*models.User, error)
	GetDirectoryFromCache(ctx context.Context) ([]*models.User, error)
	SetDirectoryCache(ctx context.Context, users []*models.User) error
	InvalidateDirectoryCache(ctx context.Context) error
}

// SessionStore хранит токены сессий устройств
type SessionStore interface {
	Create(ctx context.Context, userID uuid.UUID) (*models.Session, error)
	Get(ctx context.Context, token string) (*models.Session, error)
}

// ContactRepository определяет контракт для набора выбранных экстренных контактов
type ContactRepository interface {
	ListSelected(ctx context.Context, ownerID uuid.UUID) ([]*models.SelectedContact, error)
	IsSelected(ctx context.Context, ownerID, contactID uuid.UUID) (bool, error)
	Add(ctx context.Context, contact *models.SelectedContact) error
	Remove(ctx context.Context, ownerID, contactID uuid.UUID) error
}

// EventRepository определяет контракт для инбоксов SOS событий
type EventRepository interface {
	// Create идемпотентен по паре (dispatch_id, recipient_id)
	Create(ctx context.Context, event *models.SOSEvent) error
	GetByID(ctx context.Context, recipientID, eventID uuid.UUID) (*models.SOSEvent, error)
	LatestActive(ctx context.Context, recipientID uuid.UUID) (*models.SOSEvent, error)
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]*models.SOSEvent, error)
	// UpdateStatus меняет статус только если текущий статус равен from
	UpdateStatus(ctx context.Context, recipientID, eventID uuid.UUID, from, to models.SOSStatus) error
}

// InboxNotifier сигнализирует об изменениях в инбоксе пользователя
type InboxNotifier interface {
	Notify(ctx context.Context, userID uuid.UUID) error
	Subscribe(ctx context.Context, userID uuid.UUID) (<-chan struct{}, error)
}

// UserService - регистрация устройств и сессии
type UserService interface {
	Register(ctx context.Context, user *models.User) (*models.Session, error)
	Authenticate(ctx context.Context, token string) (*models.Session, error)
	Me(ctx context.Context, session *models.Session) (*models.User, error)
	UpdatePushToken(ctx context.Context, session *models.Session, token string) error
}

// ContactService - выбор экстренных контактов
type ContactService interface {
	Directory(ctx context.Context, session *models.Session) ([]*models.User, error)
	Selected(ctx context.Context, session *models.Session) ([]*models.SelectedContact, error)
	Toggle(ctx context.Context, session *models.Session, contactID uuid.UUID) (bool, error)
}

// AlertService - рассылка SOS выбранным контактам
type AlertService interface {
	Trigger(ctx context.Context, session *models.Session, telemetry models.Telemetry) (*models.DispatchResult, error)
}

// InboxService - входящие SOS события получателя
type InboxService interface {
	Active(ctx context.Context, session *models.Session) (*models.SOSEvent, error)
	History(ctx context.Context, session *models.Session, limit int) ([]*models.SOSEvent, error)
	UpdateStatus(ctx context.Context, session *models.Session, eventID uuid.UUID, next models.SOSStatus) (*models.SOSEvent, error)
	Subscribe(ctx context.Context, userID uuid.UUID) (<-chan *models.SOSEvent, error)
}
