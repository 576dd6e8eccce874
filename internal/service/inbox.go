package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/sos_shield/internal/models"
	apperrors "github.com/shenikar/sos_shield/pkg/errors"
	"github.com/shenikar/sos_shield/pkg/metrics"
	"github.com/sirupsen/logrus"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type inboxService struct {
	events   EventRepository
	notifier InboxNotifier
	logger   *logrus.Logger
	now      func() time.Time
}

func NewInboxService(events EventRepository, notifier InboxNotifier, logger *logrus.Logger) InboxService {
	return &inboxService{
		events:   events,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Active возвращает самое свежее активное SOS событие или nil
func (s *inboxService) Active(ctx context.Context, session *models.Session) (*models.SOSEvent, error) {
	event, err := s.events.LatestActive(ctx, session.UserID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", session.UserID).Error("Failed to get active sos event")
		return nil, fmt.Errorf("service: could not get active sos event: %w", err)
	}
	return event, nil
}

// History возвращает последние события инбокса
func (s *inboxService) History(ctx context.Context, session *models.Session, limit int) ([]*models.SOSEvent, error) {
	if limit < 1 || limit > maxHistoryLimit {
		limit = defaultHistoryLimit
	}

	events, err := s.events.ListByRecipient(ctx, session.UserID, limit)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", session.UserID).Error("Failed to list sos events")
		return nil, fmt.Errorf("service: could not list sos events: %w", err)
	}
	return events, nil
}

// UpdateStatus переводит событие вперед по цепочке active -> acknowledged -> resolved
func (s *inboxService) UpdateStatus(ctx context.Context, session *models.Session, eventID uuid.UUID, next models.SOSStatus) (*models.SOSEvent, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "inbox",
		"method":   "UpdateStatus",
		"user_id":  session.UserID,
		"event_id": eventID,
		"next":     next,
	})

	if !next.Valid() {
		return nil, apperrors.ErrInvalidStatus
	}

	event, err := s.events.GetByID(ctx, session.UserID, eventID)
	if err != nil {
		log.WithError(err).Warn("Attempted to update a non-existent sos event")
		return nil, fmt.Errorf("service: could not update sos event: %w", err)
	}

	if !event.Status.CanTransitionTo(next) {
		log.WithField("current", event.Status).Warn("Rejected backward sos status transition")
		return nil, apperrors.ErrInvalidTransition
	}

	if err := s.events.UpdateStatus(ctx, session.UserID, eventID, event.Status, next); err != nil {
		log.WithError(err).Error("Failed to update sos status in repository")
		return nil, fmt.Errorf("service: could not update sos event: %w", err)
	}

	event.Status = next
	event.UpdatedAt = s.now().UTC()
	metrics.ObserveStatusUpdate(string(next))

	if err := s.notifier.Notify(ctx, session.UserID); err != nil {
		log.WithError(err).Warn("Failed to notify inbox subscribers")
	}

	log.Info("SOS event status updated")
	return event, nil
}

// Subscribe отдает текущее активное событие (или nil) и затем каждое его изменение.
// Канал закрывается при отмене ctx, обрыве источника сигналов или ошибке чтения инбокса.
func (s *inboxService) Subscribe(ctx context.Context, userID uuid.UUID) (<-chan *models.SOSEvent, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "inbox",
		"method":  "Subscribe",
		"user_id": userID,
	})

	signals, err := s.notifier.Subscribe(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Failed to subscribe to inbox signals")
		return nil, fmt.Errorf("service: could not subscribe to inbox: %w", err)
	}

	out := make(chan *models.SOSEvent, 1)
	go func() {
		defer close(out)

		var last *models.SOSEvent
		sent := false
		emit := func() bool {
			current, err := s.events.LatestActive(ctx, userID)
			if err != nil {
				if ctx.Err() != nil {
					return false
				}
				log.WithError(err).Error("Failed to load active sos event, ending subscription")
				return false
			}
			if sent && !activeChanged(last, current) {
				return true
			}
			select {
			case out <- current:
			case <-ctx.Done():
				return false
			}
			last, sent = current, true
			return true
		}

		if !emit() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-signals:
				if !ok {
					log.Warn("Inbox signal source closed, ending subscription")
					return
				}
				if !emit() {
					return
				}
			}
		}
	}()
	return out, nil
}

func activeChanged(prev, current *models.SOSEvent) bool {
	if prev == nil || current == nil {
		return prev != current
	}
	return prev.ID != current.ID || prev.Status != current.Status
}
