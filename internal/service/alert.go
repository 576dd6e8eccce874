package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/sos_shield/internal/config"
	"github.com/shenikar/sos_shield/internal/delivery"
	"github.com/shenikar/sos_shield/internal/models"
	"github.com/shenikar/sos_shield/internal/push"
	apperrors "github.com/shenikar/sos_shield/pkg/errors"
	"github.com/shenikar/sos_shield/pkg/metrics"
	"github.com/sirupsen/logrus"
)

const (
	sosTitle     = "🚨 SOS Emergency Alert"
	sosChannelID = "sos"
)

type alertService struct {
	users     UserRepository
	contacts  ContactRepository
	events    EventRepository
	notifier  InboxNotifier
	pusher    push.Sender
	publisher delivery.Publisher
	logger    *logrus.Logger
	cfg       *config.Config
	now       func() time.Time
}

func NewAlertService(
	users UserRepository,
	contacts ContactRepository,
	events EventRepository,
	notifier InboxNotifier,
	pusher push.Sender,
	publisher delivery.Publisher,
	logger *logrus.Logger,
	cfg *config.Config,
) AlertService {
	return &alertService{
		users:     users,
		contacts:  contacts,
		events:    events,
		notifier:  notifier,
		pusher:    pusher,
		publisher: publisher,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Trigger рассылает SOS выбранным контактам и кладет событие в инбокс каждого получателя.
// Пуш отправляется одним запросом и считается успешным или проваленным целиком;
// при провале инбоксы не трогаются.
func (s *alertService) Trigger(ctx context.Context, session *models.Session, telemetry models.Telemetry) (*models.DispatchResult, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "alert",
		"method":  "Trigger",
		"user_id": session.UserID,
	})
	log.Info("SOS triggered")

	sender, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		log.WithError(err).Error("Failed to load sender")
		metrics.ObserveDispatch(metrics.DispatchError)
		return nil, fmt.Errorf("service: could not load sender: %w", err)
	}

	selected, err := s.contacts.ListSelected(ctx, session.UserID)
	if err != nil {
		log.WithError(err).Error("Failed to read selected contacts")
		metrics.ObserveDispatch(metrics.DispatchError)
		return nil, fmt.Errorf("service: could not read selected contacts: %w", err)
	}

	recipients := uniqueRecipients(selected)
	if len(recipients) == 0 {
		log.Warn("No contacts selected, nothing to send")
		metrics.ObserveDispatch(metrics.DispatchNoRecipients)
		return nil, apperrors.ErrNoRecipients
	}

	now := s.now().UTC()
	senderName := sender.DisplayName()

	tickets, err := s.pusher.Send(ctx, buildMessages(recipients, sender, senderName, telemetry, now))
	if err != nil {
		log.WithError(err).Error("Failed to send SOS push notifications")
		metrics.ObserveDispatch(metrics.DispatchPushFailed)
		return nil, apperrors.ErrPushFailed(err)
	}

	result := &models.DispatchResult{
		DispatchID: uuid.New(),
		Recipients: len(recipients),
		Delivered:  make([]uuid.UUID, 0, len(recipients)),
		Queued:     make([]uuid.UUID, 0),
	}
	for _, t := range tickets {
		metrics.ObservePushTicket(t.OK())
		if t.OK() {
			result.Tickets++
		}
	}

	events := make([]*models.SOSEvent, len(recipients))
	for i, c := range recipients {
		events[i] = &models.SOSEvent{
			ID:          uuid.New(),
			DispatchID:  result.DispatchID,
			RecipientID: c.ContactID,
			SenderID:    sender.ID,
			SenderName:  senderName,
			Latitude:    telemetry.Latitude,
			Longitude:   telemetry.Longitude,
			Speed:       telemetry.Speed,
			Impact:      telemetry.Impact,
			Status:      models.SOSStatusActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}

	// Уход клиента не должен обрывать уже начатые записи
	writeCtx := context.WithoutCancel(ctx)
	errs := s.writeInboxes(writeCtx, events)

	for i, event := range events {
		if errs[i] == nil {
			result.Delivered = append(result.Delivered, event.RecipientID)
			metrics.ObserveInboxWrite("written")
			continue
		}

		elog := log.WithField("recipient_id", event.RecipientID).WithError(errs[i])
		elog.Warn("Inbox write failed, queueing retry")
		task := delivery.Task{Kind: delivery.TaskInboxWrite, Event: event, LastError: errs[i].Error(), CreatedAt: now}
		if err := s.publisher.Publish(writeCtx, task); err != nil {
			elog.WithField("queue_error", err.Error()).Error("Failed to queue inbox write retry")
			result.Failed = append(result.Failed, event.RecipientID)
			metrics.ObserveInboxWrite("failed")
			continue
		}
		result.Queued = append(result.Queued, event.RecipientID)
		metrics.ObserveInboxWrite("queued")
	}

	if s.cfg.AlertWebhookURL != "" {
		s.mirrorToWebhook(writeCtx, log, result, sender, senderName, telemetry, now)
	}

	metrics.ObserveDispatch(metrics.DispatchSent)
	log.WithFields(logrus.Fields{
		"dispatch_id": result.DispatchID,
		"recipients":  result.Recipients,
		"delivered":   len(result.Delivered),
		"queued":      len(result.Queued),
		"failed":      len(result.Failed),
	}).Info("SOS dispatched")
	return result, nil
}

// writeInboxes пишет события параллельно: запускает все записи и ждет все.
// Ошибка одной записи не отменяет остальные.
func (s *alertService) writeInboxes(ctx context.Context, events []*models.SOSEvent) []error {
	errs := make([]error, len(events))
	var wg sync.WaitGroup
	for i, event := range events {
		wg.Add(1)
		go func(i int, event *models.SOSEvent) {
			defer wg.Done()
			if err := s.events.Create(ctx, event); err != nil {
				errs[i] = err
				return
			}
			if err := s.notifier.Notify(ctx, event.RecipientID); err != nil {
				s.logger.WithError(err).WithField("recipient_id", event.RecipientID).Warn("Failed to notify inbox subscribers")
			}
		}(i, event)
	}
	wg.Wait()
	return errs
}

func (s *alertService) mirrorToWebhook(ctx context.Context, log *logrus.Entry, result *models.DispatchResult, sender *models.User, senderName string, telemetry models.Telemetry, now time.Time) {
	recipients := make([]uuid.UUID, 0, len(result.Delivered)+len(result.Queued)+len(result.Failed))
	recipients = append(recipients, result.Delivered...)
	recipients = append(recipients, result.Queued...)
	recipients = append(recipients, result.Failed...)

	task := delivery.Task{
		Kind: delivery.TaskAlertWebhook,
		Alert: &delivery.AlertPayload{
			DispatchID: result.DispatchID,
			SenderID:   sender.ID,
			SenderName: senderName,
			Telemetry:  telemetry,
			Recipients: recipients,
			Timestamp:  now,
		},
		CreatedAt: now,
	}
	if err := s.publisher.Publish(ctx, task); err != nil {
		log.WithError(err).Warn("Failed to queue alert webhook")
	}
}

// uniqueRecipients отбрасывает дубликаты и контакты без рабочего токена
func uniqueRecipients(selected []*models.SelectedContact) []*models.SelectedContact {
	seen := make(map[uuid.UUID]struct{}, len(selected))
	recipients := make([]*models.SelectedContact, 0, len(selected))
	for _, c := range selected {
		if !models.IsValidPushToken(c.PushToken) {
			continue
		}
		if _, ok := seen[c.ContactID]; ok {
			continue
		}
		seen[c.ContactID] = struct{}{}
		recipients = append(recipients, c)
	}
	return recipients
}

func buildMessages(recipients []*models.SelectedContact, sender *models.User, senderName string, telemetry models.Telemetry, now time.Time) []push.Message {
	data := map[string]any{
		"fromUserId": sender.ID.String(),
		"fromName":   senderName,
		"lat":        telemetry.Latitude,
		"lng":        telemetry.Longitude,
		"speed":      telemetry.Speed,
		"impact":     telemetry.Impact,
		"timestamp":  now.Format(time.RFC3339),
	}

	messages := make([]push.Message, 0, len(recipients))
	for _, c := range recipients {
		messages = append(messages, push.Message{
			To:        c.PushToken,
			Sound:     "default",
			Title:     sosTitle,
			Body:      fmt.Sprintf("%s needs help. Tap to open location.", senderName),
			Data:      data,
			Priority:  "high",
			ChannelID: sosChannelID,
		})
	}
	return messages
}
