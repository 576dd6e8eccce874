package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shenikar/sos_shield/internal/models"
	apperrors "github.com/shenikar/sos_shield/pkg/errors"
	"github.com/sirupsen/logrus"
)

type contactService struct {
	users    UserRepository
	contacts ContactRepository
	logger   *logrus.Logger
}

func NewContactService(users UserRepository, contacts ContactRepository, logger *logrus.Logger) ContactService {
	return &contactService{
		users:    users,
		contacts: contacts,
		logger:   logger,
	}
}

// Directory возвращает всех пользователей с рабочим push токеном, кроме текущего
func (s *contactService) Directory(ctx context.Context, session *models.Session) ([]*models.User, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "contact",
		"method":  "Directory",
		"user_id": session.UserID,
	})

	all, err := s.users.GetDirectoryFromCache(ctx)
	if err != nil {
		log.WithError(err).Warn("Failed to read directory cache")
	}
	if all == nil {
		all, err = s.users.ListWithPushToken(ctx)
		if err != nil {
			log.WithError(err).Error("Failed to list directory from repository")
			return nil, fmt.Errorf("service: could not list directory: %w", err)
		}
		if err := s.users.SetDirectoryCache(ctx, all); err != nil {
			log.WithError(err).Warn("Failed to set directory cache")
		}
	}

	directory := make([]*models.User, 0, len(all))
	for _, u := range all {
		if u.ID == session.UserID || !u.HasValidPushToken() {
			continue
		}
		directory = append(directory, u)
	}

	log.WithField("count", len(directory)).Debug("Directory listed")
	return directory, nil
}

// Selected возвращает текущий набор экстренных контактов
func (s *contactService) Selected(ctx context.Context, session *models.Session) ([]*models.SelectedContact, error) {
	contacts, err := s.contacts.ListSelected(ctx, session.UserID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", session.UserID).Error("Failed to list selected contacts")
		return nil, fmt.Errorf("service: could not list selected contacts: %w", err)
	}
	return contacts, nil
}

// Toggle добавляет контакт в набор или убирает его оттуда. Возвращает новое членство.
func (s *contactService) Toggle(ctx context.Context, session *models.Session, contactID uuid.UUID) (bool, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":    "contact",
		"method":     "Toggle",
		"user_id":    session.UserID,
		"contact_id": contactID,
	})

	if contactID == session.UserID {
		return false, apperrors.ErrContactIsSelf
	}

	selected, err := s.contacts.IsSelected(ctx, session.UserID, contactID)
	if err != nil {
		log.WithError(err).Error("Failed to check selection")
		return false, fmt.Errorf("service: could not toggle contact: %w", err)
	}

	if selected {
		if err := s.contacts.Remove(ctx, session.UserID, contactID); err != nil {
			log.WithError(err).Error("Failed to remove contact from selection")
			return true, fmt.Errorf("service: could not remove contact: %w", err)
		}
		log.Info("Contact removed from selection")
		return false, nil
	}

	contact, err := s.users.GetByID(ctx, contactID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			log.Warn("Attempted to select a non-existent contact")
			return false, apperrors.ErrContactNotFound
		}
		log.WithError(err).Error("Failed to load contact")
		return false, fmt.Errorf("service: could not load contact: %w", err)
	}
	if !contact.HasValidPushToken() {
		return false, apperrors.ErrContactNoToken
	}

	err = s.contacts.Add(ctx, &models.SelectedContact{
		OwnerID:   session.UserID,
		ContactID: contact.ID,
		Name:      contact.DisplayName(),
		PushToken: contact.PushToken,
	})
	if err != nil {
		log.WithError(err).Error("Failed to add contact to selection")
		return false, fmt.Errorf("service: could not add contact: %w", err)
	}

	log.Info("Contact added to selection")
	return true, nil
}
