package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shenikar/sos_shield/internal/models"
	apperrors "github.com/shenikar/sos_shield/pkg/errors"
	"github.com/sirupsen/logrus"
)

type userService struct {
	users    UserRepository
	sessions SessionStore
	logger   *logrus.Logger
}

func NewUserService(users UserRepository, sessions SessionStore, logger *logrus.Logger) UserService {
	return &userService{
		users:    users,
		sessions: sessions,
		logger:   logger,
	}
}

// Register регистрирует устройство и выдает токен сессии
func (s *userService) Register(ctx context.Context, user *models.User) (*models.Session, error) {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.Name = strings.TrimSpace(user.Name)
	if user.Role == "" {
		user.Role = models.RoleRider
	}

	log := s.logger.WithFields(logrus.Fields{
		"service": "user",
		"method":  "Register",
		"email":   user.Email,
	})
	log.Info("Attempting to register a new user")

	if err := s.users.Create(ctx, user); err != nil {
		log.WithError(err).Error("Failed to create user in repository")
		return nil, fmt.Errorf("service: could not register user: %w", err)
	}
	s.invalidateDirectory(ctx, log)

	session, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		log.WithError(err).Error("Failed to create session")
		return nil, fmt.Errorf("service: could not create session: %w", err)
	}

	log.WithField("user_id", user.ID).Info("User registered successfully")
	return session, nil
}

// Authenticate разрешает токен в явный контекст сессии
func (s *userService) Authenticate(ctx context.Context, token string) (*models.Session, error) {
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("service: could not authenticate: %w", err)
	}
	return session, nil
}

func (s *userService) Me(ctx context.Context, session *models.Session) (*models.User, error) {
	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", session.UserID).Warn("Failed to load current user")
		return nil, fmt.Errorf("service: could not get current user: %w", err)
	}
	return user, nil
}

// UpdatePushToken сохраняет Expo токен устройства
func (s *userService) UpdatePushToken(ctx context.Context, session *models.Session, token string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "user",
		"method":  "UpdatePushToken",
		"user_id": session.UserID,
	})

	token = strings.TrimSpace(token)
	if token == "" {
		return apperrors.ErrInvalidPushToken
	}

	if err := s.users.UpdatePushToken(ctx, session.UserID, token); err != nil {
		log.WithError(err).Error("Failed to update push token in repository")
		return fmt.Errorf("service: could not update push token: %w", err)
	}
	s.invalidateDirectory(ctx, log)

	log.Info("Push token updated successfully")
	return nil
}

func (s *userService) invalidateDirectory(ctx context.Context, log *logrus.Entry) {
	if err := s.users.InvalidateDirectoryCache(ctx); err != nil {
		log.WithError(err).Warn("Failed to invalidate directory cache")
	}
}
