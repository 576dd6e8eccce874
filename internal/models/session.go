package models

import (
	"time"

	"github.com/google/uuid"
)

// Session - явный контекст текущего пользователя, передается в каждый вызов сервисов
type Session struct {
	Token     string    `json:"token"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
