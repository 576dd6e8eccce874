package models

import (
	"time"

	"github.com/google/uuid"
)

// SelectedContact - связь владелец -> экстренный контакт с денормализованными именем и токеном
type SelectedContact struct {
	OwnerID   uuid.UUID `json:"owner_id"`
	ContactID uuid.UUID `json:"contact_id"`
	Name      string    `json:"name"`
	PushToken string    `json:"push_token"`
	CreatedAt time.Time `json:"created_at"`
}
