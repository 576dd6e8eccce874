package models

import (
	"time"

	"github.com/google/uuid"
)

// PushTokenNotAvailable - значение, которое клиент пишет, если разрешение на пуши не выдано
const PushTokenNotAvailable = "not_available"

const (
	RoleRider = "rider"
	RoleAdmin = "admin"
)

// User представляет зарегистрированное устройство/пользователя
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	PushToken string    `json:"push_token"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName возвращает имя или email, если имя не задано
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// HasValidPushToken проверяет, можно ли доставить пользователю пуш
func (u *User) HasValidPushToken() bool {
	return IsValidPushToken(u.PushToken)
}

func IsValidPushToken(token string) bool {
	return token != "" && token != PushTokenNotAvailable
}
