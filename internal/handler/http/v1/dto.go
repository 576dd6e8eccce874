package v1

import (
	"time"

	"github.com/google/uuid"
)

// RegisterUserRequest DTO для регистрации устройства
// @Description DTO для регистрации устройства
type RegisterUserRequest struct {
	Name      string `json:"name" validate:"max=255"`
	Email     string `json:"email" validate:"required,email,max=255"`
	PushToken string `json:"push_token,omitempty" validate:"max=255"`
	Role      string `json:"role,omitempty" validate:"omitempty,oneof=rider admin"`
}

// RegisterUserResponse DTO ответа на регистрацию
// @Description DTO ответа на регистрацию
type RegisterUserResponse struct {
	User  *UserResponse `json:"user"`
	Token string        `json:"token"`
}

// UserResponse DTO текущего пользователя
// @Description DTO текущего пользователя
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	PushToken string    `json:"push_token,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdatePushTokenRequest DTO для сохранения Expo токена
// @Description DTO для сохранения Expo токена
type UpdatePushTokenRequest struct {
	PushToken string `json:"push_token" validate:"required,max=255"`
}

// DirectoryEntryResponse DTO пользователя в справочнике контактов
// @Description DTO пользователя в справочнике контактов
type DirectoryEntryResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// SelectedContactResponse DTO выбранного экстренного контакта
// @Description DTO выбранного экстренного контакта
type SelectedContactResponse struct {
	ContactID uuid.UUID `json:"contact_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ToggleContactResponse DTO результата переключения контакта
// @Description DTO результата переключения контакта
type ToggleContactResponse struct {
	ContactID uuid.UUID `json:"contact_id"`
	Selected  bool      `json:"selected"`
}

// TriggerSOSRequest DTO телеметрии для отправки SOS
// @Description DTO телеметрии для отправки SOS
type TriggerSOSRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
	Speed     float64  `json:"speed" validate:"gte=0"`
	Impact    float64  `json:"impact" validate:"gte=0"`
}

// DispatchResponse DTO результата рассылки SOS
// @Description DTO результата рассылки SOS
type DispatchResponse struct {
	DispatchID uuid.UUID   `json:"dispatch_id"`
	Recipients int         `json:"recipients"`
	Tickets    int         `json:"tickets"`
	Delivered  []uuid.UUID `json:"delivered"`
	Queued     []uuid.UUID `json:"queued"`
	Failed     []uuid.UUID `json:"failed,omitempty"`
}

// SOSEventResponse DTO входящего SOS события
// @Description DTO входящего SOS события
type SOSEventResponse struct {
	ID         uuid.UUID `json:"id"`
	DispatchID uuid.UUID `json:"dispatch_id"`
	SenderID   uuid.UUID `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Speed      float64   `json:"speed"`
	Impact     float64   `json:"impact"`
	Status     string    `json:"status"`
	MapsURL    string    `json:"maps_url"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ActiveSOSResponse DTO активного SOS события, event равен null если активных нет
// @Description DTO активного SOS события
type ActiveSOSResponse struct {
	Event *SOSEventResponse `json:"event"`
}

// UpdateSOSStatusRequest DTO для смены статуса события
// @Description DTO для смены статуса события
type UpdateSOSStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active acknowledged resolved"`
}
