package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type SOSStatus string

const (
	SOSStatusActive       SOSStatus = "active"
	SOSStatusAcknowledged SOSStatus = "acknowledged"
	SOSStatusResolved     SOSStatus = "resolved"
)

var statusRank = map[SOSStatus]int{
	SOSStatusActive:       0,
	SOSStatusAcknowledged: 1,
	SOSStatusResolved:     2,
}

// Valid проверяет, что статус входит в перечисление
func (s SOSStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanTransitionTo разрешает только движение вперед: active -> acknowledged -> resolved.
// Переход active -> resolved тоже допустим, resolved - терминальный.
func (s SOSStatus) CanTransitionTo(next SOSStatus) bool {
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to > from
}

// SOSEvent - одно SOS оповещение, адресованное одному получателю
type SOSEvent struct {
	ID          uuid.UUID `json:"id"`
	DispatchID  uuid.UUID `json:"dispatch_id"`
	RecipientID uuid.UUID `json:"recipient_id"`
	SenderID    uuid.UUID `json:"sender_id"`
	SenderName  string    `json:"sender_name"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Speed       float64   `json:"speed"`
	Impact      float64   `json:"impact"`
	Status      SOSStatus `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MapsURL возвращает ссылку на точку в Google Maps
func (e *SOSEvent) MapsURL() string {
	return fmt.Sprintf("https://www.google.com/maps?q=%f,%f", e.Latitude, e.Longitude)
}
