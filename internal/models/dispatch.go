package models

import "github.com/google/uuid"

// DispatchResult - итог одного срабатывания SOS
type DispatchResult struct {
	DispatchID uuid.UUID `json:"dispatch_id"`
	Recipients int       `json:"recipients"`
	// Tickets - количество тикетов, принятых сервисом доставки пушей
	Tickets   int         `json:"tickets"`
	Delivered []uuid.UUID `json:"delivered"`
	// Queued - получатели, запись в инбокс которых ушла в очередь повторов
	Queued []uuid.UUID `json:"queued"`
	Failed []uuid.UUID `json:"failed,omitempty"`
}
