package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/sos_shield/internal/models"
	"github.com/shenikar/sos_shield/internal/service"
	apperrors "github.com/shenikar/sos_shield/pkg/errors"
)

const eventColumns = `
	id,
	dispatch_id,
	recipient_id,
	sender_id,
	sender_name,
	latitude,
	longitude,
	speed,
	impact,
	status,
	created_at,
	updated_at`

type EventRepository struct {
	db *pgxpool.Pool
}

func NewEventRepository(db *pgxpool.Pool) service.EventRepository {
	return &EventRepository{db: db}
}

func scanEvent(row pgx.Row) (*models.SOSEvent, error) {
	event := &models.SOSEvent{}
	err := row.Scan(
		&event.ID,
		&event.DispatchID,
		&event.RecipientID,
		&event.SenderID,
		&event.SenderName,
		&event.Latitude,
		&event.Longitude,
		&event.Speed,
		&event.Impact,
		&event.Status,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	return event, err
}

// Create записывает событие в инбокс получателя. Повторная запись той же пары
// (dispatch_id, recipient_id) ничего не меняет и возвращает сохраненную версию.
func (r *EventRepository) Create(ctx context.Context, event *models.SOSEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Status == "" {
		event.Status = models.SOSStatusActive
	}

	query := `
		INSERT INTO sos_events (id, dispatch_id, recipient_id, sender_id, sender_name, latitude, longitude, speed, impact, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (dispatch_id, recipient_id) DO NOTHING
		RETURNING created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		event.ID,
		event.DispatchID,
		event.RecipientID,
		event.SenderID,
		event.SenderName,
		event.Latitude,
		event.Longitude,
		event.Speed,
		event.Impact,
		event.Status,
	).Scan(&event.CreatedAt, &event.UpdatedAt)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to create sos event: %w", err)
	}

	// Конфликт: событие этой рассылки уже лежит в инбоксе
	query = `SELECT ` + eventColumns + ` FROM sos_events WHERE dispatch_id = $1 AND recipient_id = $2;`
	existing, err := scanEvent(r.db.QueryRow(ctx, query, event.DispatchID, event.RecipientID))
	if err != nil {
		return fmt.Errorf("failed to load existing sos event: %w", err)
	}
	*event = *existing
	return nil
}

// GetByID возвращает событие из инбокса получателя
func (r *EventRepository) GetByID(ctx context.Context, recipientID, eventID uuid.UUID) (*models.SOSEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM sos_events WHERE id = $1 AND recipient_id = $2;`
	event, err := scanEvent(r.db.QueryRow(ctx, query, eventID, recipientID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("sos event %s: %w", eventID, apperrors.ErrEventNotFound)
		}
		return nil, fmt.Errorf("failed to get sos event: %w", err)
	}
	return event, nil
}

// LatestActive возвращает самое свежее активное событие или nil
func (r *EventRepository) LatestActive(ctx context.Context, recipientID uuid.UUID) (*models.SOSEvent, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM sos_events
		WHERE recipient_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1;
	`
	event, err := scanEvent(r.db.QueryRow(ctx, query, recipientID, models.SOSStatusActive))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest active sos event: %w", err)
	}
	return event, nil
}

// ListByRecipient возвращает последние события инбокса любого статуса
func (r *EventRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]*models.SOSEvent, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM sos_events
		WHERE recipient_id = $1
		ORDER BY created_at DESC
		LIMIT $2;
	`
	rows, err := r.db.Query(ctx, query, recipientID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sos events: %w", err)
	}
	defer rows.Close()

	events := make([]*models.SOSEvent, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sos event row: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return events, nil
}

// UpdateStatus - compare-and-set: статус меняется, только если он все еще равен from
func (r *EventRepository) UpdateStatus(ctx context.Context, recipientID, eventID uuid.UUID, from, to models.SOSStatus) error {
	query := `
		UPDATE sos_events SET
			status = $1,
			updated_at = NOW()
		WHERE id = $2 AND recipient_id = $3 AND status = $4;
	`
	cmdTag, err := r.db.Exec(ctx, query, to, eventID, recipientID, from)
	if err != nil {
		return fmt.Errorf("failed to update sos event status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStatusChanged
	}
	return nil
}
