package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/sos_shield/internal/models"
	"github.com/shenikar/sos_shield/internal/service"
)

type ContactRepository struct {
	db *pgxpool.Pool
}

func NewContactRepository(db *pgxpool.Pool) service.ContactRepository {
	return &ContactRepository{db: db}
}

// ListSelected возвращает выбранные контакты владельца
func (r *ContactRepository) ListSelected(ctx context.Context, ownerID uuid.UUID) ([]*models.SelectedContact, error) {
	query := `
		SELECT owner_id, contact_id, name, push_token, created_at
		FROM selected_contacts
		WHERE owner_id = $1
		ORDER BY created_at;
	`
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list selected contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]*models.SelectedContact, 0)
	for rows.Next() {
		contact := &models.SelectedContact{}
		if err := rows.Scan(
			&contact.OwnerID,
			&contact.ContactID,
			&contact.Name,
			&contact.PushToken,
			&contact.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan selected contact row: %w", err)
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return contacts, nil
}

func (r *ContactRepository) IsSelected(ctx context.Context, ownerID, contactID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM selected_contacts WHERE owner_id = $1 AND contact_id = $2);`
	var exists bool
	if err := r.db.QueryRow(ctx, query, ownerID, contactID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check selected contact: %w", err)
	}
	return exists, nil
}

// Add добавляет контакт в набор; повторное добавление обновляет денормализованные поля
func (r *ContactRepository) Add(ctx context.Context, contact *models.SelectedContact) error {
	query := `
		INSERT INTO selected_contacts (owner_id, contact_id, name, push_token)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner_id, contact_id)
		DO UPDATE SET name = EXCLUDED.name, push_token = EXCLUDED.push_token
		RETURNING created_at;
	`
	err := r.db.QueryRow(ctx, query,
		contact.OwnerID,
		contact.ContactID,
		contact.Name,
		contact.PushToken,
	).Scan(&contact.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add selected contact: %w", err)
	}
	return nil
}

func (r *ContactRepository) Remove(ctx context.Context, ownerID, contactID uuid.UUID) error {
	query := `DELETE FROM selected_contacts WHERE owner_id = $1 AND contact_id = $2;`
	if _, err := r.db.Exec(ctx, query, ownerID, contactID); err != nil {
		return fmt.Errorf("failed to remove selected contact: %w", err)
	}
	return nil
}
