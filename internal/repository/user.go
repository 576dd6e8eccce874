package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/sos_shield/internal/models"
	"github.com/shenikar/sos_shield/internal/service"
	apperrors "github.com/shenikar/sos_shield/pkg/errors"
)

const (
	directoryCacheKey = "directory:users"
	uniqueViolation   = "23505"
)

type UserRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewUserRepository(db *pgxpool.Pool, redisClient *redis.Client, cacheTTL time.Duration) service.UserRepository {
	return &UserRepository{
		db:          db,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
	}
}

// Create создает нового пользователя в бд
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email, push_token, role)
		VALUES ($1, $2, $3, $4) RETURNING id, created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.PushToken,
		user.Role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperrors.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID возвращает пользователя по его UUID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, name, email, push_token, role, created_at, updated_at
		FROM users
		WHERE id = $1;
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PushToken,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user with id %s: %w", id, apperrors.ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// UpdatePushToken сохраняет push токен устройства
func (r *UserRepository) UpdatePushToken(ctx context.Context, id uuid.UUID, token string) error {
	query := `
		UPDATE users SET
			push_token = $1,
			updated_at = NOW()
		WHERE id = $2;
	`
	cmdTag, err := r.db.Exec(ctx, query, token, id)
	if err != nil {
		return fmt.Errorf("failed to update push token: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user with id %s: %w", id, apperrors.ErrUserNotFound)
	}
	return nil
}

// ListWithPushToken возвращает справочник пользователей, которым можно доставить пуш
func (r *UserRepository) ListWithPushToken(ctx context.Context) ([]*models.User, error) {
	query := `
		SELECT id, name, email, push_token, role, created_at, updated_at
		FROM users
		WHERE push_token <> '' AND push_token <> $1
		ORDER BY COALESCE(NULLIF(name, ''), email);
	`
	rows, err := r.db.Query(ctx, query, models.PushTokenNotAvailable)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user := &models.User{}
		err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.PushToken,
			&user.Role,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return users, nil
}

// GetDirectoryFromCache пытается получить справочник из Redis. nil, nil - промах кеша
func (r *UserRepository) GetDirectoryFromCache(ctx context.Context) ([]*models.User, error) {
	val, err := r.redisClient.Get(ctx, directoryCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get directory from cache: %w", err)
	}

	users := make([]*models.User, 0)
	if err := json.Unmarshal(val, &users); err != nil {
		return nil, fmt.Errorf("failed to unmarshal directory from cache: %w", err)
	}
	return users, nil
}

// SetDirectoryCache сохраняет справочник в Redis
func (r *UserRepository) SetDirectoryCache(ctx context.Context, users []*models.User) error {
	val, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("failed to marshal directory for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, directoryCacheKey, val, r.cacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set directory in cache: %w", err)
	}
	return nil
}

// InvalidateDirectoryCache удаляет справочник из Redis кэша
func (r *UserRepository) InvalidateDirectoryCache(ctx context.Context) error {
	if err := r.redisClient.Del(ctx, directoryCacheKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate directory cache: %w", err)
	}
	return nil
}
