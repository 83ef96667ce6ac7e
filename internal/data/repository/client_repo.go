package repository

import (
	"context"
	"errors"
	"fmt"

	"local-market/internal/data/entity"
	"local-market/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Client, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.ClientAccount, error)
	CountAll(ctx context.Context) (int64, error)
}

type clientRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewClientRepository(db database.Querier, log *zap.Logger) ClientRepository {
	return &clientRepository{
		db:  db,
		log: log.With(zap.String("repository", "client")),
	}
}

func (r *clientRepository) Create(ctx context.Context, client *entity.Client) error {
	query := `INSERT INTO clients (id, cep, latitude, longitude) VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query, client.ID, client.Cep, client.Latitude, client.Longitude)
	if err != nil {
		r.log.Error("Failed to create client",
			zap.Error(err),
			zap.String("user_id", client.ID.String()),
			zap.String("cep", client.Cep),
		)
		return fmt.Errorf("create client %s: %w", client.ID.String(), err)
	}

	return nil
}

func (r *clientRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Client, error) {
	query := `SELECT id, cep, latitude, longitude FROM clients WHERE id = $1`

	var client entity.Client
	err := r.db.QueryRow(ctx, query, id).Scan(&client.ID, &client.Cep, &client.Latitude, &client.Longitude)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find client by ID", zap.Error(err), zap.String("user_id", id.String()))
		return nil, fmt.Errorf("find client by ID %s: %w", id.String(), err)
	}

	return &client, nil
}

func (r *clientRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.ClientAccount, error) {
	query := `
		SELECT u.id, u.email, u.name, u.password, u.refresh_token, u.role, u.created_at, u.updated_at,
		       c.cep, c.latitude, c.longitude
		FROM clients c
		JOIN users u ON u.id = c.id
		ORDER BY u.created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to find all clients", zap.Error(err), zap.Int("limit", limit), zap.Int("offset", offset))
		return nil, fmt.Errorf("find all clients limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var clients []*entity.ClientAccount
	for rows.Next() {
		var c entity.ClientAccount
		err := rows.Scan(
			&c.ID,
			&c.Email,
			&c.Name,
			&c.PasswordHash,
			&c.RefreshTokenHash,
			&c.Role,
			&c.CreatedAt,
			&c.UpdatedAt,
			&c.Cep,
			&c.Latitude,
			&c.Longitude,
		)
		if err != nil {
			r.log.Error("Failed to scan client row", zap.Error(err))
			return nil, fmt.Errorf("scan client row: %w", err)
		}
		clients = append(clients, &c)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate client rows: %w", err)
	}

	return clients, nil
}

func (r *clientRepository) CountAll(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, r.log, "clients")
}
