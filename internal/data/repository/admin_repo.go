package repository

import (
	"context"
	"fmt"

	"local-market/internal/data/entity"
	"local-market/pkg/database"

	"go.uber.org/zap"
)

type AdminRepository interface {
	Create(ctx context.Context, admin *entity.Admin) error
	FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error)
	CountAll(ctx context.Context) (int64, error)
}

type adminRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewAdminRepository(db database.Querier, log *zap.Logger) AdminRepository {
	return &adminRepository{
		db:  db,
		log: log.With(zap.String("repository", "admin")),
	}
}

func (r *adminRepository) Create(ctx context.Context, admin *entity.Admin) error {
	if _, err := r.db.Exec(ctx, `INSERT INTO admins (id) VALUES ($1)`, admin.ID); err != nil {
		r.log.Error("Failed to create admin", zap.Error(err), zap.String("user_id", admin.ID.String()))
		return fmt.Errorf("create admin %s: %w", admin.ID.String(), err)
	}
	return nil
}

func (r *adminRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	return findUsersJoined(ctx, r.db, r.log, "admins", limit, offset)
}

func (r *adminRepository) CountAll(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, r.log, "admins")
}

// findUsersJoined lists the users that own a row in a satellite table.
// table is always a package constant, never caller input.
func findUsersJoined(ctx context.Context, db database.Querier, log *zap.Logger, table string, limit, offset int) ([]*entity.User, error) {
	query := fmt.Sprintf(`
		SELECT u.id, u.email, u.name, u.password, u.refresh_token, u.role, u.created_at, u.updated_at
		FROM %s s
		JOIN users u ON u.id = s.id
		ORDER BY u.created_at DESC
		LIMIT $1 OFFSET $2
	`, table)

	rows, err := db.Query(ctx, query, limit, offset)
	if err != nil {
		log.Error("Failed to list users", zap.Error(err), zap.String("table", table))
		return nil, fmt.Errorf("find all %s: %w", table, err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			log.Error("Failed to scan user row", zap.Error(err), zap.String("table", table))
			return nil, fmt.Errorf("scan %s row: %w", table, err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate %s rows: %w", table, err)
	}

	return users, nil
}

func countRows(ctx context.Context, db database.Querier, log *zap.Logger, table string) (int64, error) {
	var total int64
	if err := db.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)).Scan(&total); err != nil {
		log.Error("Failed to count rows", zap.Error(err), zap.String("table", table))
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return total, nil
}
