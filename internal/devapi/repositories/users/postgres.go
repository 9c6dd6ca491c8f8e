package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/pvisualizer/internal/dbx"
	"github.com/dmitrijs2005/pvisualizer/internal/devapi/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (r *PostgresRepository) Create(ctx context.Context, u *models.User) error {
	query :=
		`INSERT INTO users (id, email, password_hash, full_name, profile_type, company, country, firm_type, market_region)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		u.ID, u.Email, u.PasswordHash, u.FullName, u.ProfileType, u.Company, u.Country, u.FirmType, u.MarketRegion,
	).Scan(&u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const selectUser = `SELECT id, email, password_hash, full_name, profile_type, company, country, firm_type, market_region, created_at
		 FROM users
		 `

func (r *PostgresRepository) get(ctx context.Context, where string, arg any) (*models.User, error) {
	u := &models.User{}
	err := r.db.QueryRowContext(ctx, selectUser+where, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.ProfileType,
		&u.Company, &u.Country, &u.FirmType, &u.MarketRegion, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.get(ctx, "WHERE email = $1", email)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.get(ctx, "WHERE id = $1", id)
}

func (r *PostgresRepository) Update(ctx context.Context, u *models.User) error {
	query :=
		`UPDATE users SET email = $2, full_name = $3, profile_type = $4, company = $5,
		 country = $6, firm_type = $7, market_region = $8
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		u.ID, u.Email, u.FullName, u.ProfileType, u.Company, u.Country, u.FirmType, u.MarketRegion)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
