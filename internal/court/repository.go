package court

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type PostgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, name, location string) (*Court, error) {
	query := `
		INSERT INTO courts (name, location)
		VALUES ($1, $2)
		RETURNING id, name, location, created_at
	`

	var c Court
	if err := r.db.GetContext(ctx, &c, query, name, location); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]Court, error) {
	query := `
		SELECT id, name, location, created_at
		FROM courts
		ORDER BY id ASC
	`

	courts := []Court{}
	if err := r.db.SelectContext(ctx, &courts, query); err != nil {
		return nil, err
	}
	return courts, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (*Court, error) {
	query := `
		SELECT id, name, location, created_at
		FROM courts
		WHERE id = $1
	`

	var c Court
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		return nil, err
	}
	return &c, nil
}
