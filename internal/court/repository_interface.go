package court

import "context"

type Repository interface {
	Create(ctx context.Context, name, location string) (*Court, error)
	List(ctx context.Context) ([]Court, error)
	GetByID(ctx context.Context, id int) (*Court, error)
}
