package reservation

import "context"

type Repository interface {
	// ListTaken returns the slot labels with a live reservation on court and date.
	ListTaken(ctx context.Context, courtID int, date string) ([]string, error)
	Create(ctx context.Context, res *Reservation) error
	// CreateBatch writes rows for one court and date in a single transaction,
	// failing with ErrSlotTaken when any slot already has a live row.
	CreateBatch(ctx context.Context, rows []*Reservation) error
	GetByID(ctx context.Context, id int) (*Reservation, error)
	List(ctx context.Context, filter Filter) ([]Reservation, error)
	UpdateStatus(ctx context.Context, id int, from, to Status) error
	Delete(ctx context.Context, id int) error
	DeleteWithStatus(ctx context.Context, id int, status Status) error
	Summary(ctx context.Context) (*Summary, error)
}
