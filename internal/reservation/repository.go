package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const selectReservation = `
	SELECT r.id, r.request_id, r.court_id, c.name AS court_name,
		to_char(r.booking_date, 'YYYY-MM-DD') AS booking_date, r.time_slot,
		r.customer_name, r.customer_contact, r.status, r.total_price,
		r.pricing_mode, r.created_at
	FROM reservations r
	JOIN courts c ON c.id = r.court_id`

const insertReservation = `
	INSERT INTO reservations (request_id, court_id, booking_date, time_slot, customer_name,
		customer_contact, status, total_price, pricing_mode)
	VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9)
	RETURNING id, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListTaken(ctx context.Context, courtID int, date string) ([]string, error) {
	query := `
		SELECT time_slot
		FROM reservations
		WHERE court_id = $1 AND booking_date = $2::date AND status <> 'REJECTED'
	`

	taken := []string{}
	if err := r.db.SelectContext(ctx, &taken, query, courtID, date); err != nil {
		return nil, err
	}
	return taken, nil
}

func (r *repository) Create(ctx context.Context, res *Reservation) error {
	return r.db.QueryRowxContext(ctx, insertReservation, insertArgs(res)...).
		Scan(&res.ID, &res.CreatedAt)
}

func (r *repository) CreateBatch(ctx context.Context, rows []*Reservation) error {
	if len(rows) == 0 {
		return nil
	}
	courtID, date := rows[0].CourtID, rows[0].Date
	labels := make([]string, 0, len(rows))
	for _, res := range rows {
		if res.CourtID != courtID || res.Date != date {
			return errors.New("batch rows must share court and date")
		}
		labels = append(labels, res.TimeSlot)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Serialises writers for the same court and date.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1, hashtext($2))`, courtID, date); err != nil {
		return err
	}

	var taken []string
	err = tx.SelectContext(ctx, &taken, `
		SELECT time_slot
		FROM reservations
		WHERE court_id = $1 AND booking_date = $2::date AND status <> 'REJECTED'
			AND time_slot = ANY($3)
	`, courtID, date, pq.Array(labels))
	if err != nil {
		return err
	}
	if len(taken) > 0 {
		return fmt.Errorf("%w: %s", ErrSlotTaken, strings.Join(taken, ", "))
	}

	for _, res := range rows {
		if err := tx.QueryRowxContext(ctx, insertReservation, insertArgs(res)...).Scan(&res.ID, &res.CreatedAt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func insertArgs(res *Reservation) []interface{} {
	return []interface{}{
		res.RequestID,
		res.CourtID,
		res.Date,
		res.TimeSlot,
		res.CustomerName,
		res.CustomerContact,
		res.Status,
		res.TotalPrice,
		res.PricingMode,
	}
}

func (r *repository) GetByID(ctx context.Context, id int) (*Reservation, error) {
	var res Reservation
	err := r.db.GetContext(ctx, &res, selectReservation+` WHERE r.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *repository) List(ctx context.Context, filter Filter) ([]Reservation, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("r.status = $%d", len(args)))
	}
	if filter.CourtID != 0 {
		args = append(args, filter.CourtID)
		where = append(where, fmt.Sprintf("r.court_id = $%d", len(args)))
	}
	if filter.Date != "" {
		args = append(args, filter.Date)
		where = append(where, fmt.Sprintf("r.booking_date = $%d::date", len(args)))
	}

	query := selectReservation
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY r.created_at DESC, r.id DESC"

	reservations := []Reservation{}
	if err := r.db.SelectContext(ctx, &reservations, query, args...); err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int, from, to Status) error {
	query := `
		UPDATE reservations
		SET status = $1
		WHERE id = $2 AND status = $3
	`

	result, err := r.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return err
	}
	return expectOne(result, ErrInvalidTransition)
}

func (r *repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOne(result, ErrNotFound)
}

func (r *repository) DeleteWithStatus(ctx context.Context, id int, status Status) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1 AND status = $2`, id, status)
	if err != nil {
		return err
	}
	return expectOne(result, ErrInvalidTransition)
}

func expectOne(result sql.Result, none error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return none
	}
	return nil
}

// Summary counts live rows. Revenue is counted once per booking request.
func (r *repository) Summary(ctx context.Context) (*Summary, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'PENDING') AS pending,
			COUNT(*) FILTER (WHERE status = 'APPROVED') AS approved,
			COUNT(*) FILTER (WHERE status = 'CONFIRMED') AS confirmed,
			COALESCE((
				SELECT SUM(total_price) FROM (
					SELECT DISTINCT ON (request_id) request_id, total_price
					FROM reservations
					WHERE status <> 'REJECTED'
					ORDER BY request_id
				) requests
			), 0) AS revenue
		FROM reservations
		WHERE status <> 'REJECTED'
	`

	var s Summary
	if err := r.db.GetContext(ctx, &s, query); err != nil {
		return nil, err
	}
	return &s, nil
}
