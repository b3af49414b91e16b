package reservation

import (
	"time"

	"github.com/jeysi05/pickle-jar-courts/internal/pricing"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusConfirmed Status = "CONFIRMED"
	StatusRejected  Status = "REJECTED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusConfirmed, StatusRejected:
		return true
	}
	return false
}

// Booked reports whether the status is an admin-accepted booking.
func (s Status) Booked() bool {
	return s == StatusApproved || s == StatusConfirmed
}

// Reservation is one (court, date, slot) row. Rows created by the same
// request share RequestID, customer data and TotalPrice.
type Reservation struct {
	ID              int       `db:"id" json:"id"`
	RequestID       string    `db:"request_id" json:"request_id"`
	CourtID         int       `db:"court_id" json:"court_id"`
	CourtName       string    `db:"court_name" json:"court_name"`
	Date            string    `db:"booking_date" json:"date"`
	TimeSlot        string    `db:"time_slot" json:"time_slot"`
	CustomerName    string    `db:"customer_name" json:"customer_name"`
	CustomerContact string    `db:"customer_contact" json:"customer_contact"`
	Status          Status    `db:"status" json:"status"`
	TotalPrice      int64     `db:"total_price" json:"total_price"`
	PricingMode     string    `db:"pricing_mode" json:"pricing_mode"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

type BookingRequest struct {
	CourtID         int      `json:"court_id" validate:"required,min=1"`
	Date            string   `json:"date" validate:"required,datetime=2006-01-02"`
	Slots           []string `json:"slots" validate:"required,min=1,max=24,dive,required"`
	CustomerName    string   `json:"customer_name" validate:"required,max=100"`
	CustomerContact string   `json:"customer_contact" validate:"required,max=32"`
}

type QuoteRequest struct {
	Date  string   `json:"date" validate:"required,datetime=2006-01-02"`
	Slots []string `json:"slots" validate:"required,min=1,max=24,dive,required"`
}

// Submission is the outcome of a booking request. Failed lists the slots
// whose rows did not save; Notified is false when the admin notice could not
// be queued.
type Submission struct {
	RequestID    string        `json:"request_id"`
	Quote        pricing.Quote `json:"quote"`
	Reservations []Reservation `json:"reservations"`
	Failed       []string      `json:"failed,omitempty"`
	Notified     bool          `json:"notified"`
}

type Availability struct {
	CourtID int                `json:"court_id"`
	Date    string             `json:"date"`
	Mode    pricing.Mode       `json:"mode"`
	Policy  string             `json:"policy"`
	Slots   []pricing.SlotView `json:"slots"`
}

type Filter struct {
	Status  Status
	CourtID int
	Date    string
}

type Summary struct {
	Total     int   `db:"total" json:"total"`
	Pending   int   `db:"pending" json:"pending"`
	Approved  int   `db:"approved" json:"approved"`
	Confirmed int   `db:"confirmed" json:"confirmed"`
	Revenue   int64 `db:"revenue" json:"revenue"`
}

type CalendarLink struct {
	ReservationID int    `json:"reservation_id"`
	URL           string `json:"url"`
}
