package reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jeysi05/pickle-jar-courts/internal/court"
	"github.com/jeysi05/pickle-jar-courts/internal/email"
	"github.com/jeysi05/pickle-jar-courts/internal/events"
	"github.com/jeysi05/pickle-jar-courts/internal/logger"
	"github.com/jeysi05/pickle-jar-courts/internal/metrics"
	"github.com/jeysi05/pickle-jar-courts/internal/pricing"
)

// Notifier tells the admin about a new booking request.
type Notifier interface {
	SendBookingRequest(ctx context.Context, notice email.BookingNotice) error
}

type Service interface {
	Submit(ctx context.Context, req BookingRequest, mode pricing.Mode) (*Submission, error)
	Quote(ctx context.Context, courtID int, req QuoteRequest, mode pricing.Mode) (*pricing.Quote, error)
	Availability(ctx context.Context, courtID int, date string, mode pricing.Mode) (*Availability, error)

	List(ctx context.Context, filter Filter) ([]Reservation, error)
	Approve(ctx context.Context, id int) (*Reservation, error)
	Reject(ctx context.Context, id int) error
	Delete(ctx context.Context, id int) error
	CalendarLink(ctx context.Context, id int) (*CalendarLink, error)
	Summary(ctx context.Context) (*Summary, error)
}

type Options struct {
	// Atomic writes all rows of a request in one transaction and refuses
	// slots that are already taken.
	Atomic        bool
	ContactRegion string
	VenueLocation string
}

type service struct {
	repo      Repository
	courts    court.Service
	engine    *pricing.Engine
	notifier  Notifier
	publisher events.Publisher
	opts      Options
}

func NewService(
	repo Repository,
	courts court.Service,
	engine *pricing.Engine,
	notifier Notifier,
	publisher events.Publisher,
	opts Options,
) Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &service{
		repo:      repo,
		courts:    courts,
		engine:    engine,
		notifier:  notifier,
		publisher: publisher,
		opts:      opts,
	}
}

func (s *service) Submit(ctx context.Context, req BookingRequest, mode pricing.Mode) (*Submission, error) {
	// Everything that can be rejected as invalid input is checked before the
	// first call to the store.
	if len(req.Slots) == 0 {
		return nil, fmt.Errorf("%w: no time slots selected", pricing.ErrInvalidInput)
	}
	quote, err := s.engine.Quote(req.Date, mode, req.Slots)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return nil, ErrInvalidName
	}
	contact, err := NormalizeContact(req.CustomerContact, s.opts.ContactRegion)
	if err != nil {
		return nil, err
	}

	c, err := s.court(ctx, req.CourtID)
	if err != nil {
		return nil, err
	}

	taken, err := s.repo.ListTaken(ctx, c.ID, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: list taken slots: %v", ErrExternalWrite, err)
	}
	if err := s.engine.CheckSelectable(req.Date, taken, req.Slots); err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	rows := make([]*Reservation, len(quote.Lines))
	for i, line := range quote.Lines {
		rows[i] = &Reservation{
			RequestID:       requestID,
			CourtID:         c.ID,
			CourtName:       c.Name,
			Date:            req.Date,
			TimeSlot:        line.Label,
			CustomerName:    name,
			CustomerContact: contact,
			Status:          StatusPending,
			TotalPrice:      quote.Total,
			PricingMode:     string(quote.Mode),
		}
	}

	sub := &Submission{RequestID: requestID, Quote: quote}
	saved, failed, err := s.write(ctx, rows)
	sub.Reservations = saved
	sub.Failed = failed
	for range saved {
		metrics.RecordReservation(string(StatusPending), string(quote.Mode))
	}
	if err != nil {
		return sub, err
	}

	logger.Info("booking request saved",
		"request_id", requestID,
		"court_id", c.ID,
		"date", req.Date,
		"slots", len(saved),
		"total", quote.Total,
		"mode", quote.Mode,
	)

	notice := email.BookingNotice{
		RequestID:       requestID,
		CustomerName:    name,
		CustomerContact: contact,
		Court:           c.Name,
		Date:            req.Date,
		Times:           labels(saved),
		TotalPrice:      quote.Total,
		Coach:           quote.Mode == pricing.ModeCoach,
	}
	if err := s.notifier.SendBookingRequest(ctx, notice); err != nil {
		logger.WithError(err).Warn("admin notification failed", "request_id", requestID)
	} else {
		sub.Notified = true
	}

	s.publish(ctx, events.ReservationRequested, sub)
	return sub, nil
}

// write stores rows and returns the ones that saved. In the default mode each
// row is written concurrently and every write settles before returning; rows
// that saved are kept even when others fail.
func (s *service) write(ctx context.Context, rows []*Reservation) ([]Reservation, []string, error) {
	if s.opts.Atomic {
		if err := s.repo.CreateBatch(ctx, rows); err != nil {
			if errors.Is(err, ErrSlotTaken) {
				return nil, nil, err
			}
			metrics.RecordReservationWriteFailure()
			return nil, labelsOf(rows), fmt.Errorf("%w: %v", ErrExternalWrite, err)
		}
		return deref(rows), nil, nil
	}

	var g errgroup.Group
	errs := make([]error, len(rows))
	for i, row := range rows {
		i, row := i, row
		g.Go(func() error {
			errs[i] = s.repo.Create(ctx, row)
			return errs[i]
		})
	}
	firstErr := g.Wait()

	var (
		saved  []Reservation
		failed []string
	)
	for i, row := range rows {
		if errs[i] != nil {
			metrics.RecordReservationWriteFailure()
			logger.WithError(errs[i]).Error("reservation write failed",
				"request_id", row.RequestID, "time_slot", row.TimeSlot)
			failed = append(failed, row.TimeSlot)
			continue
		}
		saved = append(saved, *row)
	}
	if firstErr != nil {
		return saved, failed, fmt.Errorf("%w: %d of %d slots failed: %v", ErrExternalWrite, len(failed), len(rows), firstErr)
	}
	return saved, nil, nil
}

func (s *service) Quote(ctx context.Context, courtID int, req QuoteRequest, mode pricing.Mode) (*pricing.Quote, error) {
	q, err := s.engine.Quote(req.Date, mode, req.Slots)
	if err != nil {
		return nil, err
	}
	if _, err := s.court(ctx, courtID); err != nil {
		return nil, err
	}
	metrics.RecordQuote(q.Policy, q.PromoApplied)
	return &q, nil
}

func (s *service) Availability(ctx context.Context, courtID int, date string, mode pricing.Mode) (*Availability, error) {
	if _, err := s.engine.ParseDate(date); err != nil {
		return nil, err
	}
	c, err := s.court(ctx, courtID)
	if err != nil {
		return nil, err
	}
	taken, err := s.repo.ListTaken(ctx, c.ID, date)
	if err != nil {
		return nil, err
	}

	board, err := s.engine.Board(date, taken, mode)
	if err != nil {
		return nil, err
	}
	return &Availability{
		CourtID: c.ID,
		Date:    date,
		Mode:    mode,
		Policy:  s.engine.Policy().Name(),
		Slots:   board,
	}, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]Reservation, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", pricing.ErrInvalidInput, filter.Status)
	}
	return s.repo.List(ctx, filter)
}

func (s *service) Approve(ctx context.Context, id int) (*Reservation, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.Status != StatusPending {
		return nil, ErrInvalidTransition
	}
	if err := s.repo.UpdateStatus(ctx, id, StatusPending, StatusApproved); err != nil {
		return nil, err
	}
	res.Status = StatusApproved

	metrics.RecordReviewAction("approve")
	logger.Info("reservation approved", "reservation_id", id, "request_id", res.RequestID)
	s.publish(ctx, events.ReservationApproved, res)
	return res, nil
}

// Reject removes a pending reservation, freeing its slot.
func (s *service) Reject(ctx context.Context, id int) error {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if res.Status != StatusPending {
		return ErrInvalidTransition
	}
	if err := s.repo.DeleteWithStatus(ctx, id, StatusPending); err != nil {
		return err
	}
	res.Status = StatusRejected

	metrics.RecordReviewAction("reject")
	logger.Info("reservation rejected", "reservation_id", id, "request_id", res.RequestID)
	s.publish(ctx, events.ReservationRejected, res)
	return nil
}

func (s *service) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	metrics.RecordReviewAction("delete")
	logger.Info("reservation deleted", "reservation_id", id)
	s.publish(ctx, events.ReservationDeleted, map[string]int{"id": id})
	return nil
}

func (s *service) CalendarLink(ctx context.Context, id int) (*CalendarLink, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !res.Status.Booked() {
		return nil, ErrNotBooked
	}

	u, err := BuildCalendarURL(res, s.engine.Location(), s.opts.VenueLocation)
	if err != nil {
		return nil, err
	}
	return &CalendarLink{ReservationID: res.ID, URL: u}, nil
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	return s.repo.Summary(ctx)
}

func (s *service) court(ctx context.Context, id int) (*court.Court, error) {
	c, err := s.courts.Get(ctx, id)
	if errors.Is(err, court.ErrCourtNotFound) {
		return nil, ErrCourtNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// publish is best effort; a broker failure never fails the caller.
func (s *service) publish(ctx context.Context, key string, data any) {
	if err := s.publisher.PublishJSON(ctx, key, events.NewEnvelope(key, data)); err != nil {
		metrics.RecordEvent(key, "failed")
		logger.WithError(err).Warn("event publish failed", "routing_key", key)
		return
	}
	metrics.RecordEvent(key, "ok")
}

func labels(rows []Reservation) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.TimeSlot
	}
	return out
}

func labelsOf(rows []*Reservation) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.TimeSlot
	}
	return out
}

func deref(rows []*Reservation) []Reservation {
	out := make([]Reservation, len(rows))
	for i, r := range rows {
		out[i] = *r
	}
	return out
}
