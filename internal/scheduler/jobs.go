package scheduler

import (
	"context"
	"time"

	"github.com/jeysi05/pickle-jar-courts/internal/email"
	"github.com/jeysi05/pickle-jar-courts/internal/logger"
	"github.com/jeysi05/pickle-jar-courts/internal/metrics"
	"github.com/jeysi05/pickle-jar-courts/internal/reservation"
)

const (
	queueGaugeJob    = "email_queue_gauge"
	queueGaugeCron   = "* * * * *"
	pendingDigestJob = "pending_digest"

	jobTimeout = time.Minute
)

type QueueMeter interface {
	QueueLength(ctx context.Context) (int64, error)
}

type PendingLister interface {
	List(ctx context.Context, filter reservation.Filter) ([]reservation.Reservation, error)
}

type DigestSender interface {
	SendPendingDigest(ctx context.Context, items []email.DigestItem) error
}

// Jobs holds the collaborators of the background jobs.
type Jobs struct {
	Queue        QueueMeter
	Reservations PendingLister
	Digest       DigestSender
	DigestCron   string
}

// Register adds the queue gauge and the pending digest to s. An empty
// DigestCron disables the digest.
func (j Jobs) Register(s *Scheduler) error {
	if _, err := s.AddJob(queueGaugeJob, queueGaugeCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		j.RecordQueueLength(ctx)
	}); err != nil {
		return err
	}

	if j.DigestCron == "" {
		logger.Info("pending digest disabled")
		return nil
	}
	_, err := s.AddJob(pendingDigestJob, j.DigestCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if err := j.SendPendingDigest(ctx); err != nil {
			logger.WithError(err).Error("pending digest failed")
		}
	})
	return err
}

// RecordQueueLength publishes the email queue length gauge.
func (j Jobs) RecordQueueLength(ctx context.Context) {
	n, err := j.Queue.QueueLength(ctx)
	if err != nil {
		logger.WithError(err).Warn("email queue length unavailable")
		return
	}
	metrics.SetEmailQueueLength(n)
}

// SendPendingDigest mails the admin every reservation still awaiting review.
func (j Jobs) SendPendingDigest(ctx context.Context) error {
	pending, err := j.Reservations.List(ctx, reservation.Filter{Status: reservation.StatusPending})
	if err != nil {
		return err
	}
	metrics.SetPendingReservations(len(pending))
	if len(pending) == 0 {
		return nil
	}

	items := make([]email.DigestItem, len(pending))
	for i, r := range pending {
		items[i] = email.DigestItem{
			ID:              r.ID,
			Court:           r.CourtName,
			Date:            r.Date,
			TimeSlot:        r.TimeSlot,
			CustomerName:    r.CustomerName,
			CustomerContact: r.CustomerContact,
			TotalPrice:      r.TotalPrice,
			CreatedAt:       r.CreatedAt,
		}
	}
	if err := j.Digest.SendPendingDigest(ctx, items); err != nil {
		return err
	}
	logger.Info("pending digest queued", "pending", len(pending))
	return nil
}
