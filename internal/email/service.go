package email

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jeysi05/pickle-jar-courts/internal/logger"
	"github.com/jeysi05/pickle-jar-courts/internal/metrics"
)

const (
	queueKey       = "emails"
	failedQueueKey = "emails:failed"
	maxTries       = 3
)

const (
	KindBookingRequest = "booking_request"
	KindPendingDigest  = "pending_digest"
)

type EmailJob struct {
	Kind    string    `json:"kind"`
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

// Recipient is where admin notices are delivered.
type Recipient struct {
	Email string
	Name  string
}

// Service queues mail in Redis and delivers it from a worker loop.
type Service struct {
	redis      *redis.Client
	transport  Transport
	admin      Recipient
	retryDelay time.Duration
}

func New(rdb *redis.Client, transport Transport, admin Recipient) *Service {
	return &Service{
		redis:      rdb,
		transport:  transport,
		admin:      admin,
		retryDelay: 5 * time.Second,
	}
}

func (s *Service) Send(ctx context.Context, kind, to, name, subject, body string) error {
	job := EmailJob{
		Kind:    kind,
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Created: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal email job: %v", err)
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		logger.Errorf("Failed to queue email to %s: %v", to, err)
		metrics.RecordNotification(kind, "failed")
		return err
	}

	metrics.RecordNotification(kind, "queued")
	logger.Infof("Email queued: %s to %s", subject, to)
	return nil
}

// SendBookingRequest tells the admin a new request is waiting for review.
func (s *Service) SendBookingRequest(ctx context.Context, notice BookingNotice) error {
	msg := BuildBookingRequest(s.admin.Name, notice)
	return s.Send(ctx, KindBookingRequest, s.admin.Email, s.admin.Name, msg.Subject, msg.Body)
}

// SendPendingDigest sends the admin a summary of reservations still PENDING.
// Nothing is queued when items is empty.
func (s *Service) SendPendingDigest(ctx context.Context, items []DigestItem) error {
	if len(items) == 0 {
		return nil
	}
	msg := BuildPendingDigest(s.admin.Name, items)
	return s.Send(ctx, KindPendingDigest, s.admin.Email, s.admin.Name, msg.Subject, msg.Body)
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("Email service started", "transport", s.transport.Name())

	for {
		select {
		case <-ctx.Done():
			logger.Info("Email service stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad email data: %v", err)
		return
	}

	job.Tries++
	logger.Debugf("Sending email to %s (attempt %d)", job.To, job.Tries)
	msg := Message{To: job.To, ToName: job.Name, Subject: job.Subject, Body: job.Body}
	if err := s.transport.Send(ctx, msg); err != nil {
		logger.Errorf("Failed to send email to %s: %v", job.To, err)

		// Requeue and failure bookkeeping must survive shutdown.
		bg := context.WithoutCancel(ctx)
		if job.Tries < maxTries {
			time.Sleep(s.retryDelay)
			data, _ := json.Marshal(job)
			s.redis.LPush(bg, queueKey, string(data))
			logger.Infof("Retrying email to %s (attempt %d)", job.To, job.Tries+1)
		} else {
			logger.Errorf("Email to %s failed after %d attempts", job.To, maxTries)
			metrics.RecordNotification(job.Kind, "failed")
			s.saveFailed(bg, job, err)
		}
		return
	}

	metrics.RecordNotification(job.Kind, "sent")
	logger.Infof("Email sent successfully to %s", job.To)
}

func (s *Service) saveFailed(ctx context.Context, job EmailJob, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(ctx, failedQueueKey, string(data))
	logger.Errorf("Email moved to failed queue: %s", job.To)
}

func (s *Service) QueueLength(ctx context.Context) (int64, error) {
	return s.redis.LLen(ctx, queueKey).Result()
}

func (s *Service) Close() error {
	return s.redis.Close()
}
