package email

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeysi05/pickle-jar-courts/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init()

	code := m.Run()
	os.Exit(code)
}

type fakeTransport struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (f *fakeTransport) Name() string { return "fake" }

func (f *fakeTransport) Send(_ context.Context, msg Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return f.err
}

func newTestService(rdb *redis.Client, tr Transport) *Service {
	svc := New(rdb, tr, Recipient{Email: "admin@picklejar.ph", Name: "Jar Admin"})
	svc.retryDelay = 0
	return svc
}

func queuedJob(t *testing.T, job EmailJob) string {
	t.Helper()
	data, err := json.Marshal(job)
	require.NoError(t, err)
	return string(data)
}

func TestSend(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.Regexp().ExpectLPush("emails", `.*`).SetVal(1)

	svc := newTestService(db, &fakeTransport{})

	err := svc.Send(context.Background(), KindBookingRequest, "admin@picklejar.ph", "Admin", "Hello", "Test body")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.Regexp().ExpectLPush("emails", `.*`).SetErr(assert.AnError)

	svc := newTestService(db, &fakeTransport{})

	err := svc.Send(context.Background(), KindBookingRequest, "admin@picklejar.ph", "Admin", "Hello", "Test body")
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendBookingRequest(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.Regexp().ExpectLPush("emails", `.*Centre Court.*`).SetVal(1)

	svc := newTestService(db, &fakeTransport{})

	err := svc.SendBookingRequest(context.Background(), BookingNotice{
		CustomerName:    "Ana Cruz",
		CustomerContact: "+639171234567",
		Court:           "Centre Court",
		Date:            "2026-10-20",
		Times:           []string{"10:00 AM", "11:00 AM"},
		TotalPrice:      500,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendPendingDigest_Empty(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := newTestService(db, &fakeTransport{})

	assert.NoError(t, svc.SendPendingDigest(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendPendingDigest(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.Regexp().ExpectLPush("emails", `.*pending_digest.*`).SetVal(1)

	svc := newTestService(db, &fakeTransport{})

	err := svc.SendPendingDigest(context.Background(), []DigestItem{
		{ID: 1, Court: "Court 2", Date: "2026-10-21", TimeSlot: "08:00 AM", CustomerName: "Ben", TotalPrice: 300},
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessNext_Delivers(t *testing.T) {
	db, mock := redismock.NewClientMock()
	tr := &fakeTransport{}
	svc := newTestService(db, tr)

	payload := queuedJob(t, EmailJob{Kind: KindBookingRequest, To: "admin@picklejar.ph", Subject: "New booking", Body: "body"})
	mock.ExpectBRPop(2*time.Second, "emails").SetVal([]string{"emails", payload})

	svc.processNext(context.Background())

	require.Len(t, tr.sent, 1)
	assert.Equal(t, "admin@picklejar.ph", tr.sent[0].To)
	assert.Equal(t, "New booking", tr.sent[0].Subject)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessNext_Requeues(t *testing.T) {
	db, mock := redismock.NewClientMock()
	tr := &fakeTransport{err: errors.New("smtp down")}
	svc := newTestService(db, tr)

	payload := queuedJob(t, EmailJob{Kind: KindBookingRequest, To: "admin@picklejar.ph", Subject: "s"})
	mock.ExpectBRPop(2*time.Second, "emails").SetVal([]string{"emails", payload})
	mock.Regexp().ExpectLPush("emails", `.*"tries":1.*`).SetVal(1)

	svc.processNext(context.Background())

	assert.Len(t, tr.sent, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessNext_GivesUpAfterMaxTries(t *testing.T) {
	db, mock := redismock.NewClientMock()
	tr := &fakeTransport{err: errors.New("smtp down")}
	svc := newTestService(db, tr)

	payload := queuedJob(t, EmailJob{Kind: KindBookingRequest, To: "admin@picklejar.ph", Tries: maxTries - 1})
	mock.ExpectBRPop(2*time.Second, "emails").SetVal([]string{"emails", payload})
	mock.Regexp().ExpectLPush("emails:failed", `.*smtp down.*`).SetVal(1)

	svc.processNext(context.Background())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessNext_BadPayload(t *testing.T) {
	db, mock := redismock.NewClientMock()
	tr := &fakeTransport{}
	svc := newTestService(db, tr)

	mock.ExpectBRPop(2*time.Second, "emails").SetVal([]string{"emails", "{not json"})

	svc.processNext(context.Background())

	assert.Empty(t, tr.sent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueLength(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectLLen("emails").SetVal(5)

	svc := newTestService(db, &fakeTransport{})

	length, err := svc.QueueLength(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), length)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueLengthError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectLLen("emails").SetErr(assert.AnError)

	svc := newTestService(db, &fakeTransport{})

	_, err := svc.QueueLength(context.Background())
	assert.Error(t, err)
}

func TestBuildBookingRequest(t *testing.T) {
	c := BuildBookingRequest("", BookingNotice{
		RequestID:       "req-1",
		CustomerName:    "Ana Cruz",
		CustomerContact: "+639171234567",
		Court:           "Court 3",
		Date:            "2026-10-22",
		Times:           []string{"06:00 PM", "07:00 PM"},
		TotalPrice:      500,
		Coach:           true,
	})

	assert.Equal(t, "New booking request - Ana Cruz (Court 3)", c.Subject)
	assert.True(t, strings.HasPrefix(c.Body, "Hi Admin,"))
	assert.Contains(t, c.Body, "Time: 06:00 PM, 07:00 PM")
	assert.Contains(t, c.Body, "Rate: Coach")
	assert.Contains(t, c.Body, "Total: PHP 500")
}

func TestBuildPendingDigest(t *testing.T) {
	c := BuildPendingDigest("Jar Admin", []DigestItem{
		{ID: 3, Court: "Centre Court", Date: "2026-10-21", TimeSlot: "08:00 AM", CustomerName: "Ben", CustomerContact: "0917", TotalPrice: 1000},
		{ID: 4, Court: "Court 2", Date: "2026-10-21", TimeSlot: "09:00 AM", CustomerName: "Cy", CustomerContact: "0918", TotalPrice: 300},
	})

	assert.Equal(t, "2 pending court reservation(s)", c.Subject)
	assert.Contains(t, c.Body, "#3  Centre Court  2026-10-21 08:00 AM  Ben (0917)  PHP 1,000")
	assert.Contains(t, c.Body, "#4  Court 2")
}

func TestFormatPeso(t *testing.T) {
	tests := map[int64]string{
		0:       "PHP 0",
		300:     "PHP 300",
		1000:    "PHP 1,000",
		123456:  "PHP 123,456",
		1234567: "PHP 1,234,567",
		-4500:   "PHP -4,500",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatPeso(in))
	}
}
