package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
	closed   bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestAMQPPublisher_PublishJSON(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{ch: ch, exchange: "picklejar.events"}

	env := NewEnvelope(ReservationApproved, map[string]int{"id": 7})
	require.NoError(t, p.PublishJSON(context.Background(), ReservationApproved, env))

	assert.Equal(t, "picklejar.events", ch.exchange)
	assert.Equal(t, ReservationApproved, ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)

	var got Envelope
	require.NoError(t, json.Unmarshal(ch.msg.Body, &got))
	assert.Equal(t, env.ID, got.ID)
	assert.Equal(t, ReservationApproved, got.Type)
	assert.Equal(t, map[string]any{"id": float64(7)}, got.Data)
}

func TestAMQPPublisher_PublishError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := &AMQPPublisher{ch: ch, exchange: "x"}

	err := p.PublishJSON(context.Background(), ReservationRequested, NewEnvelope(ReservationRequested, nil))
	assert.EqualError(t, err, "channel closed")
}

func TestAMQPPublisher_UnmarshalablePayload(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{ch: ch, exchange: "x"}

	err := p.PublishJSON(context.Background(), ReservationRequested, make(chan int))
	assert.Error(t, err)
	assert.Empty(t, ch.key)
}

func TestAMQPPublisher_Close(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{ch: ch}
	assert.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.PublishJSON(context.Background(), ReservationDeleted, nil))
	assert.NoError(t, p.Close())
}

func TestNewAMQPPublisher_BadURL(t *testing.T) {
	_, err := NewAMQPPublisher("not-a-url", "x")
	assert.Error(t, err)
}
