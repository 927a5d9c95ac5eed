package mailservice

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
)

func TestSendActivationEmail(t *testing.T) {
	mockConsumer := new(MockMessageConsumer)
	mockMailer := new(MockMailer)

	ctx, cancel := context.WithCancel(context.Background())
	s := &MailService{
		mb:     mockConsumer,
		m:      mockMailer,
		logger: slog.New(slog.NewTextHandler(os.Stdout, nil)),
		ctx:    ctx,
		cancel: cancel,
	}
	defer s.Close()

	s.SendActivationEmail()

	assert.Eventually(t, func() bool {
		return mockMailer.Called
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, "test@example.com", mockMailer.Email)
}

func TestHandleUserRegisteredMalformedMessage(t *testing.T) {
	mockMailer := new(MockMailer)
	ack := new(MockAcknowledger)

	ctx, cancel := context.WithCancel(context.Background())
	s := &MailService{
		m:      mockMailer,
		logger: slog.New(slog.NewTextHandler(os.Stdout, nil)),
		ctx:    ctx,
		cancel: cancel,
	}
	defer s.Close()

	s.handleUserRegistered(amqp.Delivery{Acknowledger: ack, Body: []byte(`not json`)})

	// a malformed delivery must not stay unacknowledged on the channel
	assert.True(t, ack.Acked)
	assert.False(t, mockMailer.Called)
}
