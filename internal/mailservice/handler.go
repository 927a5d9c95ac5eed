package mailservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/exp/rand"

	"github.com/hexforge/blogdeck/internal/common"
)

func NewMailService(mb common.MessageConsumer, host, username, password, sender string, port int, logger *slog.Logger) *MailService {
	ctx, cancel := context.WithCancel(context.Background())
	return &MailService{
		mb:     mb,
		m:      NewSMTPMailer(host, port, username, password, sender, NewTemplate()),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// SendActivationEmail consumes user.registered events and mails the
// activation token to each new account.
func (s *MailService) SendActivationEmail() {
	msgs, err := s.mb.Consume(common.UserRegisteredKey, common.UserExchange, common.UserRegisteredQueue)
	if err != nil {
		s.logger.Error("could not consume message", slog.String("error", err.Error()))
		return
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				s.handleUserRegistered(msg)

			case <-s.ctx.Done():
				s.logger.Info("stopping activation email consumer")
				return
			}
		}
	}()
}

// handleUserRegistered sends one activation email, retrying with exponential
// backoff and jitter. The message is acked either way: a token that could not
// be delivered after the retries is not worth requeueing, the user can ask
// for a new one.
func (s *MailService) handleUserRegistered(msg amqp.Delivery) {
	defer msg.Ack(false)

	var event struct {
		Email string
		Token string
	}

	if err := json.Unmarshal(msg.Body, &event); err != nil {
		s.logger.Error("could not unmarshal message", slog.String("error", err.Error()))
		return
	}

	payload := struct {
		ActivationToken string
	}{
		ActivationToken: event.Token,
	}

	const maxRetries = 5
	const baseDelay = 500 * time.Millisecond

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := s.m.send(event.Email, payload, "activation_email.html")
		if err == nil {
			s.logger.Info("activation email sent", slog.String("email", event.Email))
			return
		}

		delay := time.Duration(rand.Int63n(int64(baseDelay) << uint(attempt)))
		s.logger.Info("delaying activation email", slog.String("email", event.Email), slog.Int("attempt", attempt), slog.Duration("delay", delay))
		time.Sleep(delay)
	}

	s.logger.Error("could not send activation email", slog.String("email", event.Email))
}

func (s *MailService) Close() {
	s.cancel()
}
