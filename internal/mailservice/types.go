package mailservice

import (
	"bytes"
	"context"
	"sync"

	"github.com/go-mail/mail/v2"

	"github.com/hexforge/blogdeck/internal/common"
)

// MailService consumes user lifecycle events from the broker and delivers the
// matching emails over SMTP.
type MailService struct {
	mb     common.MessageConsumer
	m      Mailer
	logger MailLogger
	ctx    context.Context
	cancel context.CancelFunc
}

type MailLogger interface {
	Error(msg string, args ...any)
	Info(msg string, args ...any)
}

type Mailer interface {
	send(recipient string, data any, templateFile string) error
}

// SMTPMailer renders a template and hands the message to a dialer. The mutex
// serializes sends because mail.Dialer is not safe for concurrent use.
type SMTPMailer struct {
	mu     sync.Mutex
	dialer Dialer
	parser TemplateParser
	sender string
}

type Dialer interface {
	DialAndSend(m ...*mail.Message) error
}

type TemplateParser interface {
	ParseTemplate(name string, data any) (*bytes.Buffer, *bytes.Buffer, *bytes.Buffer, error)
}

type Template struct{}
