package mailservice

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSendEmail(t *testing.T) {
	mockParser := new(MockTemplate)
	mockDialer := new(MockDialer)

	mailer := SMTPMailer{
		dialer: mockDialer,
		parser: mockParser,
		sender: "sender@example.com",
	}

	subject := bytes.NewBufferString("Test Subject")
	plainBody := bytes.NewBufferString("Test Plain Body")
	htmlBody := bytes.NewBufferString("Test HTML Body")
	mockParser.On("ParseTemplate", "activation_email.html", mock.Anything).Return(subject, plainBody, htmlBody, nil)
	mockDialer.On("DialAndSend", mock.AnythingOfType("[]*mail.Message")).Return(nil)

	err := mailer.send("test@example.com", nil, "activation_email.html")
	assert.NoError(t, err)

	mockParser.AssertExpectations(t)
	mockDialer.AssertExpectations(t)
}

func TestSendEmailTemplateError(t *testing.T) {
	mockParser := new(MockTemplate)
	mockDialer := new(MockDialer)

	mailer := SMTPMailer{
		dialer: mockDialer,
		parser: mockParser,
		sender: "sender@example.com",
	}

	var empty *bytes.Buffer
	mockParser.On("ParseTemplate", "missing.html", mock.Anything).Return(empty, empty, empty, errors.New("could not parse template"))

	err := mailer.send("test@example.com", nil, "missing.html")
	assert.ErrorContains(t, err, "could not parse template")

	mockDialer.AssertNotCalled(t, "DialAndSend")
}
