package mailservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTemplate(t *testing.T) {
	tp := NewTemplate()

	data := struct {
		ActivationToken string
	}{
		ActivationToken: "JBSWY3DPEHPK3PXPJBSWY3DPEH",
	}

	subject, plainBody, htmlBody, err := tp.ParseTemplate("activation_email.html", data)
	assert.NoError(t, err)

	assert.Contains(t, subject.String(), "Activate")
	assert.Contains(t, plainBody.String(), data.ActivationToken)
	assert.Contains(t, htmlBody.String(), data.ActivationToken)
}

func TestParseTemplateUnknownFile(t *testing.T) {
	tp := NewTemplate()

	_, _, _, err := tp.ParseTemplate("missing.html", nil)
	assert.Error(t, err)
}
