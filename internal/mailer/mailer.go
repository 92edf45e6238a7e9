package mailer

import (
	"bytes"
	"embed"
	"text/template"
)

const (
	FromName        = "Himalayan BJJ"
	maxRetires      = 3
	ContactTemplate = "contact_notification.tmpl"
	SignupTemplate  = "signup_notification.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, toName, toEmail string, data any) (int, error)
}

// render executes the "subject" and "body" blocks of a template.
func render(templateFile string, data any) (subject, body string, err error) {
	tmpl, err := template.ParseFS(FS, "templates/"+templateFile)
	if err != nil {
		return "", "", err
	}

	s := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(s, "subject", data); err != nil {
		return "", "", err
	}

	b := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(b, "body", data); err != nil {
		return "", "", err
	}

	return s.String(), b.String(), nil
}
