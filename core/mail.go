package core

import (
	"bytes"
	htmltmpl "html/template"
	"net/mail"
	"strings"
)

var htmlBody = htmltmpl.Must(htmltmpl.New("body").Parse(
	`<html><body>{{range .}}<p>{{.}}</p>{{end}}</body></html>`,
))

type (
	EmailMessage struct {
		To      []mail.Address
		Cc      []mail.Address
		Bcc     []mail.Address
		Subject string
		BodyStr string // simple text/plain content; paragraphs are separated by blank lines

		TextContent string
		HTMLContent string
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

// Render fills the text and HTML contents from BodyStr.
func (m *EmailMessage) Render() error {
	if m.BodyStr == "" {
		return nil
	}
	m.TextContent = m.BodyStr

	var paragraphs []string
	for _, p := range strings.Split(m.BodyStr, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	var buff bytes.Buffer
	if err := htmlBody.Execute(&buff, paragraphs); err != nil {
		return err
	}
	m.HTMLContent = buff.String()
	return nil
}

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return (m.TextContent != "") || (m.HTMLContent != "") }
