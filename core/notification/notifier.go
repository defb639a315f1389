// Package notification mails lifecycle events to the users concerned.
// Messages are fire-and-forget: failures are logged by the email service, never returned.
package notification

import (
	"net/mail"

	"github.com/trezcool/actios/core"
	"github.com/trezcool/actios/core/catalog"
	"github.com/trezcool/actios/core/certificate"
	"github.com/trezcool/actios/core/enrollment"
)

// Message ids, see services/i18n/active.*.toml
const (
	MsgEnrollmentSubject  = "EnrollmentConfirmedSubject"
	MsgEnrollmentBody     = "EnrollmentConfirmedBody"
	MsgCertificateSubject = "CertificateIssuedSubject"
	MsgCertificateBody    = "CertificateIssuedBody"
)

// Translator renders the message identified by key in the given locale.
type Translator interface {
	T(locale, key string, data map[string]interface{}) string
}

type Notifier struct {
	mailSvc       core.EmailService
	tr            Translator
	locale        string
	validityYears int
}

var (
	_ enrollment.Notifier  = (*Notifier)(nil)
	_ certificate.Notifier = (*Notifier)(nil)
)

func NewNotifier(mailSvc core.EmailService, tr Translator, conf *core.Config) *Notifier {
	return &Notifier{
		mailSvc:       mailSvc,
		tr:            tr,
		locale:        conf.Locale,
		validityYears: conf.Lifecycle.CertificateValidityYears,
	}
}

func (n *Notifier) localeOf(usr catalog.User) string {
	if usr.Locale != "" {
		return usr.Locale
	}
	return n.locale
}

func (n *Notifier) send(usr catalog.User, subjectKey, bodyKey string, data map[string]interface{}) {
	if usr.Email == "" {
		return
	}
	locale := n.localeOf(usr)
	n.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: n.tr.T(locale, subjectKey, data),
		BodyStr: n.tr.T(locale, bodyKey, data),
	})
}

func (n *Notifier) EnrollmentConfirmed(usr catalog.User, evt catalog.Event, enr enrollment.Enrollment) {
	n.send(usr, MsgEnrollmentSubject, MsgEnrollmentBody, map[string]interface{}{
		"Name":   usr.Name,
		"Event":  evt.Title,
		"Date":   evt.Day().Format("2006-01-02"),
		"Number": enr.Number,
	})
}

func (n *Notifier) CertificateIssued(usr catalog.User, course catalog.Course, cert certificate.Certificate) {
	n.send(usr, MsgCertificateSubject, MsgCertificateBody, map[string]interface{}{
		"Name":      usr.Name,
		"Course":    course.Title,
		"Code":      cert.Code,
		"ExpiresOn": cert.ExpiresOn(n.validityYears).Format("2006-01-02"),
	})
}
