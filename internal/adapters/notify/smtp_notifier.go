package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/waypointhq/waypoint-go/internal/domain/delivery"
	"github.com/waypointhq/waypoint-go/internal/infrastructure/config"
)

// SMTPNotifier emails recipients about delivery outcomes. All sends are
// best-effort from the caller's point of view; a disabled notifier logs and
// drops.
type SMTPNotifier struct {
	cfg config.NotifyConfig
	log *logrus.Entry
}

// NewSMTPNotifier creates a notifier from configuration
func NewSMTPNotifier(cfg config.NotifyConfig, log *logrus.Logger) *SMTPNotifier {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SMTPNotifier{cfg: cfg, log: log.WithField("component", "notifier")}
}

// NotifyDelivered emails the recipient that the parcel was handed over
func (n *SMTPNotifier) NotifyDelivered(ctx context.Context, parcel *delivery.Parcel, driverUsername string) error {
	subject := fmt.Sprintf("Parcel %s delivered", parcel.ID)
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\nyour parcel %s was delivered to %s by %s.\r\n",
		parcel.Recipient, parcel.ID, parcel.Address, driverUsername,
	)
	return n.send(parcel.Email, subject, body)
}

// NotifyOfficeFallback emails the recipient where to pick the parcel up
func (n *SMTPNotifier) NotifyOfficeFallback(ctx context.Context, parcel *delivery.Parcel, office *delivery.Office, driverUsername string) error {
	subject := fmt.Sprintf("Parcel %s awaits pickup", parcel.ID)
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\nwe could not deliver parcel %s to %s. It is waiting for you at %s (%s).\r\n",
		parcel.Recipient, parcel.ID, parcel.Address, office.Name, office.Address,
	)
	return n.send(parcel.Email, subject, body)
}

func (n *SMTPNotifier) send(to, subject, body string) error {
	if !n.cfg.Enabled {
		n.log.WithFields(logrus.Fields{"to": to, "subject": subject}).Debug("notifications disabled, dropping")
		return nil
	}
	if to == "" {
		n.log.WithField("subject", subject).Debug("recipient has no email address")
		return nil
	}

	msg := strings.Join([]string{
		"From: " + n.cfg.Sender,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", n.cfg.SMTPHost, n.cfg.SMTPPort)
	auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.SMTPHost)
	if err := smtp.SendMail(addr, auth, n.cfg.Sender, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("sending mail to %s: %w", to, err)
	}
	return nil
}
