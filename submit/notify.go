package submit

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"
)

type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string
}

// Mailer forwards contact messages to the club's inbox.
type Mailer struct {
	d    *gomail.Dialer
	from string
	to   string
}

func NewMailer(cfg MailConfig) *Mailer {
	return &Mailer{
		d:    gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from: cfg.From,
		to:   cfg.To,
	}
}

func (m *Mailer) message(msg *ContactMessage) *gomail.Message {
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", m.to)
	gm.SetAddressHeader("Reply-To", msg.Email, msg.Name)
	gm.SetHeader("Subject", "[Contact] "+msg.Subject)
	gm.SetBody("text/plain", fmt.Sprintf("From: %s <%s>\nDate: %s\n\n%s\n",
		msg.Name, msg.Email, msg.CreatedAt.Format("2006-01-02 15:04"), msg.Message))
	return gm
}

func (m *Mailer) Notify(ctx context.Context, msg *ContactMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return errors.Wrapf(m.d.DialAndSend(m.message(msg)), "Cannot mail contact message %s", msg.ID)
}
