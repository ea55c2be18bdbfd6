package mailer

import (
	"context"

	"partnerhub/pkg/config"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

var Module = fx.Module("mailer",
	fx.Provide(New),
)

// Sender delivers a single email. Batch jobs treat delivery failure as
// non-fatal and log it, so implementations must not panic.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
}

func New(cfg *config.Config) Sender {
	dialer := gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)
	return &smtpSender{
		dialer: dialer,
		from:   cfg.SMTP.From,
	}
}

func (s *smtpSender) Send(ctx context.Context, to, subject, text, html string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", text)
	if html != "" {
		msg.AddAlternative("text/html", html)
	}

	if err := s.dialer.DialAndSend(msg); err != nil {
		zap.L().Error("[Mailer] failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return err
	}

	return nil
}
