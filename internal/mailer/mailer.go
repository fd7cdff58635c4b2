package mailer

import (
	"context"
	"fmt"

	"github.com/jadeswanstrom/ioweyou/internal/config"
	"github.com/jadeswanstrom/ioweyou/internal/invoice/domain"
	"github.com/wneessen/go-mail"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log *zap.Logger
	Cfg config.Config
}

// NewNotifier builds the outbound notification transport. Without an SMTP
// host configured, deliveries are logged instead of sent so local
// development never needs a mail server.
func NewNotifier(p Params) (domain.Notifier, error) {
	log := p.Log.Named("mailer")
	composer := NewComposer()

	if p.Cfg.SMTP.Host == "" {
		log.Warn("smtp host not configured, invoice emails will only be logged")
		return &logNotifier{log: log, composer: composer}, nil
	}

	opts := []mail.Option{
		mail.WithPort(p.Cfg.SMTP.Port),
	}
	if p.Cfg.SMTP.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(p.Cfg.SMTP.Username),
			mail.WithPassword(p.Cfg.SMTP.Password),
		)
	}
	client, err := mail.NewClient(p.Cfg.SMTP.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	return &smtpNotifier{
		log:      log,
		client:   client,
		composer: composer,
		from:     p.Cfg.SMTP.From,
	}, nil
}

type smtpNotifier struct {
	log      *zap.Logger
	client   *mail.Client
	composer *Composer
	from     string
}

func (n *smtpNotifier) InvoiceSent(ctx context.Context, notification domain.Notification) error {
	msg := mail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return fmt.Errorf("sender address: %w", err)
	}
	if err := msg.To(notification.Recipients...); err != nil {
		return fmt.Errorf("recipient addresses: %w", err)
	}
	msg.Subject(n.composer.Subject(notification))

	html, err := n.composer.HTML(notification)
	if err != nil {
		return fmt.Errorf("render email: %w", err)
	}
	msg.SetBodyString(mail.TypeTextPlain, n.composer.Text(notification))
	msg.AddAlternativeString(mail.TypeTextHTML, html)

	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	n.log.Info("invoice email sent",
		zap.Int("recipients", len(notification.Recipients)),
		zap.String("title", notification.Title),
	)
	return nil
}

// logNotifier is the dev fallback transport.
type logNotifier struct {
	log      *zap.Logger
	composer *Composer
}

func (n *logNotifier) InvoiceSent(_ context.Context, notification domain.Notification) error {
	n.log.Info("invoice email (log only)",
		zap.Strings("recipients", notification.Recipients),
		zap.String("subject", n.composer.Subject(notification)),
		zap.String("share_url", notification.ShareURL),
	)
	return nil
}
