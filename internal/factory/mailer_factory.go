package factory

import (
	"fmt"

	"github.com/verifyit/verifyit/internal/adapters/mailer"
	"github.com/verifyit/verifyit/internal/config"
	"github.com/verifyit/verifyit/internal/core"
	"go.uber.org/zap"
)

// MailerFactory creates alert mailers based on configuration
type MailerFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewMailerFactory creates a new mailer factory
func NewMailerFactory(cfg *config.Config, logger *zap.Logger) *MailerFactory {
	return &MailerFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateAlertMailer creates an SMTP mailer when a relay is configured.
// Returns nil when no SMTP address is set; alert dispatches then report the
// transport as unconfigured instead of failing.
func (f *MailerFactory) CreateAlertMailer() (core.AlertMailer, error) {
	smtpCfg := f.cfg.GetSMTP()
	if smtpCfg.Address == "" {
		return nil, nil
	}

	alertCfg := f.cfg.GetAlerts()
	if alertCfg.FromAddress == "" {
		return nil, fmt.Errorf("alerts.from_address is required when SMTP is configured")
	}

	return mailer.NewSMTPMailer(smtpCfg.Address, smtpCfg.Username, smtpCfg.Password,
		alertCfg.FromName, alertCfg.FromAddress, f.logger), nil
}
