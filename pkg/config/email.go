package config

import (
	"github.com/tendant/simple-admin/pkg/notification"
)

// EmailConfig holds SMTP email configuration
type EmailConfig struct {
	Host       string `env:"EMAIL_HOST" env-default:"localhost"`
	Port       uint16 `env:"EMAIL_PORT" env-default:"1025"`
	Username   string `env:"EMAIL_USERNAME" env-default:""`
	Password   string `env:"EMAIL_PASSWORD" env-default:""`
	From       string `env:"EMAIL_FROM" env-default:"noreply@example.com"`
	TLS        bool   `env:"EMAIL_TLS" env-default:"false"`
	SecurityTo string `env:"EMAIL_SECURITY_TO" env-default:""`
}

// ToSMTPConfig converts the config to a notification.SMTPConfig
func (e EmailConfig) ToSMTPConfig() notification.SMTPConfig {
	return notification.SMTPConfig{
		Host:     e.Host,
		Port:     int(e.Port),
		Username: e.Username,
		Password: e.Password,
		From:     e.From,
		TLS:      e.TLS,
	}
}
