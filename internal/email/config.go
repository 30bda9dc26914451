package email

import "linktree_backend/internal/config"

// SMTPConfig holds the SMTP connection settings
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// DefaultConfig returns the settings used when nothing is configured
func DefaultConfig() *SMTPConfig {
	return &SMTPConfig{
		Host: "localhost",
		Port: 587,
	}
}

// ConfigFromApp maps the application email section onto SMTPConfig
func ConfigFromApp(c config.EmailConfig) *SMTPConfig {
	cfg := DefaultConfig()
	cfg.Host = c.SMTPHost
	if c.SMTPPort > 0 {
		cfg.Port = c.SMTPPort
	}
	cfg.Username = c.SMTPUsername
	cfg.Password = c.SMTPPassword
	cfg.FromEmail = c.FromEmail
	cfg.FromName = c.FromName
	return cfg
}

// Enabled reports whether an SMTP server is configured at all
func (c *SMTPConfig) Enabled() bool {
	return c.Host != ""
}
