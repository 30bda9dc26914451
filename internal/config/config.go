package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v2"
)

type ServerConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	Env     string `yaml:"env"`
	BaseURL string `yaml:"base_url"` // used in verification links; derived from the request when empty
}

type DatabaseConfig struct {
	Driver          string        `yaml:"driver"` // mysql, postgres, sqlite
	DSN             string        `yaml:"url"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type SessionConfig struct {
	Secret     string        `yaml:"secret"`
	TTL        time.Duration `yaml:"ttl"`
	CookieName string        `yaml:"cookie_name"`
}

type EmailConfig struct {
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUsername string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	FromEmail    string `yaml:"from_email"`
	FromName     string `yaml:"from_name"`
}

type PublicConfig struct {
	EmailDomain string `yaml:"email_domain"` // suffix appended to a public identifier to get the owner's email
}

type AuthConfig struct {
	BcryptCost int `yaml:"bcrypt_cost"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Session  SessionConfig  `yaml:"session"`
	Email    EmailConfig    `yaml:"email"`
	Public   PublicConfig   `yaml:"public"`
	Auth     AuthConfig     `yaml:"auth"`
}

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"

	devSessionSecret = "dev-session-secret-change-me"
)

var AppConfig *Config

// Default returns a config with every default filled in
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 3000,
			Env:  EnvDevelopment,
		},
		Database: DatabaseConfig{
			Driver:          "mysql",
			Host:            "localhost",
			Port:            3306,
			User:            "root",
			Name:            "linktree",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Session: SessionConfig{
			TTL:        7 * 24 * time.Hour,
			CookieName: "linktree_session",
		},
		Email: EmailConfig{
			SMTPPort: 587,
			FromName: "LinkTree",
		},
		Public: PublicConfig{
			EmailDomain: "example.com",
		},
		Auth: AuthConfig{
			BcryptCost: 10,
		},
	}
}

// LoadConfig loads the global AppConfig and exits on failure
func LoadConfig() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

// Load reads the YAML file at path (a missing file is fine), applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		f, err := os.Open(path)
		switch {
		case err == nil:
			defer f.Close()
			if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file at %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			log.Printf("Config file %s not found, using defaults and environment", path)
		default:
			return nil, fmt.Errorf("failed to open config file at %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Server.Host, "SERVER_HOST")
	setString(&c.Server.Env, "SERVER_ENV")
	setString(&c.Server.BaseURL, "BASE_URL")
	if err := setInt(&c.Server.Port, "PORT"); err != nil {
		return err
	}
	if err := setInt(&c.Server.Port, "SERVER_PORT"); err != nil {
		return err
	}

	setString(&c.Database.Driver, "DATABASE_DRIVER")
	setString(&c.Database.DSN, "DATABASE_URL")
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Name, "DB_NAME")
	if err := setInt(&c.Database.Port, "DB_PORT"); err != nil {
		return err
	}

	setString(&c.Session.Secret, "SESSION_SECRET")
	setString(&c.Session.CookieName, "SESSION_COOKIE")
	if v := os.Getenv("SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SESSION_TTL %q: %w", v, err)
		}
		c.Session.TTL = ttl
	}

	setString(&c.Email.SMTPHost, "SMTP_HOST")
	setString(&c.Email.SMTPUsername, "EMAIL_USER")
	setString(&c.Email.SMTPPassword, "EMAIL_PASS")
	setString(&c.Email.FromEmail, "EMAIL_FROM")
	setString(&c.Email.FromName, "EMAIL_FROM_NAME")
	if err := setInt(&c.Email.SMTPPort, "SMTP_PORT"); err != nil {
		return err
	}

	setString(&c.Public.EmailDomain, "EMAIL_DOMAIN")

	return setInt(&c.Auth.BcryptCost, "BCRYPT_COST")
}

// Validate checks the settings the server cannot start without
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.Session.Secret == "" {
		if c.Server.Env != EnvDevelopment && c.Server.Env != EnvTest {
			return errors.New("session secret is required (SESSION_SECRET)")
		}
		c.Session.Secret = devSessionSecret
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", c.Session.TTL)
	}
	if c.Session.CookieName == "" {
		return errors.New("session cookie name is required")
	}

	c.Public.EmailDomain = strings.TrimPrefix(strings.TrimSpace(c.Public.EmailDomain), "@")
	if c.Public.EmailDomain == "" {
		return errors.New("public email domain is required (EMAIL_DOMAIN)")
	}

	if c.IsProduction() && c.Email.SMTPHost == "" {
		return errors.New("smtp host is required in production (SMTP_HOST)")
	}
	if c.Email.FromEmail == "" {
		c.Email.FromEmail = c.Email.SMTPUsername
	}
	return nil
}

// DatabaseDSN returns database.url, or for mysql builds one from the
// host/user/password/name settings.
func (c *Config) DatabaseDSN() string {
	if c.Database.DSN != "" {
		return c.Database.DSN
	}

	switch c.Database.Driver {
	case "mysql":
		mc := mysql.NewConfig()
		mc.User = c.Database.User
		mc.Passwd = c.Database.Password
		mc.Net = "tcp"
		mc.Addr = fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port)
		mc.DBName = c.Database.Name
		mc.ParseTime = true
		mc.Params = map[string]string{"charset": "utf8mb4"}
		return mc.FormatDSN()
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password, c.Database.Name)
	default:
		return "file:" + c.Database.Name + ".db?_foreign_keys=on"
	}
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == EnvProduction
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = n
	return nil
}
