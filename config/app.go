package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/satyamsundaram01/moe-support-assist/search"
)

// Environment names accepted by Config.Environment.
const (
	EnvLocal      = "local"
	EnvProduction = "production"
)

// Agent roles understood by Models.For.
const (
	RoleRoot      = "root"
	RoleTechnical = "technical"
	RolePush      = "push"
	RoleWhatsApp  = "whatsapp"
	RoleKnowledge = "knowledge"
	RoleFollowup  = "followup"
	RoleTicket    = "ticket"
	RoleExecution = "execution"
)

// Server holds the listen address the service frontend binds to.
type Server struct {
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	Port int    `envconfig:"PORT" default:"8000"`
}

// Addr returns the host:port form of the listen address.
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Database configures the Postgres session store. URL wins when set;
// otherwise a DSN is assembled from the individual fields.
type Database struct {
	URL      string `envconfig:"DATABASE_URL"`
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"adkdb"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD"`
}

// DSN returns the connection string for the session store.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	cred := d.User
	if d.Password != "" {
		cred = fmt.Sprintf("%s:%s", d.User, d.Password)
	}
	return fmt.Sprintf("postgresql://%s@%s:%d/%s", cred, d.Host, d.Port, d.Name)
}

// Models maps agent roles to model identifiers. Role entries left empty fall
// back to Default, so a single LLM_MODEL_DEFAULT covers the whole team while
// individual agents can still be pinned to another model.
type Models struct {
	Default   string `envconfig:"LLM_MODEL_DEFAULT" default:"gemini-2.5-flash-preview-05-20"`
	Root      string `envconfig:"LLM_MODEL_ROOT"`
	Technical string `envconfig:"LLM_MODEL_TECHNICAL"`
	Push      string `envconfig:"LLM_MODEL_PUSH"`
	WhatsApp  string `envconfig:"LLM_MODEL_WHATSAPP"`
	Knowledge string `envconfig:"LLM_MODEL_KNOWLEDGE"`
	Followup  string `envconfig:"LLM_MODEL_FOLLOWUP"`
	Ticket    string `envconfig:"LLM_MODEL_TICKET"`
	Execution string `envconfig:"LLM_MODEL_EXECUTION"`
}

// For returns the model identifier configured for an agent role, falling back
// to Default when the role has no override or is unknown.
func (m Models) For(role string) string {
	var id string
	switch strings.ToLower(role) {
	case RoleRoot:
		id = m.Root
	case RoleTechnical:
		id = m.Technical
	case RolePush:
		id = m.Push
	case RoleWhatsApp:
		id = m.WhatsApp
	case RoleKnowledge:
		id = m.Knowledge
	case RoleFollowup:
		id = m.Followup
	case RoleTicket:
		id = m.Ticket
	case RoleExecution:
		id = m.Execution
	}
	if id == "" {
		return m.Default
	}
	return id
}

// Config is the full service configuration. Load reads it from the
// environment and validates it in one step.
type Config struct {
	Environment string        `split_words:"true" default:"local"`
	LogLevel    string        `split_words:"true" default:"info"`
	Server      Server        `split_words:"true"`
	Database    Database      `split_words:"true"`
	Search      search.Config `split_words:"true"`
	Models      Models        `split_words:"true"`
}

// Load reads the service configuration from the environment and validates it.
func Load(optFns ...func(o *Options)) (*Config, error) {
	cfg, err := New[Config]("", optFns...)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, EnvProduction)
}

// IsLocal reports whether the service runs with local development settings.
func (c *Config) IsLocal() bool {
	return strings.EqualFold(c.Environment, EnvLocal)
}

// Validate checks the configuration and reports every problem found, not
// just the first one.
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.Environment) {
	case EnvLocal, EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("unknown environment %q", c.Environment))
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server port %d out of range", c.Server.Port))
	}

	dsn := c.Database.DSN()
	if dsn == "" {
		errs = append(errs, errors.New("database url is required"))
	} else if !strings.HasPrefix(dsn, "postgresql://") && !strings.HasPrefix(dsn, "postgres://") {
		errs = append(errs, errors.New("database url must be a postgresql:// DSN"))
	}

	if c.Search.Token != "" {
		if strings.TrimSpace(c.Search.ProjectID) == "" {
			errs = append(errs, errors.New("search project id is required when a token is set"))
		}
		if strings.TrimSpace(c.Search.EngineID) == "" {
			errs = append(errs, errors.New("search engine id is required when a token is set"))
		}
	}

	if c.Models.Default == "" {
		errs = append(errs, errors.New("default model id is required"))
	}

	return errors.Join(errs...)
}
