package config

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	EnvPrefix = "NIGARAN"
	FileName  = "config.yml"
	redacted  = "********"
)

type Config struct {
	HTTP      HTTP      `yaml:"http" mapstructure:"http" json:"http"`
	Store     Store     `yaml:"store" mapstructure:"store" json:"store"`
	Admin     Admin     `yaml:"admin" mapstructure:"admin" json:"admin"`
	Session   Session   `yaml:"session" mapstructure:"session" json:"session"`
	Notify    Notify    `yaml:"notify" mapstructure:"notify" json:"notify"`
	Upload    Upload    `yaml:"upload" mapstructure:"upload" json:"upload"`
	Events    Events    `yaml:"events" mapstructure:"events" json:"events"`
	Telemetry Telemetry `yaml:"telemetry" mapstructure:"telemetry" json:"telemetry"`
	Log       Log       `yaml:"log" mapstructure:"log" json:"log"`
}

type HTTP struct {
	Addr              string        `yaml:"addr" mapstructure:"addr" json:"addr"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" mapstructure:"read_header_timeout" json:"read_header_timeout"`
	AllowedOrigins    []string      `yaml:"allowed_origins" mapstructure:"allowed_origins" json:"allowed_origins"`
	// Public form submissions per client per minute.
	FormRatePerMin int `yaml:"form_rate_per_min" mapstructure:"form_rate_per_min" json:"form_rate_per_min"`
	FormBurst      int `yaml:"form_burst" mapstructure:"form_burst" json:"form_burst"`
}

type Store struct {
	Driver string `yaml:"driver" mapstructure:"driver" json:"driver"` // sqlite | postgres
	Path   string `yaml:"path" mapstructure:"path" json:"path"`
	DSN    string `yaml:"dsn" mapstructure:"dsn" json:"dsn"`
}

type Admin struct {
	Email string `yaml:"email" mapstructure:"email" json:"email"`
	// Password is the last fallback; the keyring and NIGARAN_ADMIN_PASSWORD win.
	Password   string        `yaml:"password" mapstructure:"password" json:"password"`
	SessionTTL time.Duration `yaml:"session_ttl" mapstructure:"session_ttl" json:"session_ttl"`
}

type Session struct {
	Backend       string `yaml:"backend" mapstructure:"backend" json:"backend"` // memory | redis
	RedisAddr     string `yaml:"redis_addr" mapstructure:"redis_addr" json:"redis_addr"`
	RedisPassword string `yaml:"redis_password" mapstructure:"redis_password" json:"redis_password"`
	RedisDB       int    `yaml:"redis_db" mapstructure:"redis_db" json:"redis_db"`
}

type Notify struct {
	Driver         string        `yaml:"driver" mapstructure:"driver" json:"driver"` // log | http | amqp
	From           string        `yaml:"from" mapstructure:"from" json:"from"`
	CareerFrom     string        `yaml:"career_from" mapstructure:"career_from" json:"career_from"`
	APIURL         string        `yaml:"api_url" mapstructure:"api_url" json:"api_url"`
	AMQPURL        string        `yaml:"amqp_url" mapstructure:"amqp_url" json:"amqp_url"`
	AMQPExchange   string        `yaml:"amqp_exchange" mapstructure:"amqp_exchange" json:"amqp_exchange"`
	AMQPRoutingKey string        `yaml:"amqp_routing_key" mapstructure:"amqp_routing_key" json:"amqp_routing_key"`
	Timeout        time.Duration `yaml:"timeout" mapstructure:"timeout" json:"timeout"`
}

type Upload struct {
	MaxBytes      int64  `yaml:"max_bytes" mapstructure:"max_bytes" json:"max_bytes"`
	PublicBaseURL string `yaml:"public_base_url" mapstructure:"public_base_url" json:"public_base_url"`
}

type Events struct {
	NATSURL       string `yaml:"nats_url" mapstructure:"nats_url" json:"nats_url"`
	SubjectPrefix string `yaml:"subject_prefix" mapstructure:"subject_prefix" json:"subject_prefix"`
}

type Telemetry struct {
	OTLPEndpoint string `yaml:"otlp_endpoint" mapstructure:"otlp_endpoint" json:"otlp_endpoint"`
	ServiceName  string `yaml:"service_name" mapstructure:"service_name" json:"service_name"`
}

type Log struct {
	Level       string `yaml:"level" mapstructure:"level" json:"level"`
	Development bool   `yaml:"development" mapstructure:"development" json:"development"`
}

func Default() Config {
	return Config{
		HTTP: HTTP{
			Addr:              "127.0.0.1:8080",
			ReadHeaderTimeout: 5 * time.Second,
			AllowedOrigins:    []string{"http://localhost:3000"},
			FormRatePerMin:    10,
			FormBurst:         5,
		},
		Store: Store{Driver: "sqlite", Path: "nigaran.db"},
		Admin: Admin{
			Email:      "admin@nigaransolar.com",
			SessionTTL: 12 * time.Hour,
		},
		Session: Session{Backend: "memory"},
		Notify: Notify{
			Driver:         "log",
			From:           "Nigaran Solar <no-reply@nigaransolar.com>",
			CareerFrom:     "Nigaran Solar Careers <careers@nigaransolar.com>",
			AMQPExchange:   "notifications",
			AMQPRoutingKey: "website",
			Timeout:        10 * time.Second,
		},
		Upload: Upload{
			MaxBytes:      5 << 20,
			PublicBaseURL: "http://127.0.0.1:8080",
		},
		Events:    Events{SubjectPrefix: "nigaran"},
		Telemetry: Telemetry{ServiceName: "nigaran-engine"},
		Log:       Log{Level: "info"},
	}
}

// Load reads path over the built-in defaults and applies NIGARAN_*
// environment overrides (NIGARAN_HTTP_ADDR, NIGARAN_STORE_DSN, ...).
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	defaults, err := yaml.Marshal(Default())
	if err != nil {
		return Config{}, err
	}
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Config{}, fmt.Errorf("read defaults: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// DBPath resolves a relative sqlite path against the data directory.
func (c Config) DBPath(dataDir string) string {
	if c.Store.Path == "" || filepath.IsAbs(c.Store.Path) {
		return c.Store.Path
	}
	return filepath.Join(dataDir, c.Store.Path)
}

// Redacted hides credentials for display.
func (c Config) Redacted() Config {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return redacted
	}
	c.Admin.Password = mask(c.Admin.Password)
	c.Session.RedisPassword = mask(c.Session.RedisPassword)
	c.Store.DSN = mask(c.Store.DSN)
	return c
}

// KeepSecrets copies credentials from prev into next wherever next still
// carries the redaction mask, so a redacted config can be edited and saved.
func KeepSecrets(prev, next Config) Config {
	if next.Admin.Password == redacted {
		next.Admin.Password = prev.Admin.Password
	}
	if next.Session.RedisPassword == redacted {
		next.Session.RedisPassword = prev.Session.RedisPassword
	}
	if next.Store.DSN == redacted {
		next.Store.DSN = prev.Store.DSN
	}
	return next
}
