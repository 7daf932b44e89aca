package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

type Config struct {
	Env        string `yaml:"env"`
	HTTPServer `yaml:"http_server"`
	Postgres   `yaml:"postgres"`
	Redis      `yaml:"redis"`
	Links      `yaml:"links"`
	Log        `yaml:"log"`
	Feed       `yaml:"feed"`
	Jobs       `yaml:"jobs"`
	Analytics  `yaml:"analytics"`
}

type HTTPServer struct {
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	MaxHeaderBytes int           `yaml:"max_header_bytes"`
	CertFile       string        `yaml:"cert_file"`
	KeyFile        string        `yaml:"key_file"`
}

var defaultHTTPServer = HTTPServer{
	Port:           8080,
	ReadTimeout:    5 * time.Second,
	WriteTimeout:   2 * time.Minute,
	IdleTimeout:    time.Minute,
	MaxHeaderBytes: 1 << 20,
}

func (s *HTTPServer) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type Postgres struct {
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	DB              string        `yaml:"db"`
	SSLMode         string        `yaml:"sslmode"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
}

var defaultPostgres = Postgres{
	Host:            "localhost",
	Port:            5432,
	SSLMode:         "disable",
	ConnMaxIdleTime: 5 * time.Minute,
	ConnMaxLifetime: 30 * time.Minute,
	MaxIdleConns:    5,
	MaxOpenConns:    25,
}

func (p *Postgres) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DB, p.SSLMode)
}

// Redis configures the slug cache used by the redirect endpoint.
type Redis struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	LinkTTL  time.Duration `yaml:"link_ttl"`
}

var defaultRedis = Redis{
	Addr:    "localhost:6379",
	LinkTTL: 10 * time.Minute,
}

type Links struct {
	SlugLength int `yaml:"slug_length"`
}

type Log struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// SlogLevel maps the configured level name onto a slog level, defaulting to info.
func (l *Log) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type Feed struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

var defaultFeed = Feed{
	Timeout:   30 * time.Second,
	UserAgent: "bitbuddies-feed-sync/1.0",
}

// Jobs configures the daily sync and retention triggers. Schedules use the
// standard five-field cron format and are evaluated in UTC.
type Jobs struct {
	Enabled         bool          `yaml:"enabled"`
	SyncSchedule    string        `yaml:"sync_schedule"`
	CleanupSchedule string        `yaml:"cleanup_schedule"`
	RetentionWindow time.Duration `yaml:"retention_window"`
}

var defaultJobs = Jobs{
	Enabled:         true,
	SyncSchedule:    "0 6 * * *",
	CleanupSchedule: "0 7 * * *",
	RetentionWindow: 14 * 24 * time.Hour,
}

type Analytics struct {
	DefaultDays int `yaml:"default_days"`
	TopLinks    int `yaml:"top_links"`
}

var defaultAnalytics = Analytics{
	DefaultDays: 30,
	TopLinks:    5,
}

func Load(path string) (*Config, error) {
	const op = "config.Load"

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open config file: %w", op, err)
	}
	defer f.Close()

	var cfg Config
	setDefaults(&cfg)

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to decode config file: %w", op, err)
	}

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.Env = EnvDev
	cfg.HTTPServer = defaultHTTPServer
	cfg.Postgres = defaultPostgres
	cfg.Redis = defaultRedis
	cfg.Links = Links{SlugLength: 7}
	cfg.Log = Log{Level: "info"}
	cfg.Feed = defaultFeed
	cfg.Jobs = defaultJobs
	cfg.Analytics = defaultAnalytics
}
