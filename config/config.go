package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Push       PushConfig       `yaml:"push"`
	Reminder   ReminderConfig   `yaml:"reminder"`
	Engine     EngineConfig     `yaml:"engine"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// ReminderConfig holds the reminder scheduler configuration.
type ReminderConfig struct {
	Enabled bool `yaml:"enabled"`
	// LeadMinutes is how long before a window opens that the reminder
	// fires.
	LeadMinutes int `yaml:"lead_minutes"`
	// Timezone applies to rooms without one of their own.
	Timezone string `yaml:"timezone"`
}

// EngineConfig exposes the warning rule boundaries so deployments can
// tune them without editing source constants. Zero values fall back to
// the engine defaults.
type EngineConfig struct {
	ConsecutiveMisses    int     `yaml:"consecutive_misses"`
	AttendanceWindowDays int     `yaml:"attendance_window_days"`
	AttendanceMinRecords int     `yaml:"attendance_min_records"`
	AttendanceMinRate    float64 `yaml:"attendance_min_rate"`
	RejectionWindow      int     `yaml:"rejection_window"`
	RejectionCount       int     `yaml:"rejection_count"`
	QualityFloor         float64 `yaml:"quality_floor"`
	InactivityDays       int     `yaml:"inactivity_days"`
	// WeekStartDay is the first day of the aggregation week, 0=Sunday
	// through 6=Saturday.
	WeekStartDay int `yaml:"week_start_day"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 60
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.Reminder.LeadMinutes <= 0 {
		cfg.Reminder.LeadMinutes = 15
	}
	if cfg.Reminder.Timezone == "" {
		cfg.Reminder.Timezone = "UTC"
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}
}

// CacheTTL returns the response cache TTL as a duration.
func (s ServerConfig) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLSeconds) * time.Second
}
