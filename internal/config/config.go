package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port          int              `json:"port"`
	JWTSecret     string           `json:"jwt_secret"`
	JWTTTLHours   int              `json:"jwt_ttl_hours"`
	Database      DatabaseConfig   `json:"database"`
	LogConfig     logger.LogConfig `json:"log_config"`
	Mail          MailConfig       `json:"mail"`
	Redis         RedisConfig      `json:"redis"`
	Admin         AdminConfig      `json:"admin"`
	Discovery     DiscoveryConfig  `json:"discovery"`
	OTP           OTPConfig        `json:"otp"`
	Presence      PresenceConfig   `json:"presence"`
	RateLimit     RateLimitConfig  `json:"rate_limit"`
	CORSAllowlist []string         `json:"cors_allowlist"`
	Jobs          JobsConfig       `json:"jobs"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

// MailConfig selects a sender by type; Data is passed to that sender's factory.
type MailConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type RedisConfig struct {
	URL string `json:"url"`
}

type AdminConfig struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type DiscoveryConfig struct {
	DiscoverLimit int `json:"discover_limit"`
	NearbyLimit   int `json:"nearby_limit"`
	ActiveLimit   int `json:"active_limit"`
	ScanLimit     int `json:"scan_limit"`
}

type OTPConfig struct {
	TTLSeconds  int `json:"ttl_seconds"`
	MaxAttempts int `json:"max_attempts"`
	CodeLength  int `json:"code_length"`
}

type PresenceConfig struct {
	TouchIntervalSeconds int `json:"touch_interval_seconds"`
	TouchCacheSize       int `json:"touch_cache_size"`
	IdleHours            int `json:"idle_hours"`
}

type RateLimitConfig struct {
	MaxRequests   int `json:"max_requests"`
	WindowSeconds int `json:"window_seconds"`
}

type JobsConfig struct {
	OTPCleanupSpec string `json:"otp_cleanup_spec"`
	IdleUserSpec   string `json:"idle_user_spec"`
}

const envPrefix = "SPORTMATE_"

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	// .env is optional, a missing file is fine
	_ = godotenv.Load()
	applyEnv(&cfg)
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	overrides := map[string]*string{
		"JWT_SECRET":     &cfg.JWTSecret,
		"DB_DSN":         &cfg.Database.DSN,
		"REDIS_URL":      &cfg.Redis.URL,
		"ADMIN_EMAIL":    &cfg.Admin.Email,
		"ADMIN_PASSWORD": &cfg.Admin.Password,
	}
	for key, dst := range overrides {
		if v := strings.TrimSpace(os.Getenv(envPrefix + key)); v != "" {
			*dst = v
		}
	}
}

func (cfg *Config) normalize() error {
	if cfg.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required")
	}
	if cfg.Port == 0 {
		return fmt.Errorf("port is required")
	}
	if cfg.Database.DSN == "" && cfg.Database.Host == "" {
		return fmt.Errorf("database.dsn or database.host is required")
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.JWTTTLHours == 0 {
		cfg.JWTTTLHours = 72
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.Mail.Type == "" {
		cfg.Mail.Type = "log"
	}
	if cfg.Admin.Email == "" {
		cfg.Admin.Email = "admin@sportmate.local"
	}
	if cfg.Admin.Name == "" {
		cfg.Admin.Name = "Super Admin"
	}
	if cfg.Discovery.DiscoverLimit <= 0 {
		cfg.Discovery.DiscoverLimit = 50
	}
	if cfg.Discovery.NearbyLimit <= 0 {
		cfg.Discovery.NearbyLimit = 20
	}
	if cfg.Discovery.ActiveLimit <= 0 {
		cfg.Discovery.ActiveLimit = 30
	}
	if cfg.Discovery.ScanLimit <= 0 {
		cfg.Discovery.ScanLimit = 1000
	}
	if cfg.OTP.TTLSeconds <= 0 {
		cfg.OTP.TTLSeconds = 300
	}
	if cfg.OTP.MaxAttempts <= 0 {
		cfg.OTP.MaxAttempts = 3
	}
	if cfg.OTP.CodeLength <= 0 {
		cfg.OTP.CodeLength = 6
	}
	if cfg.OTP.CodeLength > 12 {
		return fmt.Errorf("otp.code_length must be at most 12")
	}
	if cfg.Presence.TouchIntervalSeconds <= 0 {
		cfg.Presence.TouchIntervalSeconds = 30
	}
	if cfg.Presence.TouchCacheSize <= 0 {
		cfg.Presence.TouchCacheSize = 10000
	}
	if cfg.Presence.IdleHours <= 0 {
		cfg.Presence.IdleHours = 24
	}
	if cfg.RateLimit.MaxRequests <= 0 {
		cfg.RateLimit.MaxRequests = 10
	}
	if cfg.RateLimit.WindowSeconds <= 0 {
		cfg.RateLimit.WindowSeconds = 60
	}
	if cfg.Jobs.OTPCleanupSpec == "" {
		cfg.Jobs.OTPCleanupSpec = "*/10 * * * *"
	}
	if cfg.Jobs.IdleUserSpec == "" {
		cfg.Jobs.IdleUserSpec = "0 * * * *"
	}
	return nil
}
