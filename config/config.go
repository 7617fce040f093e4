package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Booking  BookingConfig  `yaml:"booking"`
	Auth     AuthConfig     `yaml:"auth"`
	Worker   WorkerConfig   `yaml:"worker"`
	Log      LogConfig      `yaml:"log"`
}

type HTTPConfig struct {
	Address     string `yaml:"address"`
	SwaggerFile string `yaml:"swagger_file"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type BookingConfig struct {
	// InsuranceDailyFee is a decimal amount such as "20.00".
	InsuranceDailyFee   string `yaml:"insurance_daily_fee"`
	CarsCacheTTLSeconds int    `yaml:"cars_cache_ttl_seconds"`
	CarLockTTLSeconds   int    `yaml:"car_lock_ttl_seconds"`
	// Timezone decides what "today" is for past-date checks and calendars.
	Timezone string `yaml:"timezone"`
}

func (b BookingConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return nil, fmt.Errorf("booking.timezone: %w", err)
	}
	return loc, nil
}

type AuthConfig struct {
	JWTSecret    string `yaml:"jwt_secret"`
	JWTAlgorithm string `yaml:"jwt_algorithm"`
	CookieName   string `yaml:"cookie_name"`
}

type WorkerConfig struct {
	OverdueReminderSchedule string `yaml:"overdue_reminder_schedule"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Path returns the config location from CONFIG_PATH, after loading an
// optional .env file into the environment.
func Path() string {
	_ = godotenv.Load()
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.yaml"
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwt_secret or JWT_SECRET must be set")
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		HTTP: HTTPConfig{Address: ":8080"},
		Booking: BookingConfig{
			InsuranceDailyFee:   "20.00",
			CarsCacheTTLSeconds: 60,
			CarLockTTLSeconds:   5,
			Timezone:            "UTC",
		},
		Auth: AuthConfig{
			JWTAlgorithm: "HS256",
			CookieName:   "auth_token",
		},
		Worker: WorkerConfig{OverdueReminderSchedule: "0 8 * * *"},
		Log:    LogConfig{Level: "info"},
	}
}
