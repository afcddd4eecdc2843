package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"

	"github.com/m04kA/SMC-LabBookingService/internal/domain"
)

// Драйверы хранилища
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// ErrInvalidConfig возвращается, когда конфигурация не проходит проверку
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Auth     AuthConfig     `toml:"auth"`
	Slots    SlotsConfig    `toml:"slots"`
}

// ServerConfig настройки HTTP сервера; таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к БД
type DatabaseConfig struct {
	Driver          string `toml:"driver"` // postgres | memory
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды

	// Услуги, которые заводятся при старте с драйвером memory
	SeedTestServices []SeedTestService `toml:"seed_test_services"`
}

// SeedTestService услуга для in-memory хранилища
type SeedTestService struct {
	Name  string  `toml:"name"`
	Price float64 `toml:"price"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// AuthConfig настройки JWT
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
	TokenTTL  int    `toml:"token_ttl"` // минуты
}

// SlotsConfig настройки слотов и их генерации
type SlotsConfig struct {
	DefaultCapacity   int      `toml:"default_capacity"`
	Shifts            []string `toml:"shifts"`
	GenerationEnabled bool     `toml:"generation_enabled"`
	GenerationCron    string   `toml:"generation_cron"`
	GenerationDays    int      `toml:"generation_days"`
	GenerationTimeout int      `toml:"generation_timeout"` // секунды
	Timezone          string   `toml:"timezone"`
}

// DomainShifts возвращает смены в виде доменных значений
func (c SlotsConfig) DomainShifts() []domain.Shift {
	shifts := make([]domain.Shift, len(c.Shifts))
	for i, s := range c.Shifts {
		shifts[i] = domain.Shift(s)
	}
	return shifts
}

// Location возвращает часовой пояс расписания
func (c SlotsConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// envOverrides значения из окружения, перекрывающие файл
type envOverrides struct {
	JWTSecret     string `envconfig:"JWT_SECRET"`
	DBPassword    string `envconfig:"DB_PASSWORD"`
	DBHost        string `envconfig:"DB_HOST"`
	StorageDriver string `envconfig:"STORAGE_DRIVER"`
	HTTPPort      int    `envconfig:"HTTP_PORT"`
	LogLevel      string `envconfig:"LOG_LEVEL"`
}

// Load читает конфигурацию из TOML файла, применяет переменные окружения и проверяет результат
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	cfg.applyEnv(env)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 30,
		},
		Database: DatabaseConfig{
			Driver:          DriverPostgres,
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "lab_booking_service",
		},
		Auth: AuthConfig{TokenTTL: 60},
		Slots: SlotsConfig{
			DefaultCapacity:   domain.DefaultSlotCapacity,
			Shifts:            []string{string(domain.ShiftMorning), string(domain.ShiftAfternoon)},
			GenerationEnabled: true,
			GenerationCron:    "0 1 * * 0",
			GenerationDays:    domain.DefaultGenerationDays,
			GenerationTimeout: 300,
			Timezone:          "UTC",
		},
	}
}

func (c *Config) applyEnv(env envOverrides) {
	if env.JWTSecret != "" {
		c.Auth.JWTSecret = env.JWTSecret
	}
	if env.DBPassword != "" {
		c.Database.Password = env.DBPassword
	}
	if env.DBHost != "" {
		c.Database.Host = env.DBHost
	}
	if env.StorageDriver != "" {
		c.Database.Driver = env.StorageDriver
	}
	if env.HTTPPort != 0 {
		c.Server.HTTPPort = env.HTTPPort
	}
	if env.LogLevel != "" {
		c.Logs.Level = env.LogLevel
	}
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	if c.Server.HTTPPort < 1 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d is out of range", ErrInvalidConfig, c.Server.HTTPPort)
	}

	switch c.Database.Driver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("%w: unknown database.driver %q", ErrInvalidConfig, c.Database.Driver)
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: auth.jwt_secret is empty (set JWT_SECRET)", ErrInvalidConfig)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("%w: auth.token_ttl must be positive", ErrInvalidConfig)
	}

	if c.Slots.DefaultCapacity < domain.MinSlotCapacity {
		return fmt.Errorf("%w: slots.default_capacity must be at least %d", ErrInvalidConfig, domain.MinSlotCapacity)
	}
	if len(c.Slots.Shifts) == 0 {
		return fmt.Errorf("%w: slots.shifts is empty", ErrInvalidConfig)
	}
	for _, shift := range c.Slots.DomainShifts() {
		if !shift.IsValid() {
			return fmt.Errorf("%w: unknown shift %q", ErrInvalidConfig, shift)
		}
	}
	if c.Slots.GenerationDays < 1 {
		return fmt.Errorf("%w: slots.generation_days must be positive", ErrInvalidConfig)
	}
	if _, err := cron.ParseStandard(c.Slots.GenerationCron); err != nil {
		return fmt.Errorf("%w: slots.generation_cron %q: %v", ErrInvalidConfig, c.Slots.GenerationCron, err)
	}
	if _, err := c.Slots.Location(); err != nil {
		return fmt.Errorf("%w: slots.timezone %q: %v", ErrInvalidConfig, c.Slots.Timezone, err)
	}

	return nil
}
