package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Runtime string

const (
	RuntimeNode       Runtime = "node"
	RuntimeCloudflare Runtime = "cloudflare-workers"
)

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

var logLevels = []string{"fatal", "error", "warn", "info", "debug", "trace", "silent"}

type Config struct {
	Env        string
	Runtime    Runtime
	Server     ServerConfig
	Database   DatabaseConfig
	Logging    LoggingConfig
	Cloudflare CloudflareConfig
}

type ServerConfig struct {
	Host            string
	Port            string
	PublicURL       string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	// URL выбирает хранилище по схеме: postgres://, bolt://, memory://
	URL            string
	MaxConnections int
	MinConnections int
	IdleTimeout    time.Duration
	// ConnectTimeout ограничивает одну попытку открытия хранилища
	ConnectTimeout time.Duration
}

type LoggingConfig struct {
	Level string
}

// CloudflareConfig используется только для отчёта /env-info
type CloudflareConfig struct {
	AccountID  string
	DatabaseID string
	D1Token    string
}

func (c CloudflareConfig) Configured() bool {
	return c.AccountID != "" && c.DatabaseID != "" && c.D1Token != ""
}

// Load читает .env (.env.test при APP_ENV=test) и переменные окружения.
// Переменные окружения процесса имеют приоритет над файлом
func Load() (*Config, error) {
	envFile := ".env"
	if os.Getenv("APP_ENV") == EnvTest {
		envFile = ".env.test"
	}
	_ = godotenv.Load(envFile)

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("APP_RUNTIME", string(RuntimeNode))
	v.SetDefault("HOST", "")
	v.SetDefault("PORT", "9999")
	v.SetDefault("PUBLIC_URL", "")
	v.SetDefault("SHUTDOWN_TIMEOUT", 15*time.Second)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DATABASE_MAX_CONNECTIONS", 10)
	v.SetDefault("DATABASE_MIN_CONNECTIONS", 2)
	v.SetDefault("DATABASE_IDLE_TIMEOUT", 5*time.Minute)
	v.SetDefault("DATABASE_CONNECT_TIMEOUT", 5*time.Second)
	v.SetDefault("CLOUDFLARE_ACCOUNT_ID", "")
	v.SetDefault("CLOUDFLARE_DATABASE_ID", "")
	v.SetDefault("CLOUDFLARE_D1_TOKEN", "")

	cfg := &Config{
		Env:     strings.ToLower(v.GetString("APP_ENV")),
		Runtime: Runtime(strings.ToLower(v.GetString("APP_RUNTIME"))),
		Server: ServerConfig{
			Host:            v.GetString("HOST"),
			Port:            v.GetString("PORT"),
			PublicURL:       v.GetString("PUBLIC_URL"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			URL:            v.GetString("DATABASE_URL"),
			MaxConnections: v.GetInt("DATABASE_MAX_CONNECTIONS"),
			MinConnections: v.GetInt("DATABASE_MIN_CONNECTIONS"),
			IdleTimeout:    v.GetDuration("DATABASE_IDLE_TIMEOUT"),
			ConnectTimeout: v.GetDuration("DATABASE_CONNECT_TIMEOUT"),
		},
		Logging: LoggingConfig{
			Level: strings.ToLower(v.GetString("LOG_LEVEL")),
		},
		Cloudflare: CloudflareConfig{
			AccountID:  v.GetString("CLOUDFLARE_ACCOUNT_ID"),
			DatabaseID: v.GetString("CLOUDFLARE_DATABASE_ID"),
			D1Token:    v.GetString("CLOUDFLARE_D1_TOKEN"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var problems []string

	switch c.Env {
	case EnvDevelopment, EnvTest, EnvProduction:
	default:
		problems = append(problems, fmt.Sprintf("APP_ENV: неизвестное окружение %q", c.Env))
	}

	switch c.Runtime {
	case RuntimeNode, RuntimeCloudflare:
	default:
		problems = append(problems, fmt.Sprintf("APP_RUNTIME: неизвестный runtime %q", c.Runtime))
	}

	if port, err := strconv.Atoi(c.Server.Port); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("PORT: неверный порт %q", c.Server.Port))
	}

	if !isLogLevel(c.Logging.Level) {
		problems = append(problems, fmt.Sprintf("LOG_LEVEL: неизвестный уровень %q", c.Logging.Level))
	}

	// нераспознанная длительность читается viper как 0
	if c.Server.ShutdownTimeout <= 0 {
		problems = append(problems, "SHUTDOWN_TIMEOUT: должен быть положительной длительностью")
	}
	if c.Database.ConnectTimeout <= 0 {
		problems = append(problems, "DATABASE_CONNECT_TIMEOUT: должен быть положительной длительностью")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		problems = append(problems, "DATABASE_MIN_CONNECTIONS больше DATABASE_MAX_CONNECTIONS")
	}

	if len(problems) > 0 {
		return fmt.Errorf("неверная конфигурация: %s", strings.Join(problems, "; "))
	}
	return nil
}

func isLogLevel(level string) bool {
	for _, l := range logLevels {
		if l == level {
			return true
		}
	}
	return false
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// ServerURL - адрес сервера для документации OpenAPI
func (c *Config) ServerURL() string {
	if c.Server.PublicURL != "" {
		return c.Server.PublicURL
	}
	return "http://localhost:" + c.Server.Port
}
