// Package config предоставляет структуры и функции для загрузки конфигурации сервиса.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// MinProductionSecretLength минимальная длина секрета JWT, ниже которой в production выдаётся предупреждение.
const MinProductionSecretLength = 32

// Config общая структура для хранения настроек.
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"DATABASE_URL" env-required:"true"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	Promo                   `yaml:"promo"`
	RedisConnection         `yaml:"redis_connection"`
	RabbitMQ                `yaml:"rabbitmq"`
	SMTP                    `yaml:"smtp"`
	RateLimit               `yaml:"rate_limit"`
}

// HTTPServer структура для настройки сервера.
// TrustProxy включает чтение IP клиента из X-Forwarded-For/X-Real-IP:
// только за обратным прокси, который перезаписывает эти заголовки.
type HTTPServer struct {
	AddressHTTP string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":5000"`
	TimeoutHTTP time.Duration `yaml:"timeout" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ClientURL   string        `yaml:"client_url" env:"CLIENT_URL" env-default:"http://localhost:5173"`
	TrustProxy  bool          `yaml:"trust_proxy" env:"TRUST_PROXY" env-default:"false"`
}

// JWTToken структура для работы с jwt-токеном.
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET" env-required:"true"`
	TokenTTL     time.Duration `yaml:"token_ttl" env:"JWT_TTL" env-default:"168h"`
}

// Promo глобальный промокод и процент скидки.
type Promo struct {
	Code            string  `yaml:"code" env:"PROMO_CODE" env-default:"BFSALE25"`
	DiscountPercent float64 `yaml:"discount_percent" env:"DISCOUNT_PERCENTAGE" env-default:"50"`
}

// RedisConnection структура для настройки подключения к redis.
// Пустой адрес отключает кэш курсов.
type RedisConnection struct {
	AddressRedis string        `yaml:"address" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeout" env-default:"3s"`
	CourseTTL    time.Duration `yaml:"course_ttl" env-default:"5m"`
}

// RabbitMQ настройки публикации событий о зачислении. Пустой URL отключает публикацию.
type RabbitMQ struct {
	URL        string `yaml:"url" env:"RABBITMQ_URL"`
	Exchange   string `yaml:"exchange" env-default:"enrollments"`
	Queue      string `yaml:"queue" env-default:"enrollment_created"`
	RoutingKey string `yaml:"routing_key" env-default:"enrollment.created"`

	RabbitMaxRetries int           `yaml:"max_retries" env-default:"5"`
	RabbitRetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
	// Workers число одновременно обрабатываемых сообщений в воркере рассылки.
	Workers  int `yaml:"workers" env-default:"4"`
	Prefetch int `yaml:"prefetch" env-default:"8"`
}

// SMTP настройки почтового сервера для воркера рассылки.
type SMTP struct {
	SMTPHost string `yaml:"host" env:"SMTP_HOST"`
	SMTPPort int    `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	SMTPUser string `yaml:"user" env:"SMTP_USER"`
	SMTPPass string `yaml:"password" env:"SMTP_PASSWORD"`
	From     string `yaml:"from" env:"SMTP_FROM" env-default:"no-reply@coursehub.local"`
}

// RateLimit лимиты запросов на один IP.
type RateLimit struct {
	AuthRPS    float64 `yaml:"auth_rps" env-default:"0.0056"`
	AuthBurst  int     `yaml:"auth_burst" env-default:"5"`
	PromoRPS   float64 `yaml:"promo_rps" env-default:"0.0028"`
	PromoBurst int     `yaml:"promo_burst" env-default:"10"`
	APIRPS     float64 `yaml:"api_rps" env-default:"0.111"`
	APIBurst   int     `yaml:"api_burst" env-default:"100"`
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и завершает процесс при ошибке.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Load читает YAML-файл, применяет переменные окружения и значения по умолчанию, затем валидирует результат.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%s: file %s: %w", op, path, err)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// Validate проверяет значения, при которых сервис не может работать корректно.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.JWTSecretKey) == "" {
		errs = append(errs, errors.New("jwt secret is empty"))
	}
	if strings.TrimSpace(c.Code) == "" {
		errs = append(errs, errors.New("promo code is empty"))
	}
	if c.DiscountPercent < 0 || c.DiscountPercent > 100 {
		errs = append(errs, fmt.Errorf("discount percent %v out of range 0..100", c.DiscountPercent))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("token ttl must be positive, got %s", c.TokenTTL))
	}
	return errors.Join(errs...)
}

// Warnings возвращает некритичные замечания к конфигурации, которые стоит залогировать при старте.
func (c *Config) Warnings() []string {
	var warnings []string
	if !c.IsProduction() {
		return warnings
	}
	if len(c.JWTSecretKey) < MinProductionSecretLength {
		warnings = append(warnings, fmt.Sprintf("jwt secret is shorter than %d bytes", MinProductionSecretLength))
	}
	if strings.Contains(c.StorageConnectionString, "localhost") || strings.Contains(c.StorageConnectionString, "127.0.0.1") {
		warnings = append(warnings, "database points to localhost in production")
	}
	return warnings
}

// IsProduction сообщает, запущен ли сервис в production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"  ClientURL: %s\n"+
			"JWTToken:\n"+
			"  TokenTTL: %s\n"+
			"Promo:\n"+
			"  Code: %s\n"+
			"  DiscountPercent: %v\n"+
			"Redis:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"  CourseTTL: %s\n"+
			"RabbitMQ:\n"+
			"  Exchange: %s\n"+
			"  Queue: %s\n",
		c.Env,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.ClientURL,
		c.TokenTTL,
		c.Code,
		c.DiscountPercent,
		c.AddressRedis,
		c.DB,
		c.CourseTTL,
		c.Exchange,
		c.Queue,
	)
}
