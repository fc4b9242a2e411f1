// Package config предоставляет структуры и функцию для парсинга и загрузки конфига.
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек.
type Config struct {
	Env                     string `yaml:"env" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	HTTPServer              `yaml:"http_server"`
	RedisConnection         `yaml:"redis_connection"`
	JWTToken                `yaml:"jwttoken"`
	RabbitMQ                `yaml:"rabbitmq"`
	SMTPConnection          `yaml:"smtp"`
	CheckIn                 `yaml:"checkin"`
	Policy                  `yaml:"policy"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"5s"`
}

// JWTToken структура для работы с jwt-токеном.
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// RabbitMQ структура для настройки подключения к брокеру уведомлений.
type RabbitMQ struct {
	RabbitMQURL         string        `yaml:"url" env:"RABBITMQ_URL"`
	RabbitMQMaxRetries  int           `yaml:"max_retries" env-default:"10"`
	RabbitMQRetryDelay  time.Duration `yaml:"retry_delay" env-default:"3s"`
	ConsumerConcurrency int           `yaml:"consumer_concurrency" env-default:"10"`
}

// SMTPConnection структура для настройки SMTP-транспорта уведомлений.
type SMTPConnection struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port" env-default:"587"`
	User     string `yaml:"user"`
	Password string `yaml:"password" env:"SMTP_PASSWORD"`
}

// Policy структура для бизнес-политик, настраиваемых без пересборки.
// PendingCountsAsActive включает учёт участников с платежом на рассмотрении
// в счётчике активных на панели администратора.
type Policy struct {
	PendingCountsAsActive bool `yaml:"pending_counts_as_active" env-default:"false"`
}

// CheckIn структура для настройки QR-токенов отметки посещений.
type CheckIn struct {
	CheckInSecretKey string        `yaml:"checkin_secret_key" env:"CHECKIN_SECRET_KEY"`
	CheckInTokenTTL  time.Duration `yaml:"checkin_token_ttl" env-default:"5m"`
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и завершает процесс при ошибке.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
