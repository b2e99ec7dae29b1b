package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type HTTPServer struct {
	Addr string `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
}

type Database struct {
	Host            string        `yaml:"PG_HOST" env:"PG_HOST" env-default:"localhost"`
	Port            string        `yaml:"PG_PORT" env:"PG_PORT" env-default:"5432"`
	User            string        `yaml:"PG_USER" env:"PG_USER" env-required:"true"`
	Password        string        `yaml:"PG_PASSWORD" env:"PG_PASSWORD" env-required:"true"`
	Name            string        `yaml:"PG_DBNAME" env:"PG_DBNAME" env-required:"true"`
	SSLMode         string        `yaml:"PG_SSLMODE" env:"PG_SSLMODE" env-default:"disable"`
	MaxOpenConns    int           `yaml:"PG_MAX_OPEN_CONNS" env:"PG_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns    int           `yaml:"PG_MAX_IDLE_CONNS" env:"PG_MAX_IDLE_CONNS" env-default:"5"`
	ConnMaxLifetime time.Duration `yaml:"PG_CONN_MAX_LIFETIME" env:"PG_CONN_MAX_LIFETIME" env-default:"30m"`
	ConnMaxIdleTime time.Duration `yaml:"PG_CONN_MAX_IDLE_TIME" env:"PG_CONN_MAX_IDLE_TIME" env-default:"5m"`
}

type RedisConnect struct {
	Host     string `yaml:"REDIS_HOST" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"REDIS_PORT" env:"REDIS_PORT" env-default:"6379"`
	Username string `yaml:"REDIS_USER" env:"REDIS_USER" env-default:""`
	Password string `yaml:"REDIS_PASSWORD" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"REDIS_DB" env:"REDIS_DB" env-default:"0"`
}

type RateConfig struct {
	MaxAttempts int64         `yaml:"MAX_ATTEMPTS" env:"MAX_ATTEMPTS" env-default:"5"`
	WindowSize  time.Duration `yaml:"WINDOW_SIZE" env:"WINDOW_SIZE" env-default:"15m"`
}

type Security struct {
	JWTKey   string        `yaml:"JWT_KEY" env:"JWT_KEY" env-required:"true"`
	TokenTTL time.Duration `yaml:"TOKEN_TTL" env:"TOKEN_TTL" env-default:"24h"`
}

type CacheConfig struct {
	DefaultTTL time.Duration `yaml:"CACHE_TTL" env:"CACHE_TTL" env-default:"5m"`
}

type SendGrid struct {
	APIKey    string `yaml:"SENDGRID_API_KEY" env:"SENDGRID_API_KEY" env-default:""`
	FromEmail string `yaml:"SENDGRID_FROM_EMAIL" env:"SENDGRID_FROM_EMAIL" env-default:"orders@minishop.dev"`
	FromName  string `yaml:"SENDGRID_FROM_NAME" env:"SENDGRID_FROM_NAME" env-default:"minishop"`
}

type Telemetry struct {
	Endpoint string `yaml:"OTLP_ENDPOINT" env:"OTLP_ENDPOINT" env-default:""`
}

type Config struct {
	Env          string `yaml:"env" env:"ENV" env-required:"true"`
	HTTPServer   `yaml:"http_server"`
	Database     Database     `yaml:"database"`
	RedisConnect RedisConnect `yaml:"redis"`
	RateConfig   RateConfig   `yaml:"rateConfig"`
	Security     Security     `yaml:"security"`
	Cache        CacheConfig  `yaml:"cache"`
	SendGrid     SendGrid     `yaml:"sendgrid"`
	Telemetry    Telemetry    `yaml:"telemetry"`
}

func MustLoad() *Config {

	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {

		flags := flag.String("config", "", "path to the configuration file")

		flag.Parse()

		configPath = *flags

		if configPath == "" {
			log.Fatal("Config path is not set")
		}

	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	var cfg Config

	err := cleanenv.ReadConfig(configPath, &cfg)

	if err != nil {
		log.Fatalf("can not read config file: %s", err.Error())
	}

	return &cfg

}

func (d *Database) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

func (r *RedisConnect) GetDSN() string {
	return fmt.Sprintf("redis://%s:%s@%s:%s/%d",
		r.Username, r.Password, r.Host, r.Port, r.DB)
}
