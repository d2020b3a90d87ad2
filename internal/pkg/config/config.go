package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HvacCfg     *HvacConfig
	MqttCfg     *MqttConfig
	DatabaseCfg *DatabaseConfig
	ServerCfg   *ServerConfig
	LogLevel    string
}

type HvacConfig struct {
	Host         string        `env:"HVAC_HOST"`
	Username     string        `env:"HVAC_USERNAME"`
	Password     string        `env:"HVAC_PASSWORD"`
	MaxRetries   int           `env:"HVAC_MAX_RETRIES" envDefault:"3"`
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"30s"`
}

type MqttConfig struct {
	Host     string `env:"MQTT_HOST"`
	Username string `env:"MQTT_USER"`
	Password string `env:"MQTT_PASS"`
}

type DatabaseConfig struct {
	URL              string `env:"DATABASE_URL"`
	MigrationsFolder string `env:"MIGRATIONS_FOLDER"`
}

type ServerConfig struct {
	Address    string `env:"SERVER_ADDRESS" envDefault:"0.0.0.0:8000"`
	SecretHash string `env:"SERVER_SECRET_HASH"`
}

// FromEnv builds a HvacConfig from environment variables alone, for
// consumers embedding the client library without the daemon's CLI wiring.
func FromEnv() (*HvacConfig, error) {
	cfg := &HvacConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
