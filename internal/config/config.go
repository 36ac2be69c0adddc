package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	DBConfig struct {
		Host     string `env:"LEDGER_DB_HOST"`
		Port     int    `env:"LEDGER_DB_PORT"`
		User     string `env:"LEDGER_DB_USER"`
		Password string `env:"LEDGER_DB_PASSWORD"`
		Name     string `env:"LEDGER_DB_NAME"`
		SSLMode  string `env:"LEDGER_DB_SSLMODE"`
	}

	KafkaBrokerURL          string `env:"KAFKA_BROKER_URL"`
	KafkaNotificationsTopic string `env:"KAFKA_NOTIFICATIONS_TOPIC"`

	HTTPPort       int    `env:"LEDGER_HTTP_PORT"`
	MigrationsPath string `env:"LEDGER_MIGRATIONS_PATH"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}

	cfg.DBConfig.Host = getEnvOrDefault("LEDGER_DB_HOST", "localhost")
	cfg.DBConfig.Port = getEnvAsInt("LEDGER_DB_PORT", 5432)
	cfg.DBConfig.User = getEnvOrDefault("LEDGER_DB_USER", "user")
	cfg.DBConfig.Password = getEnvOrDefault("LEDGER_DB_PASSWORD", "password")
	cfg.DBConfig.Name = getEnvOrDefault("LEDGER_DB_NAME", "ledger_db")
	cfg.DBConfig.SSLMode = getEnvOrDefault("LEDGER_DB_SSLMODE", "disable")

	cfg.KafkaBrokerURL = getEnvOrDefault("KAFKA_BROKER_URL", "localhost:9092")
	cfg.KafkaNotificationsTopic = getEnvOrDefault("KAFKA_NOTIFICATIONS_TOPIC", "account_notifications")

	cfg.HTTPPort = getEnvAsInt("LEDGER_HTTP_PORT", 8080)
	cfg.MigrationsPath = getEnvOrDefault("LEDGER_MIGRATIONS_PATH", "file://migrations")

	return cfg, nil
}

func (c *Config) GetDBMigrationConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBConfig.User, c.DBConfig.Password, c.DBConfig.Host, c.DBConfig.Port, c.DBConfig.Name, c.DBConfig.SSLMode)
}

func (c *Config) GetKafkaBrokers() []string {
	return strings.Split(c.KafkaBrokerURL, ",")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnvOrDefault(key, strconv.Itoa(defaultValue))
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
