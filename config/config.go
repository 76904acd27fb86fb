package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Booking  BookingConfig  `yaml:"booking"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type HTTPConfig struct {
	Address    string `yaml:"address"`
	SwaggerDir string `yaml:"swagger_dir"`
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

func (d DatabaseConfig) MigrateURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s", d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingTopic       string   `yaml:"booking_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type BookingConfig struct {
	FleetCacheTTLSeconds  int `yaml:"fleet_cache_ttl_seconds"`
	VehicleLockTTLSeconds int `yaml:"vehicle_lock_ttl_seconds"`
	InvoiceDueDays        int `yaml:"invoice_due_days"`
}

type WorkerConfig struct {
	OverdueSweepMinutes int `yaml:"overdue_sweep_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()
	return &cfg, nil
}

// applyEnv lets deployment environments override the file without editing it.
func (c *Config) applyEnv() {
	_ = godotenv.Load(".env")

	c.HTTP.Address = cast.ToString(getOrDefault("HTTP_ADDRESS", c.HTTP.Address))
	c.Database.Host = cast.ToString(getOrDefault("POSTGRES_HOST", c.Database.Host))
	c.Database.Port = cast.ToInt(getOrDefault("POSTGRES_PORT", c.Database.Port))
	c.Database.User = cast.ToString(getOrDefault("POSTGRES_USER", c.Database.User))
	c.Database.Password = cast.ToString(getOrDefault("POSTGRES_PASSWORD", c.Database.Password))
	c.Database.Name = cast.ToString(getOrDefault("POSTGRES_DB", c.Database.Name))
	c.Redis.Addr = cast.ToString(getOrDefault("REDIS_ADDR", c.Redis.Addr))
	c.Redis.Password = cast.ToString(getOrDefault("REDIS_PASSWORD", c.Redis.Password))
}

func getOrDefault(key string, defaultValue interface{}) interface{} {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
