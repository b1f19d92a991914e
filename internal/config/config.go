package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultConfigFile = "configs/config.yaml"

type Config struct {
	Server struct {
		Port               int      `mapstructure:"port"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string `mapstructure:"cors_allowed_headers"`
		ShutdownTimeoutSec int      `mapstructure:"shutdown_timeout_seconds"`
	} `mapstructure:"server"`

	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		SSLMode  string `mapstructure:"sslmode"`
		MaxConns int32  `mapstructure:"max_conns"`
	} `mapstructure:"database"`

	Redis struct {
		Enabled  bool   `mapstructure:"enabled"`
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	Ingestion struct {
		Enabled        bool   `mapstructure:"enabled"`
		CustomerFile   string `mapstructure:"customer_file"`
		LoanFile       string `mapstructure:"loan_file"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	} `mapstructure:"ingestion"`

	// Storage is only consulted for s3:// seed locations
	Storage struct {
		Region          string `mapstructure:"region"`
		Endpoint        string `mapstructure:"endpoint"`
		AccessKeyID     string `mapstructure:"access_key_id"`
		SecretAccessKey string `mapstructure:"secret_access_key"`
	} `mapstructure:"storage"`
}

// Load reads configs/config.yaml (optional) plus environment overrides.
// It exits the process when the configuration cannot be decoded.
func Load() *Config {
	cfg, err := LoadFile(defaultConfigFile)
	if err != nil {
		log.Fatalf("config unmarshal error: %v", err)
	}
	return cfg
}

// LoadFile is Load with an explicit config path. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)

	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found at %s, using defaults", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_allowed_origins", []string{"*"})
	v.SetDefault("server.cors_allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("server.cors_allowed_headers", []string{"Content-Type", "X-Request-ID"})
	v.SetDefault("server.shutdown_timeout_seconds", 15)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "loan_db")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)

	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("ingestion.enabled", true)
	v.SetDefault("ingestion.customer_file", "data/customer_data.xlsx")
	v.SetDefault("ingestion.loan_file", "data/loan_data.xlsx")
	v.SetDefault("ingestion.timeout_seconds", 300)

	v.SetDefault("storage.region", "auto")
}

// applyEnvOverrides maps the flat DB_* / REDIS_* / SEED_* variables used by
// deployment scripts onto the nested config.
func applyEnvOverrides(cfg *Config) {
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := envInt("DB_PORT"); port > 0 {
		cfg.Database.Port = port
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if pass := os.Getenv("DB_PASSWORD"); pass != "" {
		cfg.Database.Password = pass
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.Name = name
	}

	if host := os.Getenv("REDIS_HOST"); host != "" {
		cfg.Redis.Host = host
	}
	if port := envInt("REDIS_PORT"); port > 0 {
		cfg.Redis.Port = port
	}
	if pass := os.Getenv("REDIS_PASSWORD"); pass != "" {
		cfg.Redis.Password = pass
	}
	if enabled := os.Getenv("REDIS_ENABLED"); enabled != "" {
		if b, err := strconv.ParseBool(enabled); err == nil {
			cfg.Redis.Enabled = b
		}
	}

	if f := os.Getenv("SEED_CUSTOMER_FILE"); f != "" {
		cfg.Ingestion.CustomerFile = f
	}
	if f := os.Getenv("SEED_LOAN_FILE"); f != "" {
		cfg.Ingestion.LoanFile = f
	}

	if key := os.Getenv("STORAGE_ACCESS_KEY_ID"); key != "" {
		cfg.Storage.AccessKeyID = key
	}
	if secret := os.Getenv("STORAGE_SECRET_ACCESS_KEY"); secret != "" {
		cfg.Storage.SecretAccessKey = secret
	}
	if endpoint := os.Getenv("STORAGE_ENDPOINT"); endpoint != "" {
		cfg.Storage.Endpoint = endpoint
	}
}

func envInt(key string) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return 0
	}
	return n
}

// DSN builds the postgres connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port,
		c.Database.Name, c.Database.SSLMode)
}

// RedisAddr returns host:port for the redis client
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func (c *Config) IngestionTimeout() time.Duration {
	return time.Duration(c.Ingestion.TimeoutSeconds) * time.Second
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutSec) * time.Second
}
