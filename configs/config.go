package configs

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App struct {
		Name     string `koanf:"name"`
		HTTPAddr string `koanf:"http_addr"`
		LogLevel string `koanf:"log_level"`
		LogFile  string `koanf:"log_file"`
	} `koanf:"app"`

	HTTP struct {
		ReadTimeout  time.Duration `koanf:"read_timeout"`
		WriteTimeout time.Duration `koanf:"write_timeout"`
		IdleTimeout  time.Duration `koanf:"idle_timeout"`
	} `koanf:"http"`

	MySQL struct {
		DSN             string        `koanf:"dsn"`
		MaxOpenConns    int           `koanf:"max_open_conns"`
		MaxIdleConns    int           `koanf:"max_idle_conns"`
		ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	} `koanf:"mysql"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
	} `koanf:"redis"`

	Idempotency struct {
		TTL time.Duration `koanf:"ttl"`
	} `koanf:"idempotency"`

	Cache struct {
		TTL time.Duration `koanf:"ttl"`
	} `koanf:"cache"`

	Rabbit struct {
		URL        string `koanf:"url"`
		Exchange   string `koanf:"exchange"`
		RoutingKey string `koanf:"routing_key"`
		AlertQueue string `koanf:"alert_queue"`
	} `koanf:"rabbitmq"`

	Kafka struct {
		Brokers          []string `koanf:"brokers"`
		TopicAdjustments string   `koanf:"topic_adjustments"`
		GroupID          string   `koanf:"group_id"`
	} `koanf:"kafka"`

	Security struct {
		JWTSecret string        `koanf:"jwt_secret"`
		Issuer    string        `koanf:"issuer"`
		TTL       time.Duration `koanf:"ttl"`
	} `koanf:"security"`

	Alerts struct {
		LowStockThreshold int `koanf:"low_stock_threshold"`
	} `koanf:"alerts"`

	Seed struct {
		Enabled       bool   `koanf:"enabled"`
		AdminEmail    string `koanf:"admin_email"`
		AdminPassword string `koanf:"admin_password"`
	} `koanf:"seed"`
}

// Load reads base.yaml, then the <env>.yaml overlay when present, then
// STOCKPOS_ environment variables (double underscore maps to a dot, so
// STOCKPOS_MYSQL__DSN overrides mysql.dsn).
func Load(dir, envName string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(dir+"/base.yaml"), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load base config: %w", err)
	}

	if envName != "" {
		overlay := dir + "/" + envName + ".yaml"
		if _, err := os.Stat(overlay); err == nil {
			if err := k.Load(file.Provider(overlay), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load %s config: %w", envName, err)
			}
		}
	}

	if err := k.Load(env.Provider("STOCKPOS_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "STOCKPOS_")
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load env overrides: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.App.HTTPAddr == "" {
		return errors.New("config: app.http_addr is required")
	}
	if c.MySQL.DSN == "" {
		return errors.New("config: mysql.dsn is required")
	}
	if c.Security.JWTSecret == "" {
		return errors.New("config: security.jwt_secret is required")
	}
	return nil
}
