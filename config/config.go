package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"

	"github.com/openshelf/openshelf/internal/server"
	"github.com/openshelf/openshelf/pkg/kafka"
	"github.com/openshelf/openshelf/pkg/logger"
	"github.com/openshelf/openshelf/pkg/postgres"
)

type Auth struct {
	JWTSecret string        `yaml:"jwtSecret" envconfig:"JWT_SECRET" default:"dev-secret"`
	TokenTTL  time.Duration `yaml:"tokenTTL" envconfig:"TOKEN_TTL" default:"24h"`

	AdminName     string `yaml:"adminName" envconfig:"ADMIN_NAME" default:"Administrator"`
	AdminEmail    string `yaml:"adminEmail" envconfig:"ADMIN_EMAIL"`
	AdminPassword string `yaml:"adminPassword" envconfig:"ADMIN_PASSWORD" json:"-"`
}

type Config struct {
	Server   server.Config   `yaml:"server"`
	Database postgres.Config `yaml:"database"`
	Kafka    kafka.Config    `yaml:"kafka"`
	Auth     Auth            `yaml:"auth"`
	Log      logger.Log      `yaml:"log"`
}

type Option func(*Config)

func WithLogLevel(level zapcore.Level) Option {
	return func(c *Config) {
		c.Log.LogLevel = level
	}
}

func WithWriteTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Server.WriteTimeout = timeout
	}
}

var (
	once sync.Once
	cfg  Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		for _, op := range ops {
			op(&config)
		}
		cfg = config
		printConfig(cfg)
	})

	return &cfg
}

func printConfig(cfg Config) {
	cfg.Database.Password = "***"
	cfg.Auth.JWTSecret = "***"
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
