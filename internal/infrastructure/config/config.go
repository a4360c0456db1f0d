package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/flowdesk-inc/flowdesk/internal/shared/config"
)

type Config struct {
	Server   sharedConfig.ServerConfig      `mapstructure:"server"`
	Database sharedConfig.DatabaseConfig    `mapstructure:"database"`
	Logger   sharedConfig.LoggerConfig      `mapstructure:"logger"`
	Auth     sharedConfig.AuthConfig        `mapstructure:"auth"`
	Google   sharedConfig.GoogleOAuthConfig `mapstructure:"google"`
	Redis    sharedConfig.RedisConfig       `mapstructure:"redis"`
	Crypto   sharedConfig.CryptoConfig      `mapstructure:"crypto"`
	Sync     sharedConfig.SyncConfig        `mapstructure:"sync"`
	Worker   sharedConfig.WorkerConfig      `mapstructure:"worker"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables
func Load(env string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../configs")
	viper.AddConfigPath("../../configs")

	viper.SetEnvPrefix("FLOWDESK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if env != "" && env != "default" {
		viper.Set("server.mode", env)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 3306)
	viper.SetDefault("database.username", "root")
	viper.SetDefault("database.password", "password")
	viper.SetDefault("database.database", "flowdesk_dev")
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.max_open_conns", 100)
	viper.SetDefault("database.conn_max_lifetime", 60)

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stdout")

	viper.SetDefault("auth.jwt.secret", "change-me-in-production")
	viper.SetDefault("auth.jwt.access_exp_minutes", 15)

	viper.SetDefault("google.client_id", "")
	viper.SetDefault("google.client_secret", "")
	viper.SetDefault("google.redirect_url", "http://localhost:8080/api/sync/callback")

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("crypto.token_key", "")
	viper.SetDefault("crypto.legacy_token_key", "")

	viper.SetDefault("sync.task_list_name", "Flowdesk")
	viper.SetDefault("sync.timezone", "Asia/Tokyo")
	viper.SetDefault("sync.day_boundary_hour", 3)
	viper.SetDefault("sync.expiry_skew_seconds", 60)
	viper.SetDefault("sync.refresh_lock_ttl_seconds", 30)
	viper.SetDefault("sync.refresh_wait_millis", 1500)
	viper.SetDefault("sync.remote_timeout_seconds", 30)

	viper.SetDefault("worker.schedule", "@every 15m")
}
