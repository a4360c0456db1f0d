package config

import "fmt"

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes"`
}

type AuthConfig struct {
	JWT JWTConfig `mapstructure:"jwt"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type GoogleOAuthConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

// CryptoConfig carries the key material for token encryption. TokenKey is the
// current scheme key; LegacyTokenKey is only needed while credentials written
// under the old scheme still exist.
type CryptoConfig struct {
	TokenKey       string `mapstructure:"token_key"`
	LegacyTokenKey string `mapstructure:"legacy_token_key"`
}

type SyncConfig struct {
	TaskListName         string `mapstructure:"task_list_name"`
	Timezone             string `mapstructure:"timezone"`
	DayBoundaryHour      int    `mapstructure:"day_boundary_hour"`
	ExpirySkewSeconds    int    `mapstructure:"expiry_skew_seconds"`
	RefreshLockTTLSecs   int    `mapstructure:"refresh_lock_ttl_seconds"`
	RefreshWaitMillis    int    `mapstructure:"refresh_wait_millis"`
	RemoteTimeoutSeconds int    `mapstructure:"remote_timeout_seconds"`
}

type WorkerConfig struct {
	Schedule string `mapstructure:"schedule"`
}
