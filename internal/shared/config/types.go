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

// DatabaseConfig describes the primary store. ReplicaHost/ReplicaPort point at
// a read-optimized copy; when empty, read routing is disabled and everything
// goes to the primary.
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	ReplicaHost     string `mapstructure:"replica_host"`
	ReplicaPort     int    `mapstructure:"replica_port"`
	RoutingEnabled  bool   `mapstructure:"routing_enabled"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

func (d *DatabaseConfig) GetReplicaDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.ReplicaHost, d.ReplicaPort, d.Database)
}

func (d *DatabaseConfig) HasReplica() bool {
	return d.ReplicaHost != "" && d.ReplicaPort != 0
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type JWTConfig struct {
	Secret         string `mapstructure:"secret"`
	AccessExpDays  int    `mapstructure:"access_exp_days"`
	RefreshExpDays int    `mapstructure:"refresh_exp_days"`
}

type PasswordConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type LoginThrottleConfig struct {
	AttemptsPerMinute int `mapstructure:"attempts_per_minute"`
}

type AuthConfig struct {
	Password PasswordConfig      `mapstructure:"password"`
	JWT      JWTConfig           `mapstructure:"jwt"`
	Throttle LoginThrottleConfig `mapstructure:"throttle"`
}

// RateLimitConfig drives the request-admission limiter. Limits are static,
// configuration-driven constants, not computed dynamically.
type RateLimitConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Backend         string `mapstructure:"backend"` // "memory" or "redis"
	PerTenantPerMin int    `mapstructure:"per_tenant_per_minute"`
	GlobalPerMin    int    `mapstructure:"global_per_minute"`
	WindowSeconds   int    `mapstructure:"window_seconds"`
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

type CacheConfig struct {
	DashboardTTLSeconds int `mapstructure:"dashboard_ttl_seconds"`
}
