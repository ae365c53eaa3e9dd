package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig           `mapstructure:"server"`
	Database DatabaseConfig         `mapstructure:"database"`
	Redis    RedisConfig            `mapstructure:"redis"`
	JWT      JWTConfig              `mapstructure:"jwt"`
	Keystore KeystoreConfig         `mapstructure:"keystore"`
	Admin    AdminConfig            `mapstructure:"admin"`
	Tokens   TokenConfig            `mapstructure:"tokens"`
	Rates    map[string]string      `mapstructure:"rates"` // "USD/USDT" -> decimal rate
	Fees     FeeConfig              `mapstructure:"fees"`
	Deposit  DepositConfig          `mapstructure:"deposit"`
	Chains   map[string]ChainConfig `mapstructure:"chains"`
	Sweep    SweepConfig            `mapstructure:"sweep"`
	Webhook  WebhookConfig          `mapstructure:"webhook"`
	Log      LogConfig              `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

type KeystoreConfig struct {
	// Passphrase derives the master key via scrypt. Minimum 16 characters.
	Passphrase string `mapstructure:"passphrase"`
}

type AdminConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	// TOTPSecret is the base32 seed for the operator's one-time codes.
	TOTPSecret string `mapstructure:"totp_secret"`
}

type TokenConfig struct {
	// Decimals maps token symbol to its base-unit exponent, e.g. USDT -> 6.
	Decimals map[string]int `mapstructure:"decimals"`
}

type FeeConfig struct {
	DepositBps    int64             `mapstructure:"deposit_bps"`
	WithdrawBps   int64             `mapstructure:"withdraw_bps"`
	WithdrawFixed map[string]string `mapstructure:"withdraw_fixed"` // token -> base units
}

type DepositConfig struct {
	Expiry time.Duration `mapstructure:"expiry"`
}

// ChainConfig describes one supported chain and its scanner settings.
type ChainConfig struct {
	RPCURL         string            `mapstructure:"rpc_url"`
	APIKey         string            `mapstructure:"api_key"`
	ChainID        int64             `mapstructure:"chain_id"`
	RequiredConfs  int64             `mapstructure:"required_confs"`
	SafetyLag      int64             `mapstructure:"safety_lag"`
	ReorgTolerance int32             `mapstructure:"reorg_tolerance"`
	ScanInterval   time.Duration     `mapstructure:"scan_interval"`
	FeeLimit       int64             `mapstructure:"fee_limit"` // tron only
	Tokens         map[string]string `mapstructure:"tokens"`    // symbol -> contract address
}

type SweepConfig struct {
	Thresholds map[string]string `mapstructure:"thresholds"` // token -> base units
	CollectTo  map[string]string `mapstructure:"collect_to"` // chain -> address, hot wallet if empty
	BatchSize  int               `mapstructure:"batch_size"`
	MaxRetries int32             `mapstructure:"max_retries"`
	Interval   time.Duration     `mapstructure:"interval"`
}

type WebhookConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: CSG_ (Crypto Settlement
// Gateway). Nested keys use underscore: CSG_DATABASE_HOST, CSG_JWT_SECRET, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "settlement_gateway")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "crypto-settlement-gateway")
	v.SetDefault("keystore.passphrase", "")
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.password", "")
	v.SetDefault("admin.totp_secret", "")
	v.SetDefault("tokens.decimals", map[string]int{"USDT": 6})
	v.SetDefault("fees.deposit_bps", 0)
	v.SetDefault("fees.withdraw_bps", 0)
	v.SetDefault("deposit.expiry", "30m")
	v.SetDefault("sweep.batch_size", 20)
	v.SetDefault("sweep.max_retries", 3)
	v.SetDefault("sweep.interval", "10m")
	v.SetDefault("webhook.interval", "30s")
	v.SetDefault("webhook.timeout", "10s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: CSG_DATABASE_HOST -> database.host
	v.SetEnvPrefix("CSG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
