package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config はアプリケーション全体の設定を表現します。yaml ファイルを読み込んだ後、
// 環境変数による上書きを適用します。
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Ledger   LedgerConfig   `yaml:"ledger"`
}

// ServerConfig は gRPC サーバーに関する設定です。
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr" env:"LEDGER_LISTEN_ADDR"`
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。
type DatabaseConfig struct {
	Host               string        `yaml:"host" env:"LEDGER_DB_HOST"`
	Port               int           `yaml:"port" env:"LEDGER_DB_PORT"`
	User               string        `yaml:"user" env:"LEDGER_DB_USER"`
	Password           string        `yaml:"password" env:"LEDGER_DB_PASSWORD"`
	Name               string        `yaml:"name" env:"LEDGER_DB_NAME"`
	SSLMode            string        `yaml:"ssl_mode" env:"LEDGER_DB_SSL_MODE"`
	MaxOpenConns       int           `yaml:"max_open_conns" env:"LEDGER_DB_MAX_OPEN_CONNS"`
	MaxIdleConns       int           `yaml:"max_idle_conns" env:"LEDGER_DB_MAX_IDLE_CONNS"`
	ConnMaxLifetime    time.Duration `yaml:"-" env:"-"`
	ConnMaxIdleTime    time.Duration `yaml:"-" env:"-"`
	ConnMaxLifetimeRaw string        `yaml:"conn_max_lifetime" env:"LEDGER_DB_CONN_MAX_LIFETIME"`
	ConnMaxIdleTimeRaw string        `yaml:"conn_max_idle_time" env:"LEDGER_DB_CONN_MAX_IDLE_TIME"`
}

// LedgerConfig は容量台帳の動作に関する設定です。
type LedgerConfig struct {
	LockWait    time.Duration `yaml:"-" env:"-"`
	LockWaitRaw string        `yaml:"lock_wait" env:"LEDGER_LOCK_WAIT"`
}

// Load は指定されたパスから設定ファイルを読み込み、環境変数を反映します。
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validateAndNormalize() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("config: server.listen_addr must be set")
	}

	if err := c.Database.validateAndNormalize(); err != nil {
		return err
	}

	lockWait, err := parseDurationAllowEmpty(c.Ledger.LockWaitRaw)
	if err != nil {
		return fmt.Errorf("config: ledger.lock_wait: %w", err)
	}
	c.Ledger.LockWait = lockWait

	return nil
}

func (d *DatabaseConfig) validateAndNormalize() error {
	if d.Host == "" {
		return fmt.Errorf("config: database.host must be set")
	}
	if d.Port == 0 {
		return fmt.Errorf("config: database.port must be set")
	}
	if d.User == "" {
		return fmt.Errorf("config: database.user must be set")
	}
	if d.Password == "" {
		return fmt.Errorf("config: database.password must be set")
	}
	if d.Name == "" {
		return fmt.Errorf("config: database.name must be set")
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}

	lifetime, err := parseDurationAllowEmpty(d.ConnMaxLifetimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_lifetime: %w", err)
	}
	d.ConnMaxLifetime = lifetime

	idleTime, err := parseDurationAllowEmpty(d.ConnMaxIdleTimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_idle_time: %w", err)
	}
	d.ConnMaxIdleTime = idleTime

	return nil
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	return time.ParseDuration(raw)
}

// DSN は pgx 用の接続文字列を返します。
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s", d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}
