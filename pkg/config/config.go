package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/oakmart-labs/oakmart-backend/pkg/enums"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Pricing      PricingConfig
	FeatureFlags FeatureFlagsConfig
	Idempotency  IdempotencyConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if _, err := cfg.Pricing.Basis(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"OAKMART_APP_ENV" required:"true"`
	Port         string `envconfig:"OAKMART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"OAKMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"OAKMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"OAKMART_DB_DSN"`
	Driver string `envconfig:"OAKMART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"OAKMART_DB_HOST"`
	LegacyPort     int    `envconfig:"OAKMART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"OAKMART_DB_USER"`
	LegacyPassword string `envconfig:"OAKMART_DB_PASSWORD"`
	LegacyName     string `envconfig:"OAKMART_DB_NAME"`
	LegacySSLMode  string `envconfig:"OAKMART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"OAKMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"OAKMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"OAKMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"OAKMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"OAKMART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"OAKMART_REDIS_ADDR"`
	Password     string        `envconfig:"OAKMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"OAKMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"OAKMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"OAKMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"OAKMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"OAKMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"OAKMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// PricingConfig tunes the order pricing pipeline.
type PricingConfig struct {
	// FreeShippingBasisRaw controls whether the free-shipping threshold is
	// compared against the pre- or post-discount subtotal. The storefront
	// historically used the post-discount subtotal.
	FreeShippingBasisRaw string `envconfig:"OAKMART_PRICING_FREE_SHIPPING_BASIS" default:"post_discount"`
}

// Basis parses the configured free-shipping basis.
func (p PricingConfig) Basis() (enums.FreeShippingBasis, error) {
	basis, err := enums.ParseFreeShippingBasis(strings.TrimSpace(strings.ToLower(p.FreeShippingBasisRaw)))
	if err != nil {
		return "", fmt.Errorf("parsing pricing config: %w", err)
	}
	return basis, nil
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"OAKMART_AUTO_MIGRATE" default:"false"`
}

type IdempotencyConfig struct {
	UsageRecordTTL time.Duration `envconfig:"OAKMART_IDEMPOTENCY_USAGE_TTL" default:"168h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
