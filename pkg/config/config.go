package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const EnvPrefix = "SLICEHAVEN"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Nonce        NonceConfig
	Checkout     CheckoutConfig
	Assets       AssetsConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SLICEHAVEN_APP_ENV" required:"true"`
	Port         string `envconfig:"SLICEHAVEN_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SLICEHAVEN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SLICEHAVEN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SLICEHAVEN_DB_DSN"`
	Driver string `envconfig:"SLICEHAVEN_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SLICEHAVEN_DB_HOST"`
	LegacyPort     int    `envconfig:"SLICEHAVEN_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SLICEHAVEN_DB_USER"`
	LegacyPassword string `envconfig:"SLICEHAVEN_DB_PASSWORD"`
	LegacyName     string `envconfig:"SLICEHAVEN_DB_NAME"`
	LegacySSLMode  string `envconfig:"SLICEHAVEN_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SLICEHAVEN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SLICEHAVEN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SLICEHAVEN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SLICEHAVEN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SLICEHAVEN_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SLICEHAVEN_REDIS_ADDR"`
	Password     string        `envconfig:"SLICEHAVEN_REDIS_PASSWORD"`
	DB           int           `envconfig:"SLICEHAVEN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SLICEHAVEN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SLICEHAVEN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SLICEHAVEN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SLICEHAVEN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SLICEHAVEN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// NonceConfig drives the anti-forgery token handed to the menu client.
type NonceConfig struct {
	Secret     string `envconfig:"SLICEHAVEN_NONCE_SECRET" required:"true"`
	Issuer     string `envconfig:"SLICEHAVEN_NONCE_ISSUER" default:"slicehaven-storefront"`
	TTLMinutes int    `envconfig:"SLICEHAVEN_NONCE_TTL_MINUTES" default:"720"`
}

// TTL returns the nonce lifetime.
func (n NonceConfig) TTL() time.Duration {
	if n.TTLMinutes <= 0 {
		return 0
	}
	return time.Duration(n.TTLMinutes) * time.Minute
}

// CheckoutConfig carries the conditional delivery fee rule and session TTL.
type CheckoutConfig struct {
	MinimumSubtotal       decimal.Decimal `envconfig:"SLICEHAVEN_CHECKOUT_MINIMUM_SUBTOTAL" default:"30.00"`
	DeliveryFee           decimal.Decimal `envconfig:"SLICEHAVEN_CHECKOUT_DELIVERY_FEE" default:"1.99"`
	DeliveryFeeLabel      string          `envconfig:"SLICEHAVEN_CHECKOUT_DELIVERY_FEE_LABEL" default:"Delivery Fee"`
	QualifyingInstanceID  int             `envconfig:"SLICEHAVEN_CHECKOUT_DELIVERY_INSTANCE_ID" default:"2"`
	CheckoutURL           string          `envconfig:"SLICEHAVEN_CHECKOUT_URL" default:"/checkout"`
	SessionTTLMinutes     int             `envconfig:"SLICEHAVEN_CHECKOUT_SESSION_TTL_MINUTES" default:"1440"`
	MaxLinesPerSubmission int             `envconfig:"SLICEHAVEN_CHECKOUT_MAX_LINES" default:"100"`
}

// SessionTTL returns the lifetime of session-scoped checkout state.
func (c CheckoutConfig) SessionTTL() time.Duration {
	if c.SessionTTLMinutes <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// AssetsConfig locates the built menu bundle served to the storefront page.
type AssetsConfig struct {
	ManifestPath  string `envconfig:"SLICEHAVEN_ASSETS_MANIFEST_PATH" default:"react-app/.vite/manifest.json"`
	PublicBaseURL string `envconfig:"SLICEHAVEN_ASSETS_PUBLIC_BASE_URL" default:"/static/react-app/"`
	AccountURL    string `envconfig:"SLICEHAVEN_ACCOUNT_URL" default:"/my-account"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SLICEHAVEN_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SLICEHAVEN_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		"SLICEHAVEN_DB_HOST": db.LegacyHost,
		"SLICEHAVEN_DB_USER": db.LegacyUser,
		"SLICEHAVEN_DB_NAME": db.LegacyName,
	}
	for _, env := range []string{"SLICEHAVEN_DB_HOST", "SLICEHAVEN_DB_USER", "SLICEHAVEN_DB_NAME"} {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either SLICEHAVEN_DB_DSN or %s are required", strings.Join(missing, ", "))
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
