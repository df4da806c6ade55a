package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Checkout      CheckoutConfig
	Cart          CartConfig
	Gamification  GamificationConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"SHOPCIRCLE_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOPCIRCLE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SHOPCIRCLE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPCIRCLE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SHOPCIRCLE_DB_DSN"`
	Driver string `envconfig:"SHOPCIRCLE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SHOPCIRCLE_DB_HOST"`
	LegacyPort     int    `envconfig:"SHOPCIRCLE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHOPCIRCLE_DB_USER"`
	LegacyPassword string `envconfig:"SHOPCIRCLE_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHOPCIRCLE_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHOPCIRCLE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHOPCIRCLE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOPCIRCLE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOPCIRCLE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOPCIRCLE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOPCIRCLE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SHOPCIRCLE_REDIS_ADDR"`
	Password     string        `envconfig:"SHOPCIRCLE_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPCIRCLE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOPCIRCLE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPCIRCLE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPCIRCLE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPCIRCLE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPCIRCLE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SHOPCIRCLE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SHOPCIRCLE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"SHOPCIRCLE_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"SHOPCIRCLE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SHOPCIRCLE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SHOPCIRCLE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SHOPCIRCLE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SHOPCIRCLE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SHOPCIRCLE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SHOPCIRCLE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"SHOPCIRCLE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SHOPCIRCLE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"SHOPCIRCLE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SHOPCIRCLE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SHOPCIRCLE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type CheckoutConfig struct {
	IdempotencyTTL time.Duration `envconfig:"SHOPCIRCLE_CHECKOUT_IDEMPOTENCY_TTL" default:"168h"`
}

type CartConfig struct {
	// TTL applied to a cart's expires_at on every mutation.
	TTL         time.Duration `envconfig:"SHOPCIRCLE_CART_TTL" default:"168h"`
	SweepWindow time.Duration `envconfig:"SHOPCIRCLE_CART_SWEEP_WINDOW" default:"1h"`
	SweepBatch  int           `envconfig:"SHOPCIRCLE_CART_SWEEP_BATCH" default:"200"`
}

type GamificationConfig struct {
	LeaderboardSize     int           `envconfig:"SHOPCIRCLE_LEADERBOARD_SIZE" default:"25"`
	LeaderboardCacheTTL time.Duration `envconfig:"SHOPCIRCLE_LEADERBOARD_CACHE_TTL" default:"1m"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SHOPCIRCLE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SHOPCIRCLE_AUTO_MIGRATE" default:"false"`
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
