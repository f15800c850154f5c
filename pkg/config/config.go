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
	Guest         GuestConfig
	CORS          CORSConfig
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
	Env          string `envconfig:"LACEWALK_APP_ENV" required:"true"`
	Port         string `envconfig:"LACEWALK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LACEWALK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LACEWALK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"LACEWALK_DB_DSN"`
	Driver string `envconfig:"LACEWALK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"LACEWALK_DB_HOST"`
	LegacyPort     int    `envconfig:"LACEWALK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LACEWALK_DB_USER"`
	LegacyPassword string `envconfig:"LACEWALK_DB_PASSWORD"`
	LegacyName     string `envconfig:"LACEWALK_DB_NAME"`
	LegacySSLMode  string `envconfig:"LACEWALK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LACEWALK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LACEWALK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LACEWALK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LACEWALK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LACEWALK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"LACEWALK_REDIS_ADDR"`
	Password     string        `envconfig:"LACEWALK_REDIS_PASSWORD"`
	DB           int           `envconfig:"LACEWALK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LACEWALK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LACEWALK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LACEWALK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LACEWALK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LACEWALK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"LACEWALK_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"LACEWALK_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"LACEWALK_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"LACEWALK_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"LACEWALK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"LACEWALK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"LACEWALK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"LACEWALK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"LACEWALK_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"LACEWALK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"LACEWALK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"LACEWALK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"LACEWALK_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"LACEWALK_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"LACEWALK_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// GuestConfig shapes how the anonymous session id travels to and from clients.
type GuestConfig struct {
	CookieName   string        `envconfig:"LACEWALK_GUEST_COOKIE_NAME" default:"lw_guest_session"`
	HeaderName   string        `envconfig:"LACEWALK_GUEST_HEADER_NAME" default:"X-Guest-Session"`
	CookieMaxAge time.Duration `envconfig:"LACEWALK_GUEST_COOKIE_MAX_AGE" default:"720h"`
	CookieSecure bool          `envconfig:"LACEWALK_GUEST_COOKIE_SECURE" default:"true"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"LACEWALK_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"LACEWALK_AUTO_MIGRATE" default:"false"`
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
