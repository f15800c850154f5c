package config

// EnvPrefix is passed to envconfig; individual fields carry fully-qualified
// names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names shared between Load and tests.
const (
	EnvAppEnv   = "LACEWALK_APP_ENV"
	EnvPort     = "LACEWALK_APP_PORT"
	EnvDBDSN    = "LACEWALK_DB_DSN"
	EnvDBHost   = "LACEWALK_DB_HOST"
	EnvDBUser   = "LACEWALK_DB_USER"
	EnvDBName   = "LACEWALK_DB_NAME"
	EnvRedisURL = "LACEWALK_REDIS_URL"

	EnvJWTSecret              = "LACEWALK_JWT_SECRET"
	EnvJWTIssuer              = "LACEWALK_JWT_ISSUER"
	EnvJWTExpMins             = "LACEWALK_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "LACEWALK_REFRESH_TOKEN_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
