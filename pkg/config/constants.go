package config

const (
	// EnvPrefix is passed to envconfig; individual fields carry the full
	// variable names so the prefix stays empty.
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv   = "OAKMART_APP_ENV"
	EnvPort     = "OAKMART_APP_PORT"
	EnvDBDSN    = "OAKMART_DB_DSN"
	EnvDBHost   = "OAKMART_DB_HOST"
	EnvDBUser   = "OAKMART_DB_USER"
	EnvDBName   = "OAKMART_DB_NAME"
	EnvRedisURL = "OAKMART_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
