package config

// EnvPrefix namespaces every environment variable the server reads.
const EnvPrefix = "SCHOOLBOOK"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv    = "SCHOOLBOOK_APP_ENV"
	EnvPort      = "SCHOOLBOOK_APP_PORT"
	EnvDBDSN     = "SCHOOLBOOK_DB_DSN"
	EnvDBHost    = "SCHOOLBOOK_DB_HOST"
	EnvDBUser    = "SCHOOLBOOK_DB_USER"
	EnvDBName    = "SCHOOLBOOK_DB_NAME"
	EnvRedisURL  = "SCHOOLBOOK_REDIS_URL"
	EnvJWTSecret = "SCHOOLBOOK_JWT_SECRET"
	EnvMailHost  = "SCHOOLBOOK_MAIL_HOST"
	EnvMailFrom  = "SCHOOLBOOK_MAIL_FROM"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
