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
	Mail          MailConfig
	AuthRateLimit AuthRateLimitConfig
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
	Env          string `envconfig:"SCHOOLBOOK_APP_ENV" required:"true"`
	Port         string `envconfig:"SCHOOLBOOK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SCHOOLBOOK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SCHOOLBOOK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SCHOOLBOOK_DB_DSN"`
	Driver string `envconfig:"SCHOOLBOOK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SCHOOLBOOK_DB_HOST"`
	LegacyPort     int    `envconfig:"SCHOOLBOOK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SCHOOLBOOK_DB_USER"`
	LegacyPassword string `envconfig:"SCHOOLBOOK_DB_PASSWORD"`
	LegacyName     string `envconfig:"SCHOOLBOOK_DB_NAME"`
	LegacySSLMode  string `envconfig:"SCHOOLBOOK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SCHOOLBOOK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SCHOOLBOOK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SCHOOLBOOK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SCHOOLBOOK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SCHOOLBOOK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SCHOOLBOOK_REDIS_ADDR"`
	Password     string        `envconfig:"SCHOOLBOOK_REDIS_PASSWORD"`
	DB           int           `envconfig:"SCHOOLBOOK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SCHOOLBOOK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SCHOOLBOOK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SCHOOLBOOK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SCHOOLBOOK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SCHOOLBOOK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig holds the symmetric signing secret for identity tokens. Tokens
// carry no expiry claim; lifetime is unbounded unless the caller layer tracks
// it externally.
type JWTConfig struct {
	Secret string `envconfig:"SCHOOLBOOK_JWT_SECRET" required:"true"`
}

type MailConfig struct {
	Host     string `envconfig:"SCHOOLBOOK_MAIL_HOST" default:"smtp.gmail.com"`
	Port     int    `envconfig:"SCHOOLBOOK_MAIL_PORT" default:"587"`
	Username string `envconfig:"SCHOOLBOOK_MAIL_USERNAME"`
	Password string `envconfig:"SCHOOLBOOK_MAIL_PASSWORD"`
	From     string `envconfig:"SCHOOLBOOK_MAIL_FROM" required:"true"`
	FromName string `envconfig:"SCHOOLBOOK_MAIL_FROM_NAME" default:"School Book"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"SCHOOLBOOK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"SCHOOLBOOK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"SCHOOLBOOK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	ResendCooldown  time.Duration `envconfig:"SCHOOLBOOK_AUTH_RATE_LIMIT_RESEND_COOLDOWN" default:"1m"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SCHOOLBOOK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SCHOOLBOOK_AUTO_MIGRATE" default:"false"`
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
