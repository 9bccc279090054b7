package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "GOLDPOS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Password PasswordConfig
	Branch   BranchConfig
	GCP      GCPConfig
	PubSub   PubSubConfig
	Outbox   OutboxConfig
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
	Env          string `envconfig:"GOLDPOS_APP_ENV" required:"true"`
	Port         string `envconfig:"GOLDPOS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GOLDPOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GOLDPOS_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"GOLDPOS_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"GOLDPOS_DB_DSN"`

	Host     string `envconfig:"GOLDPOS_DB_HOST"`
	Port     int    `envconfig:"GOLDPOS_DB_PORT" default:"5432"`
	User     string `envconfig:"GOLDPOS_DB_USER"`
	Password string `envconfig:"GOLDPOS_DB_PASSWORD"`
	Name     string `envconfig:"GOLDPOS_DB_NAME"`
	SSLMode  string `envconfig:"GOLDPOS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GOLDPOS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GOLDPOS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GOLDPOS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GOLDPOS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GOLDPOS_REDIS_URL"`
	Address      string        `envconfig:"GOLDPOS_REDIS_ADDR"`
	Password     string        `envconfig:"GOLDPOS_REDIS_PASSWORD"`
	DB           int           `envconfig:"GOLDPOS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GOLDPOS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GOLDPOS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GOLDPOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GOLDPOS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GOLDPOS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"GOLDPOS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"GOLDPOS_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"GOLDPOS_JWT_EXPIRATION_MINUTES" default:"720"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"GOLDPOS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"GOLDPOS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"GOLDPOS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"GOLDPOS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"GOLDPOS_ARGON_KEY_LEN" default:"32"`
}

// BranchConfig identifies the branch this deployment serves. A store with a
// single shop runs one API per branch.
type BranchConfig struct {
	ID   string `envconfig:"GOLDPOS_BRANCH_ID"`
	Name string `envconfig:"GOLDPOS_BRANCH_NAME"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"GOLDPOS_GCP_PROJECT_ID"`
	ApplicationCredentials string `envconfig:"GOLDPOS_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	SyncTopic        string `envconfig:"GOLDPOS_PUBSUB_SYNC_TOPIC" default:"goldpos-sync-events"`
	SyncSubscription string `envconfig:"GOLDPOS_PUBSUB_SYNC_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"GOLDPOS_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"GOLDPOS_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"GOLDPOS_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	for _, pair := range []struct {
		env string
		val string
	}{
		{"GOLDPOS_DB_HOST", db.Host},
		{"GOLDPOS_DB_USER", db.User},
		{"GOLDPOS_DB_NAME", db.Name},
	} {
		if pair.val == "" {
			missing = append(missing, pair.env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either GOLDPOS_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
