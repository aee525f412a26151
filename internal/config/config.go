package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Database *DbConfig
	Service  *svcConfig
}

type DbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"firesafe"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`

	// The estimator issues short queries, a small pool is enough.
	MaxOpenConns int           `envconfig:"DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	SlowQuery    time.Duration `envconfig:"DB_SLOW_QUERY" default:"500ms"`
}

type svcConfig struct {
	Address            string   `envconfig:"FIRESAFE_ADDRESS" default:":3000"`
	MetricsAddress     string   `envconfig:"FIRESAFE_METRICS_ADDRESS" default:":8080"`
	LogLevel           string   `envconfig:"FIRESAFE_LOG_LEVEL" default:"info"`
	LogFormat          string   `envconfig:"FIRESAFE_LOG_FORMAT" default:"console"`
	CorsAllowedOrigins []string `envconfig:"FIRESAFE_CORS_ALLOWED_ORIGINS" default:"*"`
	MigrationFolder    string   `envconfig:"FIRESAFE_MIGRATIONS_FOLDER" default:""`
	// DefaultPackage is used when a request does not name a package.
	DefaultPackage string `envconfig:"FIRESAFE_DEFAULT_PACKAGE" default:"smart"`
	// ProjectListLimit caps the number of projects returned by one list call.
	ProjectListLimit int `envconfig:"FIRESAFE_PROJECT_LIST_LIMIT" default:"100"`
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}

// NewDefault returns a fresh configuration backed by an in-memory sqlite
// database. Environment variables still override the service settings.
func NewDefault() (*Config, error) {
	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	cfg.Database.Type = "sqlite"
	cfg.Database.Name = "file::memory:?cache=shared"
	return cfg, nil
}
