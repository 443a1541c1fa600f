package config

import (
	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Database *dbConfig
	Service  *svcConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"capacity"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	Address               string `envconfig:"CAPACITY_PLANNER_ADDRESS" default:":3443"`
	MetricsAddress        string `envconfig:"CAPACITY_PLANNER_METRICS_ADDRESS" default:":8080"`
	LogLevel              string `envconfig:"CAPACITY_PLANNER_LOG_LEVEL" default:"info"`
	MigrationFolder       string `envconfig:"CAPACITY_PLANNER_MIGRATIONS_FOLDER" default:""`
	UplinksPerLeafDefault int    `envconfig:"CAPACITY_PLANNER_UPLINKS_PER_LEAF_DEFAULT" default:"2"`
	UplinkSpeedDefault    string `envconfig:"CAPACITY_PLANNER_UPLINK_SPEED_DEFAULT" default:"100G"`
	CacheSweepSchedule    string `envconfig:"CAPACITY_PLANNER_CACHE_SWEEP_SCHEDULE" default:"@hourly"`
}

// NewDefault returns a configuration suitable for local development and
// tests: an in-memory sqlite database and the stock service settings.
func NewDefault() *Config {
	return &Config{
		Database: &dbConfig{
			Type: "sqlite",
			// shared cache so every pooled connection sees the same database
			Name: "file::memory:?cache=shared",
		},
		Service: &svcConfig{
			Address:               ":3443",
			MetricsAddress:        ":8080",
			LogLevel:              "info",
			UplinksPerLeafDefault: 2,
			UplinkSpeedDefault:    "100G",
			CacheSweepSchedule:    "@hourly",
		},
	}
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
