package main

import (
	"github.com/spf13/pflag"

	"github.com/netfabric/capacity-planner/internal/config"
)

// runOptions overrides selected environment settings from the command line.
type runOptions struct {
	Address        string
	MetricsAddress string
	LogLevel       string
}

func defaultRunOptions() *runOptions {
	return &runOptions{}
}

func (o *runOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.Address, "address", o.Address, "Listen address for the API server")
	fs.StringVar(&o.MetricsAddress, "metrics-address", o.MetricsAddress, "Listen address for the metrics server")
	fs.StringVar(&o.LogLevel, "log-level", o.LogLevel, "Log level (debug, info, warn, error)")
}

func (o *runOptions) Apply(cfg *config.Config) {
	if o.Address != "" {
		cfg.Service.Address = o.Address
	}
	if o.MetricsAddress != "" {
		cfg.Service.MetricsAddress = o.MetricsAddress
	}
	if o.LogLevel != "" {
		cfg.Service.LogLevel = o.LogLevel
	}
}

type migrateOptions struct {
	MigrationFolder string
}

func defaultMigrateOptions() *migrateOptions {
	return &migrateOptions{}
}

func (o *migrateOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.MigrationFolder, "migration-folder", o.MigrationFolder, "Folder with goose migration scripts")
}

func (o *migrateOptions) Apply(cfg *config.Config) {
	if o.MigrationFolder != "" {
		cfg.Service.MigrationFolder = o.MigrationFolder
	}
}
