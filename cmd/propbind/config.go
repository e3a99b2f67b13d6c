package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Itshalffull/propbind"
)

// Config is the CLI configuration: propbind.toml, PROPBIND_* variables and
// flags, in increasing precedence.
type Config struct {
	Backend     string `mapstructure:"backend"`
	Path        string `mapstructure:"path"`
	Format      string `mapstructure:"format"`
	Tables      string `mapstructure:"tables"`
	Database    string `mapstructure:"database"`
	Concurrency int    `mapstructure:"concurrency"`
	ReadOnly    bool   `mapstructure:"read_only"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend", propbind.BackendFS)
	v.SetDefault("format", "json")
	v.SetDefault("database", "propbind.db")
	v.SetDefault("concurrency", 4)
	v.SetDefault("read_only", false)
}

// loadConfig resolves the configuration for cmd. An explicit --config must
// exist; otherwise propbind.toml is looked up from the store root.
func loadConfig(cmd *cobra.Command) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PROPBIND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	for _, name := range []string{"backend", "path", "format", "tables"} {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			f = cmd.InheritedFlags().Lookup(name)
		}
		if f == nil {
			f = cmd.PersistentFlags().Lookup(name)
		}
		if f != nil {
			if err := v.BindPFlag(name, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	path := configFile
	if path == "" {
		path = discoverConfig(v.GetString("path"))
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Path == "" {
		cfg.Path = defaultRoot()
	}
	// A relative tables path not found from the working directory is taken
	// relative to the store.
	if cfg.Tables != "" && !filepath.IsAbs(cfg.Tables) {
		if _, err := os.Stat(cfg.Tables); err != nil {
			cfg.Tables = filepath.Join(cfg.Path, cfg.Tables)
		}
	}
	return &cfg, nil
}

// discoverConfig returns the propbind.toml of the store root, or "".
func discoverConfig(path string) string {
	root := path
	if root == "" {
		root = defaultRoot()
	}
	candidate := filepath.Join(root, propbind.ConfigFile)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}

// defaultRoot is the discovered store root or the working directory.
func defaultRoot() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	if root, err := propbind.FindRoot(cwd); err == nil {
		return root
	}
	return cwd
}

// uri maps the configuration to the backend-specific store location.
func (c *Config) uri() string {
	if c.Backend == propbind.BackendSQLite {
		if filepath.IsAbs(c.Database) {
			return c.Database
		}
		return filepath.Join(c.Path, c.Database)
	}
	return c.Path
}

// openService builds the service from the resolved configuration. extra
// options are applied last.
func openService(cmd *cobra.Command, extra ...propbind.Option) (*propbind.Service, *Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	opts := []propbind.Option{
		propbind.WithBackend(cfg.Backend),
		propbind.WithFormat(cfg.Format),
		propbind.WithConcurrency(cfg.Concurrency),
		propbind.WithReadOnly(cfg.ReadOnly),
		propbind.WithLogger(slog.Default()),
	}
	if cfg.Tables != "" {
		opts = append(opts, propbind.WithTablesFile(cfg.Tables))
	}
	opts = append(opts, extra...)

	slog.Debug("opening store", "backend", cfg.Backend, "uri", cfg.uri())
	svc, err := propbind.New(cfg.uri(), opts...)
	if err != nil {
		return nil, nil, err
	}
	return svc, cfg, nil
}
