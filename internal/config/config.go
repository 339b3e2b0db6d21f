package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/invkeeper/internal/common"
	"github.com/dmitrijs2005/invkeeper/internal/dbx"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "INVKEEPER"

// Config holds runtime settings for the invkeeper CLI.
type Config struct {
	Database DatabaseConfig

	// ProjectsDir is the user-configured search root, searched last.
	ProjectsDir string
	// ProjectsSubdir is looked up under the working and executable
	// directories, unless it is absolute.
	ProjectsSubdir string

	// DefaultPassword is the system password until one is set explicitly.
	DefaultPassword string
	// LegacyPasswords are extra import candidates, never applied to new files.
	LegacyPasswords []string

	Rotation RotationConfig
	Ingest   IngestConfig
	Log      LogConfig
}

type DatabaseConfig struct {
	Driver dbx.Dialect
	DSN    string
}

type RotationConfig struct {
	Throttle             time.Duration
	AcceptAlreadyRotated bool
}

type IngestConfig struct {
	Sheet string
}

type LogConfig struct {
	Format string
	Level  string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Database = DatabaseConfig{Driver: dbx.SQLite, DSN: "invkeeper.db"}
	c.ProjectsDir = ""
	c.ProjectsSubdir = common.ProjectsSubdir
	c.DefaultPassword = "invkeeper"
	c.LegacyPasswords = nil
	c.Rotation = RotationConfig{}
	c.Ingest = IngestConfig{Sheet: common.InventorySheet}
	c.Log = LogConfig{Format: "text", Level: "info"}
}

func setDefaults(v *viper.Viper) {
	var d Config
	d.LoadDefaults()

	v.SetDefault("database.driver", string(d.Database.Driver))
	v.SetDefault("database.dsn", d.Database.DSN)
	v.SetDefault("projects_dir", d.ProjectsDir)
	v.SetDefault("projects_subdir", d.ProjectsSubdir)
	v.SetDefault("default_password", d.DefaultPassword)
	v.SetDefault("legacy_passwords", []string{})
	v.SetDefault("rotation.throttle", d.Rotation.Throttle)
	v.SetDefault("rotation.accept_already_rotated", d.Rotation.AcceptAlreadyRotated)
	v.SetDefault("ingest.sheet", d.Ingest.Sheet)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.level", d.Log.Level)
}

// LoadConfig builds a Config from defaults, the config file, the environment
// and fs, later sources overriding earlier ones. fs may be nil.
func LoadConfig(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	file := ""
	if fs != nil {
		if f := fs.Lookup(flagConfig); f != nil {
			file = f.Value.String()
		}
	}
	if err := readConfigFile(v, file); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := bindFlags(v, fs); err != nil {
			return nil, err
		}
	}

	return fromViper(v)
}

func readConfigFile(v *viper.Viper, file string) error {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", file, err)
		}
		return nil
	}

	v.SetConfigName("invkeeper")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "invkeeper"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

func fromViper(v *viper.Viper) (*Config, error) {
	dialect, err := dbx.ParseDialect(v.GetString("database.driver"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Driver: dialect,
			DSN:    v.GetString("database.dsn"),
		},
		ProjectsDir:     v.GetString("projects_dir"),
		ProjectsSubdir:  v.GetString("projects_subdir"),
		DefaultPassword: v.GetString("default_password"),
		LegacyPasswords: v.GetStringSlice("legacy_passwords"),
		Rotation: RotationConfig{
			Throttle:             v.GetDuration("rotation.throttle"),
			AcceptAlreadyRotated: v.GetBool("rotation.accept_already_rotated"),
		},
		Ingest: IngestConfig{Sheet: v.GetString("ingest.sheet")},
		Log: LogConfig{
			Format: v.GetString("log.format"),
			Level:  v.GetString("log.level"),
		},
	}

	if cfg.Database.DSN == "" {
		return nil, errors.New("database.dsn is empty")
	}
	if cfg.DefaultPassword == "" {
		return nil, errors.New("default_password is empty")
	}
	if cfg.Rotation.Throttle < 0 {
		return nil, fmt.Errorf("rotation.throttle %s is negative", cfg.Rotation.Throttle)
	}
	return cfg, nil
}
