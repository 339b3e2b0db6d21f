package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const flagConfig = "config"

// flagKeys maps flag names onto configuration keys.
var flagKeys = map[string]string{
	"db-driver":       "database.driver",
	"db-dsn":          "database.dsn",
	"projects-dir":    "projects_dir",
	"legacy-password": "legacy_passwords",
	"throttle":        "rotation.throttle",
	"accept-rotated":  "rotation.accept_already_rotated",
	"sheet":           "ingest.sheet",
	"log-format":      "log.format",
	"log-level":       "log.level",
}

// RegisterFlags adds the configuration flags to fs. Defaults shown in help
// come from LoadDefaults; unset flags never override file or env values.
func RegisterFlags(fs *pflag.FlagSet) {
	var d Config
	d.LoadDefaults()

	fs.String(flagConfig, "", "config file (default ./invkeeper.yaml)")
	fs.String("db-driver", string(d.Database.Driver), "database driver: sqlite, postgres or mysql")
	fs.String("db-dsn", d.Database.DSN, "database DSN or SQLite file path")
	fs.String("projects-dir", d.ProjectsDir, "additional directory searched for inventory files")
	fs.StringSlice("legacy-password", nil, "extra password tried when importing (repeatable)")
	fs.Duration("throttle", d.Rotation.Throttle, "pause between files during rotation")
	fs.Bool("accept-rotated", d.Rotation.AcceptAlreadyRotated, "count files already under the new password as rotated")
	fs.String("sheet", d.Ingest.Sheet, "worksheet read on import")
	fs.String("log-format", d.Log.Format, "log format: text, json or zap")
	fs.String("log-level", d.Log.Level, "log level: debug, info, warn or error")
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}
