// Package config loads runtime configuration for the invkeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file: the --config flag, or invkeeper.yaml / invkeeper.json
//     in the working directory or the user config directory.
//  3. Environment variables prefixed INVKEEPER_, with dots replaced by
//     underscores (INVKEEPER_DATABASE_DSN).
//  4. Command-line flags registered with RegisterFlags.
//
// # File schema
//
//	database:
//	  driver: sqlite          # sqlite | postgres | mysql
//	  dsn: invkeeper.db
//	projects_dir: /srv/inventarios
//	projects_subdir: proyectos
//	default_password: invkeeper
//	legacy_passwords: [secreto1]
//	rotation:
//	  throttle: 100ms
//	  accept_already_rotated: false
//	ingest:
//	  sheet: SystemInfo
//	log:
//	  format: text          # text | json | zap
//	  level: info
//
// MySQL DSNs need parseTime=true so timestamps scan into time.Time.
package config
