// Package config provides configuration management for masolint.
//
// Configuration is read from a YAML file, layered on top of built-in
// defaults, and then overridden by environment variables.
//
// # Configuration Loading
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("masolint.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("masolint.yaml")
//
//  3. Tolerating a missing file, as the CLI does:
//     cfg, err := config.LoadOrDefault("masolint.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention MASOLINT_SECTION_FIELD:
//
//   - MASOLINT_VALIDATION_LOCATOR overrides validation.locator
//   - MASOLINT_HISTORY_ENABLED overrides history.enabled
//   - MASOLINT_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Validation
//
// All configuration is validated during loading and every problem is
// reported at once:
//
//	configuration validation failed with 2 errors:
//	  - validation.locator: invalid locator "ast": must be 'text' or 'structural'
//	  - validation.severity.dup: unknown diagnostic kind "dup"
//
// # Example Configuration
//
//	files:
//	  extensions: [".maso"]
//
//	validation:
//	  locator: "structural"
//	  severity:
//	    duplicate_id: "warning"
//
//	history:
//	  enabled: true
//	  driver: "sqlite"
//	  path: "data/history.db"
//	  retention_days: 14
//
//	telemetry:
//	  logging:
//	    level: "debug"
//	    format: "json"
package config
