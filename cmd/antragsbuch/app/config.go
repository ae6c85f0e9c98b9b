package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/piratetools42/antragsbuch/pkg/errors"
)

// EnvPrefix is prepended to every environment variable the CLI reads,
// e.g. ANTRAGSBUCH_DB_DSN for db.dsn.
const EnvPrefix = "ANTRAGSBUCH"

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Conference profile (YAML); empty selects the built-in default
	ProfilePath string

	// Record store
	DBDriver string
	DBDSN    string

	// Logging configuration. LogLevel is only set when explicitly
	// requested; EnvLogLevel carries LOG_LEVEL, which ranks below -v/-q.
	LogLevel    string
	EnvLogLevel string
	LogFormat   string
	LogOutput   string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (handled by cobra)
//  2. Environment variables (ANTRAGSBUCH_*)
//  3. .env files
//  4. Config file (--config or ~/.antragsbuch.yaml)
//  5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("db.driver", DriverSQLite)
	v.SetDefault("log.format", "auto")
	v.SetDefault("log.output", "stderr")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "cannot read "+configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".antragsbuch")
		// A missing default config file is not an error
		_ = v.ReadInConfig()
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no-color") || os.Getenv("NO_COLOR") != "",
		Format:  v.GetString("format"),

		ConfigFile:  v.ConfigFileUsed(),
		ProfilePath: v.GetString("profile"),

		DBDriver: v.GetString("db.driver"),
		DBDSN:    v.GetString("db.dsn"),

		LogLevel:    v.GetString("log.level"),
		EnvLogLevel: os.Getenv("LOG_LEVEL"),
		LogFormat:   getEnvOrDefault("LOG_FORMAT", v.GetString("log.format")),
		LogOutput:   getEnvOrDefault("LOG_OUTPUT", v.GetString("log.output")),
	}

	return config, nil
}

// UpdateFromFlags copies explicitly set flag values over the loaded config.
// Only non-zero values override so that file and env settings survive.
func (c *Config) UpdateFromFlags(flags Config) {
	c.Verbose = c.Verbose || flags.Verbose
	c.Quiet = c.Quiet || flags.Quiet
	c.NoColor = c.NoColor || flags.NoColor
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.ProfilePath != "" {
		c.ProfilePath = flags.ProfilePath
	}
	if flags.DBDriver != "" {
		c.DBDriver = flags.DBDriver
	}
	if flags.DBDSN != "" {
		c.DBDSN = flags.DBDSN
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is loaded first so its values win; godotenv never overrides.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
