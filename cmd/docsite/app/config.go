package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/agentstation/docsite/pkg/constants"
	"github.com/agentstation/docsite/pkg/errors"
)

// Config holds the application configuration loaded from config files,
// environment variables and .env files. Command-line flags are bound on
// top of it by the root command.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Root is the site root directory.
	Root string

	// Dev server
	HTTPHost string
	HTTPPort int
	APIKey   string

	// Logging configuration. LogLevel is the explicit --log-level flag;
	// EnvLogLevel comes from LOG_LEVEL and ranks below -v and -q.
	LogLevel    string
	EnvLogLevel string
	LogFormat   string
	LogOutput   string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (handled by cobra)
//  2. Environment variables
//  3. .env files
//  4. Config file (~/.docsite.yaml or ./.docsite.yaml)
//  5. Defaults
//
// configFile names an explicit config file; when empty DOCSITE_CONFIG is
// consulted before the standard locations are searched.
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	v.SetDefault("root", constants.DefaultSiteRoot)
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")

	for key, env := range map[string]string{
		"root":      "DOCSITE_ROOT",
		"format":    "DOCSITE_FORMAT",
		"api_key":   "DOCSITE_API_KEY",
		"http_host": "HTTP_HOST",
		"http_port": "HTTP_PORT",
		"no_color":  "NO_COLOR",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	if configFile == "" {
		configFile = os.Getenv("DOCSITE_CONFIG")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("app", "reading "+configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".docsite")

		// A missing config file is not an error
		_ = v.ReadInConfig()
	}

	return &Config{
		Verbose:     v.GetBool("verbose"),
		Quiet:       v.GetBool("quiet"),
		NoColor:     v.GetBool("no_color"),
		Format:      v.GetString("format"),
		ConfigFile:  v.ConfigFileUsed(),
		Root:        v.GetString("root"),
		HTTPHost:    v.GetString("http_host"),
		HTTPPort:    v.GetInt("http_port"),
		APIKey:      v.GetString("api_key"),
		EnvLogLevel: v.GetString("log_level"),
		LogFormat:   v.GetString("log_format"),
		LogOutput:   v.GetString("log_output"),
	}, nil
}

// UpdateFromFlags overrides config values with the global flags the user
// set explicitly, so flags take precedence over config files and env vars.
func (c *Config) UpdateFromFlags(flags *pflag.FlagSet) {
	if flags.Changed("verbose") {
		c.Verbose, _ = flags.GetBool("verbose")
	}
	if flags.Changed("quiet") {
		c.Quiet, _ = flags.GetBool("quiet")
	}
	if flags.Changed("no-color") {
		c.NoColor, _ = flags.GetBool("no-color")
	}
	if flags.Changed("format") {
		c.Format, _ = flags.GetString("format")
	}
	if flags.Changed("log-level") {
		c.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("root") {
		c.Root, _ = flags.GetString("root")
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is loaded first so its values win; godotenv never
// overrides a variable that is already set.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}
