package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/photomap/pkg/constants"
	"github.com/agentstation/photomap/pkg/errors"
)

// envPrefix namespaces every environment variable, e.g. PHOTOMAP_SERVER_URL.
const envPrefix = "photomap"

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

	// Photo service
	ServerURL       string
	Email           string
	Password        string
	HashtagsEnabled bool
	ThumbSize       string
	HTTPTimeout     time.Duration
	RefreshInterval time.Duration

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (applied later by UpdateFromFlags)
// 2. Environment variables (PHOTOMAP_*)
// 3. .env files
// 4. Config file (configFile, or ~/.photomap.yaml)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)

	if configFile == "" {
		configFile = os.Getenv("PHOTOMAP_CONFIG")
	}
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
		v.SetConfigName(".photomap")
		// a missing default file is fine
		_ = v.ReadInConfig()
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color") || os.Getenv("NO_COLOR") != "",
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		ServerURL:       v.GetString("server_url"),
		Email:           v.GetString("email"),
		Password:        v.GetString("password"),
		HashtagsEnabled: v.GetBool("hashtags_enabled"),
		ThumbSize:       v.GetString("thumb_size"),
		HTTPTimeout:     v.GetDuration("http_timeout"),
		RefreshInterval: v.GetDuration("refresh_interval"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),
	}

	if config.HTTPTimeout <= 0 {
		config.HTTPTimeout = constants.DefaultHTTPTimeout
	}
	if config.RefreshInterval <= 0 {
		config.RefreshInterval = constants.DefaultRefreshInterval
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_url", "http://localhost:8080")
	v.SetDefault("hashtags_enabled", true)
	v.SetDefault("thumb_size", "small")
	v.SetDefault("http_timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("refresh_interval", constants.DefaultRefreshInterval)
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		// godotenv.Load never overrides variables that are already set,
		// so the more specific file goes first.
		_ = godotenv.Load(envFile)
	}
}
