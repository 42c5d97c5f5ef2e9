package config

import (
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion       string `mapstructure:"GENERAL_VERSION"`
	Environment          string `mapstructure:"ENVIRONMENT"`
	ServerPort           int    `mapstructure:"SERVER_PORT"`
	DatabaseHost         string `mapstructure:"DB_HOST"`
	DatabasePort         int    `mapstructure:"DB_PORT"`
	DatabaseName         string `mapstructure:"DB_NAME"`
	DatabaseUser         string `mapstructure:"DB_USER"`
	DatabasePassword     string `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DB_CACHE_PORT"`
	CorsAllowOrigins     string `mapstructure:"CORS_ALLOW_ORIGINS"`

	// Discord OAuth (identity provider)
	DiscordClientID     string `mapstructure:"DISCORD_CLIENT_ID"`
	DiscordClientSecret string `mapstructure:"DISCORD_CLIENT_SECRET"`
	DiscordRedirectURI  string `mapstructure:"DISCORD_REDIRECT_URI"`

	// Spotify OAuth (catalog provider)
	SpotifyClientID     string `mapstructure:"SPOTIFY_CLIENT_ID"`
	SpotifyClientSecret string `mapstructure:"SPOTIFY_CLIENT_SECRET"`
	SpotifyRedirectURI  string `mapstructure:"SPOTIFY_REDIRECT_URI"`

	SessionSecret string `mapstructure:"SESSION_SECRET"`

	// AdminDiscordIDs is a comma-separated list of Discord accounts promoted to
	// admin during migration.
	AdminDiscordIDs string `mapstructure:"ADMIN_DISCORD_IDS"`

	// Album-of-the-day behavior. All date math is anchored to AotdTimezone, a
	// fixed civil timezone, never ambient system time.
	AotdTimezone          string `mapstructure:"AOTD_TIMEZONE"`
	SelectionLookbackDays int    `mapstructure:"SELECTION_LOOKBACK_DAYS"`
	AotdMinReviews        int    `mapstructure:"AOTD_MIN_REVIEWS"`
	SchedulerEnabled      bool   `mapstructure:"SCHEDULER_ENABLED"`
}

var ConfigInstance Config

func New() (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	viper.AutomaticEnv()

	envVars := []string{
		"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT", "DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
		"DB_CACHE_ADDRESS", "DB_CACHE_PORT",
		"CORS_ALLOW_ORIGINS",
		"DISCORD_CLIENT_ID", "DISCORD_CLIENT_SECRET", "DISCORD_REDIRECT_URI",
		"SPOTIFY_CLIENT_ID", "SPOTIFY_CLIENT_SECRET", "SPOTIFY_REDIRECT_URI",
		"SESSION_SECRET", "ADMIN_DISCORD_IDS",
		"AOTD_TIMEZONE", "SELECTION_LOOKBACK_DAYS", "AOTD_MIN_REVIEWS", "SCHEDULER_ENABLED",
	}

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	viper.SetDefault("AOTD_TIMEZONE", "America/Chicago")
	viper.SetDefault("SELECTION_LOOKBACK_DAYS", 365)
	viper.SetDefault("AOTD_MIN_REVIEWS", 4)

	envVarsSet := viper.IsSet("SERVER_PORT") && viper.IsSet("DB_HOST")

	if envVarsSet {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		viper.SetConfigFile(".env")
		viper.SetConfigType("env")

		if err := viper.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		viper.SetConfigFile(".env.local")
		if err := viper.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	if err := validateConfig(config, log); err != nil {
		return Config{}, err
	}

	log.Info("Successfully initialized config", "environment", config.Environment, "timezone", config.AotdTimezone)
	return ConfigInstance, nil
}

func GetConfig() Config {
	return ConfigInstance
}

// IsProduction gates behavior that only applies to the live deployment, such
// as the minimum-review-count requirement on leaderboard stats.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error(
			"Fatal error: invalid server port",
			"port", config.ServerPort,
		)
	}

	if config.SelectionLookbackDays <= 0 {
		return log.Error(
			"Fatal error: selection lookback must be positive",
			"days", config.SelectionLookbackDays,
		)
	}

	if config.AotdMinReviews < 0 {
		return log.Error(
			"Fatal error: minimum review count cannot be negative",
			"minReviews", config.AotdMinReviews,
		)
	}

	if _, err := time.LoadLocation(config.AotdTimezone); err != nil {
		return log.Err("Fatal error: invalid AOTD timezone", err, "timezone", config.AotdTimezone)
	}

	if config.DiscordClientID != "" && config.DiscordClientSecret == "" {
		return log.Error("Fatal error: DISCORD_CLIENT_SECRET required when DISCORD_CLIENT_ID is set")
	}
	if config.SpotifyClientID != "" && config.SpotifyClientSecret == "" {
		return log.Error("Fatal error: SPOTIFY_CLIENT_SECRET required when SPOTIFY_CLIENT_ID is set")
	}

	ConfigInstance = config
	return nil
}
