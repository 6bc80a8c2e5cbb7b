// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App    AppConfig
	Logger LoggerConfig
	Data   DataConfig
	Server ServerConfig
	IGDB   IGDBConfig
	Steam  SteamConfig
	Sync   SyncConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig holds local data storage configuration.
type DataConfig struct {
	BasePath string
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Name          string
	Port          string        // Server port (default: 8080)
	ReadTimeout   time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout  time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout   time.Duration // HTTP idle timeout (default: 60s)
	AdvertiseMDNS bool          // Advertise via mDNS/Zeroconf (default: true)
}

// IGDBConfig holds IGDB/Twitch API configuration.
type IGDBConfig struct {
	ClientID     string
	ClientSecret string
	// TokenExpiryMargin is subtracted from the token lifetime so a token
	// nearing expiry is refreshed before use (default: 60s).
	TokenExpiryMargin time.Duration
}

// Enabled reports whether IGDB credentials are present.
func (c IGDBConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// SteamConfig holds Steam Web API configuration.
type SteamConfig struct {
	APIKey  string
	SteamID string
	// LibraryCacheTTL is how long the owned-games snapshot stays fresh (default: 30m).
	LibraryCacheTTL time.Duration
}

// Enabled reports whether Steam credentials are present.
func (c SteamConfig) Enabled() bool {
	return c.APIKey != "" && c.SteamID != ""
}

// SyncConfig holds background synchronization tunables.
type SyncConfig struct {
	PlaytimeInterval       time.Duration // between playtime sync runs (default: 6h)
	PlaytimeInitialDelay   time.Duration // before the first playtime sync (default: 1m)
	EnrichmentInterval     time.Duration // between enrichment runs (default: 24h)
	EnrichmentInitialDelay time.Duration // before the first enrichment run (default: 30s)
	EnrichmentBatchSize    int           // lookups between pauses (default: 3)
	EnrichmentBatchPause   time.Duration // pause after each batch (default: 1s)
	RateLimitCooldown      time.Duration // wait before retrying a rate-limited lookup (default: 5s)
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	// Define command-line flags.
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Base path for local data storage")
	serverName := flag.String("server-name", "", "Name for the server")

	// Server flags
	serverPort := flag.String("port", "", "Server port (default: 8080)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	advertiseMDNS := flag.String("advertise-mdns", "", "Advertise via mDNS/Zeroconf (default: true)")

	// Integration flags
	igdbClientID := flag.String("igdb-client-id", "", "Twitch client ID for IGDB access")
	igdbClientSecret := flag.String("igdb-client-secret", "", "Twitch client secret for IGDB access")
	steamAPIKey := flag.String("steam-api-key", "", "Steam Web API key")
	steamID := flag.String("steam-id", "", "64-bit Steam account ID to track")

	// Sync flags
	playtimeInterval := flag.String("playtime-sync-interval", "", "Interval between playtime syncs (default: 6h)")
	enrichmentInterval := flag.String("enrichment-interval", "", "Interval between enrichment runs (default: 24h)")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	// Build config with proper precedence.
	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			BasePath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Server: ServerConfig{
			Name:          getConfigValue(*serverName, "SERVER_NAME", "Inferno Games Server"),
			Port:          getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			AdvertiseMDNS: getBoolConfigValue(*advertiseMDNS, "ADVERTISE_MDNS", true),
		},
		IGDB: IGDBConfig{
			ClientID:     getConfigValue(*igdbClientID, "IGDB_CLIENT_ID", ""),
			ClientSecret: getConfigValue(*igdbClientSecret, "IGDB_CLIENT_SECRET", ""),
		},
		Steam: SteamConfig{
			APIKey:  getConfigValue(*steamAPIKey, "STEAM_API_KEY", ""),
			SteamID: getConfigValue(*steamID, "STEAM_ID", ""),
		},
		Sync: SyncConfig{
			EnrichmentBatchSize: getIntConfigValue("", "ENRICHMENT_BATCH_SIZE", 3),
		},
	}

	// Parse server timeouts.
	var err error
	cfg.Server.ReadTimeout, err = parseDurationValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s")
	if err != nil {
		return nil, fmt.Errorf("invalid read timeout: %w", err)
	}
	cfg.Server.WriteTimeout, err = parseDurationValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s")
	if err != nil {
		return nil, fmt.Errorf("invalid write timeout: %w", err)
	}
	cfg.Server.IdleTimeout, err = parseDurationValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s")
	if err != nil {
		return nil, fmt.Errorf("invalid idle timeout: %w", err)
	}

	// Parse integration tunables.
	cfg.IGDB.TokenExpiryMargin, err = parseDurationValue("", "IGDB_TOKEN_EXPIRY_MARGIN", "60s")
	if err != nil {
		return nil, fmt.Errorf("invalid token expiry margin: %w", err)
	}
	cfg.Steam.LibraryCacheTTL, err = parseDurationValue("", "STEAM_CACHE_TTL", "30m")
	if err != nil {
		return nil, fmt.Errorf("invalid steam cache ttl: %w", err)
	}

	// Parse sync tunables.
	cfg.Sync.PlaytimeInterval, err = parseDurationValue(*playtimeInterval, "PLAYTIME_SYNC_INTERVAL", "6h")
	if err != nil {
		return nil, fmt.Errorf("invalid playtime sync interval: %w", err)
	}
	cfg.Sync.PlaytimeInitialDelay, err = parseDurationValue("", "PLAYTIME_SYNC_INITIAL_DELAY", "1m")
	if err != nil {
		return nil, fmt.Errorf("invalid playtime sync initial delay: %w", err)
	}
	cfg.Sync.EnrichmentInterval, err = parseDurationValue(*enrichmentInterval, "ENRICHMENT_INTERVAL", "24h")
	if err != nil {
		return nil, fmt.Errorf("invalid enrichment interval: %w", err)
	}
	cfg.Sync.EnrichmentInitialDelay, err = parseDurationValue("", "ENRICHMENT_INITIAL_DELAY", "30s")
	if err != nil {
		return nil, fmt.Errorf("invalid enrichment initial delay: %w", err)
	}
	cfg.Sync.EnrichmentBatchPause, err = parseDurationValue("", "ENRICHMENT_BATCH_PAUSE", "1s")
	if err != nil {
		return nil, fmt.Errorf("invalid enrichment batch pause: %w", err)
	}
	cfg.Sync.RateLimitCooldown, err = parseDurationValue("", "RATE_LIMIT_COOLDOWN", "5s")
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit cooldown: %w", err)
	}

	// Expand and validate data path.
	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	// Validate configuration.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Data.BasePath == "" {
		return errors.New("data base path cannot be empty after expansion")
	}

	// IGDB and Steam credentials can be empty - the integrations report
	// themselves as not configured and the rest of the app still works.

	if c.Sync.EnrichmentBatchSize < 1 {
		return fmt.Errorf("enrichment batch size must be >= 1, got %d", c.Sync.EnrichmentBatchSize)
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath expands ~ and makes the path absolute.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "InfernoGames", "data")

	expanded, err := expandPath(c.Data.BasePath, defaultPath)
	if err != nil {
		return err
	}
	c.Data.BasePath = expanded
	return nil
}

// parseDurationValue resolves a duration from flag, env var, or default.
func parseDurationValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	str := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(str)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", str, err)
	}
	return d, nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=value.
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present.
		value = strings.Trim(value, `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
