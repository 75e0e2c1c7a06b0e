// Package config loads process configuration from the environment once at
// startup. The resulting struct is immutable after Load and passed down
// explicitly — nothing reads os.Getenv after boot.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs at startup.
type Config struct {
	Port      int
	DBPath    string // SQLite connection string (file path or ":memory:")
	JWTSecret string // HMAC signing secret; required

	// GitHub sign-in is optional: the OAuth routes are only registered
	// when ClientID is set.
	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
}

// Load reads configuration from the environment.
//
// In dev (ENV=dev) a .env file is loaded first so local runs don't need
// exported variables. A missing JWT_SECRET is a hard error: the token
// service cannot operate without a signing key, and starting up with a
// generated or default secret would silently invalidate every token on
// restart — or worse, be guessable.
func Load() (Config, error) {
	if os.Getenv("ENV") == "dev" {
		_ = godotenv.Load()
	}

	port, err := getEnvInt("PORT", 8080)
	if err != nil {
		return Config{}, err
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return Config{}, errors.New("config: JWT_SECRET must be set")
	}

	cfg := Config{
		Port:               port,
		DBPath:             getEnv("DB_PATH", "data/jobtrack.db"),
		JWTSecret:          secret,
		GitHubClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		GitHubClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		GitHubCallbackURL:  os.Getenv("GITHUB_CALLBACK_URL"),
	}

	if cfg.GitHubClientID != "" && cfg.GitHubCallbackURL == "" {
		cfg.GitHubCallbackURL = fmt.Sprintf("http://localhost:%d/auth/github/callback", cfg.Port)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	valueStr, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer, got %q", key, valueStr)
	}
	return value, nil
}
