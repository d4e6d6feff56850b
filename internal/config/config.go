// Package config resolves importer settings from the environment and loads
// optional account profiles from YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTokenFileName   = ".importer_token"
	defaultTakhtitFileName = ".importer_takhtit_uuid"
	defaultHTTPTimeout     = 30 * time.Second
)

// Settings holds the local knobs of the importer: where the session cache
// lives and how long API calls may take.
type Settings struct {
	TokenFile   string
	TakhtitFile string
	HTTPTimeout time.Duration
}

// Load resolves Settings from the environment, defaulting the cache files to
// the invoking user's home directory.
func Load() (Settings, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Settings{}, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg := Settings{
		TokenFile:   getEnv("IMPORTER_TOKEN_FILE", filepath.Join(home, defaultTokenFileName)),
		TakhtitFile: getEnv("IMPORTER_TAKHTIT_FILE", filepath.Join(home, defaultTakhtitFileName)),
		HTTPTimeout: defaultHTTPTimeout,
	}

	if v := os.Getenv("IMPORTER_HTTP_TIMEOUT"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return Settings{}, fmt.Errorf("invalid IMPORTER_HTTP_TIMEOUT: %q", v)
		}
		cfg.HTTPTimeout = time.Duration(secs) * time.Second
	}

	return cfg, nil
}

// Profile describes the account created alongside a takhtit. The fields feed
// the user-creation payload verbatim.
type Profile struct {
	Username  string `yaml:"username"`
	Email     string `yaml:"email"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
}

// DefaultProfile is the account the importer provisions when no profile file
// is supplied.
func DefaultProfile() Profile {
	return Profile{
		Username:  "uthmantaha",
		Email:     "user@example.com",
		FirstName: "Uthman",
		LastName:  "Taha",
	}
}

// LoadProfile reads a YAML profile, filling omitted fields from the default.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}

	profile := DefaultProfile()
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return Profile{}, fmt.Errorf("parse profile %q: %w", path, err)
	}
	if profile.Username == "" {
		return Profile{}, fmt.Errorf("profile %q has an empty username", path)
	}
	return profile, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
