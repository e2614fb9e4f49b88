// Package config provides configuration loading for wavetray.
//
// Values come from three layers: built-in defaults, a TOML file under the
// XDG config dir, and WAVETRAY_* environment variables. Environment always
// wins. Registered validators normalize values and fall back to defaults
// with a warning instead of failing.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/waveformhq/wavetray/internal/colors"
)

// File extension for configuration files.
const FileExtTOML = ".toml"

// File permission constants
const (
	FileModeDir  os.FileMode = 0755
	FileModeFile os.FileMode = 0644
)

const envPrefix = "WAVETRAY_"

var (
	config    map[string]string
	defaults  map[string]string
	mu        sync.RWMutex
)

func init() {
	initValidators()
}

// Load initializes configuration.
func Load() {
	mu.Lock()
	defer mu.Unlock()

	config = make(map[string]string)
	defaults = make(map[string]string)

	setDefaults()
	loadFromFile()
	// Env wins over the file.
	loadFromEnv()
	validate()
	createSampleConfig()
}

// setDefaults populates config with default values.
func setDefaults() {
	home, _ := os.UserHomeDir()
	xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfigHome == "" {
		xdgConfigHome = filepath.Join(home, ".config")
	}
	xdgStateHome := os.Getenv("XDG_STATE_HOME")
	if xdgStateHome == "" {
		xdgStateHome = filepath.Join(home, ".local", "state")
	}

	setDefault("config_dir", filepath.Join(xdgConfigHome, "wavetray"))
	setDefault("state_dir", filepath.Join(xdgStateHome, "wavetray"))

	// Backend endpoints
	setDefault("api_origin", "https://api.waveform.fm")
	setDefault("push_origin", "wss://push.waveform.fm")
	setDefault("push_path", "/ws/notifications/")
	setDefault("auth_token", "")
	// Development-only escape hatch: connect without credentials.
	setDefault("insecure_skip_auth", "false")

	// Channel and reconciliation behavior
	setDefault("reconnect_delay_seconds", "3")
	setDefault("page_limit", "50")

	// Local snapshot cache
	setDefault("cache_enabled", "true")

	// Logging
	setDefault("log_enabled", "false")
	setDefault("log_level", "info")
	setDefault("log_max_files", "10")

	// Console output
	setDefault("quiet", "false")
	setDefault("debug", "false")
}

func setDefault(key, value string) {
	config[key] = value
	defaults[key] = value
}

// loadFromFile reads configuration from the TOML file. A missing file is
// not an error.
func loadFromFile() {
	configPath := os.Getenv(envPrefix + "CONFIG_PATH")
	if configPath == "" {
		if configDir, ok := config["config_dir"]; ok {
			configPath = filepath.Join(configDir, "config"+FileExtTOML)
			if _, err := os.Stat(configPath); err != nil {
				configPath = ""
			}
		}
	}
	if configPath == "" {
		return
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		colors.Debug(fmt.Sprintf("unable to read config file %s: %v", configPath, err))
		return
	}

	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		colors.Warning(fmt.Sprintf("unable to parse config file %s: %v", configPath, err))
		return
	}

	for k, v := range raw {
		key := strings.ToLower(k)
		converted, ok := coerceConfigValue(v)
		if !ok {
			colors.Warning(fmt.Sprintf("unsupported config value type for %s: %T", key, v))
			continue
		}
		config[key] = converted
	}
}

// coerceConfigValue converts a configuration value to its string
// representation. Supported types are string, int, int64, float64, bool.
func coerceConfigValue(value interface{}) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case int:
		return strconv.Itoa(typed), true
	case int64:
		return strconv.FormatInt(typed, 10), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(typed), true
	default:
		return "", false
	}
}

// loadFromEnv applies environment variable overrides.
func loadFromEnv() {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(parts[0], envPrefix))
		if key == "config_path" {
			continue
		}
		config[key] = parts[1]
	}
}

// validate checks and normalizes configuration values using registered
// validators.
func validate() {
	for key, value := range config {
		validator := getValidator(key)
		if validator == nil {
			continue
		}
		defaultValue := defaults[key]
		normalized, err := validator(key, value, defaultValue)
		if err != nil {
			colors.Warning(fmt.Sprintf("validation error for %s: %v, using default: %s", key, err, defaultValue))
			config[key] = defaultValue
			continue
		}
		config[key] = normalized
	}
}

// createSampleConfig writes a commented sample config if none exists yet.
func createSampleConfig() {
	configDir, ok := config["config_dir"]
	if !ok || configDir == "" {
		return
	}
	path := filepath.Join(configDir, "config"+FileExtTOML)
	if _, err := os.Stat(path); err == nil {
		return
	}
	if err := os.MkdirAll(configDir, FileModeDir); err != nil {
		return
	}
	sample := `# wavetray configuration
# Values may also be set via WAVETRAY_* environment variables, which win.

# api_origin = "https://api.waveform.fm"
# push_origin = "wss://push.waveform.fm"
# auth_token = ""

# reconnect_delay_seconds = 3
# page_limit = 50

# log_enabled = false
# log_level = "info"
`
	_ = os.WriteFile(path, []byte(sample), FileModeFile)
}

// Get returns the configuration value for key, or defaultValue when unset.
func Get(key, defaultValue string) string {
	mu.RLock()
	defer mu.RUnlock()
	if v, ok := config[strings.ToLower(key)]; ok && v != "" {
		return v
	}
	return defaultValue
}

// GetBool returns a boolean configuration value.
func GetBool(key string) bool {
	return Get(key, "false") == "true"
}

// GetInt returns an integer configuration value, or defaultValue when the
// stored value does not parse.
func GetInt(key string, defaultValue int) int {
	v := Get(key, "")
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return n
}

// GetDuration returns a seconds-valued configuration key as a Duration.
func GetDuration(key string, defaultValue time.Duration) time.Duration {
	n := GetInt(key, -1)
	if n <= 0 {
		return defaultValue
	}
	return time.Duration(n) * time.Second
}

// Set overrides a configuration value for the current process. Mainly used
// by flags and tests.
func Set(key, value string) {
	mu.Lock()
	defer mu.Unlock()
	if config == nil {
		config = make(map[string]string)
	}
	config[strings.ToLower(key)] = value
}

// StateDir returns the state directory, creating it if needed.
func StateDir() (string, error) {
	dir := Get("state_dir", "")
	if dir == "" {
		return "", fmt.Errorf("state_dir is not configured")
	}
	if err := os.MkdirAll(dir, FileModeDir); err != nil {
		return "", fmt.Errorf("failed to create state directory: %w", err)
	}
	return dir, nil
}
