// Package config provides configuration loading.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/cristianoliveira/zendesk-intray/internal/colors"
	"github.com/natefinch/atomic"
	"github.com/pelletier/go-toml/v2"
)

// File permission constants
const (
	// FileModeDir is the permission for directories (rwxr-xr-x)
	FileModeDir os.FileMode = 0755
	// FileModeFile is the permission for data files (rw-------), the file holds credentials.
	FileModeFile os.FileMode = 0600

	// FileExtTOML is the file extension for TOML configuration files.
	FileExtTOML = ".toml"

	// EnvPrefix prefixes every environment variable override.
	EnvPrefix = "ZENDESK_INTRAY_"
)

// ErrMissingKey is returned by Require when a mandatory key has no value.
var ErrMissingKey = errors.New("missing required configuration key")

// RequiredKeys are the keys without which the poller cannot talk to the ticketing API.
var RequiredKeys = []string{"host", "user", "api_key"}

var (
	config    map[string]string
	configMap map[string]string
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
	configMap = make(map[string]string)

	setDefaults()
	// Environment first so config_dir overrides decide which file is read.
	loadFromEnv()
	loadFromFile()
	// Re-apply environment variable overrides so env wins
	loadFromEnv()
	validate()
	computeDirs()
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

	configDir := filepath.Join(xdgConfigHome, "zendesk-intray")
	stateDir := filepath.Join(xdgStateHome, "zendesk-intray")

	setDefault("config_dir", configDir)
	setDefault("state_dir", stateDir)
	setDefault("hooks_dir", filepath.Join(configDir, "hooks"))
	setDefault("db_path", "")
	setDefault("host", "")
	setDefault("user", "")
	setDefault("api_key", "")
	setDefault("poll_interval", "60")
	setDefault("notifier", "desktop")
	setDefault("alert_title", "Your group got {{count}} new tickets")
	setDefault("alert_timeout", "0")
	setDefault("hooks_enabled", "true")
	setDefault("hooks_failure_mode", "warn")
	setDefault("logging_enabled", "false")
	setDefault("logging_level", "info")
	setDefault("logging_max_files", "10")
	setDefault("debug", "false")
	setDefault("quiet", "false")
}

func setDefault(key, value string) {
	config[key] = value
	configMap[key] = value
}

// ConfigPath returns the configuration file that Load reads, whether or not it exists.
func ConfigPath() string {
	if p := os.Getenv(EnvPrefix + "CONFIG_PATH"); p != "" {
		return p
	}
	mu.RLock()
	defer mu.RUnlock()
	return configFilePath()
}

func configFilePath() string {
	if configDir := config["config_dir"]; configDir != "" {
		return filepath.Join(configDir, "config"+FileExtTOML)
	}
	return ""
}

// loadFromFile reads configuration from a file.
func loadFromFile() {
	configPath := os.Getenv(EnvPrefix + "CONFIG_PATH")
	if configPath == "" {
		configPath = configFilePath()
		if _, err := os.Stat(configPath); err != nil {
			configPath = ""
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
	if ext := strings.ToLower(filepath.Ext(configPath)); ext != FileExtTOML {
		colors.Warning(fmt.Sprintf("unsupported config file extension %q for %s", ext, configPath))
		return
	}
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

// coerceConfigValue converts a configuration value to its string representation.
// Supported types are string, int, int64, float64, and bool.
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
		if !strings.HasPrefix(env, EnvPrefix) {
			continue
		}
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(parts[0], EnvPrefix))
		if key == "config_path" {
			continue
		}
		config[key] = parts[1]
	}
}

// validate checks and normalizes configuration values using registered validators.
func validate() {
	for key, value := range config {
		validator := getValidator(key)
		if validator == nil {
			continue
		}
		defaultValue := configMap[key]
		normalizedValue, err := validator(key, value, defaultValue)
		if err != nil {
			colors.Warning(fmt.Sprintf("validation error for %s: %v, using default: %s", key, err, defaultValue))
			config[key] = defaultValue
		} else {
			config[key] = normalizedValue
		}
	}
}

// computeDirs recomputes derived paths after config is loaded.
func computeDirs() {
	if config["db_path"] == "" && config["state_dir"] != "" {
		config["db_path"] = filepath.Join(config["state_dir"], "seen.db")
	}
	if config["hooks_dir"] == configMap["hooks_dir"] && config["config_dir"] != configMap["config_dir"] {
		config["hooks_dir"] = filepath.Join(config["config_dir"], "hooks")
	}
}

// sampleSkipKeys are defaults that are either derived or secret and stay out of the sample file.
var sampleSkipKeys = map[string]bool{
	"config_dir": true,
	"state_dir":  true,
	"hooks_dir":  true,
	"db_path":    true,
	"host":       true,
	"user":       true,
	"api_key":    true,
}

// createSampleConfig creates a sample configuration file if none exists.
func createSampleConfig() {
	samplePath := configFilePath()
	if samplePath == "" || os.Getenv(EnvPrefix+"CONFIG_PATH") != "" {
		return
	}
	if _, err := os.Stat(samplePath); err == nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(samplePath), FileModeDir); err != nil {
		colors.Debug(fmt.Sprintf("unable to create config dir: %v", err))
		return
	}

	typed := make(map[string]interface{})
	for k, v := range configMap {
		if sampleSkipKeys[k] {
			continue
		}
		typed[k] = valueToInterface(v)
	}

	data, err := toml.Marshal(typed)
	if err != nil {
		colors.Warning(fmt.Sprintf("unable to marshal sample config: %v", err))
		return
	}
	header := "# zendesk-intray configuration\n# This file is in TOML format.\n\n" +
		"# Required:\n# host = \"acme.zendesk.com\"\n# user = \"agent@acme.com\"\n# api_key = \"agent@acme.com/token:API_TOKEN\"\n\n"
	content := append([]byte(header), data...)
	if err := atomic.WriteFile(samplePath, bytes.NewReader(content)); err != nil {
		colors.Warning(fmt.Sprintf("unable to write sample config to %s: %v", samplePath, err))
		return
	}
	_ = os.Chmod(samplePath, FileModeFile)
}

// valueToInterface converts a configuration value to appropriate type for TOML.
func valueToInterface(val string) interface{} {
	if n, err := strconv.Atoi(val); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return val
}

// Require reports the first of keys that has an empty value.
func Require(keys ...string) error {
	mu.RLock()
	defer mu.RUnlock()
	for _, key := range keys {
		if strings.TrimSpace(config[key]) == "" {
			return fmt.Errorf("%w: %s (set it in %s or %s%s)", ErrMissingKey, key,
				configFilePath(), EnvPrefix, strings.ToUpper(key))
		}
	}
	return nil
}

// All returns a copy of every configuration value, suitable for template substitution.
func All() map[string]string {
	mu.RLock()
	defer mu.RUnlock()
	out := make(map[string]string, len(config))
	for k, v := range config {
		out[k] = v
	}
	return out
}

// Keys returns the configured keys in sorted order.
func Keys() []string {
	mu.RLock()
	defer mu.RUnlock()
	keys := make([]string, 0, len(config))
	for k := range config {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns a configuration value or default.
func Get(key, defaultValue string) string {
	mu.RLock()
	defer mu.RUnlock()
	if val, ok := config[key]; ok {
		return val
	}
	return defaultValue
}

// GetInt returns a configuration value as integer, or default.
func GetInt(key string, defaultValue int) int {
	mu.RLock()
	defer mu.RUnlock()
	val, ok := config[key]
	if !ok {
		return defaultValue
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return n
}

// GetBool returns a configuration value as boolean, or default.
func GetBool(key string, defaultValue bool) bool {
	mu.RLock()
	defer mu.RUnlock()
	val, ok := config[key]
	if !ok {
		return defaultValue
	}
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return defaultValue
	}
}

// Set overrides a single value after Load, used for command-line flags.
func Set(key, value string) {
	mu.Lock()
	defer mu.Unlock()
	if config == nil {
		config = make(map[string]string)
	}
	config[key] = value
}
