package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultHost               = "127.0.0.1"
	defaultPort               = "8080"
	defaultTimezone           = "UTC"
	defaultLanguage           = "en"
	defaultLogLevel           = "info"
	defaultEnvironment        = "development"
	defaultICSProjectedCycles = 3
	maxICSProjectedCycles     = 24
)

// AppConfig holds the runtime settings. Values come from an optional YAML file and are
// overridden by environment variables (including a .env file when present).
type AppConfig struct {
	Host               string `yaml:"host"`
	Port               string `yaml:"port"`
	DBPath             string `yaml:"db_path"`
	Timezone           string `yaml:"timezone"`
	DefaultLanguage    string `yaml:"default_language"`
	LogLevel           string `yaml:"log_level"`
	Environment        string `yaml:"environment"`
	CookieSecure       bool   `yaml:"cookie_secure"`
	BackupCron         string `yaml:"backup_cron"`
	BackupDir          string `yaml:"backup_dir"`
	ICSProjectedCycles int    `yaml:"ics_projected_cycles"`
}

func Default() *AppConfig {
	return &AppConfig{
		Host:               defaultHost,
		Port:               defaultPort,
		DBPath:             filepath.Join("data", "flowcast.db"),
		Timezone:           defaultTimezone,
		DefaultLanguage:    defaultLanguage,
		LogLevel:           defaultLogLevel,
		Environment:        defaultEnvironment,
		BackupDir:          filepath.Join("data", "backups"),
		ICSProjectedCycles: defaultICSProjectedCycles,
	}
}

// Load builds the configuration: defaults, then CONFIG_PATH (YAML), then environment.
func Load() (*AppConfig, error) {
	// A missing .env file is not an error; existing variables are never overridden.
	_ = godotenv.Load()

	cfg := Default()
	if path := strings.TrimSpace(os.Getenv("CONFIG_PATH")); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Address returns the host:port pair the HTTP server listens on.
func (cfg *AppConfig) Address() string {
	return cfg.Host + ":" + cfg.Port
}

func (cfg *AppConfig) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config file %s not found", path)
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (cfg *AppConfig) applyEnv() error {
	overrideString(&cfg.Host, "HOST")
	overrideString(&cfg.Port, "PORT")
	overrideString(&cfg.DBPath, "DB_PATH")
	overrideString(&cfg.Timezone, "TZ")
	overrideString(&cfg.DefaultLanguage, "DEFAULT_LANGUAGE")
	overrideString(&cfg.LogLevel, "LOG_LEVEL")
	overrideString(&cfg.Environment, "ENVIRONMENT")
	overrideString(&cfg.BackupCron, "BACKUP_CRON")
	overrideString(&cfg.BackupDir, "BACKUP_DIR")

	if raw := strings.TrimSpace(os.Getenv("COOKIE_SECURE")); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid COOKIE_SECURE: %w", err)
		}
		cfg.CookieSecure = value
	}

	if raw := strings.TrimSpace(os.Getenv("ICS_PROJECTED_CYCLES")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid ICS_PROJECTED_CYCLES: %w", err)
		}
		cfg.ICSProjectedCycles = value
	}
	return nil
}

func (cfg *AppConfig) normalize() error {
	if strings.TrimSpace(cfg.Host) == "" {
		cfg.Host = defaultHost
	}
	port, err := ResolvePort(cfg.Port)
	if err != nil {
		return err
	}
	cfg.Port = port

	if strings.TrimSpace(cfg.DBPath) == "" {
		return errors.New("DB_PATH must not be empty")
	}
	if strings.TrimSpace(cfg.Timezone) == "" {
		cfg.Timezone = defaultTimezone
	}
	cfg.DefaultLanguage = strings.ToLower(strings.TrimSpace(cfg.DefaultLanguage))
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = defaultLanguage
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	cfg.Environment = strings.ToLower(strings.TrimSpace(cfg.Environment))
	if cfg.Environment == "" {
		cfg.Environment = defaultEnvironment
	}
	cfg.BackupCron = strings.TrimSpace(cfg.BackupCron)
	if cfg.BackupCron != "" && strings.TrimSpace(cfg.BackupDir) == "" {
		return errors.New("BACKUP_DIR is required when BACKUP_CRON is set")
	}

	switch {
	case cfg.ICSProjectedCycles == 0:
		cfg.ICSProjectedCycles = defaultICSProjectedCycles
	case cfg.ICSProjectedCycles < 1 || cfg.ICSProjectedCycles > maxICSProjectedCycles:
		return fmt.Errorf("ICS_PROJECTED_CYCLES must be between 1 and %d", maxICSProjectedCycles)
	}
	return nil
}

// ResolvePort validates a TCP port value, falling back to 8080 when empty.
func ResolvePort(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return defaultPort, nil
	}
	port, err := strconv.Atoi(value)
	if err != nil {
		return "", fmt.Errorf("invalid PORT %q: %w", value, err)
	}
	if port < 1 || port > 65535 {
		return "", fmt.Errorf("invalid PORT %q: must be between 1 and 65535", value)
	}
	return strconv.Itoa(port), nil
}

func overrideString(target *string, key string) {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		*target = value
	}
}
