package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config drives the editor: where to find the save file and reference
// dataset, where backups and logs go.
type Config struct {
	Save   SaveConfig   `json:"save"`
	RefDB  string       `json:"refDb,omitempty"`
	Backup BackupConfig `json:"backup"`
	Log    LogConfig    `json:"log"`
}

type SaveConfig struct {
	// File is an explicit save file path. When empty, Dir is scanned for
	// the newest save; when Dir is also empty, the platform default
	// location is discovered.
	File string `json:"file,omitempty"`
	Dir  string `json:"dir,omitempty"`
}

type BackupConfig struct {
	// Dir overrides the default backup location (a DaveSaveEd_Backups
	// folder in the system temp directory).
	Dir string `json:"dir,omitempty"`
}

type LogConfig struct {
	// File enables the timestamped log file alongside stderr output.
	File bool `json:"file"`
	// Dir is where log files are written; defaults to the config dir.
	Dir string `json:"dir,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{File: false},
	}
}

func ConfigDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	return filepath.Join(home, ".davesaveed")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("DAVESAVEED_SAVE_FILE"); v != "" {
		cfg.Save.File = v
	}
	if v := os.Getenv("DAVESAVEED_SAVE_DIR"); v != "" {
		cfg.Save.Dir = v
	}
	if v := os.Getenv("DAVESAVEED_REFDB"); v != "" {
		cfg.RefDB = v
	}
	if v := os.Getenv("DAVESAVEED_BACKUP_DIR"); v != "" {
		cfg.Backup.Dir = v
	}
	if v := os.Getenv("DAVESAVEED_LOG_FILE"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			cfg.Log.File = parsed
		}
	}
	if v := os.Getenv("DAVESAVEED_LOG_DIR"); v != "" {
		cfg.Log.Dir = v
	}

	if cfg.Log.Dir == "" {
		cfg.Log.Dir = ConfigDir()
	}

	return cfg, nil
}

func Save(cfg *Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(ConfigPath(), data, 0644)
}
