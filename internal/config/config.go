// Package config loads the TOML configuration, writing a default file on
// first launch.
package config

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "timeplan.db"
	DefaultLogName        = "timeplan.log"
)

type Keymap struct {
	Quit       string `toml:"quit"`
	Up         string `toml:"up"`
	Down       string `toml:"down"`
	Add        string `toml:"add"`
	Toggle     string `toml:"toggle"`
	Delete     string `toml:"delete"`
	Edit       string `toml:"edit"`
	NextFilter string `toml:"next_filter"`
	PrevFilter string `toml:"prev_filter"`
	Tasks      string `toml:"tasks_view"`
	Habits     string `toml:"habits_view"`
	Calendar   string `toml:"calendar_view"`
	Search     string `toml:"search"`
	Confirm    string `toml:"confirm"`
	Cancel     string `toml:"cancel"`
}

type Config struct {
	DBPath        string `toml:"db_path"`
	LogPath       string `toml:"log_path"`
	Timezone      string `toml:"timezone"`
	DefaultFilter string `toml:"default_filter"`
	Keys          Keymap `toml:"keys"`
}

// ResolveConfigPath places the config next to the user's other app state:
// $XDG_CONFIG_HOME/timeplan/config.toml, falling back to the working
// directory when no home is known.
func ResolveConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(base, "timeplan", DefaultConfigFileName)
}

func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig(filepath.Dir(path))
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(filepath.Dir(path), DefaultDBName)
	}
	if cfg.LogPath == "" {
		cfg.LogPath = filepath.Join(filepath.Dir(path), DefaultLogName)
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig(dir string) Config {
	return Config{
		DBPath:        filepath.Join(dir, DefaultDBName),
		LogPath:       filepath.Join(dir, DefaultLogName),
		Timezone:      "Asia/Manila",
		DefaultFilter: "All Tasks",
		Keys: Keymap{
			Quit:       "q",
			Up:         "k",
			Down:       "j",
			Add:        "a",
			Toggle:     " ",
			Delete:     "d",
			Edit:       "e",
			NextFilter: "tab",
			PrevFilter: "shift+tab",
			Tasks:      "1",
			Habits:     "2",
			Calendar:   "3",
			Search:     "/",
			Confirm:    "enter",
			Cancel:     "esc",
		},
	}
}
