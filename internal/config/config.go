// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/tidecore/internal/logger"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger logger.Config `toml:"logger"` // Embed logger config under [logger] table
	Editor EditorConfig  `toml:"editor"` // Editor-specific settings
	Buffer BufferConfig  `toml:"buffer"` // Gap buffer and undo history

	unknownKeys []string
}

// EditorConfig holds editor-specific settings.
type EditorConfig struct {
	TabWidth        int           `toml:"tab_width"`
	ScrollOff       int           `toml:"scroll_off"`
	SystemClipboard bool          `toml:"system_clipboard"`
	StatusBarHeight int           `toml:"status_bar_height"`
	IndexDelay      time.Duration `toml:"index_delay"` // Debounce before the word index rebuilds
	Theme           string        `toml:"theme"`       // Path to a TOML theme file
	AutoSave        bool          `toml:"autosave"`
	AutoSaveEvery   time.Duration `toml:"autosave_interval"`
}

// BufferConfig tunes the text store and its undo history.
type BufferConfig struct {
	MergeWindow  time.Duration `toml:"merge_window"`   // e.g. "750ms"
	MaxMergeSize int           `toml:"max_merge_size"` // 0 disables merging
	HistoryLimit int           `toml:"history_limit"`  // 0 keeps everything
	InitialGap   int           `toml:"initial_gap"`
}

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.NewConfig(),
		Editor: EditorConfig{
			TabWidth:        DefaultTabWidth,
			ScrollOff:       DefaultScrollOff,
			SystemClipboard: SystemClipboard,
			StatusBarHeight: StatusBarHeight,
			IndexDelay:      DefaultIndexDelay,
			AutoSaveEvery:   DefaultAutoSaveInterval,
		},
		Buffer: DefaultBufferConfig(),
	}
}

// DefaultBufferConfig returns the buffer settings used when nothing is configured.
func DefaultBufferConfig() BufferConfig {
	return BufferConfig{
		MergeWindow:  DefaultMergeWindow,
		MaxMergeSize: DefaultMaxMergeSize,
		HistoryLimit: DefaultHistoryLimit,
		InitialGap:   DefaultInitialGap,
	}
}

// loadFromFile attempts to load configuration from a TOML file on top of base.
// A missing file is not an error.
func loadFromFile(filePath string, base *Config) (*Config, error) {
	cfg := *base
	_, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return &cfg, nil
	}
	if err != nil {
		return &cfg, fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}

	metadata, err := toml.DecodeFile(filePath, &cfg)
	if err != nil {
		return base, fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		// Logged after logger.Setup by the caller; keep the keys around.
		cfg.unknownKeys = make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			cfg.unknownKeys = append(cfg.unknownKeys, k.String())
		}
	}
	return &cfg, nil
}

// UnknownKeys lists keys from the config file that matched no setting.
func (c *Config) UnknownKeys() []string {
	return c.unknownKeys
}

// validate checks config values and resets invalid ones to defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()

	if c.Editor.TabWidth <= 0 {
		c.Editor.TabWidth = defaults.Editor.TabWidth
	}
	if c.Editor.ScrollOff < 0 { // Allow 0
		c.Editor.ScrollOff = defaults.Editor.ScrollOff
	}
	if c.Editor.StatusBarHeight <= 0 {
		c.Editor.StatusBarHeight = defaults.Editor.StatusBarHeight
	}
	if c.Editor.IndexDelay < 0 {
		c.Editor.IndexDelay = defaults.Editor.IndexDelay
	}
	if c.Editor.AutoSaveEvery <= 0 {
		c.Editor.AutoSaveEvery = defaults.Editor.AutoSaveEvery
	}

	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}

	c.Buffer = c.Buffer.Validated()
}

// Validated returns a copy with out-of-range values replaced by defaults.
func (b BufferConfig) Validated() BufferConfig {
	d := DefaultBufferConfig()
	if b.MergeWindow < 0 {
		b.MergeWindow = d.MergeWindow
	}
	if b.MaxMergeSize < 0 {
		b.MaxMergeSize = d.MaxMergeSize
	}
	if b.HistoryLimit < 0 {
		b.HistoryLimit = d.HistoryLimit
	}
	if b.InitialGap <= 0 {
		b.InitialGap = d.InitialGap
	}
	return b
}

// DefaultPath returns the config file location under the user config dir,
// or "" when that directory cannot be determined.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, ConfigDirName, DefaultConfigFileName)
}

// Load builds a Config from defaults, the TOML file at configFilePath
// (DefaultPath when empty) and flag overrides, then validates it.
// The logger is usually not set up yet, so nothing is logged here.
func Load(configFilePath string, flags *Flags) (*Config, error) {
	cfg := NewDefaultConfig()

	effectivePath := configFilePath
	if effectivePath == "" {
		effectivePath = DefaultPath()
	}

	var loadErr error
	if effectivePath != "" {
		fileCfg, err := loadFromFile(effectivePath, cfg)
		if err != nil {
			loadErr = err
		} else {
			cfg = fileCfg
		}
	}

	if flags != nil {
		flags.ApplyOverrides(cfg)
	}

	cfg.validate()
	return cfg, loadErr
}
