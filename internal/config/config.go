package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"colfm/internal/dirlist"
	"colfm/internal/errors"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// Opener maps a mime type prefix to the program used by open_file.
type Opener struct {
	Mime    string   `yaml:"mime"`    // Prefix such as "text/" or "image/png"
	Command []string `yaml:"command"` // Program and leading arguments
}

// KeymapEntry binds a key sequence to a command line.
type KeymapEntry struct {
	Keys    []string `yaml:"keys"`    // Key sequence, e.g. ["g", "g"]
	Command string   `yaml:"command"` // Command line accepted by the command parser
}

// Config represents the application configuration structure.
type Config struct {
	Display struct {
		ShowHidden    bool   `yaml:"show_hidden"`       // List dot files
		SortMethod    string `yaml:"sort_method"`       // lexical, natural, size or mtime
		SortReverse   bool   `yaml:"sort_reverse"`      // Reverse the comparator
		DirsFirst     bool   `yaml:"directories_first"` // Group directories before files
		CaseSensitive bool   `yaml:"case_sensitive"`    // Case sensitive name ordering
		ColumnRatio   []int  `yaml:"column_ratio"`      // Widths of parent, current and preview columns
		ScrollOffset  int    `yaml:"scroll_offset"`     // Rows kept visible around the cursor
	} `yaml:"display"`
	Directories struct {
		Start string `yaml:"start"` // Directory opened at start-up, empty means cwd
	} `yaml:"directories"`
	Watch struct {
		Enabled bool `yaml:"enabled"` // Mark columns stale on fsnotify events
	} `yaml:"watch"`
	Openers []Opener      `yaml:"openers"`
	Keymap  []KeymapEntry `yaml:"keymap"` // Added on top of the built-in bindings
	Logging struct {
		File  string `yaml:"file"`  // Empty disables logging
		Debug bool   `yaml:"debug"` // Include debug lines
		JSON  bool   `yaml:"json"`  // JSON lines instead of text
	} `yaml:"logging"`
}

// DefaultPath returns ~/.config/colfm/config.yaml.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", errors.NewConfigError("cannot resolve home directory", "", errors.ConfigNotFound, err)
	}
	return filepath.Join(home, ".config", "colfm", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location.
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Fields absent from the file keep their defaults.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError("error parsing config file", path, errors.InvalidConfig, err)
	}

	if cfg.Directories.Start != "" {
		expanded, err := homedir.Expand(cfg.Directories.Start)
		if err != nil {
			return nil, errors.NewConfigError("invalid start directory", "directories.start", errors.InvalidConfig, err)
		}
		cfg.Directories.Start = expanded
	}
	if cfg.Logging.File != "" {
		if expanded, err := homedir.Expand(cfg.Logging.File); err == nil {
			cfg.Logging.File = expanded
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// defaultConfig returns the default configuration.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Display.ShowHidden = false
	cfg.Display.SortMethod = dirlist.SortNatural.String()
	cfg.Display.SortReverse = false
	cfg.Display.DirsFirst = true
	cfg.Display.CaseSensitive = false
	cfg.Display.ColumnRatio = []int{1, 3, 3}
	cfg.Display.ScrollOffset = 4

	cfg.Watch.Enabled = true

	cfg.Openers = []Opener{
		{Mime: "text/", Command: []string{"$EDITOR"}},
		{Mime: "inode/x-empty", Command: []string{"$EDITOR"}},
	}
	cfg.Keymap = []KeymapEntry{}
	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.NewConfigError("nil config", "", errors.InvalidConfig, nil)
	}

	if _, ok := dirlist.ParseSortMethod(c.Display.SortMethod); !ok {
		return errors.NewConfigError("unknown sort method "+c.Display.SortMethod, "display.sort_method", errors.InvalidConfig, nil)
	}

	if len(c.Display.ColumnRatio) != 3 {
		return errors.NewConfigError("column ratio needs three values", "display.column_ratio", errors.InvalidConfig, nil)
	}
	for _, r := range c.Display.ColumnRatio {
		if r < 0 {
			return errors.NewConfigError("column ratio values must be >= 0", "display.column_ratio", errors.InvalidConfig, nil)
		}
	}
	if c.Display.ColumnRatio[1] == 0 {
		return errors.NewConfigError("current column width must be > 0", "display.column_ratio", errors.InvalidConfig, nil)
	}

	if c.Display.ScrollOffset < 0 {
		return errors.NewConfigError("scroll offset must be >= 0", "display.scroll_offset", errors.InvalidConfig, nil)
	}

	for i, o := range c.Openers {
		if strings.TrimSpace(o.Mime) == "" {
			return errors.NewConfigError(fmt.Sprintf("opener %d: mime is required", i), "openers", errors.InvalidConfig, nil)
		}
		if len(o.Command) == 0 {
			return errors.NewConfigError(fmt.Sprintf("opener %d: command is required", i), "openers", errors.InvalidConfig, nil)
		}
	}

	for i, k := range c.Keymap {
		if len(k.Keys) == 0 {
			return errors.NewConfigError(fmt.Sprintf("keymap %d: keys are required", i), "keymap", errors.InvalidConfig, nil)
		}
		if strings.TrimSpace(k.Command) == "" {
			return errors.NewConfigError(fmt.Sprintf("keymap %d: command is required", i), "keymap", errors.InvalidConfig, nil)
		}
	}

	if c.Directories.Start != "" {
		info, err := os.Stat(c.Directories.Start)
		if err != nil {
			return errors.NewConfigError("error accessing start directory", "directories.start", errors.InvalidConfig, err)
		}
		if !info.IsDir() {
			return errors.NewConfigError("start path is not a directory", "directories.start", errors.InvalidConfig, nil)
		}
	}

	return nil
}

// SortOption builds the listing options described by the display section.
func (c *Config) SortOption() dirlist.SortOption {
	method, _ := dirlist.ParseSortMethod(c.Display.SortMethod)
	return dirlist.SortOption{
		Method:        method,
		Reverse:       c.Display.SortReverse,
		DirsFirst:     c.Display.DirsFirst,
		CaseSensitive: c.Display.CaseSensitive,
		ShowHidden:    c.Display.ShowHidden,
	}
}

// OpenerFor returns the command configured for a mime type, matching the
// longest prefix. Environment variables in the command are expanded.
func (c *Config) OpenerFor(mime string) ([]string, bool) {
	best := -1
	for i, o := range c.Openers {
		if strings.HasPrefix(mime, o.Mime) && (best < 0 || len(o.Mime) > len(c.Openers[best].Mime)) {
			best = i
		}
	}
	if best < 0 {
		return nil, false
	}
	argv := make([]string, 0, len(c.Openers[best].Command))
	for _, a := range c.Openers[best].Command {
		if expanded := os.ExpandEnv(a); expanded != "" {
			argv = append(argv, expanded)
		}
	}
	if len(argv) == 0 {
		return nil, false
	}
	return argv, true
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}
