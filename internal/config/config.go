package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"nodewalk/internal/commands"
	"nodewalk/internal/domain"
	"nodewalk/internal/eventbus"
	"nodewalk/internal/overlay"
)

// UI actions that can be bound next to the navigation commands
const (
	ActionPrompt = "prompt"
	ActionHelp   = "help"
)

// Config represents the application configuration
type Config struct {
	Version int                 `toml:"version"`
	UI      UISettings          `toml:"ui"`
	Keys    map[string][]string `toml:"keys"` // command name -> keys
	Log     LogSettings         `toml:"log"`
	Parser  ParserSettings      `toml:"parser"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	Hint             string           `toml:"hint"`
	BoundaryFeedback bool             `toml:"boundary_feedback"`
	TabWidth         int              `toml:"tab_width"`
	Styles           map[string]Style `toml:"styles"` // hint -> style
}

// Style is how one overlay hint is drawn
type Style struct {
	Foreground string `toml:"foreground,omitempty"`
	Background string `toml:"background,omitempty"`
	Bold       bool   `toml:"bold,omitempty"`
	Underline  bool   `toml:"underline,omitempty"`
}

type LogSettings struct {
	File      string `toml:"file"`
	Verbosity int    `toml:"verbosity"`
}

type ParserSettings struct {
	// Language overrides detection by file name when set
	Language string `toml:"language"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// DefaultPath returns where the config file lives unless told otherwise
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "nodewalk", "config.toml")
}

// NewConfigService creates a config service for the default path
func NewConfigService() ConfigService {
	return &configService{filePath: DefaultPath()}
}

// NewConfigServiceAt creates a config service for path
func NewConfigServiceAt(path string) ConfigService {
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{filePath: path, bus: bus}
}

func (cs *configService) Path() string { return cs.filePath }

// Load loads the configuration, falling back to defaults when the file
// does not exist
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		cfg, err = DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: cs.filePath})
	}
	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path. Settings missing
// from the file keep their defaults.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a TOML document over the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	defaultKeys, defaultStyles := cfg.Keys, cfg.UI.Styles
	cfg.Keys, cfg.UI.Styles = nil, nil

	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("failed to parse config at line %d column %d: %w", row, col, err)
		}
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			return nil, fmt.Errorf("failed to parse config: unknown settings:\n%s", serr.String())
		}
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Commands and hints the file does not mention keep their defaults
	if cfg.Keys == nil {
		cfg.Keys = make(map[string][]string)
	}
	for name, keys := range defaultKeys {
		if _, ok := cfg.Keys[name]; !ok {
			cfg.Keys[name] = keys
		}
	}
	if cfg.UI.Styles == nil {
		cfg.UI.Styles = make(map[string]Style)
	}
	for hint, style := range defaultStyles {
		if _, ok := cfg.UI.Styles[hint]; !ok {
			cfg.UI.Styles[hint] = style
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	// Ensure config directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks hint names, tab width and the keymap
func (c *Config) Validate() error {
	if _, err := overlay.ParseHint(c.UI.Hint); err != nil {
		return fmt.Errorf("ui.hint: %w", err)
	}
	for hint := range c.UI.Styles {
		if _, err := overlay.ParseHint(hint); err != nil {
			return fmt.Errorf("ui.styles: %w", err)
		}
	}
	if c.UI.TabWidth < 1 || c.UI.TabWidth > 16 {
		return fmt.Errorf("ui.tab_width must be between 1 and 16, got %d", c.UI.TabWidth)
	}

	names := make([]string, 0, len(c.Keys))
	for name := range c.Keys {
		names = append(names, name)
	}
	sort.Strings(names)

	bound := make(map[string]string)
	for _, name := range names {
		if !commands.Known(name) && name != ActionPrompt && name != ActionHelp {
			return fmt.Errorf("keys.%s: %w", name, domain.ErrUnknownCommand)
		}
		for _, key := range c.Keys[name] {
			if key == "" {
				return fmt.Errorf("keys.%s: empty key", name)
			}
			if other, ok := bound[key]; ok {
				return fmt.Errorf("key %q is bound to both %s and %s", key, other, name)
			}
			bound[key] = name
		}
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		UI: UISettings{
			Hint:             string(overlay.HintHighlight),
			BoundaryFeedback: true,
			TabWidth:         4,
			Styles: map[string]Style{
				string(overlay.HintHighlight): {Background: "24", Foreground: "255"},
				string(overlay.HintUnderline): {Underline: true},
				string(overlay.HintNone):      {},
			},
		},
		Keys: map[string][]string{
			commands.Prev:         {"alt+left", "alt+h"},
			commands.Next:         {"alt+right", "alt+l"},
			commands.Parent:       {"alt+up", "alt+k"},
			commands.Child:        {"alt+down", "alt+j"},
			commands.Start:        {"alt+a"},
			commands.End:          {"alt+e"},
			commands.Mark:         {"alt+m"},
			commands.DeleteMarker: {"alt+d"},
			commands.ClearAll:     {"alt+c"},
			ActionPrompt:          {"alt+x"},
			ActionHelp:            {"f1"},
		},
	}
}
