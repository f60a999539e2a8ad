// Package config provides configuration management for the lyrics overlay.
package config

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/NaveLIL/lyrics-overlay/style"
)

//go:embed config.yaml
var defaultConfig embed.FS

// AppName names the per-user configuration directory.
const AppName = "LyricsOverlay"

// Config holds all application configuration.
type Config struct {
	Overlay  OverlayConfig  `mapstructure:"overlay"`
	Fonts    FontsConfig    `mapstructure:"fonts"`
	Control  ControlConfig  `mapstructure:"control"`
	Hotkeys  HotkeysConfig  `mapstructure:"hotkeys"`
	UI       UIConfig       `mapstructure:"ui"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Headless HeadlessConfig `mapstructure:"headless"`
}

// OverlayConfig holds the initial overlay style.
type OverlayConfig struct {
	// X and Y are the screen position of the top-left corner.
	X int `mapstructure:"x"`
	Y int `mapstructure:"y"`
	// Width is the surface width in pixels. Height is derived from the font.
	Width int `mapstructure:"width"`
	// Padding is the inner margin in pixels.
	Padding int `mapstructure:"padding"`
	// Lines is the number of text lines (1..10).
	Lines int `mapstructure:"lines"`
	// Align is "left", "center" or "right".
	Align string `mapstructure:"align"`
	// BackdropAlpha is the backdrop opacity (0..255).
	BackdropAlpha int `mapstructure:"backdrop_alpha"`
	// TextOpacity is the glyph opacity (0..255).
	TextOpacity int `mapstructure:"text_opacity"`
	// FontFamily is the font family name.
	FontFamily string `mapstructure:"font_family"`
	// FontSize is the font size in points. 0 uses the default size.
	FontSize int `mapstructure:"font_size"`
	// FontWeight is a weight (100..900) or a name such as "semibold". Empty leaves it unset.
	FontWeight string `mapstructure:"font_weight"`
	// Bold enables bold text when no weight is set.
	Bold bool `mapstructure:"bold"`
	// TextColor is the glyph colour as #RRGGBB.
	TextColor string `mapstructure:"text_color"`
	// StrokeWidth is the outline width in pixels (0..20).
	StrokeWidth int `mapstructure:"stroke_width"`
	// StrokeColor is the outline colour as #RRGGBB.
	StrokeColor string `mapstructure:"stroke_color"`
	// BackdropColor is the backdrop fill colour as #RRGGBB.
	BackdropColor string `mapstructure:"backdrop_color"`
	// ClickThrough starts the overlay without intercepting input.
	ClickThrough bool `mapstructure:"click_through"`
	// ShowOnStart creates and shows the overlay at startup.
	ShowOnStart bool `mapstructure:"show_on_start"`
	// Text is shown until a controller sets something else.
	Text string `mapstructure:"text"`
}

// FontsConfig holds font lookup settings for the portable backend.
type FontsConfig struct {
	// SystemFonts enables lookup of installed fonts by family.
	SystemFonts bool `mapstructure:"system_fonts"`
	// CacheDir holds the font index. Empty uses the user cache dir.
	CacheDir string `mapstructure:"cache_dir"`
	// DPI converts points to pixels.
	DPI float64 `mapstructure:"dpi"`
}

// ControlConfig holds the control server settings.
type ControlConfig struct {
	// Stdio serves JSON-lines requests on stdin/stdout.
	Stdio bool `mapstructure:"stdio"`
	// Listen is an optional TCP address such as "127.0.0.1:47800".
	Listen string `mapstructure:"listen"`
}

// HotkeysConfig holds global hotkey bindings.
type HotkeysConfig struct {
	// Enabled registers the hotkeys.
	Enabled bool `mapstructure:"enabled"`
	// ClickThrough toggles click-through (lock).
	ClickThrough string `mapstructure:"click_through"`
	// Visibility toggles show/hide.
	Visibility string `mapstructure:"visibility"`
}

// UIConfig holds UI-related settings.
type UIConfig struct {
	// TrayEnabled enables the system tray icon.
	TrayEnabled bool `mapstructure:"tray_enabled"`
	// Autostart enables automatic startup with Windows.
	Autostart bool `mapstructure:"autostart"`
}

// LoggingConfig holds logging-related settings.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string `mapstructure:"level"`
	// ToFile enables logging to a file.
	ToFile bool `mapstructure:"to_file"`
	// FilePath is the path to the log file (relative to config dir if not absolute).
	FilePath string `mapstructure:"file_path"`
	// MaxFileSize is the maximum log file size before rotation.
	MaxFileSize string `mapstructure:"max_file_size"`
	// MaxAge is the maximum age of log files in days.
	MaxAge int `mapstructure:"max_age"`
	// MaxBackups is the maximum number of old log files to retain.
	MaxBackups int `mapstructure:"max_backups"`
	// BufferSize is the number of recent entries kept in memory.
	BufferSize int `mapstructure:"buffer_size"`
	// Colors forces coloured output.
	Colors bool `mapstructure:"colors"`
}

// HeadlessConfig holds settings for the in-memory platform.
type HeadlessConfig struct {
	// DumpDir receives a PNG of every composed frame. Empty disables dumping.
	DumpDir string `mapstructure:"dump_dir"`
}

// Manager handles configuration loading and saving.
type Manager struct {
	mu       sync.RWMutex
	config   *Config
	viper    *viper.Viper
	filePath string
}

var (
	instance *Manager
	once     sync.Once
)

// GetManager returns the singleton configuration manager instance.
func GetManager() *Manager {
	once.Do(func() {
		instance = NewManager()
	})
	return instance
}

// NewManager returns an unloaded manager.
func NewManager() *Manager {
	return &Manager{viper: viper.New()}
}

// Load loads the configuration from the specified file path.
// If the file doesn't exist, it creates a default configuration.
func (m *Manager) Load(configPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.filePath = configPath

	// Set up viper
	m.viper.SetConfigType("yaml")
	m.viper.SetEnvPrefix("LYRICS")
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.viper.AutomaticEnv()

	// Set defaults
	m.setDefaults()

	// Try to read the config file
	if configPath != "" {
		m.viper.SetConfigFile(configPath)
		if err := m.viper.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				return fmt.Errorf("failed to read config: %w", err)
			}
			// Create default config file
			if err := m.createDefaultConfig(configPath); err != nil {
				return fmt.Errorf("failed to create default config: %w", err)
			}
		}
	} else {
		// Use embedded default config
		data, err := defaultConfig.ReadFile("config.yaml")
		if err != nil {
			return fmt.Errorf("failed to read embedded config: %w", err)
		}
		if err := m.viper.ReadConfig(bytes.NewReader(data)); err != nil {
			return fmt.Errorf("failed to parse embedded config: %w", err)
		}
	}

	// Unmarshal into config struct
	m.config = &Config{}
	if err := m.viper.Unmarshal(m.config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return nil
}

// Save saves the current configuration to the file.
func (m *Manager) Save() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.filePath == "" {
		return fmt.Errorf("no config file path set")
	}

	return m.viper.WriteConfigAs(m.filePath)
}

// SaveAs saves the configuration to a new file.
func (m *Manager) SaveAs(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.filePath = path
	m.viper.SetConfigFile(path)
	return m.viper.WriteConfigAs(path)
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// FilePath returns the file the configuration was loaded from.
func (m *Manager) FilePath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.filePath
}

// Update updates the configuration with a modifier function.
func (m *Manager) Update(modifier func(*Config)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.config == nil {
		return fmt.Errorf("configuration not loaded")
	}
	modifier(m.config)

	sections := map[string]any{
		"overlay":  m.config.Overlay,
		"fonts":    m.config.Fonts,
		"control":  m.config.Control,
		"hotkeys":  m.config.Hotkeys,
		"ui":       m.config.UI,
		"logging":  m.config.Logging,
		"headless": m.config.Headless,
	}
	for name, section := range sections {
		var values map[string]any
		if err := mapstructure.Decode(section, &values); err != nil {
			return fmt.Errorf("encode %s section: %w", name, err)
		}
		for k, v := range values {
			m.viper.Set(name+"."+k, v)
		}
	}

	return nil
}

// GetConfigDir returns the configuration directory path.
func GetConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, AppName), nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

// setDefaults sets default configuration values.
func (m *Manager) setDefaults() {
	// Overlay defaults
	m.viper.SetDefault("overlay.x", style.DefaultX)
	m.viper.SetDefault("overlay.y", style.DefaultY)
	m.viper.SetDefault("overlay.width", style.DefaultWidth)
	m.viper.SetDefault("overlay.padding", style.DefaultPadding)
	m.viper.SetDefault("overlay.lines", 1)
	m.viper.SetDefault("overlay.align", "left")
	m.viper.SetDefault("overlay.backdrop_alpha", style.DefaultBackdropAlpha)
	m.viper.SetDefault("overlay.text_opacity", 255)
	m.viper.SetDefault("overlay.font_family", style.DefaultFontFamily)
	m.viper.SetDefault("overlay.font_size", style.DefaultFontSize)
	m.viper.SetDefault("overlay.font_weight", "")
	m.viper.SetDefault("overlay.bold", false)
	m.viper.SetDefault("overlay.text_color", "#FFFFFF")
	m.viper.SetDefault("overlay.stroke_width", 0)
	m.viper.SetDefault("overlay.stroke_color", "#000000")
	m.viper.SetDefault("overlay.backdrop_color", "#000000")
	m.viper.SetDefault("overlay.click_through", false)
	m.viper.SetDefault("overlay.show_on_start", false)
	m.viper.SetDefault("overlay.text", "")

	// Fonts defaults
	m.viper.SetDefault("fonts.system_fonts", true)
	m.viper.SetDefault("fonts.cache_dir", "")
	m.viper.SetDefault("fonts.dpi", 96.0)

	// Control defaults
	m.viper.SetDefault("control.stdio", true)
	m.viper.SetDefault("control.listen", "")

	// Hotkeys defaults
	m.viper.SetDefault("hotkeys.enabled", true)
	m.viper.SetDefault("hotkeys.click_through", "Ctrl+Alt+L")
	m.viper.SetDefault("hotkeys.visibility", "Ctrl+Alt+H")

	// UI defaults
	m.viper.SetDefault("ui.tray_enabled", true)
	m.viper.SetDefault("ui.autostart", false)

	// Logging defaults
	m.viper.SetDefault("logging.level", "info")
	m.viper.SetDefault("logging.to_file", true)
	m.viper.SetDefault("logging.file_path", "logs/lyrics-overlay.log")
	m.viper.SetDefault("logging.max_file_size", "10MB")
	m.viper.SetDefault("logging.max_age", 7)
	m.viper.SetDefault("logging.max_backups", 5)
	m.viper.SetDefault("logging.buffer_size", 200)
	m.viper.SetDefault("logging.colors", false)

	// Headless defaults
	m.viper.SetDefault("headless.dump_dir", "")
}

// createDefaultConfig creates a default configuration file.
func (m *Manager) createDefaultConfig(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Read embedded default config
	data, err := defaultConfig.ReadFile("config.yaml")
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	return m.viper.ReadConfig(bytes.NewReader(data))
}

// Style builds the initial overlay style from the overlay section.
func (c *Config) Style() (*style.State, error) {
	o := c.Overlay
	s := style.New()

	s.Position.X, s.Position.Y = o.X, o.Y
	s.SetWidth(o.Width)
	if o.Padding >= 0 {
		s.SetPadding(o.Padding)
	}
	s.SetLines(o.Lines)
	s.SetBackdropAlpha(o.BackdropAlpha)
	s.SetTextOpacity(o.TextOpacity)
	s.SetFontFamily(o.FontFamily)
	s.SetFontSize(o.FontSize)
	s.SetBold(o.Bold)
	s.ClickThrough = o.ClickThrough
	s.Text = o.Text

	align, err := style.ParseAlign(o.Align)
	if err != nil {
		return nil, fmt.Errorf("overlay.align: %w", err)
	}
	s.Align = align

	if o.FontWeight != "" {
		w, err := style.ParseWeight(o.FontWeight)
		if err != nil {
			return nil, fmt.Errorf("overlay.font_weight: %w", err)
		}
		s.SetFontWeight(w)
	}

	colors := []struct {
		key string
		val string
		dst *style.Color
	}{
		{"overlay.text_color", o.TextColor, &s.TextColor},
		{"overlay.stroke_color", o.StrokeColor, &s.StrokeColor},
		{"overlay.backdrop_color", o.BackdropColor, &s.BackdropColor},
	}
	for _, col := range colors {
		v, err := style.ParseColor(col.val)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", col.key, err)
		}
		*col.dst = v
	}
	s.SetStroke(o.StrokeWidth, s.StrokeColor)

	return s, nil
}

// RememberPosition stores the overlay position so it is restored on the
// next start.
func (m *Manager) RememberPosition(x, y int) error {
	return m.Update(func(c *Config) {
		c.Overlay.X, c.Overlay.Y = x, y
	})
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() []error {
	var errs []error

	// Validate overlay config
	if c.Overlay.Width <= 0 || c.Overlay.Width > style.MaxWidth {
		errs = append(errs, fmt.Errorf("overlay.width must be between 1 and %d", style.MaxWidth))
	}
	if c.Overlay.Padding < 0 || c.Overlay.Padding > style.MaxPadding {
		errs = append(errs, fmt.Errorf("overlay.padding must be between 0 and %d", style.MaxPadding))
	}
	if c.Overlay.Lines < 1 || c.Overlay.Lines > 10 {
		errs = append(errs, fmt.Errorf("overlay.lines must be between 1 and 10"))
	}
	if c.Overlay.BackdropAlpha < 0 || c.Overlay.BackdropAlpha > 255 {
		errs = append(errs, fmt.Errorf("overlay.backdrop_alpha must be between 0 and 255"))
	}
	if c.Overlay.TextOpacity < 0 || c.Overlay.TextOpacity > 255 {
		errs = append(errs, fmt.Errorf("overlay.text_opacity must be between 0 and 255"))
	}
	if c.Overlay.FontSize < 0 || c.Overlay.FontSize > style.MaxFontSize {
		errs = append(errs, fmt.Errorf("overlay.font_size must be between 0 and %d", style.MaxFontSize))
	}
	if c.Overlay.StrokeWidth < 0 || c.Overlay.StrokeWidth > style.MaxStrokeWidth {
		errs = append(errs, fmt.Errorf("overlay.stroke_width must be between 0 and %d", style.MaxStrokeWidth))
	}
	if _, err := style.ParseAlign(c.Overlay.Align); err != nil {
		errs = append(errs, fmt.Errorf("invalid overlay.align: %s", c.Overlay.Align))
	}
	if c.Overlay.FontWeight != "" {
		if _, err := style.ParseWeight(c.Overlay.FontWeight); err != nil {
			errs = append(errs, fmt.Errorf("invalid overlay.font_weight: %s", c.Overlay.FontWeight))
		}
	}
	for key, v := range map[string]string{
		"text_color":     c.Overlay.TextColor,
		"stroke_color":   c.Overlay.StrokeColor,
		"backdrop_color": c.Overlay.BackdropColor,
	} {
		if _, err := style.ParseColor(v); err != nil {
			errs = append(errs, fmt.Errorf("invalid overlay.%s: %s", key, v))
		}
	}

	// Validate fonts config
	if c.Fonts.DPI < 0 {
		errs = append(errs, fmt.Errorf("fonts.dpi must not be negative"))
	}

	// Validate logging config
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[c.Logging.Level] {
		errs = append(errs, fmt.Errorf("invalid log level: %s", c.Logging.Level))
	}

	return errs
}
