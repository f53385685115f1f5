package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/spf13/viper"
)

// Config is the top-level configuration struct. Default() fills every field
// except AssetRoot, which the startup code must supply.
type Config struct {
	// AssetRoot is the directory containing img/no_image.png and img/icon.ico.
	AssetRoot string

	// Read limits.
	MaxImageBytes int64 // 0 = no limit
	ChunkSize     int   // read chunk size in bytes; default 32 KiB

	// Extensions the navigator steps through, lowercase without the dot.
	NavigableExtensions []string

	Save SaveConfig

	LogLevel string // "debug", "info", "warn", "error"
}

// SaveConfig controls the off-thread save pool.
type SaveConfig struct {
	Workers     int // default 1
	QueueSize   int // default 8
	JPEGQuality int // 1-100; default 100
}

// Default returns a Config populated with production defaults.
func Default() Config {
	return Config{
		ChunkSize:           32 * 1024,
		NavigableExtensions: []string{"png", "jpg", "qoi", "ico", "jfif"},
		Save: SaveConfig{
			Workers:     1,
			QueueSize:   8,
			JPEGQuality: 100,
		},
		LogLevel: "info",
	}
}

// PlaceholderPath is the image substituted when every decode stage fails.
func (c Config) PlaceholderPath() string {
	return filepath.Join(c.AssetRoot, "img", "no_image.png")
}

// IconPath is the window icon asset.
func (c Config) IconPath() string {
	return filepath.Join(c.AssetRoot, "img", "icon.ico")
}

// ExecutableDir returns the directory of the running binary. Startup code
// uses it to fill AssetRoot once.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("config: locate executable: %w", err)
	}
	return filepath.Dir(exe), nil
}

// Validate returns an error if the configuration is inconsistent.
func Validate(c Config) error {
	if c.AssetRoot == "" {
		return errors.New("config: AssetRoot must be set")
	}
	if c.ChunkSize <= 0 {
		return errors.New("config: ChunkSize must be positive")
	}
	if c.MaxImageBytes < 0 {
		return errors.New("config: MaxImageBytes must not be negative")
	}
	if len(c.NavigableExtensions) == 0 {
		return errors.New("config: NavigableExtensions must not be empty")
	}
	if c.Save.JPEGQuality < 1 || c.Save.JPEGQuality > 100 {
		return errors.New("config: Save.JPEGQuality must be between 1 and 100")
	}
	if c.Save.Workers <= 0 {
		return errors.New("config: Save.Workers must be positive")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown LogLevel %q", c.LogLevel)
	}
	return nil
}

// Load reads configuration from the file at path (any format viper
// understands) and from IMAGEVIEWER_* environment variables. An empty path
// skips the file. AssetRoot falls back to the executable directory.
func Load(path string) (Config, error) {
	def := Default()
	v := viper.New()

	v.SetDefault("asset_root", "")
	v.SetDefault("max_image_bytes", def.MaxImageBytes)
	v.SetDefault("chunk_size", def.ChunkSize)
	v.SetDefault("navigable_extensions", def.NavigableExtensions)
	v.SetDefault("save.workers", def.Save.Workers)
	v.SetDefault("save.queue_size", def.Save.QueueSize)
	v.SetDefault("save.jpeg_quality", def.Save.JPEGQuality)
	v.SetDefault("log_level", def.LogLevel)

	v.SetEnvPrefix("IMAGEVIEWER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	c := Config{
		AssetRoot:           v.GetString("asset_root"),
		MaxImageBytes:       v.GetInt64("max_image_bytes"),
		ChunkSize:           v.GetInt("chunk_size"),
		NavigableExtensions: splitList(v.GetStringSlice("navigable_extensions")),
		Save: SaveConfig{
			Workers:     v.GetInt("save.workers"),
			QueueSize:   v.GetInt("save.queue_size"),
			JPEGQuality: v.GetInt("save.jpeg_quality"),
		},
		LogLevel: v.GetString("log_level"),
	}
	for i, ext := range c.NavigableExtensions {
		c.NavigableExtensions[i] = strings.TrimPrefix(strings.ToLower(ext), ".")
	}
	if c.AssetRoot == "" {
		dir, err := ExecutableDir()
		if err != nil {
			return Config{}, err
		}
		c.AssetRoot = dir
	}
	if err := Validate(c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// splitList flattens list values. Environment values arrive as one string
// that viper splits on whitespace only, so commas are separators too.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		out = append(out, strings.FieldsFunc(item, func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})...)
	}
	return out
}
