package cborbody

import (
	"fmt"
	"mime"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileConfig is the TOML form of Config.
type FileConfig struct {
	Limit                int64    `toml:"limit"`
	ContentTypes         []string `toml:"content_types"`
	DisableDecompression bool     `toml:"disable_decompression"`
}

// LoadConfig reads a TOML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}

	return cfg, nil
}

// ParseConfig decodes TOML data into a Config. Fields left out of the file
// stay zero and are inherited when the Config is resolved.
func ParseConfig(data []byte) (Config, error) {
	var fc FileConfig

	md, err := toml.Decode(string(data), &fc)
	if err != nil {
		return Config{}, err
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}

		return Config{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}

	return fc.Config()
}

// Config validates fc and converts it.
func (fc FileConfig) Config() (Config, error) {
	if fc.Limit < 0 {
		return Config{}, fmt.Errorf("limit must not be negative, got %d", fc.Limit)
	}

	cfg := Config{
		Limit:                fc.Limit,
		DisableDecompression: fc.DisableDecompression,
	}

	if len(fc.ContentTypes) > 0 {
		for i, t := range fc.ContentTypes {
			if _, _, err := mime.ParseMediaType(t); err != nil {
				return Config{}, fmt.Errorf("content_types[%d] invalid: %w", i, err)
			}
		}

		cfg.ContentType = AcceptMediaTypes(fc.ContentTypes...)
	}

	return cfg, nil
}
