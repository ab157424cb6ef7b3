package main

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/kirsle/configdir"

	"nv2apretty/log"
)

type Config struct {
	Decode DecodeConfig `toml:"decode"`
	Render RenderConfig `toml:"render"`
}

type DecodeConfig struct {
	// Layout is the final combiner layout variant assumed when the
	// --layout flag is not given.
	Layout string `toml:"layout"`
}

type RenderConfig struct {
	HideConstants bool `toml:"hide_constants"`
}

var ConfigDir string = sync.OnceValue(func() string {
	dir := configdir.LocalConfig("nv2apretty")
	if err := configdir.MakePath(dir); err != nil {
		log.ModMain.Fatalf("failed to create directory %s: %v", dir, err)
	}
	return dir
})()

const cfgFilename = "config.toml"

// LoadConfigOrDefault loads the configuration from the nv2apretty config
// directory, or provide a default one.
func LoadConfigOrDefault() Config {
	var cfg Config
	_, err := toml.DecodeFile(filepath.Join(ConfigDir, cfgFilename), &cfg)
	if err != nil {
		return Config{
			Decode: DecodeConfig{Layout: "xdk"},
		}
	}
	if cfg.Decode.Layout == "" {
		cfg.Decode.Layout = "xdk"
	}
	return cfg
}

// SaveConfig into nv2apretty config directory.
func SaveConfig(cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(ConfigDir, cfgFilename), buf, 0644)
}
