package emu

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/kirsle/configdir"
	"github.com/sarchlab/akita/v4/sim"

	"ldmasim/emu/log"
	"ldmasim/hw/ldma"
)

type Config struct {
	General    GeneralConfig    `toml:"general"`
	Pull       PullConfig       `toml:"pull"`
	Controller ControllerConfig `toml:"controller"`
}

type GeneralConfig struct {
	// Family used by scenarios that don't name one.
	Family string `toml:"family"`
	// Comma-separated list of modules to enable debug logs for.
	Log string `toml:"log"`
}

type PullConfig struct {
	Freq  uint64 `toml:"freq"`  // Hz
	Limit int    `toml:"limit"` // ticks between pulls
}

type ControllerConfig struct {
	WriteBack bool `toml:"write_back"`
}

// DefaultConfig returns the configuration used when none has been saved.
func DefaultConfig() Config {
	def := ldma.DefaultOptions()
	return Config{
		General: GeneralConfig{Family: ldma.EFR32xG22.Name},
		Pull: PullConfig{
			Freq:  uint64(def.PullFreq),
			Limit: def.PullLimit,
		},
		Controller: ControllerConfig{WriteBack: def.WriteBack},
	}
}

// Check replaces invalid values with their defaults.
func (cfg *Config) Check() {
	def := DefaultConfig()
	if _, err := ldma.FamilyByName(cfg.General.Family); err != nil {
		log.ModEmu.Warnf("Invalid family %q, fallback to %q", cfg.General.Family, def.General.Family)
		cfg.General.Family = def.General.Family
	}
	if cfg.Pull.Freq == 0 {
		cfg.Pull.Freq = def.Pull.Freq
	}
	if cfg.Pull.Limit <= 0 {
		cfg.Pull.Limit = def.Pull.Limit
	}
}

// Options returns the controller options described by cfg.
func (cfg Config) Options() ldma.Options {
	return ldma.Options{
		WriteBack: cfg.Controller.WriteBack,
		PullFreq:  sim.Freq(cfg.Pull.Freq),
		PullLimit: cfg.Pull.Limit,
	}
}

var ConfigDir = sync.OnceValue(func() string {
	dir := configdir.LocalConfig("ldmasim")
	if err := configdir.MakePath(dir); err != nil {
		log.ModEmu.Fatalf("failed to create directory %s: %v", dir, err)
	}
	return dir
})

const cfgFilename = "config.toml"

// LoadConfigOrDefault loads the configuration from the ldmasim config
// directory, or provides the default one.
func LoadConfigOrDefault() Config {
	cfg, err := LoadConfig(filepath.Join(ConfigDir(), cfgFilename))
	if err != nil {
		if !os.IsNotExist(err) {
			log.ModEmu.Warnf("ignoring config: %v", err)
		}
		return DefaultConfig()
	}
	return cfg
}

// LoadConfig loads the configuration at path. Missing keys keep their default
// value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return cfg, err
		}
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Check()
	return cfg, nil
}

// SaveConfig into ldmasim config directory.
func SaveConfig(cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(ConfigDir(), cfgFilename), buf, 0644)
}
