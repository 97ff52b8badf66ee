package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file name looked up in the working directory.
const DefaultConfigFile = "orbcat.yaml"

// Config is the in-memory representation of orbcat.yaml.
//
// DefaultDiameter and DefaultEpoch are pointers so that an explicit 0 in the
// file is kept; only an absent key falls back to the built-in default.
type Config struct {
	Input           string  `yaml:"input"`
	OutDir          string  `yaml:"out_dir"`
	BinaryFile      string  `yaml:"binary_file,omitempty"`
	MetadataFile    string  `yaml:"metadata_file,omitempty"`
	DefaultDiameter *float64 `yaml:"default_diameter,omitempty"`
	DefaultEpoch    *float64 `yaml:"default_epoch,omitempty"`
	UnknownClass    string  `yaml:"unknown_class,omitempty"`
	LogLevel        string  `yaml:"log_level,omitempty"`
}

// OrbcatDir returns the absolute path to ~/.orbcat/.
func OrbcatDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".orbcat"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand ~: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

// DefaultConfig returns the configuration used when no orbcat.yaml exists.
func DefaultConfig() *Config {
	return &Config{
		Input:           filepath.Join("public", "data", "orbital_elements.csv"),
		OutDir:          filepath.Join("public", "data"),
		BinaryFile:      "asteroids.bin",
		MetadataFile:    "metadata.json",
		DefaultDiameter: float(1.0),
		DefaultEpoch:    float(59000.0),
		UnknownClass:    "UNK",
		LogLevel:        "info",
	}
}

// Load reads and parses the config at path. A missing file yields the defaults.
// Relative input and output paths are resolved against the config file's directory.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	cfg.fillDefaults()

	base := filepath.Dir(path)
	if cfg.Input, err = resolve(base, cfg.Input); err != nil {
		return nil, err
	}
	if cfg.OutDir, err = resolve(base, cfg.OutDir); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save marshals cfg and writes it to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides file values with ORBCAT_* settings from the environment
// or ~/.orbcat/.env.
func (c *Config) ApplyEnv() error {
	overrides := []struct {
		key  string
		dst  *string
		path bool
	}{
		{"ORBCAT_INPUT", &c.Input, true},
		{"ORBCAT_OUT_DIR", &c.OutDir, true},
		{"ORBCAT_LOG_LEVEL", &c.LogLevel, false},
	}
	for _, o := range overrides {
		v, err := GetConfigValue(o.key)
		if err != nil {
			return err
		}
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if !o.path {
			*o.dst = v
			continue
		}
		p, err := ExpandPath(v)
		if err != nil {
			return err
		}
		*o.dst = p
	}
	return nil
}

// BinaryPath returns the full path of the binary catalog artifact.
func (c *Config) BinaryPath() string {
	return filepath.Join(c.OutDir, c.BinaryFile)
}

// MetadataPath returns the full path of the JSON sidecar artifact.
func (c *Config) MetadataPath() string {
	return filepath.Join(c.OutDir, c.MetadataFile)
}

// DiameterDefault returns the diameter substituted for absent or unparseable cells.
func (c *Config) DiameterDefault() float64 {
	if c.DefaultDiameter == nil {
		return *DefaultConfig().DefaultDiameter
	}
	return *c.DefaultDiameter
}

// EpochDefault returns the epoch substituted for absent or unparseable cells.
func (c *Config) EpochDefault() float64 {
	if c.DefaultEpoch == nil {
		return *DefaultConfig().DefaultEpoch
	}
	return *c.DefaultEpoch
}

func (c *Config) fillDefaults() {
	d := DefaultConfig()
	if c.BinaryFile == "" {
		c.BinaryFile = d.BinaryFile
	}
	if c.MetadataFile == "" {
		c.MetadataFile = d.MetadataFile
	}
	if c.DefaultDiameter == nil {
		c.DefaultDiameter = d.DefaultDiameter
	}
	if c.DefaultEpoch == nil {
		c.DefaultEpoch = d.DefaultEpoch
	}
	if strings.TrimSpace(c.UnknownClass) == "" {
		c.UnknownClass = d.UnknownClass
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
}

func resolve(base, p string) (string, error) {
	p, err := ExpandPath(p)
	if err != nil {
		return "", err
	}
	if p == "" || filepath.IsAbs(p) {
		return p, nil
	}
	return filepath.Join(base, p), nil
}

func float(v float64) *float64 { return &v }
