// Package config models the workspace-configuration payload a client may
// push via workspace/didChangeConfiguration. The wire payload's schema is
// left unspecified by the protocol this server implements; this is a
// conservative superset inferred from the original server's own reach for
// a single validator-binary path plus optional extra include directories.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the advisory, entirely-optional workspace configuration. The
// zero value reproduces today's behavior: no external driver configured,
// no extra include roots.
type Config struct {
	// ValidatorPath is the path to an external GLSL validator binary
	// (e.g. glslangValidator). Empty means the driver is unavailable and
	// lints degrade to graph/merge-only diagnostics.
	ValidatorPath string `yaml:"validatorPath"`

	// ExtraIncludeRoots lists additional include search roots. It is
	// parsed but not read by the include scanner: absolute-in-pack targets
	// resolve only against the workspace's own shaders/ directory.
	ExtraIncludeRoots []string `yaml:"extraIncludeRoots"`

	// LogPath, if set, redirects server logging to a file instead of
	// stderr.
	LogPath string `yaml:"logPath"`

	// Verbosity is the commonlog verbosity level; 0 disables logging.
	Verbosity int `yaml:"verbosity"`
}

// Default returns the zero-value Config.
func Default() Config {
	return Config{}
}

// Load reads and parses a YAML configuration file at path.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return c, nil
}

// Decode parses a configuration payload already held in memory, e.g. the
// arguments object of a workspace/didChangeConfiguration notification
// after being re-marshaled to YAML/JSON (both are accepted by yaml.v3).
func Decode(raw []byte) (Config, error) {
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Config{}, fmt.Errorf("config: decoding payload: %w", err)
	}
	return c, nil
}
