// Package config loads the zipl-sync configuration file. Every setting has a
// compiled-in default matching a stock s390x deployment, so a missing file
// is not an error.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
)

// DefaultPath is consulted when no --config flag is given.
const DefaultPath = "/etc/zipl-sync/zipl-sync.toml"

type ziplConfig struct {
	BootDir     string `toml:"boot_dir"`
	UpdateStamp string `toml:"update_stamp"`
}

type secureExecutionConfig struct {
	HostKeyDir    string `toml:"hostkey_dir"`
	HostKeyPrefix string `toml:"hostkey_prefix"`
	BootImage     string `toml:"boot_image"`
	InitrdImage   string `toml:"initrd_image"`
	LUKSRootKey   string `toml:"luks_root_key"`
	LUKSConfig    string `toml:"luks_config"`
	RamdiskTool   string `toml:"ramdisk_tool"`
}

// Config is the parsed configuration file.
type Config struct {
	// Backend names the boot loader backend to drive; there is no
	// auto-detection.
	Backend string `toml:"backend"`

	Zipl            ziplConfig            `toml:"zipl"`
	SecureExecution secureExecutionConfig `toml:"secure_execution"`
}

// Parse reads file, falling back to defaults when it does not exist.
func Parse(file string) (*Config, error) {
	config := Config{Backend: "zipl"}

	if _, err := toml.DecodeFile(file, &config); err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "parsing %s", file)
		}
		logrus.Info("configuration file not found, using defaults")
	}

	switch config.Backend {
	case "zipl":
		// good and supported
	default:
		return nil, errors.Newf("backend needs to be zipl, got: %q", config.Backend)
	}

	return &config, nil
}
