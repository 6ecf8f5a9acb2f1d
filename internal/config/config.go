// Package config resolves codeplug settings from a YAML config file, the
// environment (CODEPLUG_*) and command-line flags, in increasing priority.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultSheet is the source sheet name used when none is configured.
	DefaultSheet = "Import"
	// DefaultAnytoneSheet is the sheet the interactive UI creates.
	DefaultAnytoneSheet = "Anytone"

	envPrefix = "CODEPLUG"
	fileName  = "codeplug"
)

type Config struct {
	Sheet        string        `mapstructure:"sheet"`
	AnytoneSheet string        `mapstructure:"anytone_sheet"`
	Report       string        `mapstructure:"report"`
	Anytone      AnytoneConfig `mapstructure:"anytone"`
}

type AnytoneConfig struct {
	// Defaults replaces Anytone column defaults, keyed by column header.
	// Keys are lower-cased by viper; column matching ignores case.
	Defaults map[string]any `mapstructure:"defaults"`
}

// Setup registers defaults, the config search path and the environment
// binding on v. cfgFile, when set, is used instead of the search path.
func Setup(v *viper.Viper, cfgFile string) {
	v.SetDefault("sheet", DefaultSheet)
	v.SetDefault("anytone_sheet", DefaultAnytoneSheet)
	v.SetDefault("report", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(fileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", fileName))
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads the config file, if any, and decodes the merged settings.
// It returns the path of the file used, or "" when none was found.
func Load(v *viper.Viper) (*Config, string, error) {
	used := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, "", err
		}
	} else {
		used = v.ConfigFileUsed()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", err
	}
	return &cfg, used, nil
}
