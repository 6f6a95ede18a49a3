package configutil

import (
	"flag"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const EnvPrefix = "STEAMID"

// Load layers configuration for a command. From lowest to highest
// precedence: defaults, the config file at path (if any), STEAMID_*
// environment variables, then every flag explicitly set on flags.
func Load(flags *flag.FlagSet, path string, defaults map[string]any) (*viper.Viper, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if flags != nil {
		flags.Visit(func(f *flag.Flag) {
			v.Set(f.Name, f.Value.String())
		})
	}

	return v, nil
}
