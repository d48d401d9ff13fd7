package main

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	lister "github.com/goliatone/go-lister"
)

// envPrefix prefixes environment overrides, e.g. LISTER_LIMIT=50.
const envPrefix = "LISTER"

// loadConfig reads a lister.Config from path, when given, and LISTER_*
// environment variables. Viper lowercases keys, filter keys included.
func loadConfig(path string) (lister.Config, error) {
	v := viper.New()

	// register the scalar keys so AutomaticEnv can override them
	v.SetDefault("page", 0)
	v.SetDefault("limit", 0)
	v.SetDefault("sort", "")
	v.SetDefault("order", "")
	v.SetDefault("search", "")
	v.SetDefault("valid_limits", nil)
	v.SetDefault("valid_sorts", nil)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return lister.Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var cfg lister.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return lister.Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
