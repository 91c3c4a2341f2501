package config

import "github.com/kelseyhightower/envconfig"

const envPrefix = "SHIPMARKET"

// parseEnv overlays SHIPMARKET_* variables. Unset variables leave the
// current value alone.
func parseEnv(config *Config) {
	if err := envconfig.Process(envPrefix, config); err != nil {
		panic(err)
	}
}
