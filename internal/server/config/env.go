package config

import "github.com/ilyakaznacheev/cleanenv"

// readEnv is a seam for tests.
var readEnv = cleanenv.ReadEnv

// parseEnv overlays variables named by the env tags on Config. Unset
// variables leave the current value alone. Malformed values panic, like
// the JSON and flag layers.
func parseEnv(config *Config) {
	if err := readEnv(config); err != nil {
		panic(err)
	}
}
