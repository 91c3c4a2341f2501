package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/shipmarket/internal/flagx"
	"github.com/dmitrijs2005/shipmarket/internal/timex"
)

const configEnv = "SHIPMARKET_CLI_CONFIG"

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	CachePath           string         `json:"cache_path"`
}

// parseJson overlays Config with values loaded from a JSON file selected by
// -c/-config or SHIPMARKET_CLI_CONFIG. Only non-zero values are copied.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFile(configEnv)
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.CachePath != "" {
		cfg.CachePath = jc.CachePath
	}
}
