package config

import "time"

// Config holds runtime settings for the shipmarket terminal client.
//
// Fields:
//   - ServerEndpointAddr: host:port of the marketplace gRPC endpoint.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - RequestTimeout: per-call deadline for unary requests.
//   - CachePath: SQLite file holding the offline marketplace snapshot.
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
	CachePath           string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 30 * time.Second
	c.CachePath = "shipmarket-cache.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
