// Package config loads runtime configuration for the shipmarket terminal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c / -config or SHIPMARKET_CLI_CONFIG.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the marketplace gRPC endpoint
//	-i int      online status check interval (seconds)
//	-d string   offline cache database file
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "request_timeout": "30s",
//	  "cache_path": "shipmarket-cache.db"
//	}
package config
