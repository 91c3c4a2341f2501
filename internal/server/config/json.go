package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/shipmarket/internal/flagx"
	"github.com/dmitrijs2005/shipmarket/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept both
// "15s" strings and integer nanoseconds via timex.Duration.
type JsonConfig struct {
	EndpointAddrGRPC             string         `json:"endpoint_addr_grpc"`
	MetricsAddr                  string         `json:"metrics_addr"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
	RPCURL                       string         `json:"rpc_url"`
	ChainID                      int64          `json:"chain_id"`
	Network                      string         `json:"network"`
	SignerPrivateKey             string         `json:"signer_private_key"`
	SignerKeystore               string         `json:"signer_keystore"`
	MintTimeout                  timex.Duration `json:"mint_timeout"`
	KafkaBrokers                 []string       `json:"kafka_brokers"`
	KafkaTopic                   string         `json:"kafka_topic"`
	GenAIAPIKey                  string         `json:"genai_api_key"`
	GenAIModel                   string         `json:"genai_model"`
	LogLevel                     string         `json:"log_level"`
}

// parseJson overlays values from the file named by -c / -config (or
// SHIPMARKET_CONFIG). Keys missing from the file keep their current value.
// An unreadable or malformed file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFile(envPrefix + "_CONFIG")

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.MetricsAddr, c.MetricsAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.RefreshTokenValidityDuration, c.RefreshTokenValidityDuration)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.RPCURL, c.RPCURL)
	if c.ChainID != 0 {
		config.ChainID = c.ChainID
	}
	setString(&config.Network, c.Network)
	setString(&config.SignerPrivateKey, c.SignerPrivateKey)
	setString(&config.SignerKeystore, c.SignerKeystore)
	setDuration(&config.MintTimeout, c.MintTimeout)
	if len(c.KafkaBrokers) > 0 {
		config.KafkaBrokers = c.KafkaBrokers
	}
	setString(&config.KafkaTopic, c.KafkaTopic)
	setString(&config.GenAIAPIKey, c.GenAIAPIKey)
	setString(&config.GenAIModel, c.GenAIModel)
	setString(&config.LogLevel, c.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
