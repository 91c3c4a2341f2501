package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/shipmarket/internal/flagx"
)

var serverFlags = []string{
	"-a", "-d", "-s", "-t", "-r", "-u", "-p", "-b", "-g", "-e",
	"-m", "-rpc", "-chain-id", "-network", "-signer-key", "-keystore",
	"-mint-timeout", "-kafka", "-kafka-topic", "-genai-model", "-log-level",
}

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string            gRPC bind address (e.g., ":50051")
//	-m string            metrics bind address
//	-d string            PostgreSQL DSN
//	-s string            JWT HMAC secret key
//	-t int               access token validity, minutes
//	-r int               refresh token validity, minutes
//	-u / -p string       S3 user and password
//	-b / -g / -e string  S3 bucket, region and base endpoint
//	-rpc string          EVM JSON-RPC URL
//	-chain-id int        expected chain id
//	-network string      network name reported to wallets
//	-signer-key string   hex private key
//	-keystore string     keystore file (passphrase from env or prompt)
//	-mint-timeout dur    bound on submit + receipt wait
//	-kafka string        comma separated broker list
//	-kafka-topic string  change event topic
//	-genai-model string  risk assessment model
//	-log-level string    debug, info, warn or error
//
// os.Args is first filtered with flagx.FilterArgs so other components'
// flags (-c) do not trip the parser.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "address and port to serve metrics")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh_token_validity_duration (in minutes)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	fs.StringVar(&config.RPCURL, "rpc", config.RPCURL, "EVM JSON-RPC URL")
	fs.Int64Var(&config.ChainID, "chain-id", config.ChainID, "chain id")
	fs.StringVar(&config.Network, "network", config.Network, "network name")
	fs.StringVar(&config.SignerPrivateKey, "signer-key", config.SignerPrivateKey, "signer private key (hex)")
	fs.StringVar(&config.SignerKeystore, "keystore", config.SignerKeystore, "signer keystore file")
	fs.DurationVar(&config.MintTimeout, "mint-timeout", config.MintTimeout, "mint timeout")

	brokers := fs.String("kafka", strings.Join(config.KafkaBrokers, ","), "kafka brokers, comma separated")
	fs.StringVar(&config.KafkaTopic, "kafka-topic", config.KafkaTopic, "kafka topic")
	fs.StringVar(&config.GenAIModel, "genai-model", config.GenAIModel, "genai model")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
	config.KafkaBrokers = splitList(*brokers)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
