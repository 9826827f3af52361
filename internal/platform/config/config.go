// Package config builds runtime configuration from environment variables so
// main stays lean. Defaults suit local development; production overrides
// everything via the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"namegate/internal/naming"
)

// Server captures process-level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string

	// Empty means the memory-backed store is used instead.
	RedisURL    string
	PostgresDSN string

	// Empty means events go to the structured log.
	KafkaBrokers []string
	KafkaTopic   string
	EventBuffer  int

	// DevFaucet credits every account on first use when running against the
	// in-memory ledger. Zero disables it.
	DevFaucet uint64

	// BlockInterval is the wall-time length of one logical block.
	BlockInterval time.Duration
	// GenesisUnix anchors block zero. Zero means process start.
	GenesisUnix int64

	Params naming.Params
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	return Server{
		Addr:          getenv("NAMEGATE_ADDR", ":8080"),
		JWTSigningKey: getenv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		RedisURL:      os.Getenv("NAMEGATE_REDIS_URL"),
		PostgresDSN:   os.Getenv("NAMEGATE_POSTGRES_DSN"),
		KafkaBrokers:  split(os.Getenv("NAMEGATE_KAFKA_BROKERS")),
		KafkaTopic:    getenv("NAMEGATE_KAFKA_TOPIC", "namegate.events"),
		EventBuffer:   int(getuint("NAMEGATE_EVENT_BUFFER", 1024)),
		DevFaucet:     getuint("NAMEGATE_DEV_FAUCET", 0),
		BlockInterval: getduration("NAMEGATE_BLOCK_INTERVAL", 6*time.Second),
		GenesisUnix:   int64(getuint("NAMEGATE_GENESIS_UNIX", 0)),
		Params:        ParamsFromEnv(),
	}
}

// ParamsFromEnv builds the protocol constants. Defaults mirror a small test
// network: short commitment windows, modest deposits.
func ParamsFromEnv() naming.Params {
	return naming.Params{
		CommitmentDeposit:           naming.Balance(getuint("NAMEGATE_COMMITMENT_DEPOSIT", 1_000)),
		SubNodeDeposit:              naming.Balance(getuint("NAMEGATE_SUBNODE_DEPOSIT", 500)),
		MinCommitmentAge:            naming.BlockNumber(getuint("NAMEGATE_MIN_COMMITMENT_AGE", 10)),
		MaxCommitmentAge:            naming.BlockNumber(getuint("NAMEGATE_MAX_COMMITMENT_AGE", 100)),
		BlocksPerRegistrationPeriod: naming.BlockNumber(getuint("NAMEGATE_BLOCKS_PER_PERIOD", 100_000)),
		FeeBeneficiary:              naming.AccountID(getenv("NAMEGATE_FEE_BENEFICIARY", "treasury")),
		Fees: naming.FeeSchedule{
			TierThreeLetters:         naming.Balance(getuint("NAMEGATE_TIER_THREE_LETTERS", 10_000)),
			TierFourLetters:          naming.Balance(getuint("NAMEGATE_TIER_FOUR_LETTERS", 5_000)),
			TierDefault:              naming.Balance(getuint("NAMEGATE_TIER_DEFAULT", 1_000)),
			FeePerRegistrationPeriod: naming.Balance(getuint("NAMEGATE_FEE_PER_PERIOD", 100)),
		},
	}
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getuint(key string, fallback uint64) uint64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getduration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func split(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
