package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	// TenantID is the club this core instance serves; the live feed and every
	// tenant-scoped service are bound to it at startup.
	TenantID string `env:"TENANT_ID, default=club_1"`
	// ClientID distinguishes this instance's referral slot in Redis. Left
	// empty, a random one is generated at startup.
	ClientID string `env:"CLIENT_ID"`

	PromoterSuffix string `env:"PROMOTER_EMAIL_SUFFIX, default=@promo.nightflow.com"`
	LinkDomain     string `env:"PROMOTER_LINK_DOMAIN,  default=nightflow.com"`

	Mongo    MongoConfig
	Redis    RedisConfig
	LLM      LLMConfig
	Snapshot SnapshotConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=nightflow"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type LLMConfig struct {
	Endpoint string        `env:"LLM_ENDPOINT, default=https://api.openai.com/v1/chat/completions"`
	APIKey   string        `env:"LLM_API_KEY"`
	Model    string        `env:"LLM_MODEL,    default=gpt-4o-mini"`
	Timeout  time.Duration `env:"LLM_TIMEOUT,  default=30s"`
}

// SnapshotConfig seeds the in-memory snapshot before the first
// reconciliation. Check-ins and revenue are replaced by the first reconcile;
// pending tickets and occupancy only ever move through feed deltas.
type SnapshotConfig struct {
	Checkins       int `env:"SEED_CHECKINS,        default=42"`
	PendingTickets int `env:"SEED_PENDING_TICKETS, default=7"`
	Occupancy      int `env:"SEED_OCCUPANCY,       default=18"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
