// Package config builds runtime configuration from environment variables so
// main stays lean. Every knob has a development default; production deploys
// override via env.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   Server
	Postgres Postgres
	Redis    Redis
	Kafka    Kafka
	Relay    Relay
	Auth     Auth
}

type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
}

type Postgres struct {
	// URL is empty when running on in-memory stores (dev, tests).
	URL string
}

type Redis struct {
	// URL is empty when relay nonces live in the primary store instead.
	URL string
}

type Kafka struct {
	// Brokers is empty when the audit trail is not exported.
	Brokers []string
	Topic   string
}

type Relay struct {
	DomainName    string
	DomainVersion string
	NetworkID     string
	InstanceID    string
	// PlatformOnly restricts who may submit envelopes; signature
	// verification protects integrity either way.
	PlatformOnly bool
}

type Auth struct {
	JWTSigningKey string
	// OwnerAddress and PlatformAddress seed the gateway roles at startup.
	OwnerAddress    string
	PlatformAddress string
}

// FromEnv reads the full configuration.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:            getenv("KUSTODIA_ADDR", ":8080"),
			ShutdownTimeout: getenvDuration("KUSTODIA_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Postgres: Postgres{
			URL: os.Getenv("KUSTODIA_POSTGRES_URL"),
		},
		Redis: Redis{
			URL: os.Getenv("KUSTODIA_REDIS_URL"),
		},
		Kafka: Kafka{
			Brokers: splitList(os.Getenv("KUSTODIA_KAFKA_BROKERS")),
			Topic:   getenv("KUSTODIA_KAFKA_AUDIT_TOPIC", "kustodia.audit"),
		},
		Relay: Relay{
			DomainName:    getenv("KUSTODIA_RELAY_DOMAIN", "kustodia"),
			DomainVersion: getenv("KUSTODIA_RELAY_VERSION", "1"),
			NetworkID:     getenv("KUSTODIA_RELAY_NETWORK_ID", "dev"),
			InstanceID:    getenv("KUSTODIA_RELAY_INSTANCE_ID", "local"),
			PlatformOnly:  getenvBool("KUSTODIA_RELAY_PLATFORM_ONLY", true),
		},
		Auth: Auth{
			// Dev default, must be overridden in production.
			JWTSigningKey:   getenv("KUSTODIA_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			OwnerAddress:    os.Getenv("KUSTODIA_OWNER_ADDRESS"),
			PlatformAddress: os.Getenv("KUSTODIA_PLATFORM_ADDRESS"),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
