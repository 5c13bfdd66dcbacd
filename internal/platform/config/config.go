package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr          string
	DatabaseURL   string
	Redis         RedisConfig
	JWTSigningKey string
	JWTIssuer     string
	// SubjectTreeTTL bounds staleness of the cached subject tree. Minutes
	// readiness is never cached; only the classification tree is.
	SubjectTreeTTL time.Duration
}

// RedisConfig captures the optional Redis cache connection.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("PLENARIO_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default - must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "plenario"
	}

	treeTTL := 5 * time.Minute
	if raw := os.Getenv("SUBJECT_TREE_TTL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			treeTTL = parsed
		}
	}

	return Server{
		Addr:           addr,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		Redis:          redisFromEnv(),
		JWTSigningKey:  jwtSigningKey,
		JWTIssuer:      jwtIssuer,
		SubjectTreeTTL: treeTTL,
	}
}

func redisFromEnv() RedisConfig {
	cfg := RedisConfig{
		URL:          os.Getenv("REDIS_URL"),
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
	if raw := os.Getenv("REDIS_POOL_SIZE"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.PoolSize = n
		}
	}
	return cfg
}
