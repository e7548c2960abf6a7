// Package bootstrap wires the runtime dependencies shared by the commands.
package bootstrap

import (
	"fmt"
	"time"

	"blogapi/internal/cache"
	"blogapi/internal/config"
	"blogapi/internal/database"
	"blogapi/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedDefaults bool
}

// InitRuntime connects to DB and Redis and optionally inserts the default seed data.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// May be nil when Redis is unset or unreachable.
	r := cache.InitRedis(cfg.RedisURL)
	ConfigureCache(cfg)

	if opts.SeedDefaults {
		if err := seed.Initialize(db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed default data: %w", err)
		}
	}

	return db, r, nil
}

// ConfigureCache applies cache settings from cfg.
func ConfigureCache(cfg *config.Config) {
	cache.PostTTL = time.Duration(cfg.PostCacheTTLSeconds) * time.Second
}
