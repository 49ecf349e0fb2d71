package app

import (
	"github.com/redis/go-redis/v9"

	"github.com/badgeboard/badgeboard-backend/internal/clients/directory"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/logger"
)

type Clients struct {
	Directory directory.Client
	Redis     *redis.Client
}

func wireClients(cfg Config, log *logger.Logger) Clients {
	log.Info("Wiring clients...")

	dir := directory.NewStaticClient()
	var rdb *redis.Client
	if cfg.DirectoryCacheOn {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		dir = directory.NewCachedClient(dir, rdb, cfg.DirectoryCacheTTL, log)
	}
	return Clients{Directory: dir, Redis: rdb}
}
