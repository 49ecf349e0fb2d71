package app

import (
	"time"

	"github.com/badgeboard/badgeboard-backend/internal/pkg/logger"
	"github.com/badgeboard/badgeboard-backend/internal/utils"
)

type Config struct {
	Port              string
	JWTSecretKey      string
	TokenTTL          time.Duration
	RedisAddr         string
	DirectoryCacheTTL time.Duration
	DirectoryCacheOn  bool
}

func LoadConfig(log *logger.Logger) Config {
	port := utils.GetEnv("PORT", "8080", log)
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	tokenTTLSeconds := utils.GetEnvAsInt("TOKEN_TTL", 86400, log)
	redisAddr := utils.GetEnv("REDIS_ADDR", "", log)
	dirCacheTTLSeconds := utils.GetEnvAsInt("DIRECTORY_CACHE_TTL", 3600, log)
	return Config{
		Port:              port,
		JWTSecretKey:      jwtSecretKey,
		TokenTTL:          time.Duration(tokenTTLSeconds) * time.Second,
		RedisAddr:         redisAddr,
		DirectoryCacheTTL: time.Duration(dirCacheTTLSeconds) * time.Second,
		DirectoryCacheOn:  redisAddr != "",
	}
}
