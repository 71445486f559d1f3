package main

import (
	"fmt"

	"go.uber.org/zap"

	"civicworks/internal/cache"
	"civicworks/internal/config"
	"civicworks/internal/database"
	"civicworks/internal/logger"
	"civicworks/internal/notification"
	"civicworks/internal/server"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Env)
	defer logger.Sync()

	database.Init(cfg.DBDSN)
	cache.Init(cfg.RedisAddr)
	notification.Init(cfg)

	r := server.NewRouter(cfg)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	logger.L.Info("starting server", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.L.Fatal("server error", zap.Error(err))
	}
}
