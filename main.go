package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/pinet/pinet/internal/config"
	"github.com/pinet/pinet/internal/database"
	"github.com/pinet/pinet/internal/handlers"
	"github.com/pinet/pinet/internal/logger"
)

func main() {
	config.Load()

	appLog, err := logger.New(logger.Options{
		Level:  config.AppEnv.LogLevel,
		Format: config.AppEnv.LogFormat,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer appLog.Close()

	ctx := context.Background()
	store, err := database.Open(ctx, config.AppEnv, appLog)
	if err != nil {
		appLog.Error("store unavailable", "driver", config.AppEnv.StoreDriver, "error", err)
		log.Fatal(err)
	}
	defer store.Close(ctx)

	gin.SetMode(gin.ReleaseMode)
	r := handlers.NewRouter(store, appLog, handlers.RouterOptions{
		JWTSecret:      config.AppEnv.JWTSecret,
		AccessTokenTTL: config.AppEnv.AccessTokenTTL,
	})

	addr := fmt.Sprintf(":%d", config.AppEnv.Port)
	appLog.Info("pin store listening", "addr", addr, "driver", config.AppEnv.StoreDriver)
	if err := r.Run(addr); err != nil {
		appLog.Error("server stopped", "error", err)
	}
}
