package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"crm-segments/internal/client"
	"crm-segments/internal/config"
	httpapi "crm-segments/internal/http"
	"crm-segments/internal/logger"
	"crm-segments/internal/service"
	"crm-segments/internal/store"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "crm-segments")
	if err != nil {
		log, _ = zap.NewProduction()
	}
	defer log.Sync()

	// 快照缓存：Redis 不可用/未启用时退化为进程内存
	var kv store.KV
	var redisClient *redis.Client
	if cfg.CacheEnabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		kv = store.NewRedisKV(redisClient)
		log.Info("snapshot cache enabled", zap.String("addr", cfg.Redis.Addr))
	} else {
		kv = store.NewMemoryKV()
	}

	crm := client.NewCRMClient(cfg.CRM.BaseURL, cfg.CRM.Timeout, cfg.CRM.Retries, log)

	svc := service.NewSegmentService(crm, crm, kv, log)
	svc.SetSearchInTags(cfg.SearchInTags)

	bootCtx, bootCancel := context.WithTimeout(context.Background(), cfg.CRM.Timeout+5*time.Second)
	svc.Bootstrap(bootCtx)
	bootCancel()

	router := httpapi.NewRouter(log)
	router.RegisterCustomerRoutes(httpapi.NewCustomerHandler(svc, log))

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
	case <-errCh:
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	if redisClient != nil {
		_ = redisClient.Close()
	}
}
