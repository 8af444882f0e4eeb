package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"du-console/api/handler"
	"du-console/api/middleware"
	"du-console/api/router"
	"du-console/job"
	"du-console/service"
	"du-console/storage/backend"
	"du-console/vars"
)

func main() {
	configPath := flag.String("config", vars.CONFIG_PATH, "path to YAML config (optional)")
	flag.Parse()

	// 1. 加载配置
	cfg, err := vars.Load(*configPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	if cfg.ConfigPath != "" {
		log.Printf("config loaded from %s", cfg.ConfigPath)
	}

	// 2. 外部后端客户端
	client, err := backend.NewClient(cfg.APIBase, cfg.HTTPTimeout)
	if err != nil {
		log.Fatalf("backend client init failed: %v", err)
	}
	log.Printf("backend: %s", client.BaseURL())

	// 3. 各页面 profile
	profiles, err := service.BuildProfiles(cfg)
	if err != nil {
		log.Fatalf("build profiles failed: %v", err)
	}

	// 4. 初始化 Service (业务层)
	duSvc := service.NewDUService(profiles, client, service.ExportOptions{
		PageSize: cfg.ExportPageSize,
		MaxPages: cfg.ExportMaxPages,
	})
	summarySvc := service.NewSummaryService(profiles[cfg.SummaryProfile], client, cfg.Statuses)

	// 启动定时任务，首次统计异步进行
	if _, err := job.StartCronJob(cfg.SummaryCron, summarySvc, cfg.HTTPTimeout); err != nil {
		log.Fatalf("start cron failed: %v", err)
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := summarySvc.Refresh(ctx); err != nil {
			log.Printf("initial summary refresh failed: %v", err)
		}
	}()

	// 5. 初始化 Handler (API 层)
	duHandler := handler.NewDUHandler(duSvc, summarySvc)

	// 6. 启动 Web Server
	r := gin.Default()
	r.Use(middleware.RequestID(), middleware.Session(vars.SessionCookie))
	router.RegisterRoutes(r, duHandler)

	log.Printf("Server running on %s", cfg.Listen)
	if err := r.Run(cfg.Listen); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
