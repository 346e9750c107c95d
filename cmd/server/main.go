// LunBan 排班优化引擎服务
// 主程序入口

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/lunban/lunban/internal/config"
	"github.com/lunban/lunban/internal/database"
	"github.com/lunban/lunban/internal/handler"
	"github.com/lunban/lunban/internal/metrics"
	"github.com/lunban/lunban/internal/middleware"
	"github.com/lunban/lunban/internal/repository"
	"github.com/lunban/lunban/internal/taskstore"
	"github.com/lunban/lunban/pkg/logger"
	"github.com/lunban/lunban/pkg/scheduler"
	"github.com/lunban/lunban/pkg/scheduler/solver"
)

// 构建信息（通过 ldflags 注入）
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger.Init(logger.Config{
		Level:  cfg.App.LogLevel,
		Format: "console",
	})

	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Str("env", cfg.App.Env).
		Msg("LunBan 排班优化引擎启动中")

	// 员工存储可选，数据库不可用时只关闭 CRUD 接口
	var employeeRepo *repository.EmployeeRepository
	db, err := database.New(&cfg.Database)
	if err != nil {
		logger.Warn().Err(err).Msg("数据库不可用，员工存储接口关闭")
	} else {
		defer db.Close()
		employeeRepo = repository.NewEmployeeRepository(db)
	}

	var tasks taskstore.Store = taskstore.NewMemoryStore()
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		tasks = taskstore.NewRedisStore(rdb)
		logger.Info().Str("addr", cfg.Redis.Addr()).Msg("批量任务状态使用 Redis 存储")
	}

	m, err := metrics.New(nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("注册监控指标失败")
	}

	pool := scheduler.NewSolvePool(cfg.Scheduler.SolveWorkers)
	defer pool.Close()

	seed := cfg.Scheduler.GeneticSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	optimizer := scheduler.NewOptimizer(nil, solver.NewGeneticSolver(seed), pool)

	h := handler.New(optimizer, tasks, m, employeeRepo)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RecordMetrics(m))
	r.Use(middleware.APIKeyAuth(&middleware.AuthConfig{
		APIKey:      cfg.API.Key,
		Environment: cfg.App.Env,
		SkipPaths:   []string{"/health", "/version", "/metrics"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"lunban"}`))
	})
	r.Get("/version", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"version":"%s","build_time":"%s","git_commit":"%s"}`, Version, BuildTime, GitCommit)
	})
	r.Handle("/metrics", promhttp.Handler())

	h.RegisterRoutes(r)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      r,
		ReadTimeout:  cfg.API.ReadTimeout,
		WriteTimeout: cfg.API.WriteTimeout,
		IdleTimeout:  cfg.API.IdleTimeout,
	}

	go func() {
		logger.Info().
			Int("port", cfg.App.Port).
			Str("version", Version).
			Msg("服务器启动")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("服务器启动失败")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("服务器关闭失败")
		os.Exit(1)
	}

	logger.Info().Msg("服务器已关闭")
}
