package main

import (
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/nimasrn/collection-ledger/internal/auth"
	"github.com/nimasrn/collection-ledger/internal/config"
	"github.com/nimasrn/collection-ledger/internal/handlers"
	"github.com/nimasrn/collection-ledger/internal/repository"
	"github.com/nimasrn/collection-ledger/internal/risk"
	"github.com/nimasrn/collection-ledger/internal/services"
	xhttp "github.com/nimasrn/collection-ledger/pkg/http"
	"github.com/nimasrn/collection-ledger/pkg/logger"
	"github.com/nimasrn/collection-ledger/pkg/pg"
	"github.com/nimasrn/collection-ledger/pkg/prom"
	"github.com/nimasrn/collection-ledger/pkg/ratelimit"
	"github.com/nimasrn/collection-ledger/pkg/redis"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {

	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	if config.Get().PromNamespace != "" {
		host, _ := os.Hostname()
		if err := prom.Create(host, config.Get().AppEnv, config.Get().PromNamespace); err != nil {
			logger.Error("failed to register metrics", "error", err)
			return
		}
		if config.Get().ProfilerEnable {
			go prom.ListenAndServe(":"+strconv.Itoa(config.Get().ProfilerPort), "/metrics")
		}
	}

	readConf := pg.Config{
		User:     config.Get().PostgresReadUser,
		Host:     config.Get().PostgresReadHost,
		Port:     config.Get().PostgresReadPort,
		Password: config.Get().PostgresReadPassword,
		Database: config.Get().PostgresReadDatabase,
	}
	writeConf := pg.Config{
		User:     config.Get().PostgresWriteUser,
		Host:     config.Get().PostgresWriteHost,
		Port:     config.Get().PostgresWritePort,
		Password: config.Get().PostgresWritePassword,
		Database: config.Get().PostgresWriteDatabase,
	}

	pgDebug := false
	if config.Get().AppEnv == "dev" {
		pgDebug = true
	}
	db, err := pg.CreateReadWrite(readConf, writeConf, pgDebug)
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}

	// transport (tcp for now)
	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Server.ReadBufferSize = 1024 * 16
	s.Server.WriteBufferSize = 1024 * 16
	s.Use(xhttp.CompressMiddleware(6))
	s.Use(xhttp.TimeoutMiddleware(time.Second * 5))
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.RecoverMiddleware)
	s.Router = xhttp.CreateDefaultRouter()

	if config.Get().RedisAddr != "" {
		redisAdap, err := redis.NewRedisAdapter("default", config.Get().RedisUniversalKeyPrefix, &redis.Options{
			Addrs:      []string{config.Get().RedisAddr},
			ClientName: "default",
			DB:         config.Get().RedisDatabase,
			Username:   config.Get().RedisUsername,
			Password:   config.Get().RedisPassword,
		})
		if err != nil {
			logger.Error("failed connecting to redis", "error", err)
			return
		}
		limiter := ratelimit.New(
			redisAdap,
			int64(config.Get().RateLimitMax),
			time.Duration(config.Get().RateLimitWindow)*time.Second,
		)
		s.Use(ratelimit.Middleware(limiter))
	}

	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	collectionRepo := repository.NewCollectionRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	transferRepo := repository.NewTransferRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	riskHistoryRepo := repository.NewRiskHistoryRepository(db)

	engine := risk.NewEngine(customerRepo, collectionRepo, invoiceRepo, riskHistoryRepo)
	tokens := auth.NewTokenManager(config.Get().JWTSecret)

	// services
	authService := services.NewAuthService(userRepo, tokens, auditRepo, db)
	userService := services.NewUserService(userRepo, auditRepo, db)
	collectionService := services.NewCollectionService(collectionRepo, userRepo, customerRepo, auditRepo, engine, db)
	transferService := services.NewTransferService(transferRepo, userRepo, userRepo, auditRepo, db)
	invoiceService := services.NewInvoiceService(invoiceRepo, customerRepo, auditRepo, engine, db)
	customerService := services.NewCustomerService(customerRepo, riskHistoryRepo)
	analyticsService := services.NewAnalyticsService(collectionRepo, customerRepo, invoiceRepo, transferRepo, userRepo)
	healthService := services.NewHealthService(db)

	// v1 handlers
	authHandler := handlers.NewAuthHandler(authService, authService)
	userHandler := handlers.NewUserHandler(userService, authService)
	collectionHandler := handlers.NewCollectionHandler(collectionService, authService)
	transferHandler := handlers.NewTransferHandler(transferService, authService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService, authService)
	customerHandler := handlers.NewCustomerHandler(customerService, authService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, authService)
	healthHandler := handlers.NewHealthHandler(healthService)

	g := s.Router.Group("/api/v1")
	handlers.RegisterAuthRoutes(g, authHandler)
	handlers.RegisterUserRoutes(g, userHandler)
	handlers.RegisterCollectionRoutes(g, collectionHandler)
	handlers.RegisterTransferRoutes(g, transferHandler)
	handlers.RegisterInvoiceRoutes(g, invoiceHandler)
	handlers.RegisterCustomerRoutes(g, customerHandler)
	handlers.RegisterAnalyticsRoutes(g, analyticsHandler)
	handlers.RegisterHealthRoutes(g, healthHandler)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Kill)

	go func() {
		var err = s.ListenAndServe(config.Get().HttpListenAddr)
		if err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()

	select {
	case <-c:
		s.Shutdown()
	}
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}
