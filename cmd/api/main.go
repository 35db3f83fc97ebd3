package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
	config "xtopay-checkout/configs"
	database "xtopay-checkout/internal/pkg/db"
	"xtopay-checkout/internal/pkg/gateway"
	"xtopay-checkout/internal/pkg/kairos"
	"xtopay-checkout/internal/pkg/logger"
	"xtopay-checkout/internal/pkg/merchant"
	"xtopay-checkout/internal/pkg/rabbitmq"
	"xtopay-checkout/internal/pkg/redis"
	"xtopay-checkout/internal/pkg/validation"
	"xtopay-checkout/internal/pkg/webhook"
	serverApp "xtopay-checkout/internal/server"

	"github.com/gin-gonic/gin"
)

// @title           Xtopay Checkout API
// @version         1.0
// @description     Hosted payment checkout: method selection, OTP relay and simulated initiation over external provider APIs

// @contact.name    API Support
// @contact.url     http://www.swagger.io/support
// @contact.email   support@swagger.io

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath        /api
func main() {
	logger.Setup()

	env, err := config.GetEnv()
	if err != nil {
		logger.Error.Println("Error getting environment", err)
		panic(err)
	}

	var wg sync.WaitGroup
	ctx, cancel := context.WithCancel(context.Background())

	// Setup Redis
	redisClient, err := setupRedis(ctx, env)
	if err != nil {
		logger.Error.Println("Error setting up Redis", err)
		cancel()
		return
	}

	// Setup RabbitMQ
	rabbit, err := setupRabbitMQ(ctx, env)
	if err != nil {
		logger.Error.Println("Error setting up RabbitMQ", err)
		cancel()
		return
	}

	// Setup Database
	db, err := setupDB(env, redisClient)
	if err != nil {
		logger.Error.Println("Error setting up Database", err)
		cancel()
		return
	}

	// Setup Server
	setupServer(&config.SetupServerDto{
		Rds:    redisClient,
		Env:    env,
		Ctx:    &ctx,
		Cancel: cancel,
		Db:     db,
		Wg:     &wg,
		Rb:     rabbit,
	})
}

func setupRedis(ctx context.Context, env *config.Config) (redis.IRedis, error) {
	return redis.Setup(ctx, &redis.Config{
		Host:     env.RedisHost,
		Username: env.RedisUser,
		Port:     env.RedisPort,
		Password: env.RedisPass,
		PoolSize: env.RedisPoolSize,
	})
}

func setupRabbitMQ(ctx context.Context, env *config.Config) (*rabbitmq.ConnectionManager, error) {
	return rabbitmq.NewConnectionManager(ctx, &rabbitmq.Config{
		Username: env.RabbitUser,
		Password: env.RabbitPass,
		Host:     env.RabbitHost,
		Port:     env.RabbitPort,
	})
}

func setupDB(env *config.Config, rds redis.IRedis) (*database.Database, error) {
	cfg := &database.Config{
		Host:     env.DBHost,
		Port:     env.DBPort,
		User:     env.DBUser,
		Password: env.DBPass,
		Database: env.DBName,
		SSLMode:  "disable",
		Driver:   "postgres",
		Cache:    true,
	}
	if client, ok := rds.(*redis.Client); ok {
		cfg.Rds = client
		cfg.CacheTime = 5 * time.Minute
	}
	return database.Setup(cfg)
}

func setupServer(payload *config.SetupServerDto) {
	rds := payload.Rds
	env := payload.Env
	ctx := payload.Ctx
	cancel := payload.Cancel
	wg := payload.Wg
	rb := payload.Rb
	db := payload.Db

	defer func() {
		if rds != nil {
			_ = rds.Close()
		}
		cancel()
		wg.Wait()
	}()

	err := validation.Setup()
	if err != nil {
		logger.Error.Println("Failed to setup validation")
		panic(err)
	}

	e := gin.Default()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", env.AppPort),
		Handler: e,
	}

	publisher, err := rabbitmq.NewPublisher(*ctx, rb)
	if err != nil {
		panic(err)
	}

	kairosClient := kairos.Setup(&kairos.Config{
		BaseURL:   env.KairosBaseURL,
		APIKey:    env.KairosAPIKey,
		APISecret: env.KairosAPISecret,
	})
	merchantClient := merchant.Setup(&merchant.Config{
		BaseURL: env.MerchantAPIBase,
	})
	gatewayClient := gateway.Setup(gateway.DefaultConfig())
	sender := webhook.Setup(&webhook.Config{
		URL:    env.WebhookURL,
		Secret: env.WebhookSecret,
	})

	serverApp.Setup(e, *ctx, wg, db, rds, rb, publisher, kairosClient, merchantClient, gatewayClient, env.AppBaseURL)
	if env.AppEnv != "development" {
		go serverApp.InitWorker(*ctx, rds, db, rb, sender)
	}

	go func() {
		logger.HTTP.Println("========= Server Started =========")
		logger.HTTP.Println("=========", env.AppPort, "=========")
		if err := server.ListenAndServe(); err != nil {
			logger.Error.Println("Server error:", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan
	logger.HTTP.Println("========= Server Shutting Down =========")
	_ = server.Shutdown(*ctx)
}
