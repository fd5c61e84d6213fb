package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/ltp2209/stockpos-api/configs"
	"github.com/ltp2209/stockpos-api/internal/adapter/cache"
	apihttp "github.com/ltp2209/stockpos-api/internal/adapter/http"
	"github.com/ltp2209/stockpos-api/internal/adapter/http/middleware"
	"github.com/ltp2209/stockpos-api/internal/adapter/kafka"
	"github.com/ltp2209/stockpos-api/internal/adapter/queue"
	"github.com/ltp2209/stockpos-api/internal/adapter/repo"
	"github.com/ltp2209/stockpos-api/internal/logging"
	"github.com/ltp2209/stockpos-api/internal/security"
	"github.com/ltp2209/stockpos-api/internal/usecase"
)

// Run wires the whole service together and blocks until SIGINT/SIGTERM.
func Run() error {
	envName := os.Getenv("APP_ENV")
	if envName == "" {
		envName = "dev"
	}
	cfg, err := configs.Load("./configs", envName)
	if err != nil {
		return err
	}

	log := logging.Init(cfg.App.Name, cfg.App.LogFile)
	log.Info("starting", "env", envName, "addr", cfg.App.HTTPAddr)

	if cfg.App.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// MySQL
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return fmt.Errorf("open mysql: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err = db.PingContext(pingCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("ping mysql: %w", err)
	}

	if err := repo.EnsureSchema(ctx, db); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	if cfg.Seed.Enabled {
		if err := repo.Seed(ctx, db, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	idem := cache.NewRedisIdempotencyStore(rdb, cfg.Idempotency.TTL)
	catalog := cache.NewRedisCatalogCache(rdb, cfg.Cache.TTL)

	// RabbitMQ
	conn, err := amqp.Dial(cfg.Rabbit.URL)
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}
	defer conn.Close()
	pubCh, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open publish channel: %w", err)
	}
	pub, err := queue.NewRabbitMovementPublisher(pubCh, cfg.Rabbit.Exchange, cfg.Rabbit.RoutingKey, cfg.Rabbit.AlertQueue)
	if err != nil {
		return fmt.Errorf("setup movement publisher: %w", err)
	}

	// Repositories and use cases
	orderRepo := repo.NewMySQLOrderRepo(db)
	itemRepo := repo.NewMySQLItemRepo(db)
	userRepo := repo.NewMySQLUserRepo(db)
	storeRepo := repo.NewMySQLStoreRepo(db)
	eventRepo := repo.NewMySQLEventRepo(db)

	placeOrder := usecase.NewPlaceOrder(orderRepo, idem, pub, catalog)
	adjustStock := usecase.NewAdjustStock(itemRepo, pub, catalog)

	// Low-stock alert consumer on the movements queue
	consCh, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open consume channel: %w", err)
	}
	lowStock := queue.NewLowStockHandler(cfg.Alerts.LowStockThreshold)
	rmqRouter := queue.NewRouter(consCh, queue.WithPrefetch(20), queue.WithRequeue(false))
	rmqRouter.Register(cfg.Rabbit.AlertQueue, queue.JSONFunc(lowStock.HandleMovement))
	if err := rmqRouter.Start(); err != nil {
		return fmt.Errorf("start rabbit consumers: %w", err)
	}

	// Kafka consumer for external stock adjustments
	group, err := kafka.NewGroup(cfg.Kafka.Brokers, cfg.Kafka.GroupID)
	if err != nil {
		return fmt.Errorf("kafka consumer group: %w", err)
	}
	defer group.Close()
	adjHandler := kafka.NewStockAdjustmentHandler(adjustStock)
	consumer := kafka.NewConsumer(group, []string{cfg.Kafka.TopicAdjustments}, adjHandler.Handle)
	consumer.Logger = logging.New("kafka-consumer")
	go func() {
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("kafka consumer stopped", "err", err)
		}
	}()

	// HTTP
	tokens := security.TokenConfig{
		Secret: cfg.Security.JWTSecret,
		Issuer: cfg.Security.Issuer,
		TTL:    cfg.Security.TTL,
	}
	engine := apihttp.NewRouter(log, apihttp.Handlers{
		Auth:   apihttp.NewAuthHandler(userRepo, tokens),
		Items:  apihttp.NewItemHandler(itemRepo, adjustStock, catalog),
		Orders: apihttp.NewOrderHandler(placeOrder, orderRepo),
		Stores: apihttp.NewStoreHandler(storeRepo),
		Users:  apihttp.NewUserHandler(userRepo),
		Events: apihttp.NewEventHandler(eventRepo),
		Authz:  middleware.NewAuthz(tokens),
	})

	srv := &http.Server{
		Addr:         cfg.App.HTTPAddr,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		log.Error("http shutdown", "err", err)
	}
	log.Info("stopped")
	return nil
}
