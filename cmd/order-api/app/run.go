package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/AlanGiacomini/orders-api/configs"
	"github.com/AlanGiacomini/orders-api/internal/adapter/cache"
	"github.com/AlanGiacomini/orders-api/internal/adapter/http"
	"github.com/AlanGiacomini/orders-api/internal/adapter/http/middleware"
	"github.com/AlanGiacomini/orders-api/internal/adapter/queue"
	"github.com/AlanGiacomini/orders-api/internal/adapter/repo"
	"github.com/AlanGiacomini/orders-api/internal/logging"
	"github.com/AlanGiacomini/orders-api/internal/usecase"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	log := logging.Init("order-api", cfg.App.LogFile, cfg.App.LogLevel)

	// init database
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return nil, nil, err
	}
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	// init redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	// init rabbitmq producer channel
	conn, err := amqp091.Dial(cfg.Rabbit.URL)
	if err != nil {
		_ = db.Close()
		_ = rdb.Close()
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		_ = db.Close()
		_ = rdb.Close()
		return nil, nil, err
	}
	producer, err := queue.NewRabbitProducer(ch)
	if err != nil {
		_ = conn.Close()
		_ = db.Close()
		_ = rdb.Close()
		return nil, nil, err
	}

	// infra
	orderRepo := repo.NewMySQLOrderRepo(db)
	customerRepo := repo.NewMySQLCustomerRepo(db)
	limiter := cache.NewRedisRateLimiter(rdb, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)

	// usecases
	createUC := usecase.NewCreateOrder(orderRepo, customerRepo)
	requestUC := usecase.NewRequestStatusChange(orderRepo, producer)

	// handlers + router + middleware
	oh := http.NewOrderHandler(createUC, requestUC, orderRepo, customerRepo)
	th := http.NewTokenHandler(cfg)
	hh := http.NewHealthHandler(db, rdb)
	auth := middleware.NewAuthz(cfg)
	router := http.NewRouter(log, hh, th, oh, auth, limiter)

	cleanup := func() {
		_ = ch.Close()
		_ = conn.Close()
		_ = rdb.Close()
		_ = db.Close()
	}

	log.Info("order-api wired", "http_addr", cfg.App.HTTPAddr)
	return &App{Router: router}, cleanup, nil
}
