package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlanGiacomini/orders-api/configs"
	"github.com/AlanGiacomini/orders-api/internal/adapter/kafka"
	"github.com/AlanGiacomini/orders-api/internal/adapter/notify"
	"github.com/AlanGiacomini/orders-api/internal/adapter/queue"
	"github.com/AlanGiacomini/orders-api/internal/adapter/repo"
	"github.com/AlanGiacomini/orders-api/internal/logging"
	"github.com/AlanGiacomini/orders-api/internal/usecase"
	_ "github.com/go-sql-driver/mysql"
	"github.com/rabbitmq/amqp091-go"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	cfg, err := configs.Load("configs", env)
	if err != nil {
		log.Fatal(err)
	}

	l := logging.Init("order-worker", cfg.App.LogFile, cfg.App.LogLevel)

	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		cancelPing()
		log.Fatal(err)
	}
	cancelPing()

	orderRepo := repo.NewMySQLOrderRepo(db)
	customerRepo := repo.NewMySQLCustomerRepo(db)
	auditRepo := repo.NewMySQLAuditRepo(db)
	notifier := notify.NewLogNotifier(logging.New("notifier"))

	applyUC := usecase.NewApplyStatusChange(orderRepo, customerRepo, auditRepo, notifier, logging.New("apply"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// RabbitMQ consume loop for status change requests.
	consumer := queue.NewConsumer(cfg.Rabbit.URL, applyUC.Execute, logging.New("consumer"))
	if cfg.Worker.Prefetch > 0 {
		consumer.Prefetch = cfg.Worker.Prefetch
	}
	if cfg.Worker.Backoff > 0 {
		consumer.Backoff = cfg.Worker.Backoff
	}
	if cfg.Worker.CallTimeout > 0 {
		consumer.CallTimeout = cfg.Worker.CallTimeout
	}

	// Kafka listener turning payment confirmations into PAID requests over
	// the same validated produce path. Needs its own publisher channel.
	if len(cfg.Kafka.Brokers) > 0 {
		conn, err := amqp091.Dial(cfg.Rabbit.URL)
		if err != nil {
			log.Fatal(err)
		}
		defer conn.Close()
		ch, err := conn.Channel()
		if err != nil {
			log.Fatal(err)
		}
		producer, err := queue.NewRabbitProducer(ch)
		if err != nil {
			log.Fatal(err)
		}
		requestUC := usecase.NewRequestStatusChange(orderRepo, producer)

		grp, err := kafka.NewGroup(cfg.Kafka.Brokers, cfg.Kafka.GroupID)
		if err != nil {
			log.Fatal(err)
		}
		defer grp.Close()

		ph := kafka.NewPaymentConfirmedHandler(requestUC, logging.New("payments"))
		kc := kafka.NewConsumer(grp, []string{cfg.Kafka.PaymentsTopic}, ph.Handle, logging.New("payments"))
		go func() {
			if err := kc.Start(ctx); err != nil && ctx.Err() == nil {
				l.Error("kafka consumer stopped", "error", err)
			}
		}()
	}

	l.Info("order-worker starting", "env", env, "queue", queue.StatusUpdatesQueue)
	if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
		l.Error("consumer stopped", "error", err)
		os.Exit(1)
	}
	l.Info("order-worker stopped")
}
