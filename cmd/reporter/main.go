package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/myexpenses/myexpenses/internal/clients/cache"
	"github.com/myexpenses/myexpenses/internal/clients/kafka"
	"github.com/myexpenses/myexpenses/internal/config"
	"github.com/myexpenses/myexpenses/internal/logger"
	"github.com/myexpenses/myexpenses/internal/model/reports"
	"github.com/myexpenses/myexpenses/internal/model/storage"
)

func main() {
	logger.Info("Reporter init - start")

	_ = godotenv.Load()

	conf, err := config.New()
	if err != nil {
		logger.Fatal("failed to init config:", zap.Error(err))
	}

	db, err := storage.NewPostgresStorage(conf.Postgres())
	if err != nil {
		logger.Fatal("failed to init postgres:", zap.Error(err))
	}

	memcached, err := cache.NewMemcache(conf.Memcached())
	if err != nil {
		logger.Fatal("failed to init memcached:", zap.Error(err))
	}

	generator := reports.NewGenerator(db)

	consumer, err := kafka.NewConsumer(conf.Kafka(), generator, memcached)
	if err != nil {
		logger.Fatal("failed to init kafka consumer", zap.Error(err))
	}

	logger.Info("Reporter init - end")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err = consumer.StartConsuming(ctx); err != nil {
		logger.Fatal("failed to start consuming", zap.Error(err))
	}
}
