package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/myexpenses/myexpenses/internal/api"
	"github.com/myexpenses/myexpenses/internal/clients/cache"
	"github.com/myexpenses/myexpenses/internal/clients/kafka"
	"github.com/myexpenses/myexpenses/internal/config"
	"github.com/myexpenses/myexpenses/internal/logger"
	"github.com/myexpenses/myexpenses/internal/model/contacts"
	"github.com/myexpenses/myexpenses/internal/model/expenseshare"
	"github.com/myexpenses/myexpenses/internal/model/groupexpense"
	"github.com/myexpenses/myexpenses/internal/model/groups"
	"github.com/myexpenses/myexpenses/internal/model/personal"
	"github.com/myexpenses/myexpenses/internal/model/reports"
	"github.com/myexpenses/myexpenses/internal/model/storage"
	"github.com/myexpenses/myexpenses/internal/model/userexpense"
	"github.com/myexpenses/myexpenses/internal/model/users"
)

const shutdownTimeout = 5 * time.Second

func main() {
	logger.Info("Server init - start")

	_ = godotenv.Load()

	conf, err := config.New()
	if err != nil {
		logger.Fatal("failed to init config:", zap.Error(err))
	}

	db, err := storage.NewPostgresStorage(conf.Postgres())
	if err != nil {
		logger.Fatal("failed to init postgres:", zap.Error(err))
	}
	if err = db.RunMigrations(); err != nil {
		logger.Fatal("failed to run migrations:", zap.Error(err))
	}

	memcached, err := cache.NewMemcache(conf.Memcached())
	if err != nil {
		logger.Fatal("failed to init memcached:", zap.Error(err))
	}

	producer, err := kafka.NewProducer(conf.Kafka())
	if err != nil {
		logger.Fatal("failed to init kafka producer:", zap.Error(err))
	}
	defer producer.Close()

	shares := expenseshare.NewManager()
	server := api.NewServer(
		users.NewService(db),
		contacts.NewService(db),
		userexpense.NewService(db),
		groups.NewService(db),
		groupexpense.NewService(db, shares),
		personal.NewService(db),
		reports.NewService(memcached, producer),
	)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", conf.Server().Port()),
		Handler: server.Handler(),
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	logger.Info("Server init - end")
	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shut down http server", zap.Error(err))
	}
	logger.Info("Server stopped")
}
