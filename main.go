package main

import (
	"os"
	"os/signal"
	"syscall"

	"catalog/internal/config"
	"catalog/internal/database"
	"catalog/internal/logging"
	"catalog/internal/metrics"
	"catalog/internal/server"
	"catalog/pkg/rabbitmq"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	log := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err := run(cfg, log); err != nil {
		log.WithError(err).Error("catalog stopped with error")
		os.Exit(1)
	}
}

// run owns every resource it opens, so its deferred closes always execute
// before main exits.
func run(cfg *config.Config, log *logrus.Logger) error {
	db, err := database.Init(cfg.DB, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.WithError(err).Error("failed to close database")
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	deps := server.Deps{
		DB:       db,
		Config:   cfg,
		Log:      log,
		Metrics:  metrics.New(registry),
		Gatherer: registry,
	}

	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, log)
		if err != nil {
			return err
		}
		defer func() {
			if err := mqClient.Close(); err != nil {
				log.WithError(err).Error("failed to close RabbitMQ client")
			}
		}()
		deps.Publisher = mqClient

		err = mqClient.ConsumeProductEvents(func(ev *rabbitmq.ProductEvent) error {
			log.WithFields(logrus.Fields{
				"event":       ev.Event,
				"product_id":  ev.Product["id"],
				"occurred_at": ev.OccurredAt,
			}).Info("product event")
			return nil
		})
		if err != nil {
			log.WithError(err).Error("failed to start product event consumer")
		}
	} else {
		log.Info("RABBITMQ_URL not set, product events disabled")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	return server.Run(server.NewApp(deps), cfg.AppPort, quit, log)
}
