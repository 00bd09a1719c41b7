package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/nhaugen/kraftpris-go/cache"
	"github.com/nhaugen/kraftpris-go/config"
	"github.com/nhaugen/kraftpris-go/database"
	"github.com/nhaugen/kraftpris-go/entsoe"
	"github.com/nhaugen/kraftpris-go/logging"
	"github.com/nhaugen/kraftpris-go/mqtt"
	"github.com/nhaugen/kraftpris-go/norgesbank"
	"github.com/nhaugen/kraftpris-go/pricing"
	"github.com/nhaugen/kraftpris-go/task"
	"github.com/nhaugen/kraftpris-go/types"
	"github.com/nhaugen/kraftpris-go/www"
)

var Version = "?.?.?"

func main() {
	defer func() {
		if err := recover(); err != nil {
			exitWithError(slog.Default(), fmt.Errorf("application panicked: %v", err))
		} else {
			slog.Default().Info("application is shutting down...")
		}
	}()

	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cnfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consoleHandler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      cnfg.Logging.GetConsoleLevel(),
		TimeFormat: time.RFC3339,
	})
	slog.New(consoleHandler).Debug("kraftpris is starting...", slog.String("version", Version))

	db, err := database.New(ctx, cnfg.Database.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to connect to database: %v", err))
	}
	defer db.Close()

	logger := slog.New(logging.NewMultiHandler(
		consoleHandler,
		logging.NewSQLiteHandler(db, cnfg.Logging.GetDbLevel(), cnfg.Logging.GetDbAttrsFormat())))
	slog.SetDefault(logger)

	// Now we can use the logger to log database operations into the database itself
	db.SetLogger(logger.With("module", "database"))

	priceCache := cache.New[[]types.HourlyPrice](
		time.Duration(cnfg.Cache.GetTtlSeconds())*time.Second,
		cnfg.Cache.GetMaxEntries(),
		nil)

	prices := pricing.NewCachedPrices(
		logger.With("module", "entsoe"),
		entsoe.New(cnfg.EnergyPrice.Url, cnfg.EnergyPrice.Token, cnfg.EnergyPrice.Area),
		priceCache)

	composer := pricing.NewComposer(
		logger.With("module", "pricing"),
		prices,
		norgesbank.New(cnfg.ExchangeRate.Url))

	server := www.StartServer(composer, db, cnfg)

	subscribers := []task.Subscriber{server.BroadcastDayAhead}
	if cnfg.Mqtt.Host != "" {
		publisher := mqtt.New(cnfg.Mqtt.Host, cnfg.Mqtt.Port, cnfg.Mqtt.Username, cnfg.Mqtt.Password, cnfg.Mqtt.GetTopic())
		if err := publisher.Connect(); err != nil {
			panic(fmt.Sprintf("mqtt connection error: %v", err))
		}
		defer publisher.Disconnect()
		subscribers = append(subscribers, publisher.PublishDayAhead)
	} else {
		logger.Info("no mqtt host configured, price feed disabled")
	}

	tasks := task.NewTasks(db, composer, subscribers, cnfg)
	tasks.Run()
	defer tasks.Stop()

	// Warm the cache right away instead of waiting for the first cron run
	go tasks.PrefetchTask()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-ctx.Done():
			logger.Info("main context done")
		case sig := <-sigCh:
			logger.Info("received signal", slog.Any("signal", sig))
			cancel()
		}
	}()

	server.Run(ctx)
}

func exitWithError(logger *slog.Logger, err error) {
	if err != nil {
		logger.Error("application shutting down with error", slog.Any("error", err))
	}
	if syncer, ok := logger.Handler().(interface{ Sync() error }); ok {
		if syncErr := syncer.Sync(); syncErr != nil {
			logger.Error("failed to flush logger", slog.Any("error", syncErr))
		}
	}

	time.Sleep(2 * time.Second)
	os.Exit(1)
}
