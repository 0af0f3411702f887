// cmd/discord/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"kiwi-bot/internal/config"
	"kiwi-bot/internal/discord"
	"kiwi-bot/internal/logging"
	"kiwi-bot/internal/storage"
	"kiwi-bot/internal/storage/backend"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}

	err = run(cfg, log)
	_ = log.Sync()
	if err != nil {
		os.Exit(1)
	}
}

type runner interface {
	Run(ctx context.Context) error
}

var newBot = func(cfg *config.Config, store storage.GuildConfigStore, log *zap.Logger) (runner, error) {
	return discord.NewBot(cfg, store, log)
}

// run owns the store for the lifetime of the bot, so every exit path closes it.
func run(cfg *config.Config, log *zap.Logger) (err error) {
	log.Info("starting kiwi-bot",
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.String("prefix", cfg.CommandPrefix))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := backend.Open(cfg.Storage, log)
	if err != nil {
		log.Error("failed to open store", zap.Error(err))
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			log.Error("failed to close store", zap.Error(cerr))
			if err == nil {
				err = cerr
			}
		}
	}()

	bot, err := newBot(cfg, store, log)
	if err != nil {
		log.Error("failed to create bot", zap.Error(err))
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- bot.Run(ctx)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	select {
	case s := <-sig:
		log.Info("received signal, shutting down", zap.String("signal", s.String()))
		cancel()
		err = <-errCh
	case err = <-errCh:
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("discord bot error", zap.Error(err))
		return err
	}

	log.Info("discord bot exited cleanly")
	return nil
}
