package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/cardly-iq/cardly/internal/app"
	"github.com/cardly-iq/cardly/internal/buildinfo"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	command := "serve"
	if args := flag.Args(); len(args) > 0 {
		command = args[0]
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch command {
	case "serve":
		log.WithField("version", buildinfo.Version).Info("starting server")
		if err := app.RunServer(ctx, *configPath); err != nil {
			log.WithError(err).Fatal("server exited")
		}
	case "migrate":
		if err := app.Migrate(ctx, *configPath); err != nil {
			log.WithError(err).Fatal("migration failed")
		}
		log.Info("migration complete")
	default:
		log.Errorf("unknown command %q, expected serve or migrate", command)
		os.Exit(2)
	}
}
