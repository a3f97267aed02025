package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pinet/pinet/internal/app"
	"github.com/pinet/pinet/internal/cli"
	"github.com/pinet/pinet/internal/client"
	"github.com/pinet/pinet/internal/config"
	"github.com/pinet/pinet/internal/logger"
	"github.com/pinet/pinet/internal/session"
)

func main() {
	cfg, err := config.LoadClient(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	log, err := logger.New(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Close()

	sess, closeSession := session.Open(cfg.SessionFile, log)
	defer closeSession()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	remote := client.New(cfg.APIURL, http.DefaultClient)
	a := app.New(remote, sess, log)
	a.Bootstrap(ctx)

	log.Info("client started", "api", cfg.APIURL, "session", cfg.SessionFile)
	cli.NewUI(a, bufio.NewReader(os.Stdin), os.Stdout).Run(ctx)
	log.Info("client stopped")
}
