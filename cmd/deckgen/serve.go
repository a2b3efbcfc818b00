package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"deckgen/internal/mcptool"
	"deckgen/internal/server"
)

func runServe(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	addr := fs.String("addr", "", "listen address (default $PORT or :8080)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, stderr)
	if err != nil {
		return err
	}
	defer a.close()

	sink, err := a.sink("")
	if err != nil {
		return err
	}
	h := &server.Handler{
		Pipeline:       a.pipeline,
		Registry:       a.registry,
		Sink:           sink,
		DefaultImages:  a.cfg.Image.Enabled,
		AllowedOrigins: a.cfg.CORSOrigins,
		Logger:         a.logger,
	}
	srv := server.New(firstNonEmpty(*addr, a.cfg.Port), server.NewRouter(h), a.logger)
	return srv.Run(ctx)
}

// runMCP serves the deck tools on stdin/stdout; logs stay on stderr.
func runMCP(stderr io.Writer) error {
	ctx := context.Background()
	a, err := newApp(ctx, stderr)
	if err != nil {
		return err
	}
	defer a.close()

	sink, err := a.sink("")
	if err != nil {
		return err
	}
	svc := &mcptool.Service{
		Pipeline:      a.pipeline,
		Registry:      a.registry,
		Sink:          sink,
		DefaultImages: a.cfg.Image.Enabled,
		Logger:        a.logger,
	}
	return mcptool.ServeStdio(mcptool.NewServer(svc, version))
}
