//go:build ebiten

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"beamgrid/internal/app"
	"beamgrid/internal/ctxlog"
)

func main() {
	cfg, err := app.NewConfig()
	if err != nil {
		log.Fatal(err)
	}
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	logger := app.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	play, err := app.Start(ctx, cfg, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer play.Close()

	game := app.New(ctx, play, cfg.Scale)
	size := play.Session().Size()

	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(size.Cols*cfg.Scale+app.PanelWidth, size.Rows*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("game exited", "error", err)
		play.Close()
		os.Exit(1)
	}
}
