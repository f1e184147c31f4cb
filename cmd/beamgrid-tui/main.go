package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"beamgrid/internal/app"
	"beamgrid/internal/ctxlog"
	"beamgrid/internal/tui"
)

func main() {
	cfg, err := app.NewConfig()
	if err != nil {
		log.Fatal(err)
	}
	cfg.Bind(flag.CommandLine)
	logFile := flag.String("log-file", "", "write logs to this file; the terminal is owned by the UI")
	flag.Parse()

	logger := app.NewLogger(cfg.LogLevel, cfg.LogFormat, io.Discard)
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		logger = app.NewLogger(cfg.LogLevel, cfg.LogFormat, f)
	}
	ctx := ctxlog.WithLogger(context.Background(), logger)

	play, err := app.Start(ctx, cfg, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer play.Close()

	p := tea.NewProgram(tui.New(ctx, play, cfg.TPS), tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		play.Close()
		os.Exit(1)
	}
}
