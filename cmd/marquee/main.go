package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/marquee/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional, defaults to ~/.config/marquee/config.toml)")
	prefsPath := flag.String("prefs", "", "override preferences path (optional)")
	logPath := flag.String("log", "", "override log file path (optional)")
	printMode := flag.Bool("print", false, "print the listing to stdout instead of starting the TUI")
	query := flag.String("query", "", "search query for -print (empty lists popular movies)")
	pages := flag.Int("pages", 1, "number of pages to load with -print")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		LogPath:    *logPath,
	}

	var err error
	if *printMode {
		err = app.Print(ctx, app.PrintOptions{Options: opts, Query: *query, Pages: *pages}, os.Stdout)
	} else {
		err = app.Run(ctx, opts)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "marquee: %v\n", err)
		return 1
	}
	return 0
}
