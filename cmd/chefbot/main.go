// ChefBot — a Telegram recipe assistant.
//
// Usage:
//
//	chefbot [-db recipes.db] [-recipes recipes.json] [-verbose]
//
// The bot token is read from the BOT_TOKEN environment variable (a .env
// file is honored).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/hammamikhairi/chefbot/internal/conversation"
	"github.com/hammamikhairi/chefbot/internal/engine"
	"github.com/hammamikhairi/chefbot/internal/logger"
	"github.com/hammamikhairi/chefbot/internal/recipe"
	"github.com/hammamikhairi/chefbot/internal/storage"
	"github.com/hammamikhairi/chefbot/internal/telegram"
)

func main() {
	_ = godotenv.Load()

	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", "", "file to write logs to (default stderr)")
	dbPath := flag.String("db", "recipes.db", "path to the SQLite database")
	catalogPath := flag.String("recipes", "recipes.json", "path to the shared catalog JSON file")
	flag.Parse()

	// Configure logger.
	logLevel := logger.LevelNormal
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	if *quiet {
		logLevel = logger.LevelOff
	}

	var logOut io.Writer = os.Stderr
	if *logFile != "" && *logFile != "stderr" {
		if dir := filepath.Dir(*logFile); dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", *logFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}

	// The Bot API client logs through the stdlib logger; keep it on the
	// same output.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logLevel, logOut)

	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		fmt.Fprintln(os.Stderr, "error: BOT_TOKEN is not set")
		os.Exit(1)
	}

	store, err := storage.OpenSQLite(*dbPath, log)
	if err != nil {
		log.Error("opening store: %v", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("closing store: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Seed the shared catalog. A missing or broken file never blocks
	// startup.
	importer := recipe.NewImporter(store, log)
	importer.ImportFile(ctx, *catalogPath)

	// Wire dependencies.
	states := storage.NewMemoryStateStore(log)
	eng := engine.New(store, states, log)
	router := conversation.NewRouter(store, states, eng, log)

	bot, err := telegram.New(token, router, log)
	if err != nil {
		log.Error("telegram init: %v", err)
		os.Exit(1)
	}

	if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("bot stopped: %v", err)
		os.Exit(1)
	}
}
