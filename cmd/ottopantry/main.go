// OttoPantry — a grocery ledger and recipe book for the terminal.
//
// Usage:
//
//	ottopantry [-log-level off|normal|verbose] [-verbose] [-quiet] [-log-file path] [-warn-days n] [-no-seed]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/hammamikhairi/ottopantry/internal/conversation"
	"github.com/hammamikhairi/ottopantry/internal/display"
	"github.com/hammamikhairi/ottopantry/internal/logger"
	"github.com/hammamikhairi/ottopantry/internal/recipe"
	"github.com/hammamikhairi/ottopantry/internal/storage"
)

// Env var names read as flag defaults (after .env is loaded).
const (
	EnvLogLevel = "OTTOPANTRY_LOG_LEVEL"
	EnvLogFile  = "OTTOPANTRY_LOG_FILE"
	EnvWarnDays = "OTTOPANTRY_WARN_DAYS"
)

func main() {
	_ = godotenv.Load()

	levelName := flag.String("log-level", envOr(EnvLogLevel, "normal"), "log level: off, normal or verbose")
	verbose := flag.Bool("verbose", false, "enable verbose/debug logging (same as -log-level verbose)")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", envOr(EnvLogFile, ".otto-logs/pantry.log"), "file to write logs to (use \"stderr\" to log to console)")
	warnDays := flag.Int("warn-days", envInt(EnvWarnDays, 3), "days ahead the status bar warns about expiring batches")
	noSeed := flag.Bool("no-seed", false, "start with an empty pantry and cookbook")
	flag.Parse()

	logLevel, err := resolveLevel(*levelName, *verbose, *quiet)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: ignoring %v\n", err)
	}

	// Direct logs to a file by default so the prompt stays clean.
	var logOut io.Writer = os.Stderr
	if *logFile != "" && *logFile != "stderr" {
		dir := filepath.Dir(*logFile)
		if dir != "" && dir != "." {
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

	log := logger.New(logLevel, logOut)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Wire dependencies. The book borrows the ledger; neither owns the other.
	ledger := storage.NewLedger(log.Named("ledger"))
	book := recipe.New(ledger, log.Named("recipes"))
	if !*noSeed {
		if err := seed(ledger, book, time.Now()); err != nil {
			log.Error("seeding demo pantry: %v", err)
		}
	}

	window := time.Duration(*warnDays) * 24 * time.Hour
	ui := display.NewUI(ledger, window)

	app := &cliApp{
		ledger: ledger,
		book:   book,
		parser: conversation.NewKeywordParser(log.Named("parser")),
		out:    ui,
		quit:   ui.Quit,
		now:    time.Now,
		window: window,
		log:    log,
	}

	subtitle := fmt.Sprintf("%d groceries, %d recipes", len(ledger.Names()), len(book.Names()))
	fmt.Println(display.RenderBanner(subtitle))
	fmt.Println(display.BannerStyle.Render("  Type 'help' for commands, 'quit' to exit."))
	fmt.Println()

	// Run app logic in a background goroutine.
	go func() {
		ui.WaitReady()
		app.run(ctx, ui.InputChan())
		ui.Quit()
	}()

	// Bubble Tea owns the terminal — blocks until quit.
	if err := ui.Run(); err != nil {
		log.Error("display: %v", err)
	}
	cancel()
}

// resolveLevel picks the log level from -log-level. -quiet wins over
// -verbose, and both win over the named level.
func resolveLevel(name string, verbose, quiet bool) (logger.Level, error) {
	level, ok := logger.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	var err error
	if !ok {
		err = fmt.Errorf("unknown log level %q", name)
	}
	switch {
	case quiet:
		level = logger.LevelOff
	case verbose:
		level = logger.LevelVerbose
	}
	return level, err
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		fmt.Fprintf(os.Stderr, "warning: ignoring %s=%q, using %d\n", key, v, def)
		return def
	}
	return n
}
