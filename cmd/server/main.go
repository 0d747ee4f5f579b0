package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/me/rosterd/internal/benchmark"
	"github.com/me/rosterd/internal/config"
	"github.com/me/rosterd/internal/engine"
	"github.com/me/rosterd/internal/logging"
	"github.com/me/rosterd/internal/manager"
	"github.com/me/rosterd/internal/server"
	"github.com/me/rosterd/internal/solver"
	"github.com/me/rosterd/internal/store"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML config file")
	flagAddr := flag.String("addr", "", "Listen address (overrides config)")
	flagLogLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	flagLogFormat := flag.String("log-format", "", "Log format (text, json)")
	flagDB := flag.String("db", "", "Database path (default ~/.rosterd/rosterd.db)")
	flagParallel := flag.Int("parallel", 0, "Concurrent solve jobs (overrides config)")
	noArchive := flag.Bool("no-archive", false, "Disable the persistent job archive")
	debug := flag.Bool("debug", false, "Shorthand for --log-level=debug")

	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// Flags win over file and environment.
	if *flagAddr != "" {
		cfg.Addr = *flagAddr
	}
	if *flagLogLevel != "" {
		cfg.LogLevel = *flagLogLevel
	}
	if *flagLogFormat != "" {
		cfg.LogFormat = *flagLogFormat
	}
	if *flagDB != "" {
		cfg.DBPath = *flagDB
	}
	if *flagParallel > 0 {
		cfg.Solver.Parallel = *flagParallel
	}
	if *debug {
		cfg.LogLevel = "debug"
	}

	logger := logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	solverCfg := solver.DefaultConfig()
	solverCfg.StepLimit = cfg.Solver.StepLimit
	solverCfg.UnimprovedStepLimit = cfg.Solver.UnimprovedStepLimit
	solverCfg.TimeLimit = time.Duration(cfg.Solver.TimeLimitSeconds) * time.Second
	solverCfg.MoveSample = cfg.Solver.MoveSample
	solverCfg.TabuSize = cfg.Solver.TabuSize
	solverCfg.LateAcceptanceSize = cfg.Solver.LateAcceptanceSize

	sol := solver.New(solverCfg, logger)
	eng := engine.NewRunner(sol, cfg.Solver.Parallel, logger)

	var managerOpts []manager.Option
	var serverOpts []server.Option
	var st *store.SQLiteStore

	if !*noArchive {
		dbPath := cfg.DBPath
		if dbPath == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				fmt.Fprintf(os.Stderr, "cannot determine home directory: %v\n", err)
				os.Exit(1)
			}
			dir := filepath.Join(home, ".rosterd")
			if err := os.MkdirAll(dir, 0o755); err != nil {
				fmt.Fprintf(os.Stderr, "cannot create %s: %v\n", dir, err)
				os.Exit(1)
			}
			dbPath = filepath.Join(dir, "rosterd.db")
		}

		st, err = store.NewSQLiteStore(dbPath, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open database: %v\n", err)
			os.Exit(1)
		}
		defer st.Close()

		if err := st.Migrate(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "migrate database: %v\n", err)
			os.Exit(1)
		}
		logger.Info("database ready", "path", dbPath)

		managerOpts = append(managerOpts, manager.WithArchive(st))
		serverOpts = append(serverOpts, server.WithArchive(st))
	}

	mgr := manager.New(eng, logger, managerOpts...)
	serverOpts = append(serverOpts, server.WithBenchmark(benchmark.NewRunner(solverCfg, logger)))

	srv := server.New(mgr, logger, serverOpts...)

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Handler(),
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", "addr", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
