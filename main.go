package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"alienarena-server/api"
	"alienarena-server/config"
	"alienarena-server/game"
	"alienarena-server/level"
	"alienarena-server/server"
)

const shutdownTimeout = 10 * time.Second

var (
	envFile   string
	port      int
	levelsDir string
	levelName string
)

var rootCmd = &cobra.Command{
	Use:   "alienarena-server",
	Short: "Authoritative server for the alien arena",
	Long: `Runs the arena simulation at a fixed tick rate and streams world
snapshots to websocket clients. Settings come from the environment, an
optional env file, and the flags below.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("port") {
			cfg.Port = port
		}
		if flags.Changed("levels-dir") {
			cfg.LevelsDir = levelsDir
		}
		if flags.Changed("level") {
			cfg.Level = levelName
		}

		logger, err := newLogger(cfg)
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		defer logger.Sync()

		return run(cmd.Context(), cfg, logger)
	},
}

func init() {
	rootCmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP listen port (overrides PORT)")
	rootCmd.Flags().StringVar(&levelsDir, "levels-dir", "levels", "directory of Tiled level files (overrides LEVELS_DIR)")
	rootCmd.Flags().StringVar(&levelName, "level", "", "level to run; random when empty (overrides LEVEL)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		lvl = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.LogFormat == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)

	return zapCfg.Build()
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	registry, err := level.LoadDir(cfg.LevelsDir)
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	lvl, err := registry.Choose(cfg.Level, rng)
	if err != nil {
		return err
	}
	log.Info("level loaded",
		zap.String("level", lvl.Name),
		zap.Int("width", lvl.WidthPx),
		zap.Int("height", lvl.HeightPx),
		zap.Int("available", len(registry.Levels())))

	codec, err := server.CodecFor(string(cfg.WireFormat))
	if err != nil {
		return err
	}
	world := game.NewWorld(lvl, cfg.Tuning(), rng, log.Named("game"))
	hub, err := server.NewHub(server.HubConfig{
		TickInterval:      cfg.TickInterval(),
		TickWarnThreshold: cfg.TickWarnThreshold,
		Restart:           server.RestartPolicy{MinUptime: cfg.RestartMinUptime, UTCHour: cfg.RestartUTCHour},
	}, world, codec, log.Named("hub"))
	if err != nil {
		return err
	}

	metrics := api.NewMetricsHandler(hub, cfg.TickWarnThreshold)
	handler, err := api.NewRouter(api.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		StaticDir:      cfg.StaticDir,
		WebSocket:      server.NewHandler(hub, codec, log.Named("ws")),
		Metrics:        metrics,
		Log:            log.Named("http"),
	})
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	var health *api.HealthServer
	if cfg.GRPCPort > 0 {
		health, err = api.NewHealthServer(net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.GRPCPort)), log.Named("grpc"))
		if err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	hubErr := make(chan error, 1)
	go func() { hubErr <- hub.Run(ctx) }()

	httpErr := make(chan error, 1)
	go func() {
		log.Info("server started", zap.String("addr", srv.Addr), zap.String("wire", codec.Name()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			httpErr <- err
		}
	}()

	grpcErr := make(chan error, 1)
	if health != nil {
		go func() { grpcErr <- health.Serve(ctx) }()
	}

	var runErr error
	hubStopped := false
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case runErr = <-hubErr:
		hubStopped = true
	case err := <-httpErr:
		runErr = fmt.Errorf("http server: %w", err)
	case err := <-grpcErr:
		runErr = err
		health = nil
	}

	restarting := errors.Is(runErr, server.ErrMaintenanceRestart)
	if restarting {
		metrics.SetStopping()
		if health != nil {
			health.SetServing(false)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	cancel()
	if !hubStopped {
		if err := <-hubErr; err != nil && runErr == nil {
			runErr = err
		}
	}
	if health != nil {
		if err := <-grpcErr; err != nil {
			log.Warn("grpc health shutdown", zap.Error(err))
		}
	}

	if restarting {
		log.Info("exiting for maintenance restart")
		return nil
	}
	if runErr != nil {
		log.Error("server stopped", zap.Error(runErr))
	}
	return runErr
}
