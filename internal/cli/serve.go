package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jspires/wordduel/internal/api"
	"github.com/jspires/wordduel/internal/config"
	"github.com/jspires/wordduel/internal/factory"
	"github.com/jspires/wordduel/internal/model"
	redisstorage "github.com/jspires/wordduel/internal/storage/redis"
)

// newServeCmd creates the serve command
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the wordduel server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			applyFlagOverrides(cmd.Flags(), cfg)
			return runServer(cmd.Context(), cfg)
		},
	}

	cmd.Flags().String("host", "", "Listen host")
	cmd.Flags().Int("port", 8080, "Listen port")
	cmd.Flags().String("storage", "", "Storage backend: memory or redis")
	cmd.Flags().String("redis-url", "", "Redis connection URL")
	cmd.Flags().String("dictionary", "", "Dictionary file path")
	cmd.Flags().Bool("accept-all-words", false, "Skip dictionary validation of guesses")

	return cmd
}

// applyFlagOverrides lets explicitly set flags win over config file and env
func applyFlagOverrides(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("host") {
		cfg.Host, _ = flags.GetString("host")
	}
	if flags.Changed("port") {
		cfg.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("storage") {
		cfg.StorageType, _ = flags.GetString("storage")
	}
	if flags.Changed("redis-url") {
		cfg.RedisURL, _ = flags.GetString("redis-url")
	}
	if flags.Changed("dictionary") {
		cfg.DictionaryPath, _ = flags.GetString("dictionary")
	}
	if flags.Changed("accept-all-words") {
		cfg.AcceptAllWords, _ = flags.GetBool("accept-all-words")
	}
}

func runServer(ctx context.Context, cfg *config.Config) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	factoryCfg := factory.Config{
		Logger:           logger,
		StorageType:      cfg.StorageType,
		AcceptAllWords:   cfg.AcceptAllWords,
		ChallengeWindow:  cfg.ChallengeWindow,
		GuessDedupWindow: cfg.GuessDedupWindow,
	}

	if cfg.StorageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		return err
	}

	loadDictionary(ctx, app, cfg, logger)

	router := api.NewRouter(api.RouterConfig{
		Logger:       logger,
		StatsService: app.StatsService,
		WSHandler:    app.WSHandler,
	})

	serverCfg := api.DefaultServerConfig()
	serverCfg.Host = cfg.Host
	serverCfg.Port = cfg.Port
	server := api.NewServer(router, serverCfg, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			return err
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			return err
		}
	}

	logger.Info("server stopped")
	return nil
}

// loadDictionary tries the configured file first, then storage (a previous
// run may have persisted the word list). Missing words are survivable when
// accept-all-words is on; every difficulty needs a pool otherwise.
func loadDictionary(ctx context.Context, app *factory.App, cfg *config.Config, logger *slog.Logger) {
	if cfg.DictionaryPath != "" {
		err := app.WordsService.LoadFromFile(ctx, cfg.DictionaryPath)
		if err == nil {
			logWordCounts(app, logger)
			return
		}
		logger.Warn("could not load dictionary file",
			slog.String("path", cfg.DictionaryPath),
			slog.String("error", err.Error()),
		)
	}

	if err := app.WordsService.LoadFromStorage(ctx); err != nil {
		if errors.Is(err, model.ErrDictionaryNotLoaded) && cfg.AcceptAllWords {
			logger.Warn("running without a dictionary; all words accepted")
			return
		}
		logger.Warn("could not load dictionary from storage", slog.String("error", err.Error()))
		return
	}
	logWordCounts(app, logger)
}

func logWordCounts(app *factory.App, logger *slog.Logger) {
	logger.Info("dictionary ready",
		slog.Int("easy", app.WordsService.WordCount(model.DifficultyEasy.WordLength())),
		slog.Int("medium", app.WordsService.WordCount(model.DifficultyMedium.WordLength())),
		slog.Int("hard", app.WordsService.WordCount(model.DifficultyHard.WordLength())),
		slog.Int("expert", app.WordsService.WordCount(model.DifficultyExpert.WordLength())),
	)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
