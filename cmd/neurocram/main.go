package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pavelanni/neurocram/internal/dates"
	"github.com/pavelanni/neurocram/internal/engine"
	"github.com/pavelanni/neurocram/internal/handler"
	appI18n "github.com/pavelanni/neurocram/internal/i18n"
	"github.com/pavelanni/neurocram/internal/llm"
	"github.com/pavelanni/neurocram/internal/llm/prompts"
	"github.com/pavelanni/neurocram/internal/model"
	"github.com/pavelanni/neurocram/internal/service"
	"github.com/pavelanni/neurocram/internal/store"
)

func main() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "neurocram",
		Short:        "Exam intelligence: urgency, stress forecast, brain energy and study windows",
		SilenceUsage: true,
	}

	serve := serveCmd()
	root.AddCommand(serve, analyzeCmd(), forecastCmd(), exportCmd(), purgeCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `neurocram --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

// engineFlags registers the settings shared by every command that scores plans.
func engineFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("db", "", "SQLite result cache path (empty keeps the cache in memory)")
	f.Int("horizon", engine.DefaultHorizon, "Stress forecast length in days")
	f.StringP("lang", "l", "en", "Output language (en, ru)")
	f.String("today", "", "Evaluate as of this date (YYYY-MM-DD) instead of the current date")
	logFlags(cmd)
}

func logFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE:  runServe,
	}
	engineFlags(cmd)
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("llm-url", "", "OpenAI-compatible API base URL (empty disables the study coach)")
	f.String("llm-key", "ollama", "API key for LLM")
	f.String("llm-model", "llama3.2", "LLM model name")
	f.String("coach-tone", string(prompts.ToneStandard), "Study coach tone (gentle, standard, drill)")
	f.Duration("shutdown-timeout", 10*time.Second, "Grace period for in-flight requests on shutdown")
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("NEUROCRAM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("neurocram")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/neurocram")
	v.AddConfigPath("/etc/neurocram")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

// engineConfig reads the shared engine settings and resolves the evaluation
// date. A zero day means "use the clock".
func engineConfig(v *viper.Viper) (model.EngineConfig, dates.Day, error) {
	cfg := model.EngineConfig{
		Horizon:   v.GetInt("horizon"),
		Lang:      v.GetString("lang"),
		Today:     strings.TrimSpace(v.GetString("today")),
		CoachTone: strings.ToLower(strings.TrimSpace(v.GetString("coach-tone"))),
	}
	if cfg.Horizon <= 0 {
		return cfg, dates.Day{}, fmt.Errorf("horizon must be positive, got %d", cfg.Horizon)
	}
	var today dates.Day
	if cfg.Today != "" {
		d, err := dates.Parse(cfg.Today)
		if err != nil {
			return cfg, dates.Day{}, fmt.Errorf("today: %w", err)
		}
		today = d
	}
	return cfg, today, nil
}

// openCache opens the result cache and drops entries from other engine
// versions.
func openCache(path string, horizon int) (*store.Store, error) {
	db, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	stale, err := db.Reset(model.CacheInfo{EngineVersion: engine.Version, Horizon: horizon})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("reset cache: %w", err)
	}
	if stale {
		slog.Info("dropped cached results from another engine version", "db", path)
	}
	return db, nil
}

// openOutput returns stdout for "" or "-", else a created file.
func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, f.Close, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	cfg, today, err := engineConfig(v)
	if err != nil {
		return err
	}

	db, err := openCache(v.GetString("db"), cfg.Horizon)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := appI18n.Init(cfg.Lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	svc := service.NewIntelligence(db, cfg.Horizon, slog.Default())
	if !today.IsZero() {
		fixed := today.Time()
		svc.Now = func() time.Time { return fixed }
	}

	var coach handler.Coach
	if url := v.GetString("llm-url"); url != "" {
		if !prompts.IsValidTone(cfg.CoachTone) {
			slog.Warn("invalid coach-tone, using standard", "tone", cfg.CoachTone)
			cfg.CoachTone = string(prompts.ToneStandard)
		}
		if err := prompts.Load(prompts.FS); err != nil {
			return fmt.Errorf("load coach prompts: %w", err)
		}
		coach = llm.New(url, v.GetString("llm-key"), v.GetString("llm-model"), cfg.CoachTone)
	} else {
		slog.Info("no llm-url configured, study coach disabled")
	}

	h := handler.New(svc, coach, slog.Default())
	srv := &http.Server{
		Addr:              v.GetString("addr"),
		Handler:           handler.NewRouter(h, cfg.Lang),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("starting server",
		"addr", srv.Addr,
		"db", v.GetString("db"),
		"horizon", cfg.Horizon,
		"lang", cfg.Lang,
		"today", cfg.Today,
		"coach", coach != nil,
		"coach_tone", cfg.CoachTone,
	)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-cmd.Context().Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), v.GetDuration("shutdown-timeout"))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
