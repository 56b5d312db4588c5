package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"BreakoutScanner/internal/collector"
	"BreakoutScanner/internal/config"
	"BreakoutScanner/internal/notifier"
	"BreakoutScanner/internal/report"
	"BreakoutScanner/internal/scanner"
	"BreakoutScanner/internal/scheduler"
	"BreakoutScanner/internal/server"
	"BreakoutScanner/internal/watchlist"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cmd := &cli.Command{
		Name:  "scanner",
		Usage: "Pre-breakout equity scanner",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML config `FILE` (falls back to CONFIG_PATH, then " + config.DefaultPath + ")",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the HTTP scan trigger and run the optional cron schedule",
				Action: serveAction,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "run-on-start",
						Usage:   "Run one scan immediately after startup",
						Sources: cli.EnvVars("RUN_ON_START"),
					},
					&cli.BoolFlag{
						Name:    "telegram-commands",
						Usage:   "Accept /scan from the configured Telegram chat",
						Sources: cli.EnvVars("TELEGRAM_COMMANDS"),
					},
				},
			},
			{
				Name:   "scan",
				Usage:  "Run one scan and print the summary",
				Action: scanAction,
			},
		},
		DefaultCommand: "serve",
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("scanner exited")
	}
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	path := config.ResolvePath(cmd.String("config"))
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Info().Str("config", path).Str("level", lvl.String()).Msg("configuration loaded")
	return cfg, nil
}

// buildScanner wires the pipeline from configuration. The Telegram notifier
// is returned separately so serve can poll it for commands; it is nil when
// no bot token is configured.
func buildScanner(cfg *config.Config) (*scanner.Scanner, *notifier.TelegramNotifier, error) {
	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "polygon":
		pf, err := collector.NewPolygonFetcher(cfg.DataSource.PolygonAPIKey, cfg.DataSource.Timeout)
		if err != nil {
			return nil, nil, fmt.Errorf("init polygon fetcher: %w", err)
		}
		fetcher = pf
	default:
		fetcher = collector.NewYahooFetcher(cfg.DataSource.TickerSuffix, cfg.DataSource.Timeout, cfg.Proxy)
	}
	log.Info().Str("source", fetcher.Name()).Msg("data source selected")

	var targets notifier.MultiNotifier
	if cfg.Notify.WebhookURL != "" {
		targets = append(targets, notifier.NewWebhookNotifier(cfg.Notify.WebhookURL, cfg.Notify.UploadURL, cfg.Notify.Timeout, cfg.Proxy))
	}
	var tg *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" {
		tg = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Notify.Timeout, cfg.Proxy)
		targets = append(targets, tg)
	}
	var n notifier.Notifier
	switch len(targets) {
	case 0:
		log.Warn().Msg("no webhook or telegram configured, alerts will only be logged")
		n = notifier.LogNotifier{}
	case 1:
		n = targets[0]
	default:
		n = targets
	}

	opts := scanner.Options{
		WatchlistPath:  cfg.Watchlist.Path,
		MaxTickers:     cfg.Watchlist.MaxTickers,
		ScoreThreshold: cfg.Strategy.ScoreThreshold,
		TopN:           cfg.Strategy.TopN,
	}
	col := collector.NewCollector(fetcher, cfg.DataSource.LookbackDays)
	renderer := report.NewRenderer(cfg.Report.TempDir, cfg.Report.ChartDays, cfg.Report.FontDir)
	return scanner.New(opts, watchlist.Load, col, renderer, n), tg, nil
}

const commandHelp = "Available commands:\n/scan - run a scan now and report the summary"

// chatCommands answers Telegram commands.
func chatCommands(sc *scanner.Scanner) notifier.CommandHandler {
	return func(ctx context.Context, command string) string {
		name, _, _ := strings.Cut(strings.TrimSpace(command), " ")
		name, _, _ = strings.Cut(name, "@")
		switch strings.ToLower(name) {
		case "/scan", "/execute_scan":
			return sc.Run(ctx).Summary()
		default:
			return commandHelp
		}
	}
}

func scanAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, _, err := buildScanner(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res := sc.Run(ctx)
	fmt.Println(res.Summary())
	return nil
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, tg, err := buildScanner(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if tg != nil && cmd.Bool("telegram-commands") {
		go tg.StartPolling(ctx, chatCommands(sc))
		log.Info().Msg("telegram command polling started")
	}

	var sched *scheduler.Scheduler
	if cfg.Schedule.Cron != "" {
		sched, err = scheduler.NewScheduler(ctx, sc, cfg.Schedule.Timezone)
		if err != nil {
			return err
		}
		if err := sched.Register(cfg.Schedule.Cron); err != nil {
			return err
		}
		sched.Start()
	}

	if cmd.Bool("run-on-start") {
		log.Info().Msg("run-on-start enabled, executing scan now")
		go func() {
			log.Info().Msg(sc.Run(ctx).Summary())
		}()
	}

	srv := server.New(ctx, cfg.Server.Addr, sc)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if sched != nil {
			sched.Stop()
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutdown signal received, stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if sched != nil {
		sched.Stop()
	}
	log.Info().Msg("scanner stopped")
	return nil
}
