package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"bandex/internal/api"
	"bandex/internal/cli"
	"bandex/internal/collector"
	"bandex/internal/config"
	"bandex/internal/display"
	"bandex/internal/logger"
	"bandex/internal/notifier"
	"bandex/internal/scheduler"
)

const version = "1.2.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// .env is optional
	_ = godotenv.Load()

	opts, err := cli.Parse(args, os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Erro: %v\n", err)
		return 2
	}
	if opts.Version {
		fmt.Printf("bandex %s\n", version)
		return 0
	}

	cfgPath := config.ResolvePath(opts.ConfigPath)
	cfg, cfgErr := config.Load(cfgPath)
	if cfgErr != nil {
		cfg = config.Default()
		cfg.ApplyEnv()
	}

	log := logger.New(cfg.LogLevel, opts.Verbose)
	defer log.Sync()
	if cfgErr != nil {
		log.Warnw("invalid config file, using defaults", "path", cfgPath, "error", cfgErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fetcher := collector.NewUSPFetcher(cfg.BaseURL, cfg.Proxy, log)
	log.Debugw("data source", "fetcher", fetcher.Name(), "base_url", fetcher.BaseURL)

	if opts.Daemon {
		if err := runDaemon(ctx, cfg, fetcher, log); err != nil {
			log.Errorw("daemon failed", "error", err)
			return 1
		}
		return 0
	}

	colored := !opts.NoColor && os.Getenv("NO_COLOR") == "" &&
		(isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))
	r := display.New(os.Stdout, collector.NewCache(fetcher, log), cfg, colored)

	if opts.List {
		found, err := collector.Discover(ctx, fetcher, 1, collector.DiscoverLimit)
		if err != nil {
			log.Errorw("list restaurants", "error", err)
			return 1
		}
		r.ListRestaurants(found)
		return 0
	}

	now := time.Now()
	r.ShowLogo(version)
	if err := r.Show(ctx, opts.Weekdays(now), opts.MealTypes(now)); err != nil {
		log.Errorw("show menus", "error", err)
		return 1
	}
	return 0
}

func runDaemon(ctx context.Context, cfg *config.Config, fetcher collector.Fetcher, log *zap.SugaredLogger) error {
	if err := cfg.ValidateDaemon(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	log.Infow("bandex daemon starting", "version", version, "restaurants", cfg.RestaurantIDs())

	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)

	sched := scheduler.NewScheduler(ctx, fetcher, cfg, tn, log)
	if err := sched.RegisterAll(cfg.Schedule.LunchCron, cfg.Schedule.DinnerCron); err != nil {
		return fmt.Errorf("register cron tasks: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	polling := make(chan struct{})
	go func() {
		defer close(polling)
		tn.StartPolling(ctx, sched.HandleCommand)
	}()
	log.Infow("telegram polling started")

	var srv *http.Server
	if cfg.HTTPAddr != "" {
		srv = &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      api.NewHandler(fetcher, cfg, log, version).Router(),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 90 * time.Second,
		}
		go func() {
			log.Infow("http api listening", "address", cfg.HTTPAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorw("http api failed", "error", err)
			}
		}()
	}

	if os.Getenv("BANDEX_RUN_ON_START") == "true" {
		log.Infow("BANDEX_RUN_ON_START enabled, sending current meals now")
		go func() {
			for _, meal := range cli.MealTypesAt(time.Now()) {
				sched.RunNow(meal)
			}
		}()
	}

	<-ctx.Done()
	log.Infow("shutdown signal received, stopping")
	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorw("http api forced to shutdown", "error", err)
		}
	}
	<-polling
	return nil
}
