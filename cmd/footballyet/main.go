package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"footballyet/internal/cache"
	"footballyet/internal/config"
	"footballyet/internal/countdown"
	"footballyet/internal/feed"
	appLog "footballyet/internal/log"
	"footballyet/internal/metrics"
	"footballyet/internal/schedule"
	"footballyet/internal/web"
)

const version = "2.6.0"

type flagConfig struct {
	configPath string
	envFile    string
	listen     string
	once       bool
}

func main() {
	flags := parseFlags()

	if err := config.LoadDotEnv(flags.envFile); err != nil {
		appLog.Error("failed to load env file", err, "path", flags.envFile)
		os.Exit(1)
	}

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// CLI --listen overrides config file listen if provided.
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	appLog.SetLevel(appLog.ParseLevel(conf.LogLevel))
	appLog.SetFormat(conf.LogFormat)
	appLog.Info("footballyet starting", "version", version)

	loc, err := conf.Location()
	if err != nil {
		appLog.Error("invalid timezone", err, "timezone", conf.Timezone)
		os.Exit(1)
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"feed", appLog.RedactURL(conf.FeedURL),
		"sport_id", conf.SportID,
		"home_location", conf.HomeLocation,
		"timezone", conf.Timezone,
		"ttl_seconds", conf.TTLSeconds,
		"refresh", conf.RefreshCron,
		"once", flags.once,
	)

	fetcher, err := feed.NewFetcher(feed.FetcherConfig{
		URL:       conf.FeedURL,
		SportID:   conf.SportID,
		UserAgent: conf.UserAgent,
		Timeout:   conf.FetchTimeout(),
	})
	if err != nil {
		appLog.Error("invalid feed config", err)
		os.Exit(1)
	}
	loader := feed.NewLoader(fetcher, feed.NewParser(conf.Team, conf.HomeLocation, loc))
	calendar := cache.New(loader.Load, cache.WithWindow(conf.TTL()))

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if flags.once {
		if err := runOnce(ctx, calendar, loc); err != nil {
			appLog.Error("single run failed", err)
			os.Exit(1)
		}
		return
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(conf.RefreshCron, func() { refresh(ctx, calendar) }); err != nil {
		appLog.Error("invalid refresh schedule", err, "refresh", conf.RefreshCron)
		os.Exit(1)
	}
	scheduler.Start()
	defer func() {
		<-scheduler.Stop().Done()
	}()

	// Warm the cache so the first page load does not wait on the feed.
	go refresh(ctx, calendar)

	if err := web.StartServer(ctx, conf, calendar, loc); err != nil {
		appLog.Error("HTTP server failed", err)
		cancel()
		os.Exit(1)
	}
	appLog.Info("footballyet exiting")
}

// refresh loads the current bucket. Failures are logged and counted; the
// next tick or request tries again.
func refresh(ctx context.Context, calendar *cache.CalendarCache) {
	entries, err := calendar.Current(ctx)
	if err != nil {
		metrics.RefreshFailures.Inc()
		appLog.Error("schedule refresh failed", err,
			"transport", feed.IsTransport(err),
			"decode", feed.IsDecode(err),
		)
		return
	}
	appLog.Debug("schedule refreshed", "entry_count", len(entries), "bucket", calendar.CurrentBucket())
}

// runOnce prints the answer and countdown to stdout.
func runOnce(ctx context.Context, calendar *cache.CalendarCache, loc *time.Location) error {
	entries, err := calendar.Current(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	answer := "NO"
	if schedule.IsInSeason(entries, now.In(loc)) {
		answer = "YES"
	}
	fmt.Println(answer)

	target := schedule.NextKickoff(entries, now, loc)
	fmt.Printf("%s: %s\n", target.Title, target.At.In(loc).Format("Monday, Jan 02, 2006 03:04 PM MST"))
	for _, v := range countdown.Until(target.At, now).CountdownValues() {
		fmt.Println(v.Phrase())
	}

	for _, e := range schedule.Upcoming(entries, now.In(loc)) {
		fmt.Printf("%s | %s %s | %s\n", e.Title(), e.LocalDate(), e.LocalTime(), e.Location)
	}
	return nil
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/footballyet/config.yaml", "Path to config file")
	flag.StringVar(&cfg.envFile, "env-file", ".env", "Optional .env file with FOOTBALLYET_* overrides")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.BoolVar(&cfg.once, "once", false, "Fetch the schedule once, print the answer and exit")

	flag.Parse()

	return cfg
}
