package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"vinjerock_watcher/internal/app"
	"vinjerock_watcher/internal/domain/notify"
	"vinjerock_watcher/internal/infra/config"
	"vinjerock_watcher/internal/infra/desktop"
	"vinjerock_watcher/internal/infra/logger"
	"vinjerock_watcher/internal/infra/metrics"
	"vinjerock_watcher/internal/infra/scheduler"
	"vinjerock_watcher/internal/infra/telegram"
	"vinjerock_watcher/internal/infra/ticketmaster"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

func main() {
	envFile := pflag.String("env-file", ".env", "Path to a .env file with configuration overrides")
	once := pflag.Bool("once", false, "Check availability once and exit, without the startup notification")
	pflag.Parse()

	fmt.Println("Vinjerock ticket watcher starting...")

	cfg, err := config.Load(*envFile)
	if err != nil {
		logger.Log.Fatalf("Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	log := logger.Get()
	log.Infof("Configuration loaded. Base interval: %s, Environment: %s", cfg.BaseInterval, cfg.Environment)

	source := ticketmaster.NewClient(&http.Client{Timeout: cfg.RequestTimeout}, cfg.AvailabilityBaseURL)

	notifier, err := buildNotifier(cfg, log)
	if err != nil {
		log.Fatalf("Could not set up notifications: %v", err)
	}

	recorder := metrics.New(cfg.PushgatewayURL)
	if cfg.PushgatewayURL != "" {
		log.Infof("Pushing metrics to %s", cfg.PushgatewayURL)
	}

	notifScheduler := scheduler.NewScheduler(log)

	loopCfg := app.PollLoopConfig{
		BaseInterval:        cfg.BaseInterval,
		TicketmasterURL:     cfg.TicketmasterURL,
		NotificationIcon:    cfg.NotificationIcon,
		NotificationTimeout: cfg.NotificationTimeout,
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		loopCfg.CountdownOutput = os.Stdout
	}
	loop := app.NewPollLoop(source, notifier, notifScheduler, recorder, log, loopCfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *once {
		os.Exit(runOnce(ctx, loop, recorder, log))
	}

	notifScheduler.Start()
	loop.Start(ctx)

	<-ctx.Done() // Block until a signal is received

	log.Info("Shutting down...")
	loop.Stop()
	notifScheduler.Stop()
	log.Info("Watcher shut down gracefully.")
}

// buildNotifier wires every enabled notification channel into one notifier.
func buildNotifier(cfg *config.AppConfig, log *logrus.Logger) (notify.Notifier, error) {
	var notifiers notify.Multi
	if cfg.DesktopNotifications {
		notifiers = append(notifiers, desktop.NewNotifier(log))
		log.Info("Desktop notifications enabled.")
	}
	if cfg.TelegramEnabled() {
		bot, err := telegram.NewBot(cfg.TelegramToken)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, telegram.NewNotifier(telegram.NewTelebotAdapter(bot), cfg.TelegramChatID))
		log.Infof("Telegram notifications enabled for chat %d.", cfg.TelegramChatID)
	}
	return notifiers, nil
}

// runOnce returns the process exit code: 1 when any category could not be checked.
func runOnce(ctx context.Context, loop *app.PollLoop, recorder metrics.Recorder, log *logrus.Logger) int {
	code := 0
	for _, result := range loop.Check(ctx) {
		if result.Err != nil {
			code = 1
		}
	}
	if err := recorder.Push(ctx); err != nil {
		log.WithError(err).Warn("Failed to push metrics")
	}
	return code
}
