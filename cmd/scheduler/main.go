package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wolfman30/appointment-scheduler/internal/api"
	"github.com/wolfman30/appointment-scheduler/internal/auth"
	appconfig "github.com/wolfman30/appointment-scheduler/internal/config"
	"github.com/wolfman30/appointment-scheduler/internal/createappointment"
	"github.com/wolfman30/appointment-scheduler/internal/observability/metrics"
	"github.com/wolfman30/appointment-scheduler/internal/ui"
	"github.com/wolfman30/appointment-scheduler/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	// stdout belongs to the prompt; logs go to stderr.
	logger := logging.NewWithWriter(os.Stderr, cfg.LogLevel)
	logger.Info("starting scheduler client",
		"env", cfg.Env,
		"api_base_url", cfg.APIBaseURL,
		"platform", cfg.Platform,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := auth.NewStaticSession(auth.User{
		ID:        cfg.UserID,
		Name:      cfg.UserName,
		AvatarURL: cfg.UserAvatarURL,
	}, cfg.AuthToken)
	schedMetrics := metrics.NewSchedulingMetrics(prometheus.NewRegistry())

	client := api.NewClient(cfg.APIBaseURL, logger,
		api.WithTimeout(cfg.APITimeout),
		api.WithMetrics(schedMetrics),
		api.WithTokenSource(session.Token),
	)

	stack := ui.NewStack(ui.ScreenCreateAppointment, ui.Params{"providerId": cfg.ProviderID})
	loc := cfg.Location()
	nav := &terminalNavigator{stack: stack, out: os.Stdout, loc: loc}
	screen := createappointment.New(createappointment.Deps{
		API:       client,
		Session:   session,
		Navigator: nav,
		Alerter:   &terminalAlerter{out: os.Stdout},
		Logger:    logger,
		Metrics:   schedMetrics,
		Platform:  cfg.Platform,
		Location:  loc,
	}, createappointment.Params{ProviderID: cfg.ProviderID})
	defer screen.Close()

	sh := newShell(screen, stack, os.Stdout)
	if err := sh.Run(ctx, os.Stdin); err != nil {
		logger.Error("scheduler stopped", "error", err)
		os.Exit(1)
	}
}
