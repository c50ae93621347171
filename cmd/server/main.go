package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/stripplan/internal/application"
	"github.com/eugenenazirov/stripplan/internal/config"
	"github.com/eugenenazirov/stripplan/internal/logging"
)

var signalNotify = signal.Notify

func main() {
	overrides, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	logger.Info("planner configured",
		zap.Float64s("catalog", cfg.Catalog),
		zap.Float64("roll_length", cfg.RollLength),
		zap.Float64("watts_per_meter", cfg.WattsPerMeter),
		zap.Int("safety_factor_percent", cfg.SafetyFactorPercent),
		zap.String("source_mode", cfg.SourceMode),
	)

	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
}

// parseFlags turns command-line arguments into configuration overrides.
// Numeric flags default to -1 so unset values fall through to YAML and env.
func parseFlags(args []string) (*config.CLIOverrides, error) {
	kingpinApp := kingpin.New("strip-planner", "LED strip planner - cuts strip pieces from rolls and assigns power sources")
	configFile := kingpinApp.Flag("config", "Path to YAML configuration file").String()
	port := kingpinApp.Flag("port", "HTTP port exposed by the service").String()
	logLevel := kingpinApp.Flag("log-level", "Log level (debug, info, warn, error)").String()
	catalogStr := kingpinApp.Flag("catalog", "Comma-separated power source ratings in watts").String()
	rollLength := kingpinApp.Flag("roll-length", "Default roll length in metres").Default("-1").Float64()
	wattsPerMeter := kingpinApp.Flag("watts-per-meter", "Default strip power density").Default("-1").Float64()
	safetyPercent := kingpinApp.Flag("safety-factor-percent", "Default power safety margin in percent").Default("-1").Int()
	sourceMode := kingpinApp.Flag("source-mode", "Default source assignment mode").Enum(config.ModeGrouped, config.ModeIndividual)
	rateLimitRPSFlag := kingpinApp.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	rateLimitBurstFlag := kingpinApp.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()

	if _, err := kingpinApp.Parse(args); err != nil {
		return nil, err
	}

	overrides := &config.CLIOverrides{
		ConfigFile: *configFile,
	}

	if *port != "" {
		overrides.Port = port
	}

	if *logLevel != "" {
		overrides.LogLevel = logLevel
	}

	if *catalogStr != "" {
		overrides.CatalogStr = catalogStr
	}

	if *rollLength >= 0 {
		overrides.RollLength = rollLength
	}

	if *wattsPerMeter >= 0 {
		overrides.WattsPerMeter = wattsPerMeter
	}

	if *safetyPercent >= 0 {
		overrides.SafetyFactorPercent = safetyPercent
	}

	if *sourceMode != "" {
		overrides.SourceMode = sourceMode
	}

	if *rateLimitRPSFlag >= 0 {
		overrides.RateLimitRPS = rateLimitRPSFlag
	}

	if *rateLimitBurstFlag >= 0 {
		overrides.RateLimitBurst = rateLimitBurstFlag
	}

	return overrides, nil
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
