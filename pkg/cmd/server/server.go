package server

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // by design
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/quicktrack/fleetcontrol-service-go/log"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/config"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/db/postgres"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/geocode"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/model"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/processing/fuel"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/utils"
)

//nolint:funlen // by design
func NewServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "starts the HTTP api server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startServer()
		},
	}
	cmd.Flags().StringVarP(&config.HTTPServerAddr,
		"http-server-addr",
		"a",
		"localhost:3000",
		"HTTP server listen address")

	cmd.Flags().StringVar(&config.LogLevel,
		"log-level",
		"info",
		"controls the log level (debug, info, warn, error, fatal)")
	cmd.Flags().StringVar(&config.SQLLogLevel,
		"sql-log-level",
		"debug",
		"controls the log level for sql methods")
	cmd.Flags().StringVar(&config.LogFormat,
		"log-format",
		"json",
		"controls the log output format")
	cmd.Flags().StringVar(&config.LogFilter,
		"log-filter",
		"",
		"zapfilter rules to silence or raise single subsystems")
	cmd.Flags().IntVar(&config.ProfilingPort,
		"profiling-port",
		0,
		"port to use for providing profiling data")

	cmd.Flags().Float64Var(&config.MinSpeedKmh,
		"min-speed-kmh",
		5,
		"speed threshold above which a vehicle counts as moving")
	cmd.Flags().IntVar(&config.MinMovingSeconds,
		"min-moving-seconds",
		60,
		"moving blocks shorter than this are discarded")
	cmd.Flags().IntVar(&config.MinStopSeconds,
		"min-stop-seconds",
		600,
		"idle time or data gap that ends a moving block")
	cmd.Flags().IntVar(&config.StopToleranceSec,
		"stop-tolerance-sec",
		120,
		"sub-threshold dips up to this duration keep a block open")

	cmd.Flags().StringVar(&config.FuelKeys,
		"fuel-keys",
		"fuel,fuel.level,io48",
		"candidate attribute keys for the fuel value, first finite hit wins")
	cmd.Flags().Float64Var(&config.FuelDropLiters,
		"fuel-drop-liters",
		10,
		"absolute fuel decrease that raises a drop event")
	cmd.Flags().Float64Var(&config.FuelDropPercent,
		"fuel-drop-percent",
		8,
		"relative fuel decrease (%) that raises a drop event")
	cmd.Flags().Float64Var(&config.FuelRefuelLiters,
		"fuel-refuel-liters",
		10,
		"absolute fuel increase that raises a refuel event")
	cmd.Flags().Float64Var(&config.FuelRefuelPercent,
		"fuel-refuel-percent",
		8,
		"relative fuel increase (%) that raises a refuel event")
	cmd.Flags().IntVar(&config.FuelWindowMinutes,
		"fuel-window-minutes",
		10,
		"accepted for compatibility, not used by detection")

	cmd.Flags().Float64Var(&config.MaxPlausibleSpeedKmh,
		"max-plausible-speed-kmh",
		160,
		"legs implying a higher speed are rejected as GPS jumps")
	cmd.Flags().IntVar(&config.DetailGapSeconds,
		"detail-gap-seconds",
		300,
		"adjacent day segments closer than this are merged")
	cmd.Flags().IntVar(&config.DetailMinSegmentSeconds,
		"detail-min-segment-seconds",
		180,
		"trips shorter than this are dropped as noise")
	cmd.Flags().Float64Var(&config.DetailMinSegmentDistanceM,
		"detail-min-segment-distance-m",
		300,
		"trips with less accumulated distance are dropped")
	cmd.Flags().Float64Var(&config.DetailMinStartEndDistanceM,
		"detail-min-start-end-distance-m",
		150,
		"trips whose endpoints are closer are dropped")
	cmd.Flags().IntVar(&config.DetailMergeStopSeconds,
		"detail-merge-stop-seconds",
		180,
		"max stop duration bridged by the trip merge")

	cmd.Flags().StringVar(&config.GeocodeURL,
		"geocode-url",
		"https://nominatim.openstreetmap.org/reverse",
		"reverse geocoding endpoint")
	cmd.Flags().StringVar(&config.GeocodeTimeout,
		"geocode-timeout",
		"7s",
		"timeout for a single reverse geocoding call")
	cmd.Flags().StringVar(&config.GeocodeCacheTTL,
		"geocode-cache-ttl",
		"24h",
		"lifetime of cached reverse geocoding results")
	cmd.Flags().IntVar(&config.GeocodeMaxConcurrent,
		"geocode-max-concurrent",
		2,
		"max concurrent reverse geocoding calls (0 = unlimited)")
	return cmd
}

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

func parseDuration(val string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func setupLoggers() (logger, sqlLogger *log.Logger) {
	switch config.LogFormat {
	case "json":
		logger = log.New(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
		sqlLogger = log.New(
			os.Stderr,
			parseLogLevel(config.SQLLogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	default:
		logger = log.DevLogger(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.DebugLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
		sqlLogger = log.DevLogger(
			os.Stderr,
			parseLogLevel(config.SQLLogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	}
	if config.LogFilter != "" {
		if filtered, err := logger.WithFilters(config.LogFilter); err == nil {
			logger = filtered
		} else {
			logger.Warn("invalid log filter rules", log.ErrorField(err))
		}
	}
	return logger, sqlLogger
}

//nolint:funlen // by design
func startServer() error {
	logger, sqlLogger := setupLoggers()
	log.ResetDefault(logger)

	if config.ProfilingPort > 0 {
		log.Info("Starting profiling server on port", log.Int("port", config.ProfilingPort))
		go func() {
			//nolint:gosec // by design
			err := http.ListenAndServe(
				fmt.Sprintf("localhost:%d", config.ProfilingPort),
				nil)
			if err != nil {
				log.Error("Profiling server stopped", log.ErrorField(err))
			}
		}()
	}

	waitForRequiredServices()

	log.Info("Starting server")
	pool := postgres.InitWithURL(
		config.DB,
		postgres.WithTracer(sqlLogger),
	)
	defer pool.Close()

	mux := registerRoutes(newHandlers(pool))

	server := &http.Server{
		Addr:              config.HTTPServerAddr,
		Handler:           cors.AllowAll().Handler(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", log.String("addr", config.HTTPServerAddr))
		errChan <- server.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errChan:
		log.Error("server could not be started", log.ErrorField(err))
		return err
	case v := <-sigChan:
		log.Debug("Got signal", log.Any("signal", v))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("forced shutdown", log.ErrorField(err))
	}
	log.Info("Server terminated")
	return nil
}

func waitForRequiredServices() {
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 15s", log.ErrorField(err))
		timeout = 15 * time.Second
	}
	postgresAddr := utils.ExtractFromDBURL(config.DB)
	if err := utils.WaitForTCP(postgresAddr, timeout); err != nil {
		log.Fatal("database not ready", log.ErrorField(err))
	}
}

func activityConfig() model.ActivityConfig {
	return model.ActivityConfig{
		MinSpeedKmh:      config.MinSpeedKmh,
		MinMovingSeconds: config.MinMovingSeconds,
		MinStopSeconds:   config.MinStopSeconds,
		StopToleranceSec: config.StopToleranceSec,
	}
}

func tripConfig() model.TripConfig {
	return model.TripConfig{
		GapSeconds:           config.DetailGapSeconds,
		MinSegmentSeconds:    config.DetailMinSegmentSeconds,
		MinSegmentDistanceM:  config.DetailMinSegmentDistanceM,
		MinStartEndDistanceM: config.DetailMinStartEndDistanceM,
		MergeStopSeconds:     config.DetailMergeStopSeconds,
		MaxPlausibleSpeedKmh: config.MaxPlausibleSpeedKmh,
	}
}

func newAddressResolver() *geocode.AddressResolver {
	return geocode.NewAddressResolver(
		geocode.WithGeocodeClient(geocode.NewClient(
			geocode.WithBaseURL(config.GeocodeURL),
			geocode.WithTimeout(parseDuration(config.GeocodeTimeout, 7*time.Second)),
		)),
		geocode.WithCacheTTL(parseDuration(config.GeocodeCacheTTL, 24*time.Hour)),
		geocode.WithMaxConcurrent(config.GeocodeMaxConcurrent),
	)
}

func fuelThresholds() (drops, refuels fuel.Thresholds) {
	drops = fuel.Thresholds{
		AbsoluteLiters: config.FuelDropLiters,
		Percent:        config.FuelDropPercent,
		WindowMinutes:  config.FuelWindowMinutes,
	}
	refuels = fuel.Thresholds{
		AbsoluteLiters: config.FuelRefuelLiters,
		Percent:        config.FuelRefuelPercent,
		WindowMinutes:  config.FuelWindowMinutes,
	}
	return drops, refuels
}
