// Command alpbridged runs one ALP/SNAP serial bridge port: it opens
// the configured serial device, classifies uplink traffic with the
// selected profile, forwards alarms to a logging sink, and serves
// Prometheus metrics.
//
// CLI wiring adapted from the teacher's host/cmd/gopper-host/main.go
// (device/baud flags, connect-then-run shape), switched from the
// standard library's flag package to github.com/spf13/pflag, the
// richer idiom the rest of the retrieval pack reaches for once a
// binary takes more than two or three flags.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/kelthane-iot/alplink/internal/alarmsink"
	"github.com/kelthane-iot/alplink/internal/config"
	"github.com/kelthane-iot/alplink/internal/port"
)

var (
	device      = flag.StringP("device", "d", "/dev/ttyUSB0", "serial device path")
	baud        = flag.Int("baud", 9600, "baud rate")
	profile     = flag.StringP("profile", "p", "hhl", "classifier profile: hhl or prodex")
	configPath  = flag.StringP("config", "c", "", "YAML config file (overrides other flags when set)")
	metricsAddr = flag.String("metrics-addr", ":9090", "address to serve /metrics on")
	verbose     = flag.BoolP("verbose", "v", false, "enable debug logging")
)

func main() {
	flag.Parse()

	log := logrus.New()
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	entry := logrus.NewEntry(log)

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "alpbridged: %v\n", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	sink := alarmsink.NewLogSink(entry)

	adapter, err := port.New(cfg, sink, reg, entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "alpbridged: %v\n", err)
		os.Exit(1)
	}
	defer adapter.Close()

	go serveMetrics(cfg.MetricsAddr, reg, entry)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	entry.WithFields(logrus.Fields{
		"baud":    cfg.Baud,
		"profile": cfg.Profile,
	}).Info("alpbridged starting")

	if err := adapter.Run(ctx); err != nil && ctx.Err() == nil {
		entry.WithError(err).Error("port loop exited")
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if *configPath != "" {
		return config.Load(*configPath)
	}
	cfg := &config.Config{
		Device:      *device,
		Baud:        *baud,
		Profile:     *profile,
		MetricsAddr: *metricsAddr,
	}
	config.ApplyDefaults(cfg)
	return cfg, nil
}

func serveMetrics(addr string, reg *prometheus.Registry, log *logrus.Entry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	log.WithField("addr", addr).Info("serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.WithError(err).Error("metrics server stopped")
	}
}
