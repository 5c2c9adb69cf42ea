package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/snmpfleet/snmpfleet/internal/config"
	"github.com/snmpfleet/snmpfleet/internal/domain"
	"github.com/snmpfleet/snmpfleet/internal/httpapi"
	"github.com/snmpfleet/snmpfleet/internal/metrics"
	"github.com/snmpfleet/snmpfleet/internal/supervisor"
)

func main() {
	fleetFile := flag.String("fleet", "", "Path to fleet.yaml describing agents and devices")
	httpAddr := flag.String("http-addr", ":8080", "Address for the management HTTP API")
	metricsAddr := flag.String("metrics-addr", "", "Address for the Prometheus /metrics endpoint (empty disables a separate listener and serves /metrics on http-addr)")
	flag.Parse()

	checkFileDescriptors()

	m := metrics.New()
	store := domain.NewMemoryStore()
	sup := supervisor.New(supervisor.Metrics{
		OnPacket:          m.RecordPacket,
		OnDecodeError:     m.RecordDecodeError,
		OnSupervisorEvent: m.RecordSupervisorOutcome,
		OnRunningChanged:  m.SetDevicesRunning,
	})
	facade := domain.NewFacade(store, sup)

	var autostart []string
	if *fleetFile != "" {
		result, err := config.Load(*fleetFile, facade)
		if err != nil {
			log.Fatalf("Failed to load fleet file %s: %v", *fleetFile, err)
		}
		autostart = result.AutostartDeviceIDs
		log.Printf("Loaded fleet from %s: %d autostart device(s)", *fleetFile, len(autostart))
	}

	for _, id := range autostart {
		if err := facade.StartDevice(id); err != nil {
			log.Printf("Warning: autostart device %s failed: %v", id, err)
			continue
		}
		log.Printf("Autostarted device %s", id)
	}

	var metricsServer *http.Server
	var apiServer *httpapi.Server
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{}))
		metricsServer = &http.Server{Addr: *metricsAddr, Handler: mux}
		go func() {
			log.Printf("Starting metrics server on %s", *metricsAddr)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("Warning: metrics server error: %v", err)
			}
		}()
		apiServer = httpapi.New(*httpAddr, facade, nil)
	} else {
		apiServer = httpapi.New(*httpAddr, facade, m)
	}
	go func() {
		log.Printf("Starting management API on %s", *httpAddr)
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Warning: management API error: %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()
	}()

	<-ctx.Done()

	log.Printf("Shutting down...")
	apiServer.Shutdown()
	if metricsServer != nil {
		metricsServer.Close()
	}
	sup.Shutdown()
	log.Printf("Graceful shutdown complete")
}

func checkFileDescriptors() {
	var rlimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rlimit); err != nil {
		log.Printf("Warning: could not check file descriptor limit: %v", err)
		return
	}
	const headroom = 256
	if rlimit.Cur < headroom {
		log.Printf("Warning: file descriptor limit (%d) is low, consider raising with ulimit -n", rlimit.Cur)
	}
}
