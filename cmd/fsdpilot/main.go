package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aerolink/fsdpilot/pkg/client"
	"github.com/aerolink/fsdpilot/pkg/fsd"
)

func main() {
	configPath := flag.String("config", "~/.fsdpilot/config.toml", "Path to config file")
	server := flag.String("server", "", "Server address (overrides config)")
	callsign := flag.String("callsign", "", "Callsign (overrides config)")
	verbose := flag.Bool("verbose", false, "Log protocol events")
	flag.Parse()

	// Load configuration (creates default if not found)
	config, err := client.LoadClientConfig(*configPath)
	if err != nil {
		if configErr, ok := err.(*client.ConfigError); ok && configErr.LineNumber > 0 {
			log.Fatalf("Config error at %s:%d: %v", *configPath, configErr.LineNumber, err)
		}
		log.Fatalf("Failed to load config: %v", err)
	}

	// Command-line flags override config file
	if *server != "" {
		config.Connection.Server = *server
		config.Connection.Port = 0
	}
	if *callsign != "" {
		config.Identity.Callsign = *callsign
	}

	statePath, err := config.GetStateDBPath()
	if err != nil {
		log.Fatalf("Failed to resolve state path: %v", err)
	}
	state, err := client.OpenState(statePath)
	if err != nil {
		log.Fatalf("Failed to open state database: %v", err)
	}
	defer state.Close()

	if config.Identity.Callsign == "" {
		config.Identity.Callsign = state.GetLastCallsign()
	}
	if config.Identity.Callsign == "" {
		log.Fatal("No callsign configured (set identity.callsign or pass -callsign)")
	}

	c, err := client.NewClient(config)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	c.AttachState(state)
	if *verbose {
		c.SetLogger(log.New(os.Stderr, "", log.LstdFlags))
	}

	if config.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		c.EnableMetrics(reg)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(config.Metrics.ListenAddr, mux); err != nil {
				log.Printf("Metrics listener failed: %v", err)
			}
		}()
		log.Printf("Metrics on http://%s/metrics", config.Metrics.ListenAddr)
	}

	handlers := c.Handlers()
	handlers.OnTextMessage(func(m fsd.TextMessage) {
		switch m.Type {
		case fsd.TextMessageRadio:
			fmt.Printf("[radio] %s: %s\n", m.Sender, m.Text)
		case fsd.TextMessageBroadcast:
			fmt.Printf("[broadcast] %s: %s\n", m.Sender, m.Text)
		default:
			fmt.Printf("[%s] %s\n", m.Sender, m.Text)
		}
	})
	handlers.OnServerError(func(m fsd.ServerError) {
		log.Printf("Server error %d (%s): %s", int(m.Code), m.Code, m.DescriptionText())
	})
	handlers.OnStateChange(func(s client.SessionState, err error) {
		if err != nil {
			log.Printf("Session %s: %v", s, err)
			return
		}
		log.Printf("Session %s", s)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = c.Connect(ctx)
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to %s: %v", config.GetServerAddress(), err)
	}
	log.Printf("Connected to %s as %s", config.GetServerAddress(), c.Callsign())
	state.SetLastCallsign(c.Callsign())

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Printf("Disconnecting (sent %d bytes, received %d)", c.BytesSent(), c.BytesReceived())
	c.Disconnect()
}
