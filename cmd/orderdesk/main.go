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

	"orderdesk/config"
	"orderdesk/engine"
	"orderdesk/messaging"
	"orderdesk/projection"
	"orderdesk/store"
	"orderdesk/www"

	"github.com/redis/go-redis/v9"
)

func main() {
	configPath := flag.String("config", "orderdesk.yaml", "path to config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	flag.Parse()

	if *debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if *port > 0 {
		cfg.Web.Port = *port
	}

	// Open database
	db, err := store.Open(&cfg.Database)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	// Redis projections. The service runs without them if Redis is down;
	// reads just hit the database directly.
	var projections *projection.Store
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	proj := projection.NewStore(rdb, cfg.Redis.TTL)
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := proj.Ping(pingCtx); err != nil {
		log.Printf("redis unavailable, running without projections: %v", err)
	} else {
		projections = proj
	}
	pingCancel()

	// Set up messaging
	msgClient := messaging.NewClient(&cfg.Messaging)
	defer msgClient.Close()
	if err := msgClient.Connect(); err != nil {
		log.Printf("messaging connect: %v (will retry via outbox)", err)
	}

	// Create and start engine
	engCfg := engine.Config{
		AppConfig:  cfg,
		ConfigPath: *configPath,
		DB:         db,
		MsgClient:  msgClient,
		LogFunc:    log.Printf,
	}
	if projections != nil {
		engCfg.Projections = projections
	}
	eng := engine.New(engCfg)
	eng.Start()
	defer eng.Stop()

	// Outbox drainer pushes pending events to the broker once it is up.
	drainer := messaging.NewOutboxDrainer(db, msgClient, cfg.Messaging.OutboxDrainInterval)
	drainer.Start()
	defer drainer.Stop()

	// Set up HTTP server
	router, stopWeb := www.NewRouter(eng, projections)
	defer stopWeb()

	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	server := &http.Server{Addr: addr, Handler: router}

	// Start HTTP server
	go func() {
		log.Printf("OrderDesk listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")

	// Stop SSE event hub first so long-lived connections close
	stopWeb()

	// Graceful HTTP shutdown with 10s deadline
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("http server shutdown: %v", err)
	}
}
