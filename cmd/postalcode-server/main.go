package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/akl7777777/se-postalcode/internal/config"
	"github.com/akl7777777/se-postalcode/internal/lookup"
	"github.com/akl7777777/se-postalcode/internal/server"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg := config.Load()

	v, source, err := lookup.NewValidator(cfg)
	if err != nil {
		log.Fatalf("[main] %v", err)
	}

	srv := server.New(v, source, cfg.AuthKey)

	addr := cfg.Host + ":" + cfg.Port
	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("[main] Shutting down...")
		httpServer.Close()
	}()

	authStatus := "disabled"
	if cfg.AuthKey != "" {
		authStatus = "enabled"
	}
	log.Printf("[main] Postal code service starting on %s", addr)
	log.Printf("[main] Table: %s (%d codes) | Fallback: %v | Auth: %s",
		source, v.Len(), cfg.HTTPFallback, authStatus)

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("[main] Server error: %v", err)
	}

	log.Println("[main] Server stopped")
}
