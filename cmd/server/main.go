package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/lucashb/cotador/internal/api"
	"github.com/lucashb/cotador/internal/config"
	"github.com/lucashb/cotador/internal/localstore"
	"github.com/lucashb/cotador/internal/server"
	"github.com/lucashb/cotador/internal/session"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	store, err := localstore.Connect(cfg.LocalStoreDSN)
	if err != nil {
		log.Fatalf("local store: %v", err)
	}

	client := api.New(cfg.APIBaseURL, cfg.TenantID, cfg.APITimeout)
	gate := session.NewGate(store, client, cfg.SessionSecret)

	log.Printf("Starting server env=%s port=%s api=%s", cfg.Env, cfg.Port, cfg.APIBaseURL)
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: server.New(gate, client, store)}

	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
