package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/occhi/vendafacil/config"
	"github.com/occhi/vendafacil/internal/agent"
	"github.com/occhi/vendafacil/internal/httpapi"
	"github.com/occhi/vendafacil/internal/llm"
	"github.com/occhi/vendafacil/internal/memory"
	"github.com/occhi/vendafacil/internal/pedidos"
	"github.com/occhi/vendafacil/internal/tools"
)

func main() {
	cfg := config.Load()

	db, err := pedidos.Open(cfg.DBDSN, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	client, err := llm.NewClient(llm.ProviderConfig{
		Provider:  cfg.LLMProvider,
		APIKey:    providerKey(cfg),
		AuthToken: cfg.AnthropicToken,
		Model:     cfg.LLMModel,
		BaseURL:   cfg.OllamaBaseURL,
	})
	if err != nil {
		log.Fatalf("llm client: %v", err)
	}

	store := memory.NewStore(cfg.MemoryMaxTokens)
	sweeper, err := memory.NewSweeper(store, cfg.SessionSweepCron,
		time.Duration(cfg.SessionIdleMinutes)*time.Minute)
	if err != nil {
		log.Fatalf("session sweeper: %v", err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	svc := pedidos.NewService(pedidos.NewRepo(db))
	registry := tools.New(svc)
	robozinho := agent.New(store, registry, client,
		cfg.MaxToolRounds, time.Duration(cfg.LLMTimeoutSeconds)*time.Second)

	handler := &httpapi.Handler{
		Agent:        robozinho,
		Pedidos:      svc,
		TotalTimeout: time.Duration(cfg.TotalTimeoutSeconds) * time.Second,
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpapi.NewRouter(handler),
	}

	go func() {
		log.Printf("listening on %s (provider=%s)", cfg.HTTPAddr, cfg.LLMProvider)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func providerKey(cfg *config.Config) string {
	if cfg.LLMProvider == "anthropic" {
		return cfg.AnthropicKey
	}
	return cfg.OpenAIKey
}
