package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio/api/internal/app"
	"portfolio/api/internal/blob"
	"portfolio/api/internal/chat"
	"portfolio/api/internal/config"
	"portfolio/api/internal/content"
	"portfolio/api/internal/draft"
	"portfolio/api/internal/store"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	db, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	if err := store.ApplyMigrations(ctx, db, cfg.MigrationsDir); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	dataStore := store.NewPostgresStore(db)

	draftStore, err := draft.NewRedisStore(cfg.RedisURL)
	if err != nil {
		log.Fatalf("redis connection failed: %v", err)
	}
	defer draftStore.Close()

	blobStore, err := blob.New(cfg.BlobEndpoint, cfg.BlobAccessKey, cfg.BlobSecretKey, cfg.BlobUseSSL, cfg.BlobPublicURL)
	if err != nil {
		log.Fatalf("blob storage connection failed: %v", err)
	}
	if err := blobStore.EnsureBuckets(ctx,
		content.BucketProfileImages,
		content.BucketContactImages,
		content.BucketDocuments,
		content.BucketCertDocuments,
	); err != nil {
		log.Fatalf("bucket setup failed: %v", err)
	}

	chatClient := chat.NewClient(cfg.ChatGatewayURL, cfg.ChatAPIKey, cfg.ChatModel)
	if !chatClient.Enabled() {
		log.Printf("CHAT_API_KEY not set, chat endpoint disabled")
	}

	reconciler := content.New(dataStore, blobStore, draftStore)
	service := app.New(cfg, dataStore, draftStore, blobStore, reconciler, chatClient)
	if err := service.Bootstrap(ctx); err != nil {
		log.Printf("WARNING: bootstrap error (will retry on next restart): %v", err)
	}

	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Portfolio API listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
