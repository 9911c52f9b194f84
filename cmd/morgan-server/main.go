package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ShayonX/LLM-Playground/config"
	"github.com/ShayonX/LLM-Playground/internal/api"
	"github.com/ShayonX/LLM-Playground/internal/chat"
	"github.com/ShayonX/LLM-Playground/internal/mail"
	"github.com/ShayonX/LLM-Playground/internal/responses"
	"github.com/ShayonX/LLM-Playground/internal/tools"
	"github.com/ShayonX/LLM-Playground/internal/version"
	"github.com/ShayonX/LLM-Playground/storage"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "morgan-server",
		Short: "MORGAN - Compliance Communications chat backend",
		Long: `MORGAN serves the Compliance Communications frontend: chat endpoints
with streaming tool-call orchestration against a hosted reasoning model.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "morgan.yaml", "Config file path")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("morgan-server %s\n", version.Version())
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	outbox, err := storage.OpenOutbox(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("opening notification outbox: %w", err)
	}
	defer outbox.Close()

	sender := mail.NewSender(mail.Config{
		Mode:           cfg.Email.Mode,
		Recipient:      cfg.Email.Recipient,
		SMTPHost:       cfg.Email.SMTPHost,
		SMTPPort:       cfg.Email.SMTPPort,
		SenderEmail:    cfg.Email.SenderEmail,
		SenderPassword: cfg.Email.SenderPassword,
	}, outbox)

	registry, err := tools.NewCatalog(sender)
	if err != nil {
		return fmt.Errorf("building tool catalog: %w", err)
	}

	client := responses.NewClient(cfg.OpenAI.Endpoint, cfg.OpenAI.APIVersion, cfg.OpenAI.APIKey)
	orchestrator := chat.NewOrchestrator(cfg.OpenAI.Deployment, chat.NewClientStreamer(client), registry, cfg.Stream.Pacing())

	server := api.NewServer(cfg, orchestrator, registry)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("morgan-server %s listening on %s (model %s, %d tools, email mode %s)",
			version.Version(), addr, cfg.OpenAI.Deployment, registry.Len(), cfg.Email.Mode)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-sigCh:
		log.Printf("Received %v, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Printf("Server stopped")
	return nil
}
