package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medrep-hub-backend/internal/api"
	"medrep-hub-backend/internal/config"
	"medrep-hub-backend/internal/handlers"
	"medrep-hub-backend/internal/integrations/agent"
	"medrep-hub-backend/internal/integrations/rag"
	"medrep-hub-backend/internal/logger"
	"medrep-hub-backend/internal/services"
	"medrep-hub-backend/internal/store/memory"
)

func main() {
	log.Println("Starting MedRep Intelligence Hub backend...")

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	appLog := logger.NewStructured(cfg.LogLevel, cfg.LogFormat)

	// 2. Initialize Dependencies (Store, Clients, Services, Handlers)
	memStore := memory.NewMemoryStore()

	ragClient := rag.NewClient(cfg.RAGBaseURL, cfg.CrawlURL, cfg.RAGAPIKey)
	agentClient := agent.NewClient(cfg.AgentBaseURL, cfg.RAGAPIKey)

	chatService := services.NewChatService(memStore, agentClient, cfg.DefaultAgentID, appLog)
	docService := services.NewDocumentsService(ragClient, appLog)
	auditService := services.NewAuditService(memStore, appLog)

	if cfg.SeedSampleData {
		if n, err := auditService.LoadSampleData(context.Background()); err != nil {
			appLog.WithError(err).Warn("failed to seed sample data", nil)
		} else {
			appLog.Info("seeded sample audit data", map[string]interface{}{"entries": n})
		}
	}

	chatHandlers := handlers.NewChatHandlers(chatService, appLog)
	docHandler := handlers.NewDocumentsHandler(docService, appLog)
	auditHandler := handlers.NewAuditHandler(auditService, appLog)

	// 3. Setup Router & Inject Dependencies
	router := api.NewRouter(api.RouterDependencies{
		ChatHandlers:     chatHandlers,
		DocumentsHandler: docHandler,
		AuditHandler:     auditHandler,
	})

	// 4. Configure and Start HTTP Server
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second, // upstream train calls can be slow
		IdleTimeout:  120 * time.Second,
	}

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		appLog.Info("server listening", map[string]interface{}{"port": cfg.HTTPPort})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: Could not listen on %s: %v\n", cfg.HTTPPort, err)
		}
	}()

	<-stopChan
	appLog.Info("shutdown signal received, initiating graceful shutdown", nil)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Error("graceful shutdown failed", nil)
		os.Exit(1)
	}

	appLog.Info("server shutdown complete", nil)
}
