package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alimgiray/ghmirror/internal/githubclient"
	"github.com/alimgiray/ghmirror/internal/handlers"
	"github.com/alimgiray/ghmirror/internal/middleware"
	"github.com/alimgiray/ghmirror/internal/repositories"
	"github.com/alimgiray/ghmirror/internal/services"
	"github.com/alimgiray/ghmirror/internal/workers"
	"github.com/alimgiray/ghmirror/pkg/config"
	"github.com/alimgiray/ghmirror/pkg/database"
	"github.com/alimgiray/ghmirror/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init()
	gin.SetMode(config.AppConfig.Server.Mode)

	// Initialize database
	if err := database.Init(config.AppConfig.Database.Path); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Repositories
	integrationRepo := repositories.NewIntegrationRepository(database.DB)
	orgRepo := repositories.NewOrganizationRepository(database.DB)
	memberRepo := repositories.NewOrganizationMemberRepository(database.DB)
	repoRepo := repositories.NewRepositoryRepository(database.DB)
	commitRepo := repositories.NewCommitRepository(database.DB)
	prRepo := repositories.NewPullRequestRepository(database.DB)
	issueRepo := repositories.NewIssueRepository(database.DB)
	changelogRepo := repositories.NewIssueChangelogRepository(database.DB)
	collectionRepo := repositories.NewCollectionRepository(database.DB)
	jobRepo := repositories.NewJobRepository(database.DB)

	// Sync engine
	clientFactory := func(token string) services.GithubAPI {
		return githubclient.NewClient(token,
			githubclient.WithRateLimit(config.AppConfig.Sync.RequestsPerSecond))
	}

	initializer := services.NewInitializerService(
		orgRepo, memberRepo, repoRepo, commitRepo, prRepo, issueRepo, changelogRepo,
	)
	repoSync := services.NewRepositorySyncService(repoRepo, commitRepo, prRepo, issueRepo, changelogRepo)
	orgSync := services.NewOrganizationSyncService(orgRepo, memberRepo, repoSync, config.AppConfig.Sync.PageSize)
	syncService := services.NewSyncService(
		integrationRepo, initializer, orgSync, repoSync, clientFactory, config.AppConfig.Sync.PageSize,
	)

	// Supporting services
	githubService := services.NewGitHubService()
	integrationService := services.NewIntegrationService(integrationRepo,
		orgRepo, memberRepo, repoRepo, commitRepo, prRepo, issueRepo, changelogRepo,
	)
	exportService := services.NewExportService(collectionRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(githubService, integrationService, jobRepo)
	syncHandler := handlers.NewSyncHandler(syncService)
	dataHandler := handlers.NewDataHandler(collectionRepo, exportService)
	healthHandler := handlers.NewHealthHandler(database.DB)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS())

	setupRoutes(router, authHandler, syncHandler, dataHandler, healthHandler)

	// Background sync workers
	workerManager := workers.NewWorkerManager(jobRepo, syncService)
	if err := workerManager.StartAll(config.AppConfig.Sync.Workers); err != nil {
		log.Fatalf("Failed to start workers: %v", err)
	}
	defer workerManager.StopAll()

	server := &http.Server{
		Addr:         ":" + config.AppConfig.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(config.AppConfig.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(config.AppConfig.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Infof("Server starting on :%s", config.AppConfig.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Errorf("Server shutdown failed")
	}

	logger.Infof("Server stopped")
}

func setupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	syncHandler *handlers.SyncHandler,
	dataHandler *handlers.DataHandler,
	healthHandler *handlers.HealthHandler,
) {
	router.GET("/health", healthHandler.Health)

	api := router.Group("/api/github")
	{
		// The OAuth redirect arrives without tenant headers
		api.GET("/callback", authHandler.Callback)

		authed := api.Group("")
		authed.Use(middleware.RequireUser())
		{
			authed.GET("/auth-url", authHandler.GetAuthURL)
			authed.GET("/status", authHandler.Status)
			authed.DELETE("/remove", authHandler.Remove)

			authed.POST("/sync", syncHandler.FullSync)
			authed.POST("/sync/organization/:orgName", syncHandler.OrganizationSync)
			authed.POST("/sync/repository/:owner/:repo", syncHandler.RepositorySync)

			authed.GET("/collections", dataHandler.Collections)
			authed.GET("/schema/:collection", dataHandler.Schema)
			authed.GET("/data/:collection", dataHandler.Data)
			authed.GET("/export/:collection", dataHandler.Export)
		}
	}
}
