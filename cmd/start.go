/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/thiiagovboas/eureca-assistant/config"
	"github.com/thiiagovboas/eureca-assistant/database"
	"github.com/thiiagovboas/eureca-assistant/handler"
	"github.com/thiiagovboas/eureca-assistant/service"
	"github.com/thiiagovboas/eureca-assistant/session"
	"github.com/thiiagovboas/eureca-assistant/types"
)

// startServerCmd represents the startServer command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the assistant server",
	Long:  `Starts the HTTP server that answers questions about the apprenticeship program`,
	Run: func(cmd *cobra.Command, args []string) {

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		// Initialize services

		store := service.NewDocumentStore(cfg.Documents, service.NewDocumentConverter())

		// Chat goes to the configured provider; embeddings always run
		// through the OpenAI-compatible endpoint.
		openAIService := service.NewOpenAIService(
			cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.Model, cfg.EmbeddingModel, cfg.Temperature)
		var aiService service.AIService = openAIService
		if cfg.AIProvider == config.AIProviderGemini {
			geminiService, err := service.NewGeminiService(cfg.GeminiAPIKeys, cfg.Model, cfg.Temperature)
			if err != nil {
				log.Fatalf("Failed to init Gemini service: %v", err)
			}
			aiService = geminiService
		}

		var backend database.VectorIndex = database.NewMemoryIndex()
		if cfg.IndexBackend == config.IndexBackendWeaviate {
			weaviateDb, err := database.NewWeaviateStore(database.WeaviateConfig{
				Host:   cfg.WeaviateStoreConfig.Host,
				APIKey: cfg.WeaviateStoreConfig.APIKey,
				Class:  cfg.WeaviateStoreConfig.Class,
			})
			if err != nil {
				log.Fatalf("Failed to connect to Weaviate database: %v", err)
			}
			backend = weaviateDb
		}

		indexService := service.NewIndexService(store, openAIService, backend, service.IndexConfig{
			ChunkSize:     cfg.ChunkSize,
			ChunkOverlap:  cfg.ChunkOverlap,
			CacheDuration: cfg.CacheDuration,
		})

		keywordRetriever := service.NewKeywordRetriever(store, cfg.FallbackCharBudget)
		var retriever service.Retriever = keywordRetriever
		var fallback service.Retriever
		var searchIndexer *service.IndexService
		if cfg.RetrievalMode == config.RetrievalModeVector {
			retriever = service.NewVectorRetriever(indexService, cfg.RetrievalK)
			fallback = keywordRetriever
			searchIndexer = indexService

			// Warm the index so the first question does not pay for the
			// build. Failures stay non-fatal; retrieval retries later.
			go func() {
				if err := indexService.EnsureIndex(context.Background()); err != nil {
					log.Printf("Warning: initial index build failed: %v", err)
				}
			}()
		}

		analyzer := service.NewAnalyzer(cfg.Greetings, cfg.Keywords)
		composer := service.NewComposer(cfg.HistoryWindow)
		sessions := session.NewManager()
		chatService := service.NewChatService(analyzer, retriever, fallback, composer, aiService, sessions)
		wsService := service.NewWebSocketService(chatService)

		if cfg.WatchDocuments {
			watcher, err := service.NewDocumentWatcher(store.Refs(), indexService)
			if err != nil {
				log.Printf("Warning: document watcher disabled: %v", err)
			} else {
				go watcher.Run(context.Background())
				defer watcher.Stop()
			}
		}

		// Initialize handlers
		corsHandler := handler.NewCorsHandler()
		chatHandler := handler.NewChatHandler(chatService, wsService)
		sessionHandler := handler.NewSessionHandler(sessions)
		documentHandler := handler.NewDocumentHandler(indexService)
		searchHandler := handler.NewSearchHandler(searchIndexer, keywordRetriever)

		// Setup Gin router
		router := gin.Default()

		// Apply global middleware
		router.Use(corsHandler.CorsMiddleware)

		router.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, types.DataResponse{Status: true, Message: "ok"})
		})

		apiV1 := router.Group("/api/v1")
		{
			apiV1.POST("/chat", chatHandler.HandleChat)
			apiV1.GET("/chat/ws", chatHandler.HandleChatWS)
			apiV1.POST("/questions/analyze", chatHandler.HandleAnalyze)

			apiV1.POST("/session/profile", sessionHandler.HandleProfile)
			apiV1.GET("/session/summary", sessionHandler.HandleSummary)
			apiV1.GET("/session/history", sessionHandler.HandleHistory)
			apiV1.POST("/session/clear", sessionHandler.HandleClear)
			apiV1.GET("/session/export", sessionHandler.HandleExport)
			apiV1.DELETE("/session", sessionHandler.HandleDelete)

			apiV1.GET("/documents/status", documentHandler.HandleStatus)
			apiV1.POST("/documents/search", searchHandler.HandleSearch)
		}

		adminRoutes := router.Group("/admin/api/v1")
		{
			adminRoutes.POST("/reindex", documentHandler.HandleReindex)
		}

		log.Printf("Starting server on port %s...\n", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Server error:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(startServerCmd)
}
