package main

import (
	"context"
	"log"

	"contractlens-backend/config"
	"contractlens-backend/gemini"
	"contractlens-backend/handlers"
	"contractlens-backend/repository"
	"contractlens-backend/risk"
	"contractlens-backend/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file from project root (relative to cmd/server/)
	// Try current directory first, then project root
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			log.Printf("Warning: No .env file found, using environment variables")
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	ctx := context.Background()

	// Initialize Gemini client
	geminiClient, err := gemini.NewClient(ctx, cfg.Gemini.APIKey,
		gemini.WithGenerationModel(cfg.Gemini.GenerationModel),
		gemini.WithEmbeddingModel(cfg.Gemini.EmbeddingModel),
	)
	if err != nil {
		log.Fatal("Failed to initialize Gemini:", err)
	}
	defer geminiClient.Close()
	log.Println("Gemini client initialized")

	// Initialize Qdrant and make sure the precedent collection exists
	qdrantClient := repository.NewQdrantClient(cfg.Qdrant.URL, cfg.Qdrant.APIKey)
	precedentRepo := repository.NewPrecedentRepository(qdrantClient, cfg.Qdrant.Collection)
	if err := precedentRepo.EnsureCollection(ctx); err != nil {
		log.Fatalf("Failed to prepare precedent collection: %v", err)
	}
	log.Printf("Qdrant collection %q ready", cfg.Qdrant.Collection)

	// Initialize services
	analysisService := service.NewAnalysisService(
		service.AnalysisWithGenerator(geminiClient),
		service.AnalysisWithEmbedder(geminiClient),
		service.AnalysisWithPrecedentSearcher(precedentRepo),
		service.AnalysisWithRiskEngine(risk.NewEngine(risk.DefaultPlaybook())),
	)

	// Initialize handlers
	analyzeHandler := handlers.NewAnalyzeHandler(analysisService)

	// Setup Gin router
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		api.POST("/analyze", analyzeHandler.AnalyzeContract)
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
