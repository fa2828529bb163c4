package api

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"aforo/internal/config"
	"aforo/internal/database"
	"aforo/internal/handlers"
	"aforo/internal/importer"
	"aforo/internal/messaging"
	"aforo/internal/metrics"
	"aforo/internal/middleware"
	"aforo/internal/repository"
	"aforo/internal/storage"
)

// Server wires the import pipeline behind the HTTP API
type Server struct {
	router *gin.Engine
	config *config.Config
	db     *database.DB
	nats   *messaging.NATSClient
	repos  *repository.Repositories
}

// NewServer builds a fully wired server instance
func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	blobs, err := storage.NewS3Store(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize blob storage: %v", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}

	repos := repository.NewRepositories(db)

	pipeline := importer.NewPipeline(
		repos.Events,
		repos.TicketTypes,
		repos.Attendees,
		repos.Attendances,
		repos.ImportJobs,
		blobs,
		natsClient,
		importer.Options{
			FallbackEventName: cfg.Import.FallbackEventName,
			SoftTimeLimit:     cfg.Import.SoftTimeLimit,
		},
	)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())

	server := &Server{
		router: router,
		config: cfg,
		db:     db,
		nats:   natsClient,
		repos:  repos,
	}

	server.setupRoutes(pipeline, blobs)

	return server
}

func (s *Server) setupRoutes(pipeline *importer.Pipeline, blobs *storage.S3Store) {
	h := handlers.NewHandlers(pipeline, s.repos.ImportJobs, blobs, s.config.Import)

	api := s.router.Group("/api")
	{
		imports := api.Group("/imports")
		{
			imports.POST("", h.UploadImport)
			imports.POST("/process", h.ProcessImport)
			imports.GET("/:id", h.GetImportStatus)
		}
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(metrics.Handler()))
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "aforo-api",
		"version": "1.0.0",
	})
}

// GetRouter exposes the router for the HTTP server and for tests
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup closes external connections
func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			log.Printf("Error closing NATS connection: %v", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
			return err
		}
	}

	return nil
}
