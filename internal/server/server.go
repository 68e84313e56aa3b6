package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bioconsult/internal/config"
	"bioconsult/internal/db"
	"bioconsult/internal/embedding"
	"bioconsult/internal/handlers"
	"bioconsult/internal/llm"
	"bioconsult/internal/loader"
	"bioconsult/internal/repositories"
	"bioconsult/internal/routes"
	"bioconsult/internal/services"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
)

const shutdownTimeout = 15 * time.Second

// Server owns the HTTP listener and the repositories behind it
type Server struct {
	httpServer *http.Server
	vectorRepo repositories.VectorRepository
	ingestRepo repositories.IngestRepository
	logger     *log.Logger
}

// corsMiddleware adds CORS headers to all responses
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// New wires the full pipeline from configuration. ChromaDB must be
// reachable; Redis is optional and only disables the ingest registry
// when absent.
func New(cfg *config.Config) (*Server, error) {
	logger := log.New(os.Stdout, "[SERVER] ", log.LstdFlags)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	vectorRepo, err := initializeVectorRepository(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	ingestRepo := initializeIngestRepository(ctx, cfg, logger)

	docLoader, err := loader.NewFilesystemLoader(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	embedder, err := embedding.NewOpenAIEmbedder(embedding.OpenAIConfig{
		BaseURL: cfg.EmbeddingBaseURL,
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.EmbeddingModel,
	})
	if err != nil {
		return nil, err
	}

	indexer := services.NewIndexerService(docLoader, embedder, vectorRepo, ingestRepo,
		cfg.ChunkSize, cfg.ChunkOverlap, logger)
	retrieval := services.NewRetrievalService(embedder, vectorRepo,
		cfg.DefaultTopK, cfg.MaxTopK, logger)
	assembler := services.NewContextAssembler(cfg.Persona, cfg.HistoryWindow)

	router := llm.NewRouter(llm.RouterConfig{
		Provider:        cfg.Provider,
		Model:           cfg.Model,
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
		OllamaBaseURL:   cfg.OllamaBaseURL,
		LMStudioBaseURL: cfg.LMStudioBaseURL,
	})

	h := &routes.Handlers{
		Health:    handlers.NewHealthHandler(vectorRepo, ingestRepo, logger),
		Reindex:   handlers.NewReindexHandler(indexer, cfg.Collection, logger),
		Chat:      handlers.NewChatHandler(retrieval, assembler, router, logger),
		Documents: handlers.NewDocumentsHandler(ingestRepo, vectorRepo, cfg.Collection, logger),
	}

	muxRouter := mux.NewRouter()
	routes.RegisterRoutes(muxRouter, h)

	muxRouter.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	))

	return &Server{
		httpServer: &http.Server{
			Addr:    cfg.ListenAddr,
			Handler: corsMiddleware(muxRouter),
		},
		vectorRepo: vectorRepo,
		ingestRepo: ingestRepo,
		logger:     logger,
	}, nil
}

// Run serves until SIGINT or SIGTERM, then shuts down gracefully and
// closes the repositories.
func (s *Server) Run() error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("Listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		s.closeRepositories()
		return err
	case sig := <-sigCh:
		s.logger.Printf("Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(ctx)
	s.closeRepositories()
	return err
}

func (s *Server) closeRepositories() {
	if err := s.vectorRepo.Close(); err != nil {
		s.logger.Printf("Failed to close vector repository: %v", err)
	}
	if s.ingestRepo != nil {
		if err := s.ingestRepo.Close(); err != nil {
			s.logger.Printf("Failed to close ingest repository: %v", err)
		}
	}
}

// initializeVectorRepository connects to ChromaDB, verifies liveness and
// ensures the collection exists so a fresh store answers queries as empty
func initializeVectorRepository(ctx context.Context, cfg *config.Config, logger *log.Logger) (repositories.VectorRepository, error) {
	logger.Printf("Connecting to ChromaDB: %s:%d", cfg.ChromaHost, cfg.ChromaPort)

	chromaClient := db.NewChromaDBClient(db.ChromaDBConfig{
		Host:     cfg.ChromaHost,
		Port:     cfg.ChromaPort,
		Tenant:   cfg.ChromaTenant,
		Database: cfg.ChromaDatabase,
		Timeout:  cfg.ChromaTimeout,
	})

	if err := chromaClient.Heartbeat(ctx); err != nil {
		logger.Printf("❌ ChromaDB connection failed: %v", err)
		logger.Println("   Hint: Ensure ChromaDB is running (docker run -d -p 8000:8000 chromadb/chroma)")
		return nil, err
	}
	logger.Println("✅ ChromaDB connected successfully")

	vectorRepo := repositories.NewChromaVectorRepository(chromaClient, cfg.Collection)
	if err := vectorRepo.EnsureCollection(ctx); err != nil {
		logger.Printf("❌ Failed to ensure collection %q: %v", cfg.Collection, err)
		return nil, err
	}

	return vectorRepo, nil
}

// initializeIngestRepository connects to Redis; a failure disables the
// registry instead of failing startup
func initializeIngestRepository(ctx context.Context, cfg *config.Config, logger *log.Logger) repositories.IngestRepository {
	logger.Printf("Connecting to Redis: %s:%d (DB: %d)", cfg.RedisHost, cfg.RedisPort, cfg.RedisDB)

	redisClient := db.NewRedisClient(db.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := redisClient.Ping(ctx); err != nil {
		logger.Printf("⚠️  Redis connection failed: %v", err)
		logger.Println("   Ingest registry disabled")
		logger.Println("   Hint: Ensure Redis is running (docker run -d -p 6379:6379 redis:7-alpine)")
		return nil
	}
	logger.Println("✅ Redis connected successfully")

	return repositories.NewRedisIngestRepository(redisClient.GetClient())
}
