// Package api provides the HTTP API server and handlers for the Polyphony application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/polyphonyapp/polyphony-server/internal/ingest"
	"github.com/polyphonyapp/polyphony-server/internal/lrclib"
	"github.com/polyphonyapp/polyphony-server/internal/search"
	"github.com/polyphonyapp/polyphony-server/internal/service"
	"github.com/polyphonyapp/polyphony-server/internal/store/sqlite"
)

// Services groups the business logic services used by the API server.
type Services struct {
	Song  *service.SongService
	Vocab *service.VocabService
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    *sqlite.Store
	services *Services
	pipeline *ingest.Pipeline
	lyrics   *lrclib.Client
	search   *search.SongIndex
	router   *chi.Mux
	api      huma.API
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
// The search index and lyrics client may be nil; their routes then
// report degraded health rather than the server failing to start.
func NewServer(store *sqlite.Store, services *Services, pipeline *ingest.Pipeline, lyrics *lrclib.Client, searchIndex *search.SongIndex, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	humaConfig := huma.DefaultConfig("Polyphony API", "1.0.0")
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:    store,
		services: services,
		pipeline: pipeline,
		lyrics:   lyrics,
		search:   searchIndex,
		router:   router,
		api:      api,
		logger:   logger,
	}

	s.registerHealthRoutes()
	s.registerSongRoutes()
	s.registerImportRoutes()
	s.registerSearchRoutes()
	s.registerVocabRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
