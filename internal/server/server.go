// file: internal/server/server.go
// version: 1.0.0
// guid: 173b4860-9d7e-4ab1-8ff9-0f2da78ad42c

// Package server exposes the HTTP surface: health probe, Prometheus
// metrics, and the versioned resource API.
package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/svetakrava/chorrosion/internal/coverart"
	"github.com/svetakrava/chorrosion/internal/events"
	"github.com/svetakrava/chorrosion/internal/metrics"
	"github.com/svetakrava/chorrosion/internal/repository"
)

// ArtworkFetcher resolves cover art for a release group.
type ArtworkFetcher interface {
	FetchCoverArt(ctx context.Context, releaseGroupMBID string) (coverart.Artwork, error)
}

// Server wraps the gin engine and the underlying http.Server.
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	store      *repository.Store
	bus        *events.Bus
	artwork    ArtworkFetcher
}

// Options configures construction.
type Options struct {
	Store   *repository.Store
	Bus     *events.Bus
	Artwork ArtworkFetcher
}

// New builds the router and registers every route.
func New(opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(authContext())

	metrics.Register()

	s := &Server{
		router:  router,
		store:   opts.Store,
		bus:     opts.Bus,
		artwork: opts.Artwork,
	}
	s.setupRoutes()
	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.GET("/docs", s.handleDocs)

	api := s.router.Group("/api/v1")
	{
		api.GET("/artists", s.handleListArtists)
		api.GET("/artists/:id", s.handleGetArtist)
		api.POST("/artists", s.handleCreateArtist)
		api.DELETE("/artists/:id", s.handleDeleteArtist)
		api.GET("/artists/:id/albums", s.handleListAlbumsByArtist)
		api.GET("/albums/:id", s.handleGetAlbum)
		api.GET("/albums/:id/artwork", s.handleAlbumArtwork)
		api.POST("/albums", s.handleCreateAlbum)
		api.DELETE("/albums/:id", s.handleDeleteAlbum)
		api.GET("/events", s.handleDrainEvents)
	}
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	s.httpServer = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("[INFO] server: listening on %s", addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Printf("[INFO] server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// authContext records the caller's credential, if any. Authentication
// is advisory for now; requests proceed either way.
func authContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := c.GetHeader("X-Api-Key"); key != "" {
			c.Set("api_key", key)
		} else if auth := c.GetHeader("Authorization"); len(auth) > 7 && auth[:7] == "Bearer " {
			c.Set("api_key", auth[7:])
		}
		c.Next()
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleDocs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "chorrosion",
		"endpoints": []string{
			"GET /health",
			"GET /metrics",
			"GET /api/v1/artists",
			"GET /api/v1/artists/:id",
			"POST /api/v1/artists",
			"DELETE /api/v1/artists/:id",
			"GET /api/v1/artists/:id/albums",
			"GET /api/v1/albums/:id",
			"GET /api/v1/albums/:id/artwork",
			"POST /api/v1/albums",
			"DELETE /api/v1/albums/:id",
			"GET /api/v1/events",
		},
	})
}
