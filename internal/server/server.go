package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Rchd21/Hackathon-PLM-DPM/internal/engine"
)

// Server hosts the HTTP facade over an engine.
type Server struct {
	engine *engine.Engine
	log    *zap.Logger
	router *gin.Engine
}

// New builds a server with its routes registered. A nil logger
// disables request logging.
func New(e *engine.Engine, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestID(), requestLogger(log), corsPolicy())

	s := &Server{engine: e, log: log, router: router}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.GET("/healthz", s.handleHealthz)

	s.router.GET("/regulations", s.handleListRegulations)
	s.router.GET("/regulations/:id", s.handleGetRegulation)
	s.router.GET("/regulations/:id/versions", s.handleListVersions)
	s.router.POST("/regulations/import/us", s.handleImportUS)
	s.router.POST("/regulations/import/eu", s.handleImportEU)

	s.router.GET("/requirements", s.handleListRequirements)
	s.router.POST("/requirements/extract", s.handleExtract)

	s.router.GET("/impact/:requirement_id", s.handleImpact)
	s.router.GET("/history", s.handleHistory)
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	s.log.Info("http server listening", zap.String("addr", addr))
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
