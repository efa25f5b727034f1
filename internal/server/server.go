// Package server exposes the recommendation pipeline, resume handling, job
// search and saved matches over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bridgeskills/bridgeskills/internal/extraction"
	"github.com/bridgeskills/bridgeskills/internal/jobboard"
	"github.com/bridgeskills/bridgeskills/internal/profile"
	"github.com/bridgeskills/bridgeskills/internal/recommend"
	"github.com/bridgeskills/bridgeskills/internal/savedmatch"
	"github.com/bridgeskills/bridgeskills/internal/storage"
)

const shutdownTimeout = 10 * time.Second

type Config struct {
	Addr           string   `mapstructure:"addr"`
	CORSOrigins    []string `mapstructure:"cors-origins"`
	MaxUploadBytes int64    `mapstructure:"max-upload-bytes"`
	JWTSecret      string   `mapstructure:"-"`
	Debug          bool     `mapstructure:"-"`
}

type Recommender interface {
	Recommend(ctx context.Context, data profile.ExtractedData) (recommend.Response, error)
	Demo(ctx context.Context, data profile.ExtractedData) (recommend.Response, error)
}

type JobSearcher interface {
	Search(ctx context.Context, req jobboard.Request) (jobboard.Result, error)
}

// ResumeExtractor turns resume text into structured data.
type ResumeExtractor interface {
	Extract(ctx context.Context, text string) (profile.ExtractedData, error)
}

// Deps are the services behind the routes. Jobs, Saved, Documents and
// Extractor are optional; their routes answer 503 when unset, except a
// missing Extractor which falls back to keyword extraction.
type Deps struct {
	Recommender Recommender
	Jobs        JobSearcher
	Saved       savedmatch.Store
	Documents   storage.Store
	Extractor   ResumeExtractor
}

type Server struct {
	cfg    Config
	deps   Deps
	log    *zap.Logger
	engine *gin.Engine
	now    func() time.Time
}

func New(log *zap.Logger, cfg Config, deps Deps) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = extraction.MaxDocumentBytes
	}
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{cfg: cfg, deps: deps, log: log, now: time.Now}
	s.engine = s.router()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) router() *gin.Engine {
	router := gin.New()
	router.Use(requestID(), requestLogger(s.log), recovery(s.log, s.now))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(s.cfg.CORSOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = s.cfg.CORSOrigins
	}
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", s.health)

	api := router.Group("/api")
	api.GET("/vocabulary", s.vocabulary)
	api.POST("/career-mapping", s.careerMapping)
	api.POST("/demo/job-mapping", s.demoMapping)
	api.POST("/resume/upload", s.uploadResume)
	api.POST("/process-resume", s.processResume)
	api.POST("/jobs/search", s.searchJobs)

	protected := api.Group("/saved-matches")
	protected.Use(requireAuth(s.cfg.JWTSecret))
	protected.GET("", s.listSaved)
	protected.POST("", s.saveMatch)
	protected.DELETE("/:id", s.deleteSaved)

	return router
}

// Run serves until ctx is done and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info("shutting down http server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
