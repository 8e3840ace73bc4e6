// Package dashboard serves the currency rate web dashboard.
package dashboard

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"RateScope/internal/board"
	"RateScope/internal/metrics"
	"RateScope/internal/rates"
	"RateScope/internal/refresh"
	"RateScope/internal/scheduler"
)

//go:embed templates/*.html
var templates embed.FS

const refreshJob = "dashboard-refresh"

// Options configure a Server.
type Options struct {
	Addr            string
	RefreshInterval time.Duration
	SourceURL       string
	Logger          *zap.Logger
	Metrics         *metrics.Metrics
}

type outcome = refresh.Outcome[[]rates.Rate]

// Server owns the rate board and the HTTP routes that show it.
type Server struct {
	opts   Options
	logger *zap.Logger
	fetch  refresh.Op[[]rates.Rate]
	store  *board.Store[rates.Rate]
	queue  *refresh.Queue[outcome]
	runner *refresh.Runner[[]rates.Rate]
	poller *refresh.Poller[outcome]
	sched  *scheduler.Scheduler
	engine *gin.Engine
	now    func() time.Time
}

// New creates a Server refreshing the board with fetch.
func New(fetch refresh.Op[[]rates.Rate], opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = 10 * time.Minute
	}
	s := &Server{
		opts:   opts,
		logger: opts.Logger,
		fetch:  fetch,
		store:  board.NewStore[rates.Rate](),
		queue:  refresh.NewQueue[outcome](),
		sched:  scheduler.New(opts.Logger),
		now:    time.Now,
	}
	s.runner = refresh.NewRunner(s.queue,
		refresh.WithName[[]rates.Rate]("bank-rates"),
		refresh.WithLogger[[]rates.Rate](opts.Logger),
		refresh.WithEmpty(refresh.EmptySlice[rates.Rate]),
		refresh.WithObserver(metrics.Observer[rates.Rate](opts.Metrics, "bank-rates")),
	)
	s.poller = refresh.NewPoller(s.queue, refresh.DefaultPollInterval, s.store.Apply, nil)
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), loggingMiddleware(s.logger))
	r.SetHTMLTemplate(template.Must(template.ParseFS(templates, "templates/*.html")))

	r.GET("/", s.handleIndex)
	r.POST("/refresh", s.handleRefresh)
	r.GET("/api/rates", s.handleRates)
	r.GET("/api/convert", s.handleConvert)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(s.opts.Metrics.Handler()))
	}
	return r
}

// Handler exposes the routes, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Refresh launches a fetch unless one is already in flight. The board is
// marked busy before launching so the outcome's Apply always clears it.
func (s *Server) Refresh(ctx context.Context) error {
	s.store.MarkBusy()
	id, err := s.runner.Launch(ctx, s.fetch)
	if err != nil {
		return err
	}
	s.logger.Debug("refresh launched", zap.String("id", id))
	return nil
}

// refreshIfStale launches a refresh when the board is empty or older than
// the refresh interval.
func (s *Server) refreshIfStale(ctx context.Context) {
	st := s.store.Snapshot()
	if !st.Stale(s.now(), s.opts.RefreshInterval) || s.runner.Busy() {
		return
	}
	if err := s.Refresh(ctx); err != nil && !errors.Is(err, refresh.ErrBusy) {
		s.logger.Warn("refresh failed to start", zap.Error(err))
	}
}

// Run serves HTTP until ctx is cancelled. Outcomes are applied as they
// arrive and the board is refreshed on start and on every interval.
func (s *Server) Run(ctx context.Context) error {
	go s.poller.Watch(ctx)

	if err := s.sched.Every(refreshJob, s.opts.RefreshInterval, func() {
		if err := s.Refresh(ctx); err != nil && !errors.Is(err, refresh.ErrBusy) {
			s.logger.Warn("scheduled refresh failed to start", zap.Error(err))
		}
	}); err != nil {
		return err
	}
	s.sched.Start()
	defer s.sched.Stop()

	s.refreshIfStale(ctx)

	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", zap.String("addr", s.opts.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("dashboard stopped")
	return nil
}

func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
