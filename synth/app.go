package synth

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/exp/slog"

	"github.com/alovak/cardsynth/internal/middleware"
)

// App is the main application, it contains all the components of the synth service
// and is responsible for starting and stopping them.
type App struct {
	srv    *http.Server
	wg     *sync.WaitGroup
	Addr   string
	logger *slog.Logger
	config *Config
}

func NewApp(logger *slog.Logger, config *Config) *App {
	logger = logger.With(slog.String("app", "synth"))

	if config == nil {
		config = DefaultConfig()
	}

	return &App{
		wg:     &sync.WaitGroup{},
		logger: logger,
		config: config,
	}
}

// Router builds the HTTP handler without listening; Start uses it.
func (a *App) Router() http.Handler {
	clock, err := a.config.Clock()
	if err != nil {
		a.logger.Info("invalid ExpiryTZ; using default UTC", slog.String("tz", a.config.ExpiryTZ), slog.Any("err", err))
		clock = func() time.Time { return time.Now().UTC() }
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(middleware.NewStructuredLogger(a.logger))

	svc := NewService(NewGenerator(nil, clock), a.config, a.logger)
	NewAPI(svc).AppendRoutes(router)

	router.Get("/-/live", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	return router
}

func (a *App) Start() error {
	a.logger.Info("starting app...")

	l, err := net.Listen("tcp", a.config.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listening tcp port: %w", err)
	}

	a.Addr = l.Addr().String()

	a.srv = &http.Server{
		Handler:           a.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.logger.Info("http server started", slog.String("addr", a.Addr))

		if err := a.srv.Serve(l); err != nil {
			if err != http.ErrServerClosed {
				a.logger.Error("starting http server", "err", err)
			}

			a.logger.Info("http server stopped")
		}
	}()

	return nil
}

func (a *App) Shutdown(ctx context.Context) {
	a.logger.Info("shutting down app...")

	if a.srv != nil {
		if err := a.srv.Shutdown(ctx); err != nil {
			a.logger.Error("shutting down http server", "err", err)
		}
	}

	a.wg.Wait()

	a.logger.Info("app stopped")
}
