package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"restaurant/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 20 * time.Second

// Registrar はハンドラが自分のルートをぶら下げるための約束
type Registrar interface {
	MountPath() string
	RegisterRoutes(g *echo.Group)
}

// Worker はサーバーと一緒に動いて、ctxが終わったら止まる処理
type Worker func(ctx context.Context) error

type Server struct {
	addr    string
	echo    *echo.Echo
	log     *zap.Logger
	workers []Worker
}

// New はechoを組み立ててルートを登録する
func New(addr string, log *zap.Logger, errHandler echo.HTTPErrorHandler, registrars ...Registrar) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errHandler

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.RecoverWithConfig(echomw.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Error("panic_recovered", zap.Error(err), zap.ByteString("stack", stack))
			return err
		},
	}))

	for _, r := range registrars {
		r.RegisterRoutes(e.Group(r.MountPath()))
	}

	return &Server{addr: addr, echo: e, log: log}
}

// Handler はテスト用
func (s *Server) Handler() http.Handler { return s.echo }

func (s *Server) AddWorker(w Worker) { s.workers = append(s.workers, w) }

// Run はctxが終わるまで動き、そのあと処理中のリクエストを待って止まる
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("server_started", zap.String("addr", s.addr))
		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})

	for _, w := range s.workers {
		w := w
		g.Go(func() error { return w(gctx) })
	}

	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("server_shutting_down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server failed shutdown gracefully: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	s.log.Info("server_stopped")
	return nil
}
