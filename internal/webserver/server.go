package webserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/talkincode/productform/config"
	"github.com/talkincode/productform/pkg/metrics"
)

const apiPrefix = "/api/v1"

// WebServer wraps the echo instance and its /api/v1 route group.
type WebServer struct {
	root *echo.Echo
	api  *echo.Group
	cfg  *config.AppConfig
}

var server *WebServer

// Init builds the echo instance and installs the shared middleware.
// Route registration happens afterwards through the GET/POST/Api* helpers.
func Init(cfg *config.AppConfig) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.System.Debug
	e.HTTPErrorHandler = errorHandler

	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(accessLog())
	e.Use(session.Middleware(newCookieStore(cfg)))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	server = &WebServer{root: e, api: e.Group(apiPrefix), cfg: cfg}
	return server
}

func newCookieStore(cfg *config.AppConfig) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(cfg.Web.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.Session.IdleTTL,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// Echo exposes the underlying instance, mainly for tests.
func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

// SetRenderer installs the page template renderer.
func SetRenderer(r echo.Renderer) {
	server.root.Renderer = r
}

func GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.root.GET(path, h, m...)
}

func POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.root.POST(path, h, m...)
}

func ApiGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.GET(path, h, m...)
}

func ApiPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.POST(path, h, m...)
}

func ApiPATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.PATCH(path, h, m...)
}

func ApiDELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.DELETE(path, h, m...)
}

// Start listens until ctx is cancelled, then shuts down gracefully.
func Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", server.cfg.Web.Host, server.cfg.Web.Port)
	errCh := make(chan error, 1)
	go func() {
		zap.S().Infof("Prepare to start web server %s", addr)
		if err := server.root.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	zap.S().Info("Shutting down web server")
	return server.root.Shutdown(shutdownCtx)
}

func accessLog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			req, res := c.Request(), c.Response()
			fields := []zap.Field{
				zap.String("request_id", res.Header().Get(echo.HeaderXRequestID)),
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Int("status", res.Status),
				zap.Duration("latency", time.Since(start)),
				zap.Int64("bytes", res.Size),
				zap.String("client_ip", c.RealIP()),
			}
			switch {
			case res.Status >= http.StatusInternalServerError:
				zap.L().Error("http_request", fields...)
			case res.Status >= http.StatusBadRequest:
				zap.L().Warn("http_request", fields...)
			default:
				zap.L().Debug("http_request", fields...)
			}
			return nil
		}
	}
}

func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	msg := http.StatusText(status)
	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		msg = fmt.Sprint(he.Message)
	} else {
		zap.L().Error("unhandled request error", zap.String("path", c.Path()), zap.Error(err))
	}

	if strings.HasPrefix(c.Request().URL.Path, apiPrefix) {
		_ = c.JSON(status, Envelope{Code: "HTTP_ERROR", Message: msg})
		return
	}
	_ = c.String(status, msg)
}
