package echo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/net/websocket"

	"wrfcloud/internal/api"
)

const (
	contentTypeJSON          = "application/json"
	maxEnvelopeBytes   int64 = 1 << 20
	msgInvalidEnvelope       = "Invalid request envelope"
)

// Server exposes the dispatcher over HTTP and WebSocket.
type Server struct {
	echo       *echo.Echo
	dispatcher *api.Dispatcher
	hub        *Hub
	port       string
}

// Config carries the transport settings.
type Config struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func NewServer(cfg Config, dispatcher *api.Dispatcher, hub *Hub) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout

	rateLimiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      10,
				Burst:     30,
				ExpiresIn: 3 * time.Minute,
			},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, nil)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, nil)
		},
	}
	e.Use(middleware.RateLimiterWithConfig(rateLimiterConfig))

	// CORS applies to every route, including the structural-rejection
	// paths inside the dispatcher: those still come back through this
	// middleware as ordinary responses.
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowCredentials: true,
	}))

	s := &Server{
		echo:       e,
		dispatcher: dispatcher,
		hub:        hub,
		port:       cfg.Port,
	}

	e.POST("/v1/action", s.handleAction)
	e.GET("/v1/ws", s.handleWebSocket)
	e.GET("/healthz", s.handleHealth)

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.echo.Start(":" + s.port)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleAction(c echo.Context) error {
	var req api.Request
	if err := bindEnvelope(c, &req); err != nil {
		return c.JSON(http.StatusOK, &api.Response{
			OK:     false,
			Errors: []string{msgInvalidEnvelope},
		})
	}
	req.ClientIP = c.RealIP()

	resp := s.dispatcher.Dispatch(c.Request().Context(), &req)
	return c.JSON(http.StatusOK, resp)
}

// handleWebSocket reads request envelopes off the socket and writes one
// response envelope per request. The connection itself is handed to the
// dispatcher so subscription actions can register it for pushes.
func (s *Server) handleWebSocket(c echo.Context) error {
	clientIP := c.RealIP()
	websocket.Handler(func(ws *websocket.Conn) {
		defer s.hub.Remove(ws)
		defer ws.Close()

		for {
			var req api.Request
			if err := websocket.JSON.Receive(ws, &req); err != nil {
				return
			}
			req.ClientIP = clientIP

			resp := s.dispatcher.DispatchWS(c.Request().Context(), &req, ws)
			if err := websocket.JSON.Send(ws, resp); err != nil {
				return
			}
		}
	}).ServeHTTP(c.Response(), c.Request())
	return nil
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":      "ok",
		"subscribers": s.hub.Subscribers(),
	})
}

// bindEnvelope decodes the request envelope strictly: JSON content type,
// bounded body, no unknown top-level fields.
func bindEnvelope(c echo.Context, dst *api.Request) error {
	contentType := strings.ToLower(c.Request().Header.Get(echo.HeaderContentType))
	if !strings.HasPrefix(contentType, contentTypeJSON) {
		return echo.NewHTTPError(http.StatusUnsupportedMediaType)
	}

	body := io.LimitReader(c.Request().Body, maxEnvelopeBytes)
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return echo.NewHTTPError(http.StatusBadRequest)
	}
	return nil
}
