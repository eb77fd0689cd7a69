package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/jdziat/apigen/pkg/core"
	"github.com/jdziat/apigen/pkg/reqctx"
	"github.com/jdziat/apigen/pkg/security"
)

// RequestIDHeader carries the id assigned to every request.
const RequestIDHeader = "X-Request-Id"

const requestIDKey = "request_id"

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// Server is the dispatch surface the handler drives.
// *dispatch.Dispatcher satisfies it.
type Server interface {
	Serve(ctx context.Context, b core.Boundary, req core.Request) error
}

// Handler creates an http.Handler serving d.
func Handler(d Server, opts ...Option) http.Handler {
	cfg := &config{logger: slog.Default()}
	for _, opt := range opts {
		opt.apply(cfg)
	}

	engine := gin.New()
	engine.Use(requestID(), accessLog(cfg.logger), gin.CustomRecovery(recovered(cfg.logger)))

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/stats", func(c *gin.Context) {
		if cfg.stats == nil {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		c.JSON(http.StatusOK, cfg.stats.Snapshot())
	})

	serve := dispatchHandler(d)
	for _, path := range []string{
		"/:format/:version",
		"/:format/:version/:module",
		"/:format/:version/:module/:method",
	} {
		engine.GET(path, serve)
		engine.POST(path, serve)
	}

	engine.NoRoute(func(c *gin.Context) {
		writeFault(c, http.StatusNotFound, "not_found", "no such route")
	})

	// Wrap with H2C for HTTP/2 over cleartext
	h := h2c.NewHandler(engine, &http2.Server{})

	if cfg.middleware != nil {
		return cfg.middleware(h)
	}
	return h
}

func dispatchHandler(d Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		version, err := ParseVersion(c.Param("version"))
		if err != nil {
			writeError(c, err)
			return
		}

		req := core.Request{
			Format:  c.Param("format"),
			Version: version,
			Module:  c.Param("module"),
			Method:  c.Param("method"),
		}
		if err := d.Serve(c.Request.Context(), &boundary{c: c}, req); err != nil {
			writeError(c, err)
		}
	}
}

// ParseVersion accepts "v2" or "2".
func ParseVersion(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(s, "v"))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", core.ErrInvalidVersion, s)
	}
	if err := security.ValidateVersion(n); err != nil {
		return 0, err
	}
	return n, nil
}

// StatusCode maps a dispatch fault to an HTTP status.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidFormat):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrInvalidVersion),
		errors.Is(err, core.ErrInvalidModule),
		errors.Is(err, core.ErrInvalidModuleOrVersion),
		errors.Is(err, core.ErrInvalidMethod):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := StatusCode(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	writeFault(c, status, core.Code(err), err.Error())
}

func writeFault(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":      code,
		"message":    security.SanitizeErrorMessage(message),
		"request_id": c.GetString(requestIDKey),
	})
}

// boundary adapts a gin response to core.Boundary.
type boundary struct {
	c *gin.Context
}

func (b *boundary) SetContentType(ct string) {
	b.c.Header("Content-Type", ct)
}

func (b *boundary) Write(p []byte) (int, error) {
	b.c.Status(http.StatusOK)
	return b.c.Writer.Write(p)
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(reqctx.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func accessLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", c.GetString(requestIDKey),
		}
		if len(c.Errors) > 0 {
			logger.Error("request failed", append(attrs, "error", c.Errors.Last().Err)...)
			return
		}
		logger.Debug("request", attrs...)
	}
}

func recovered(logger *slog.Logger) gin.RecoveryFunc {
	return func(c *gin.Context, err any) {
		logger.Error("panic serving request", "error", err, "request_id", c.GetString(requestIDKey))
		writeFault(c, http.StatusInternalServerError, "internal", "internal error")
	}
}
