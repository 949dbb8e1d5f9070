// Package server binds the procedure router to HTTP. The whole API hangs
// off a single path family, /api/rpc/<procedure>, with queries on GET and
// mutations on POST, plus an unauthenticated health endpoint.
package server

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kytehq/kyte/internal/apperr"
	"github.com/kytehq/kyte/internal/config"
	"github.com/kytehq/kyte/internal/rpc"
)

// maxBodyBytes caps mutation payloads.
const maxBodyBytes = 1 << 20

// New builds the gin engine with logging, recovery and the RPC dispatch
// routes.
func New(cfg config.Config, router *rpc.Router, log *zap.Logger) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(requestID(), requestLogger(log), gin.Recovery())

	engine.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"version":     cfg.Version,
			"environment": cfg.Env,
		})
	})

	dispatch := rpcDispatch(router, log)
	engine.GET("/api/rpc/*procedure", dispatch)
	engine.POST("/api/rpc/*procedure", dispatch)

	return engine
}

func rpcDispatch(router *rpc.Router, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := strings.Trim(c.Param("procedure"), "/")
		proc, ok := router.Lookup(name)
		if !ok {
			writeError(c, apperr.NotFound("procedure"))
			return
		}

		var input []byte
		switch proc.Kind {
		case rpc.Query:
			if c.Request.Method != http.MethodGet {
				writeMethodNotAllowed(c, http.MethodGet)
				return
			}
			input = []byte(c.Query("input"))
		case rpc.Mutation:
			if c.Request.Method != http.MethodPost {
				writeMethodNotAllowed(c, http.MethodPost)
				return
			}
			body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
			if err != nil {
				writeError(c, apperr.Validation(map[string]string{"input": "unreadable_body"}))
				return
			}
			input = body
		}

		ctx := &rpc.Ctx{
			Context: c.Request.Context(),
			Log:     log.With(zap.String("procedure", name)),
			UserID:  c.GetHeader("X-User-Id"),
		}
		result, err := proc.Handle(ctx, input)
		if err != nil {
			ae := apperr.From(err)
			if ae.Kind == apperr.KindInternal || ae.Kind == apperr.KindUnavailable {
				ctx.Log.Error("procedure failed", zap.Error(err))
			}
			writeError(c, ae)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": result})
	}
}

func writeError(c *gin.Context, ae *apperr.Error) {
	c.JSON(ae.HTTPStatus(), gin.H{"error": ae})
}

func writeMethodNotAllowed(c *gin.Context, allowed string) {
	c.Header("Allow", allowed)
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": &apperr.Error{
		Kind:    apperr.KindValidation,
		Message: "method not allowed for this procedure",
	}})
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", c.GetString("request_id")),
		)
	}
}
