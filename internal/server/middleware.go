package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/discipleshipbydesign/blueprint/internal/auth"
	"github.com/discipleshipbydesign/blueprint/internal/ctxutil"
	"github.com/discipleshipbydesign/blueprint/internal/logger"
	"github.com/discipleshipbydesign/blueprint/internal/pipeline"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"
)

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
}

// AttachTraceContext stores request and trace ids on the request context
// and echoes them back as headers.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := strings.TrimSpace(c.GetHeader(headerRequestID))
		if reqID == "" {
			reqID = uuid.New().String()
		}
		traceID := strings.TrimSpace(c.GetHeader(headerTraceID))
		if traceID == "" {
			spanCtx := trace.SpanContextFromContext(c.Request.Context())
			if spanCtx.HasTraceID() {
				traceID = spanCtx.TraceID().String()
			}
		}
		if traceID == "" {
			traceID = uuid.New().String()
		}
		ctx := ctxutil.WithTraceData(c.Request.Context(), &ctxutil.TraceData{
			TraceID:   traceID,
			RequestID: reqID,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(headerTraceID, traceID)
		c.Writer.Header().Set(headerRequestID, reqID)
		c.Next()
	}
}

func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if log == nil {
			return
		}

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		ctx := c.Request.Context()

		fields := []interface{}{
			"method", strings.ToUpper(c.Request.Method),
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if td := ctxutil.GetTraceData(ctx); td != nil {
			fields = append(fields, "trace_id", td.TraceID, "request_id", td.RequestID)
		}
		if uid := ctxutil.UserID(ctx); uid != "" {
			fields = append(fields, "user_id", uid)
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

func CORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		origins = defaultOrigins
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", headerRequestID},
		ExposeHeaders:    []string{headerRequestID, headerTraceID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// RequireUser resolves the caller and stores the id on the request
// context. Unresolved callers get 401 tagged with the auth stage.
func RequireUser(res auth.Resolver, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := res.Resolve(c.Request)
		if err != nil {
			if !errors.Is(err, auth.ErrUnauthorized) {
				log.Error("identity resolver failed", "error", err)
			}
			writeFailure(c, &pipeline.Failure{
				Stage:     pipeline.StageAuth,
				Message:   "Unauthorized",
				RequestID: ctxutil.RequestID(c.Request.Context()),
				Err:       err,
			})
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(ctxutil.WithUserID(c.Request.Context(), id))
		c.Next()
	}
}

// Recover turns a handler panic into an unhandled failure body.
func Recover(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, rec any) {
		msg := "Unexpected error"
		if err, ok := rec.(error); ok {
			msg = err.Error()
		} else if s, ok := rec.(string); ok {
			msg = s
		}
		log.Error("handler panic", "path", c.Request.URL.Path, "panic", rec)
		writeFailure(c, &pipeline.Failure{
			Stage:     pipeline.StageUnhandled,
			Message:   msg,
			RequestID: ctxutil.RequestID(c.Request.Context()),
		})
		c.Abort()
	})
}

func statusFor(stage pipeline.Stage) int {
	switch stage {
	case pipeline.StageIntakeValidate:
		return http.StatusBadRequest
	case pipeline.StageAuth:
		return http.StatusUnauthorized
	case pipeline.StageConfig, pipeline.StageInsert, pipeline.StageUnhandled:
		return http.StatusInternalServerError
	}
	if (&pipeline.Failure{Stage: stage}).Upstream() {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
