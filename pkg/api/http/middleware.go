package http

import (
	"math/rand"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/opskit/sretest/internal/config"
)

// requestIDHeader carries the request identifier on both request
// and response.
const requestIDHeader = "X-Request-Id"

// contextKeyRequestID is the gin context key holding the request identifier.
const contextKeyRequestID = "request_id"

// Recorder receives request observations.
type Recorder interface {
	ObserveRequest(method, path string, status int, duration time.Duration)
	IncRequestsInFlight()
	DecRequestsInFlight()
	ObserveFaultDelay(duration time.Duration)
}

// requestID assigns each request an identifier, keeping one supplied
// by the caller.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(contextKeyRequestID, id)
		c.Writer.Header().Set(requestIDHeader, id)

		c.Next()
	}
}

// requestLogger is a middleware for request logging
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		duration := time.Since(start)

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", duration),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString(contextKeyRequestID)))
	}
}

// metricsMiddleware records one observation per request. Unmatched routes
// share a single path label to keep series cardinality bounded.
func metricsMiddleware(metrics Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.IncRequestsInFlight()

		c.Next()

		metrics.DecRequestsInFlight()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

// faultDelay injects artificial latency into every request except the
// health check. The wait is abandoned when the client goes away.
func faultDelay(fault config.FaultConfig, metrics Recorder, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == healthPath {
			c.Next()
			return
		}

		delay := fault.Delay
		if fault.Jitter > 0 {
			delay += time.Duration(rand.Int63n(int64(fault.Jitter)))
		}
		if delay <= 0 {
			c.Next()
			return
		}

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-c.Request.Context().Done():
			c.Abort()
			return
		}

		if metrics != nil {
			metrics.ObserveFaultDelay(delay)
		}
		logger.Debug("injected fault delay",
			zap.Duration("delay", delay),
			zap.String("path", c.Request.URL.Path))

		c.Next()
	}
}
