package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiebiao/storefront/pkg/tracing"
)

const headerRequestID = "X-Request-ID"

// slowRequestThreshold 超过该耗时的请求记为警告
const slowRequestThreshold = 3 * time.Second

// Logger 请求日志中间件
// 1. 生成（或沿用上游传入的）请求ID，写入Context和响应头
// 2. 请求结束后输出方法、路径、状态码、耗时、客户端IP
// 不记录请求体和Authorization头
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(headerRequestID, requestID)

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		}
		if traceID := tracing.ExtractTraceID(c.Request.Context()); traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			zap.L().Error("HTTP请求", fields...)
		case latency > slowRequestThreshold:
			zap.L().Warn("慢请求", fields...)
		default:
			zap.L().Info("HTTP请求", fields...)
		}
	}
}
