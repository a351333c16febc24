/**
 * 日志中间件
 * @author: sun977
 * @date: 2025.10.21
 * @description: 状态接口的请求日志，按状态码选择日志级别，记录慢请求
 */
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"portchecker/internal/pkg/logger"
	"portchecker/internal/pkg/utils"
)

// LoggingConfig 日志配置
type LoggingConfig struct {
	// 跳过日志的路径
	SkipPaths []string `json:"skip_paths"`

	// 慢请求阈值
	SlowRequestThreshold time.Duration `json:"slow_request_threshold"`
}

// LoggingMiddleware 日志中间件
type LoggingMiddleware struct {
	config *LoggingConfig
	skip   map[string]struct{}
}

// NewLoggingMiddleware 创建日志中间件
func NewLoggingMiddleware(config *LoggingConfig) *LoggingMiddleware {
	if config == nil {
		config = &LoggingConfig{
			SkipPaths:            []string{"/health", "/ping"},
			SlowRequestThreshold: 2 * time.Second,
		}
	}

	skip := make(map[string]struct{}, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skip[p] = struct{}{}
	}
	return &LoggingMiddleware{config: config, skip: skip}
}

// Handler 日志处理器
func (m *LoggingMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := m.skip[path]; ok {
			c.Next()
			return
		}

		startTime := time.Now()
		c.Next()
		duration := time.Since(startTime)

		entry := logger.WithFields(logrus.Fields{
			"type":     logger.SystemLog,
			"method":   c.Request.Method,
			"path":     path,
			"ip":       utils.GetClientIP(c),
			"status":   c.Writer.Status(),
			"size":     c.Writer.Size(),
			"duration": duration.String(),
		})

		// 根据状态码选择日志级别
		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("HTTP Response")
		case status >= 400:
			entry.Warn("HTTP Response")
		default:
			entry.Debug("HTTP Response")
		}

		if m.config.SlowRequestThreshold > 0 && duration > m.config.SlowRequestThreshold {
			entry.Warn("Slow Request Detected")
		}
	}
}
