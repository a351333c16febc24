/**
 * 路由:健康检查路由
 * @author: sun977
 * @date: 2025.10.21
 * @description: 健康检查、存活检查、版本信息
 */
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"portchecker/internal/pkg/logger"
	"portchecker/internal/pkg/version"
)

// setupHealthRoutes 设置健康检查路由
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.handleHealth)
	r.engine.GET("/ping", r.handlePing)
	r.engine.GET("/version", r.handleVersion)
}

// handleHealth 健康检查处理器
func (r *Router) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": logger.FormatTimestamp(time.Now()),
		"service":   "portchecker",
		"version":   version.Version,
	})
}

// handlePing Ping处理器
func (r *Router) handlePing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "pong",
		"timestamp": logger.FormatTimestamp(time.Now()),
	})
}

// handleVersion 版本信息处理器
func (r *Router) handleVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":    "portchecker",
		"version":    version.Version,
		"build_time": version.BuildTime,
		"git_commit": version.GitCommit,
		"go_version": version.GoVersion,
	})
}
