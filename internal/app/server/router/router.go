/**
 * 状态接口路由注册
 * @author: sun977
 * @date: 2025.10.21
 * @description: server 模式下可选的 HTTP 状态接口，只读
 */
package router

import (
	"github.com/gin-gonic/gin"

	"portchecker/internal/app/server/middleware"
	"portchecker/internal/core/model"
	"portchecker/internal/pkg/monitor"
)

// StatusSource 提供响应端运行快照
type StatusSource interface {
	Statuses() []model.ResponderStatus
}

// HostInfoFunc 主机信息来源，测试时可替换
type HostInfoFunc func() *monitor.HostInfo

// RouterConfig 路由配置
type RouterConfig struct {
	// 是否启用调试模式
	Debug bool `json:"debug"`

	// API版本
	APIVersion string `json:"api_version"`

	// 路由前缀
	Prefix string `json:"prefix"`

	// 日志中间件配置，为 nil 时使用默认值
	Logging *middleware.LoggingConfig `json:"logging"`
}

// Router 状态接口路由器
type Router struct {
	engine   *gin.Engine
	config   *RouterConfig
	source   StatusSource
	hostInfo HostInfoFunc
	publicIP string
}

// NewRouter 创建新的路由器
func NewRouter(config *RouterConfig, source StatusSource, publicIP string) *Router {
	if config == nil {
		config = &RouterConfig{
			APIVersion: "v1",
			Prefix:     "/api",
		}
	}

	// 设置Gin模式
	if config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.NewLoggingMiddleware(config.Logging).Handler())

	r := &Router{
		engine:   engine,
		config:   config,
		source:   source,
		hostInfo: monitor.GetHostInfo,
		publicIP: publicIP,
	}
	r.registerRoutes()
	return r
}

// WithHostInfo 替换主机信息来源
func (r *Router) WithHostInfo(fn HostInfoFunc) *Router {
	r.hostInfo = fn
	return r
}

// GetEngine 获取 gin 引擎
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

func (r *Router) registerRoutes() {
	r.setupHealthRoutes()

	api := r.engine.Group(r.config.Prefix + "/" + r.config.APIVersion)
	r.setupStatusRoutes(api)
}
