/**
 * server 模式应用
 * @author: sun977
 * @date: 2025.10.21
 * @description: 查询公网 IP，为每个端口启动响应端，可选启动只读状态接口与配置热加载。
 *               响应端启动后与主流程脱离，进程终止即全部结束。
 */

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"portchecker/internal/app/server/router"
	"portchecker/internal/config"
	"portchecker/internal/core/model"
	"portchecker/internal/core/options"
	"portchecker/internal/core/responder"
	"portchecker/internal/pkg/client"
	"portchecker/internal/pkg/logger"
	"portchecker/internal/pkg/monitor"
)

// App server 模式应用程序
type App struct {
	config     *config.Config
	configPath string
	task       *model.Task
	opts       *options.ServerOptions

	lookup   client.IPLookupClient
	manager  *responder.Manager
	watcher  *config.ConfigWatcher
	router   *router.Router
	listener net.Listener
	http     *http.Server

	publicIP string
}

// NewApp 创建应用，configPath 非空时启用配置热加载
func NewApp(cfg *config.Config, opts *options.ServerOptions, configPath string) *App {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &App{
		config:     cfg,
		configPath: configPath,
		task:       opts.ToTask(),
		opts:       opts,
		lookup:     client.NewIPLookupClient(cfg.Server.IPLookupURL, cfg.Server.IPLookupTimeout),
		manager: responder.NewManager(responder.Options{
			BufferSize: cfg.Server.BufferSize,
			ReuseAddr:  cfg.Server.ReuseAddr,
		}),
	}
}

// WithLookupClient 替换公网 IP 查询客户端
func (a *App) WithLookupClient(c client.IPLookupClient) *App {
	a.lookup = c
	return a
}

// Manager 响应端管理器
func (a *App) Manager() *responder.Manager {
	return a.manager
}

// PublicIP 启动时查询到的公网 IP
func (a *App) PublicIP() string {
	return a.publicIP
}

// StatusAddr 状态接口实际监听地址，未启动时为空
func (a *App) StatusAddr() string {
	if a.listener == nil {
		return ""
	}
	return a.listener.Addr().String()
}

func (a *App) skipIPLookup() bool {
	return a.opts.SkipIPLookup || a.config.Server.SkipIPLookup
}

func (a *App) statusListen() string {
	if a.opts.StatusListen != "" {
		return a.opts.StatusListen
	}
	return a.config.Server.StatusListen
}

// Start 启动应用，公网 IP 查询失败时直接返回错误，不启动任何响应端
// ctx 取消时响应端关闭监听
func (a *App) Start(ctx context.Context) error {
	logger.LogSystemEvent("Server", "start", "Starting responders", logger.DebugLevel, map[string]interface{}{
		"task_id":   a.task.ID,
		"tcp_ports": a.task.TcpPorts,
		"udp_ports": a.task.UdpPorts,
	})

	if !a.skipIPLookup() {
		ip, err := a.lookup.LookupPublicIP(ctx)
		if err != nil {
			return fmt.Errorf("failed to get public ip: %w", err)
		}
		a.publicIP = ip
		logger.Infof("Your IP address is: %s", ip)
	}

	if addrs, err := monitor.LocalAddresses(); err != nil {
		logger.Warnf("Failed to list local addresses: %v", err)
	} else {
		for _, addr := range addrs {
			logger.Debugf("Local address %s (%s)", addr.IP, addr.Interface)
		}
	}

	a.manager.Start(ctx, a.task.TcpPorts, a.task.UdpPorts)

	if listen := a.statusListen(); listen != "" {
		if err := a.startStatusServer(listen); err != nil {
			return err
		}
	}

	if a.configPath != "" {
		a.startConfigWatcher()
	}
	return nil
}

func (a *App) startStatusServer(listen string) error {
	a.router = router.NewRouter(nil, a.manager, a.publicIP)

	l, err := net.Listen("tcp", listen)
	if err != nil {
		return fmt.Errorf("failed to listen status api on %s: %w", listen, err)
	}
	a.listener = l
	a.http = &http.Server{
		Handler:           a.router.GetEngine(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := a.http.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Status API stopped: %v", err)
		}
	}()
	logger.Infof("Status API listening on %s", l.Addr())
	return nil
}

// startConfigWatcher 配置文件变更时热更新日志配置
func (a *App) startConfigWatcher() {
	w, err := config.NewConfigWatcher(a.configPath, a.config)
	if err != nil {
		logger.Warnf("Config watcher disabled: %v", err)
		return
	}
	w.OnError(func(err error) {
		logger.Warnf("Config reload failed: %v", err)
	})
	w.AddCallback(func(oldCfg, newCfg *config.Config) error {
		if logger.LoggerInstance == nil {
			return nil
		}
		return logger.LoggerInstance.UpdateConfig(newCfg.Log)
	})
	if err := w.Start(); err != nil {
		logger.Warnf("Config watcher disabled: %v", err)
		return
	}
	a.watcher = w
}

// Stop 关闭状态接口与配置监听，响应端随 Start 的 ctx 结束
func (a *App) Stop(ctx context.Context) error {
	var errs []error
	if a.watcher != nil {
		if err := a.watcher.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.http != nil {
		if err := a.http.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop status api: %w", err))
		}
	}
	return errors.Join(errs...)
}
