/*
 * @author: Sun977
 * @date: 2026.01.21
 * @description: Server 模式子命令 (响应端)
 */

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"portchecker/internal/app/server"
	"portchecker/internal/core/options"
	"portchecker/internal/pkg/logger"
)

// NewServerCmd 创建 server 命令
func NewServerCmd() *cobra.Command {
	opts := options.NewServerOptions()

	cmd := &cobra.Command{
		Use:   "server",
		Short: "在指定端口上启动响应端",
		Long: `查询本机公网 IP，并在每个指定的 TCP/UDP 端口上启动响应端。
收到 "ping" 回复 "pong"，其他载荷只记录日志。按 Ctrl+C 退出。

示例:
  portchecker server -t 9001 -t 9002 -u 9001
  portchecker server -t 9001,9002 --status-listen 127.0.0.1:8088`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Validate(); err != nil {
				return err
			}
			// 参数合法后的错误不再打印用法
			cmd.SilenceUsage = true
			return runServer(opts)
		},
	}

	flags := cmd.Flags()
	flags.IntSliceVarP(&opts.Ports.TcpPorts, "tcp-ports", "t", nil, "TCP 端口 (可重复，或逗号分隔)")
	flags.IntSliceVarP(&opts.Ports.UdpPorts, "udp-ports", "u", nil, "UDP 端口 (可重复，或逗号分隔)")
	flags.StringVar(&opts.StatusListen, "status-listen", "", "状态接口监听地址 (e.g. 127.0.0.1:8088)，为空则不启动")
	flags.BoolVar(&opts.SkipIPLookup, "skip-ip-lookup", false, "跳过公网 IP 查询")

	return cmd
}

func runServer(opts *options.ServerOptions) error {
	app := server.NewApp(appConfig, opts, configPath)

	// 响应端的生命周期与进程一致
	if err := app.Start(context.Background()); err != nil {
		return err
	}

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	fmt.Println("Exiting...")

	// 只关闭状态 API 和配置监听，响应端不做收尾，随进程退出释放端口
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.Stop(ctx); err != nil {
		logger.Warnf("Shutdown: %v", err)
	}
	return nil
}
