/*
 * @author: Sun977
 * @date: 2026.01.21
 * @description: Cobra Root Command 定义
 */

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"portchecker/internal/config"
	"portchecker/internal/pkg/logger"
	"portchecker/internal/pkg/version"
)

var (
	cfgFile  string
	noBanner bool

	// 由 PersistentPreRunE 加载，子命令直接使用
	appConfig  *config.Config
	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "portchecker",
	Short: "端口连通性检测工具",
	Long: `portchecker 用于检测两台主机之间的 TCP/UDP 端口是否可达。

一端以 server 模式在指定端口上监听，收到 "ping" 回复 "pong"；
另一端以 scan 模式逐个端口发送 "ping"，收到 "pong" 即判定端口开放。

示例:
  1.启动响应端
	portchecker server -t 9001 -t 9002 -u 9001
  2.从另一台主机探测
	portchecker scan 203.0.113.7 -t 9001,9002 -u 9001
`,
	Version:       version.Version,
	SilenceErrors: true,
	// PersistentPreRunE: 全局初始化逻辑，确保所有子命令都能使用配置和日志
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(cmd); err != nil {
			return err
		}
		initCLILogger(appConfig.Log)
		if appConfig.App.Banner && !noBanner && cmd.Name() != "version" {
			printBanner(appConfig.App)
		}
		return nil
	},
}

func Execute() {
	// 全局 Panic Recovery
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\n[FATAL] portchecker crashed unexpectedly: %v\n", r)
			os.Exit(1)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// -v/--version 只输出版本号
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// 全局 Flag
	pFlags := rootCmd.PersistentFlags()
	pFlags.StringVar(&cfgFile, "config", "", "配置文件路径 (默认: ./configs/config.yaml)")
	pFlags.String("log-level", "", "日志级别 (debug, info, warn, error)")
	pFlags.String("log-format", "", "日志格式 (text, json)")
	pFlags.BoolVar(&noBanner, "no-banner", false, "不显示 Banner")

	// 注册子命令
	rootCmd.AddCommand(NewServerCmd())
	rootCmd.AddCommand(NewScanCmd())
	rootCmd.AddCommand(versionCmd)
}

// initConfig 读取配置文件、.env 与环境变量，命令行参数优先
func initConfig(cmd *cobra.Command) error {
	loader := config.NewConfigLoader(cfgFile, config.DefaultEnvPrefix)

	// 绑定 Viper
	v := loader.Viper()
	pFlags := cmd.Root().PersistentFlags()
	if err := v.BindPFlag("log.level", pFlags.Lookup("log-level")); err != nil {
		return err
	}
	if err := v.BindPFlag("log.format", pFlags.Lookup("log-format")); err != nil {
		return err
	}

	cfg, err := loader.LoadConfig()
	if err != nil {
		return err
	}

	config.SetConfig(cfg)
	appConfig = cfg
	configPath = loader.GetConfigPath()
	return nil
}

// initCLILogger 初始化 CLI 模式下的日志
// 响应端需要持续输出收包日志，默认级别为 info
func initCLILogger(cfg *config.LogConfig) {
	// 配置 pterm
	switch cfg.Level {
	case "debug":
		pterm.EnableDebugMessages()
	case "info":
		pterm.DisableDebugMessages()
	default:
		pterm.DisableDebugMessages()
		pterm.Info = *pterm.Info.WithWriter(io.Discard)
	}

	// 初始化日志
	if _, err := logger.InitLogger(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
	}
}
