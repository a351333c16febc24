/*
 * @author: Sun977
 * @date: 2026.01.21
 * @description: Scan 模式子命令 (探测客户端)
 */

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"portchecker/internal/core/lib/network/dialer"
	"portchecker/internal/core/model"
	"portchecker/internal/core/options"
	"portchecker/internal/core/reporter"
	"portchecker/internal/core/runner"
	"portchecker/internal/core/scanner/probe"
)

// NewScanCmd 创建 scan 命令
func NewScanCmd() *cobra.Command {
	opts := options.NewProbeScanOptions()
	var showTable bool

	cmd := &cobra.Command{
		Use:   "scan <ip>",
		Short: "探测目标主机的端口是否可达",
		Long: `依次向目标的每个端口发送 "ping"，收到 "pong" 判定为 open，否则为 closed。
先探测全部 TCP 端口，再探测 UDP 端口，每个端口输出一行结果。

示例:
  portchecker scan 203.0.113.7 -t 9001 -t 9002 -u 9001
  portchecker scan example.com -t 9001 --proxy socks5://127.0.0.1:1080 --oj result.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Target = args[0]
			// 未显式指定时使用配置文件中的值
			if !cmd.Flags().Changed("timeout") {
				opts.Timeout = appConfig.Probe.Timeout
			}
			if !cmd.Flags().Changed("proxy") {
				opts.Proxy = appConfig.Proxy.Address
			}
			if err := opts.Validate(); err != nil {
				return err
			}
			cmd.SilenceUsage = true
			return runScan(opts, showTable)
		},
	}

	flags := cmd.Flags()
	flags.IntSliceVarP(&opts.Ports.TcpPorts, "tcp-ports", "t", nil, "TCP 端口 (可重复，或逗号分隔)")
	flags.IntSliceVarP(&opts.Ports.UdpPorts, "udp-ports", "u", nil, "UDP 端口 (可重复，或逗号分隔)")
	flags.DurationVar(&opts.Timeout, "timeout", opts.Timeout, "单端口连接/读取超时")
	flags.StringVar(&opts.Proxy, "proxy", "", "TCP 探测使用的 SOCKS5 代理 (e.g. socks5://127.0.0.1:1080)")
	flags.BoolVar(&showTable, "table", false, "结束后以表格形式输出汇总")

	// 注意: Shorthand 必须是单个字符。这里我们只注册长参数。
	flags.StringVar(&opts.Output.OutputJson, "output-json", "", "保存 JSON 结果 (alias: --oj)")
	flags.StringVar(&opts.Output.OutputCsv, "output-csv", "", "保存 CSV 结果 (alias: --oc)")
	flags.StringVar(&opts.Output.OutputYaml, "output-yaml", "", "保存 YAML 结果 (alias: --oy)")

	// 注册别名 (Hidden flags) 方便用户使用简短命令
	flags.StringVar(&opts.Output.OutputJson, "oj", "", "output-json 简写")
	flags.Lookup("oj").Hidden = true
	flags.StringVar(&opts.Output.OutputCsv, "oc", "", "output-csv 简写")
	flags.Lookup("oc").Hidden = true
	flags.StringVar(&opts.Output.OutputYaml, "oy", "", "output-yaml 简写")
	flags.Lookup("oy").Hidden = true

	return cmd
}

func runScan(opts *options.ProbeScanOptions, showTable bool) error {
	if opts.Proxy != "" {
		pd, err := dialer.NewProxyDialer(opts.Proxy, appConfig.Proxy.Timeout)
		if err != nil {
			return err
		}
		dialer.SetGlobalDialer(pd)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	console := reporter.NewConsoleReporter()
	scanner := probe.NewProbeScanner(opts.Timeout).
		WithProbers(
			&probe.TCPProber{Timeout: opts.Timeout, BufferSize: appConfig.Probe.BufferSize},
			&probe.UDPProber{Timeout: opts.Timeout, BufferSize: appConfig.Probe.BufferSize},
		).
		WithReporter(console)

	manager := runner.NewRunnerManager(scanner)
	results, err := manager.Execute(ctx, opts.ToTask())
	if err != nil {
		return err
	}

	if showTable {
		if err := console.PrintResults(results); err != nil {
			return err
		}
		console.PrintSummary(reporter.ProbeResults(results))
	}

	return saveResults(opts.Output, results)
}

// saveResults 按输出参数导出结果文件
func saveResults(out options.OutputOptions, results []*model.TaskResult) error {
	probeResults := reporter.ProbeResults(results)

	exports := []struct {
		path string
		save func(string) error
	}{
		{out.OutputJson, func(p string) error { return reporter.SaveJsonResult(p, probeResults) }},
		{out.OutputCsv, func(p string) error { return reporter.SaveCsvResult(p, results) }},
		{out.OutputYaml, func(p string) error { return reporter.SaveYamlResult(p, probeResults) }},
	}
	for _, e := range exports {
		if e.path == "" {
			continue
		}
		if err := e.save(e.path); err != nil {
			return err
		}
		fmt.Printf("[+] Results saved to %s\n", e.path)
	}
	return nil
}
