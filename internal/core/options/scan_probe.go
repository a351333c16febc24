package options

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"portchecker/internal/core/model"
)

// ProbeScanOptions scan 指令参数
type ProbeScanOptions struct {
	Target  string
	Ports   PortOptions
	Timeout time.Duration // 单端口超时
	Proxy   string        // socks5://[user:pass@]host:port，只作用于 TCP
	Output  OutputOptions
}

func NewProbeScanOptions() *ProbeScanOptions {
	return &ProbeScanOptions{
		Timeout: model.DefaultProbeTimeout,
	}
}

func (o *ProbeScanOptions) Validate() error {
	if strings.TrimSpace(o.Target) == "" {
		return fmt.Errorf("target is required")
	}
	if err := o.Ports.Validate(); err != nil {
		return err
	}
	if o.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", o.Timeout)
	}
	if o.Proxy != "" {
		u, err := url.Parse(o.Proxy)
		if err != nil {
			return fmt.Errorf("invalid proxy %q: %w", o.Proxy, err)
		}
		if u.Scheme != "socks5" && u.Scheme != "socks5h" {
			return fmt.Errorf("unsupported proxy scheme %q (allowed: socks5, socks5h)", u.Scheme)
		}
		if u.Host == "" {
			return fmt.Errorf("proxy host is required")
		}
	}
	return nil
}

func (o *ProbeScanOptions) ToTask() *model.Task {
	task := model.NewTask(model.TaskTypeProbeScan, strings.TrimSpace(o.Target))
	o.Ports.applyTo(task)
	task.Timeout = o.Timeout

	task.Params["timeout"] = o.Timeout
	if o.Proxy != "" {
		task.Params["proxy"] = o.Proxy
	}
	o.Output.ApplyToParams(task.Params)

	return task
}
