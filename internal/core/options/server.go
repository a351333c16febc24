package options

import (
	"fmt"
	"net"

	"portchecker/internal/core/model"
)

// ServerOptions server 指令参数
type ServerOptions struct {
	Ports        PortOptions
	StatusListen string // 状态接口监听地址，为空则不启动
	SkipIPLookup bool
}

func NewServerOptions() *ServerOptions {
	return &ServerOptions{}
}

func (o *ServerOptions) Validate() error {
	if err := o.Ports.Validate(); err != nil {
		return err
	}
	if o.StatusListen != "" {
		if _, _, err := net.SplitHostPort(o.StatusListen); err != nil {
			return fmt.Errorf("invalid status listen address %q: %w", o.StatusListen, err)
		}
	}
	return nil
}

// ToTask 响应端任务，无超时
func (o *ServerOptions) ToTask() *model.Task {
	task := model.NewTask(model.TaskTypeResponder, "0.0.0.0")
	o.Ports.applyTo(task)
	task.Timeout = 0

	task.Params["status_listen"] = o.StatusListen
	task.Params["skip_ip_lookup"] = o.SkipIPLookup

	return task
}
