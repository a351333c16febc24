package options

import (
	"errors"
	"fmt"

	"portchecker/internal/core/model"
)

// TaskOption 定义所有指令参数结构体必须实现的接口
type TaskOption interface {
	// Validate 验证参数合法性
	Validate() error

	// ToTask 将参数转换为核心任务模型
	ToTask() *model.Task
}

var (
	// ErrNoPorts 既没有 TCP 端口也没有 UDP 端口
	ErrNoPorts = errors.New("at least one TCP or UDP port is required")
	// ErrInvalidPort 端口超出 1-65535
	ErrInvalidPort = errors.New("invalid port")
)

const (
	MinPort = 1
	MaxPort = 65535
)

// validatePorts 校验端口列表，返回第一个非法端口的错误
func validatePorts(proto model.Protocol, ports []int) error {
	for _, p := range ports {
		if p < MinPort || p > MaxPort {
			return fmt.Errorf("%w: %s port %d out of range %d-%d", ErrInvalidPort, proto.Label(), p, MinPort, MaxPort)
		}
	}
	return nil
}

// PortOptions 端口列表参数，server 与 scan 共用
type PortOptions struct {
	TcpPorts []int // -t, --tcp-ports
	UdpPorts []int // -u, --udp-ports
}

// Validate 至少一个端口，且全部在合法范围内
func (o *PortOptions) Validate() error {
	if len(o.TcpPorts) == 0 && len(o.UdpPorts) == 0 {
		return ErrNoPorts
	}
	if err := validatePorts(model.ProtocolTCP, o.TcpPorts); err != nil {
		return err
	}
	return validatePorts(model.ProtocolUDP, o.UdpPorts)
}

func (o *PortOptions) applyTo(task *model.Task) {
	task.TcpPorts = append([]int(nil), o.TcpPorts...)
	task.UdpPorts = append([]int(nil), o.UdpPorts...)
}
