// Package sockopt 提供监听套接字的选项设置
package sockopt

import (
	"net"
	"strings"
	"syscall"
)

// Options 监听套接字选项
type Options struct {
	// ReuseAddr 控制 TCP 监听套接字的 SO_REUSEADDR
	// UDP 不设置，否则 Linux 上同一端口可以被重复绑定，绑定失败就无法被发现
	ReuseAddr bool
}

// ListenConfig 根据选项构造 net.ListenConfig
func ListenConfig(opts Options) *net.ListenConfig {
	return &net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			if !strings.HasPrefix(network, "tcp") {
				return nil
			}
			var sockErr error
			if err := c.Control(func(fd uintptr) {
				sockErr = setReuseAddr(fd, opts.ReuseAddr)
			}); err != nil {
				return err
			}
			return sockErr
		},
	}
}
