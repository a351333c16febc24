package dialer

import (
	"context"
	"net"
	"time"
)

// Dialer 探测连接的建立方式
// TCP 探测经它拨号，直连或经 SOCKS5 代理由实现决定
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// DialerFunc 函数适配为 Dialer
type DialerFunc func(ctx context.Context, network, address string) (net.Conn, error)

func (f DialerFunc) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	return f(ctx, network, address)
}

// DefaultDialer 直连
// 一次探测只交换一组 ping/pong，连接不开启 TCP keep-alive
type DefaultDialer struct {
	Timeout time.Duration // 0 表示只受 ctx 截止时间约束
}

func NewDefaultDialer(timeout time.Duration) *DefaultDialer {
	return &DefaultDialer{Timeout: timeout}
}

func (d *DefaultDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	nd := &net.Dialer{
		Timeout:   d.Timeout,
		KeepAlive: -1,
	}
	return nd.DialContext(ctx, network, address)
}
