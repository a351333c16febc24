/**
 * 探测响应端
 * @author: Sun977
 * @date: 2026.01.21
 * @description: 在指定 TCP/UDP 端口上监听，收到 "ping" 回复 "pong"。
 *               每个端口一个 goroutine，互不影响；单个端口绑定失败只结束该端口。
 */

package responder

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"portchecker/internal/core/model"
)

// Responder 响应端接口
type Responder interface {
	// Serve 绑定端口并进入收发循环，直到绑定失败、循环退出或 ctx 取消
	Serve(ctx context.Context) error
	// Ready 绑定尝试完成 (成功或失败) 后关闭
	Ready() <-chan struct{}
	// Addr 实际绑定的地址，绑定前为 nil
	Addr() net.Addr
	// Status 运行快照
	Status() model.ResponderStatus
}

// Options 响应端参数
type Options struct {
	BufferSize int  // 单次读取上限
	ReuseAddr  bool // TCP 监听是否设置 SO_REUSEADDR
}

// DefaultOptions 默认参数
func DefaultOptions() Options {
	return Options{
		BufferSize: model.ReadBufferSize,
		ReuseAddr:  true,
	}
}

func (o Options) bufferSize() int {
	if o.BufferSize <= 0 {
		return model.ReadBufferSize
	}
	return o.BufferSize
}

// binding 端口绑定状态，TCP/UDP 共用
type binding struct {
	protocol model.Protocol
	port     int

	received     atomic.Uint64
	acknowledged atomic.Uint64

	mu        sync.RWMutex
	state     model.BindingState
	err       error
	addr      net.Addr
	startedAt time.Time

	readyOnce sync.Once
	ready     chan struct{}
}

func (b *binding) init(proto model.Protocol, port int) {
	b.protocol = proto
	b.port = port
	b.state = model.BindingStopped
	b.ready = make(chan struct{})
}

func (b *binding) Ready() <-chan struct{} {
	return b.ready
}

func (b *binding) Addr() net.Addr {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.addr
}

func (b *binding) markListening(addr net.Addr) {
	b.mu.Lock()
	b.state = model.BindingListening
	b.addr = addr
	// 端口 0 由系统分配，回填实际端口
	if b.port == 0 {
		switch a := addr.(type) {
		case *net.TCPAddr:
			b.port = a.Port
		case *net.UDPAddr:
			b.port = a.Port
		}
	}
	b.startedAt = time.Now()
	b.mu.Unlock()
	b.readyOnce.Do(func() { close(b.ready) })
}

func (b *binding) markFailed(err error) {
	b.mu.Lock()
	b.state = model.BindingFailed
	b.err = err
	b.mu.Unlock()
	b.readyOnce.Do(func() { close(b.ready) })
}

func (b *binding) markStopped() {
	b.mu.Lock()
	if b.state == model.BindingListening {
		b.state = model.BindingStopped
	}
	b.mu.Unlock()
}

func (b *binding) Status() model.ResponderStatus {
	b.mu.RLock()
	defer b.mu.RUnlock()

	st := model.ResponderStatus{
		Protocol:     b.protocol,
		Port:         b.port,
		State:        b.state,
		StartedAt:    b.startedAt,
		Received:     b.received.Load(),
		Acknowledged: b.acknowledged.Load(),
	}
	if b.err != nil {
		st.Error = b.err.Error()
	}
	return st
}
