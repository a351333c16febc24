package responder

import (
	"context"
	"sync"

	"portchecker/internal/core/model"
)

// Manager 管理所有响应端
// 每个端口一个 goroutine，启动后与调用方脱离，互不等待
type Manager struct {
	opts Options

	mu         sync.RWMutex
	responders []Responder
	wg         sync.WaitGroup
}

func NewManager(opts Options) *Manager {
	return &Manager{opts: opts}
}

// Start 为每个端口启动一个响应端，立即返回
// 绑定失败由各响应端自行记录，Manager 不感知
func (m *Manager) Start(ctx context.Context, tcpPorts, udpPorts []int) []Responder {
	started := make([]Responder, 0, len(tcpPorts)+len(udpPorts))
	for _, port := range tcpPorts {
		started = append(started, NewTCPResponder(port, m.opts))
	}
	for _, port := range udpPorts {
		started = append(started, NewUDPResponder(port, m.opts))
	}

	m.mu.Lock()
	m.responders = append(m.responders, started...)
	m.mu.Unlock()

	for _, r := range started {
		m.wg.Add(1)
		go func(r Responder) {
			defer m.wg.Done()
			_ = r.Serve(ctx)
		}(r)
	}
	return started
}

// WaitReady 等待所有响应端完成绑定尝试
func (m *Manager) WaitReady(ctx context.Context) error {
	m.mu.RLock()
	responders := append([]Responder(nil), m.responders...)
	m.mu.RUnlock()

	for _, r := range responders {
		select {
		case <-r.Ready():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Wait 等待所有响应端退出 (仅在 ctx 取消后才会返回)
func (m *Manager) Wait() {
	m.wg.Wait()
}

// Statuses 所有端口绑定的运行快照，顺序与启动顺序一致
func (m *Manager) Statuses() []model.ResponderStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.ResponderStatus, 0, len(m.responders))
	for _, r := range m.responders {
		out = append(out, r.Status())
	}
	return out
}
