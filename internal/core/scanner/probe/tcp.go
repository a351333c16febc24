package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"portchecker/internal/core/lib/network/dialer"
	"portchecker/internal/core/model"
	"portchecker/internal/pkg/logger"
	"portchecker/internal/pkg/utils"
)

// TCPProber TCP 探测器
// 连接通过 dialer 建立，配置了 --proxy 时走 SOCKS5
type TCPProber struct {
	Timeout    time.Duration
	BufferSize int
	Dialer     dialer.Dialer // 为空时使用全局拨号器
}

func NewTCPProber(timeout time.Duration) *TCPProber {
	return &TCPProber{Timeout: timeout}
}

func (p *TCPProber) Protocol() model.Protocol {
	return model.ProtocolTCP
}

func (p *TCPProber) getDialer() dialer.Dialer {
	if p.Dialer != nil {
		return p.Dialer
	}
	return dialer.Get()
}

// Probe INIT -> SENT -> {OPEN|CLOSED}
func (p *TCPProber) Probe(ctx context.Context, host string, port int) *model.ProbeResult {
	timeout := timeoutOrDefault(p.Timeout)
	res := model.NewClosedResult(host, port, model.ProtocolTCP)
	start := time.Now()
	defer func() { res.Elapsed = time.Since(start) }()

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := p.getDialer().DialContext(dialCtx, "tcp", utils.JoinHostPort(host, port))
	if err != nil {
		p.report(res, err, true)
		return res
	}
	defer conn.Close()

	// 读写共用同一个超时
	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		p.report(res, err, false)
		return res
	}
	if _, err := conn.Write([]byte(model.PingToken)); err != nil {
		p.report(res, err, false)
		return res
	}

	buf := make([]byte, bufferOrDefault(p.BufferSize))
	n, err := conn.Read(buf)
	if n > 0 {
		res.Reply = string(buf[:n])
	}
	if err != nil && !errors.Is(err, io.EOF) {
		p.report(res, err, false)
		return res
	}

	if model.IsAck(buf[:n]) {
		res.State = model.PortStateOpen
	}
	return res
}

// report 记录探测异常，结论始终是 closed
// dialing 为 true 表示连接阶段失败，连接被拒绝属于正常的 closed，不做错误日志
func (p *TCPProber) report(res *model.ProbeResult, err error, dialing bool) {
	res.Error = err.Error()
	ev := logger.ProbeEvent{Protocol: string(model.ProtocolTCP), Target: res.Target, Port: res.Port}

	switch kind := classify(err); {
	case kind == failureResolve:
		logger.LogProbeEvent(ev, logger.ErrorLevel, fmt.Sprintf("Hostname %s could not be resolved.", res.Target))
	case kind == failureTimeout:
		logger.LogProbeEvent(ev, logger.ErrorLevel, fmt.Sprintf("Connection to %s:%d timed out.", res.Target, res.Port))
	case dialing:
		logger.LogProbeEvent(ev, logger.DebugLevel, fmt.Sprintf("Connect to %s:%d failed: %v", res.Target, res.Port, err))
	default:
		logger.LogProbeEvent(ev, logger.ErrorLevel, fmt.Sprintf("Error connecting to %s:%d - %v", res.Target, res.Port, err))
	}
}
