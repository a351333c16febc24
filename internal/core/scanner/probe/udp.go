package probe

import (
	"context"
	"fmt"
	"net"
	"time"

	"portchecker/internal/core/model"
	"portchecker/internal/pkg/logger"
	"portchecker/internal/pkg/utils"
)

// UDPProber UDP 探测器
// UDP 不走代理，直接发包
type UDPProber struct {
	Timeout    time.Duration
	BufferSize int
}

func NewUDPProber(timeout time.Duration) *UDPProber {
	return &UDPProber{Timeout: timeout}
}

func (p *UDPProber) Protocol() model.Protocol {
	return model.ProtocolUDP
}

// Probe 发送 ping 并等待一个数据报
// 等不到回复与收到 ICMP 端口不可达一样，都是 closed
func (p *UDPProber) Probe(ctx context.Context, host string, port int) *model.ProbeResult {
	timeout := timeoutOrDefault(p.Timeout)
	res := model.NewClosedResult(host, port, model.ProtocolUDP)
	start := time.Now()
	defer func() { res.Elapsed = time.Since(start) }()

	d := &net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "udp", utils.JoinHostPort(host, port))
	if err != nil {
		p.report(res, err)
		return res
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		p.report(res, err)
		return res
	}
	if _, err := conn.Write([]byte(model.PingToken)); err != nil {
		p.report(res, err)
		return res
	}

	buf := make([]byte, bufferOrDefault(p.BufferSize))
	n, err := conn.Read(buf)
	if err != nil {
		p.report(res, err)
		return res
	}

	res.Reply = string(buf[:n])
	if model.IsAck(buf[:n]) {
		res.State = model.PortStateOpen
	}
	return res
}

func (p *UDPProber) report(res *model.ProbeResult, err error) {
	res.Error = err.Error()
	ev := logger.ProbeEvent{Protocol: string(model.ProtocolUDP), Target: res.Target, Port: res.Port}

	switch classify(err) {
	case failureTimeout, failureRefused:
		logger.LogProbeEvent(ev, logger.DebugLevel, fmt.Sprintf("No reply from %s:%d: %v", res.Target, res.Port, err))
	case failureResolve:
		logger.LogProbeEvent(ev, logger.ErrorLevel, fmt.Sprintf("Hostname %s could not be resolved.", res.Target))
	default:
		logger.LogProbeEvent(ev, logger.ErrorLevel, fmt.Sprintf("Error connecting to %s:%d - %v", res.Target, res.Port, err))
	}
}
