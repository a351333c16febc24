package probe

import (
	"context"
	"fmt"
	"time"

	"portchecker/internal/core/model"
	"portchecker/internal/core/reporter"
	"portchecker/internal/pkg/logger"
)

const (
	ScannerName = "probe_scanner"
	// ParamTimeout 任务参数: 单端口超时 (time.Duration)
	ParamTimeout = "timeout"
)

// ProbeScanner 顺序探测器
// 先 TCP 后 UDP，同一时刻只有一个探测在进行，结果顺序与端口给定顺序一致
type ProbeScanner struct {
	tcp      Prober
	udp      Prober
	reporter reporter.Reporter
}

// NewProbeScanner 创建探测器，timeout <= 0 时使用默认 1s
func NewProbeScanner(timeout time.Duration) *ProbeScanner {
	return &ProbeScanner{
		tcp: NewTCPProber(timeout),
		udp: NewUDPProber(timeout),
	}
}

// WithProbers 替换底层探测器
func (s *ProbeScanner) WithProbers(tcp, udp Prober) *ProbeScanner {
	if tcp != nil {
		s.tcp = tcp
	}
	if udp != nil {
		s.udp = udp
	}
	return s
}

// WithReporter 设置结果上报器，Run 每完成一个端口上报一次
func (s *ProbeScanner) WithReporter(r reporter.Reporter) *ProbeScanner {
	s.reporter = r
	return s
}

func (s *ProbeScanner) Name() model.TaskType {
	return model.TaskTypeProbeScan
}

// Scan 依次探测所有端口
func (s *ProbeScanner) Scan(ctx context.Context, target string, tcpPorts, udpPorts []int) []*model.ProbeResult {
	results := make([]*model.ProbeResult, 0, len(tcpPorts)+len(udpPorts))
	s.scan(ctx, target, tcpPorts, udpPorts, func(res *model.ProbeResult) {
		results = append(results, res)
	})
	return results
}

func (s *ProbeScanner) scan(ctx context.Context, target string, tcpPorts, udpPorts []int, emit func(*model.ProbeResult)) {
	for _, batch := range []struct {
		prober Prober
		ports  []int
	}{{s.tcp, tcpPorts}, {s.udp, udpPorts}} {
		for _, port := range batch.ports {
			res := batch.prober.Probe(ctx, target, port)
			logger.LogProbeEvent(logger.ProbeEvent{
				Protocol: string(res.Protocol),
				Target:   target,
				Port:     port,
				Elapsed:  res.Elapsed,
			}, logger.DebugLevel, fmt.Sprintf("probe finished: %s", res))
			emit(res)
		}
	}
}

// Run 实现 runner.Runner
// 每个端口对应一条 TaskResult，Data 为 *model.ProbeResult
func (s *ProbeScanner) Run(ctx context.Context, task *model.Task) ([]*model.TaskResult, error) {
	if task.Target == "" {
		return nil, fmt.Errorf("probe scan: target is required")
	}

	if d := task.ParamDuration(ParamTimeout, task.Timeout); d > 0 {
		if tp, ok := s.tcp.(*TCPProber); ok {
			tp.Timeout = d
		}
		if up, ok := s.udp.(*UDPProber); ok {
			up.Timeout = d
		}
	}

	out := make([]*model.TaskResult, 0, len(task.TcpPorts)+len(task.UdpPorts))
	s.scan(ctx, task.Target, task.TcpPorts, task.UdpPorts, func(res *model.ProbeResult) {
		end := time.Now()
		tr := &model.TaskResult{
			TaskID:    task.ID,
			Status:    model.TaskStatusCompleted,
			Data:      res,
			StartTime: end.Add(-res.Elapsed),
			EndTime:   end,
		}
		out = append(out, tr)

		if s.reporter == nil {
			return
		}
		// 上报失败不影响后续端口
		if err := s.reporter.Report(ctx, tr); err != nil {
			logger.Warnf("report result of %s failed: %v", res, err)
		}
	})
	return out, nil
}
