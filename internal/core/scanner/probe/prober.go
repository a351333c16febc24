/**
 * 端口连通性探测
 * @author: Sun977
 * @date: 2026.01.21
 * @description: 向目标端口发送 "ping"，仅当回复恰好为 "pong" 时判定为 open。
 *               所有异常 (超时/解析失败/连接错误) 都收敛为 closed，不向上抛出。
 */

package probe

import (
	"context"
	"errors"
	"net"
	"syscall"
	"time"

	"portchecker/internal/core/model"
)

// Prober 单端口探测器
type Prober interface {
	// Protocol 探测使用的传输层协议
	Protocol() model.Protocol
	// Probe 对 host:port 做一次完整的 ping/pong 交换，结果只有 open / closed
	Probe(ctx context.Context, host string, port int) *model.ProbeResult
}

// failureKind 探测异常分类，决定日志文本
type failureKind int

const (
	failureNone failureKind = iota
	failureResolve
	failureTimeout
	failureRefused
	failureClosed
	failureOther
)

// classify 将网络错误归类
func classify(err error) failureKind {
	if err == nil {
		return failureNone
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return failureTimeout
		}
		return failureResolve
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return failureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return failureTimeout
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return failureRefused
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, net.ErrClosed) {
		return failureClosed
	}
	return failureOther
}

func timeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return model.DefaultProbeTimeout
	}
	return d
}

func bufferOrDefault(n int) int {
	if n <= 0 {
		return model.ReadBufferSize
	}
	return n
}
