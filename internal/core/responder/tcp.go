package responder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"portchecker/internal/core/lib/network/sockopt"
	"portchecker/internal/core/model"
	"portchecker/internal/pkg/logger"
	"portchecker/internal/pkg/utils"
)

// TCPResponder TCP 响应端
type TCPResponder struct {
	binding
	opts Options
}

func NewTCPResponder(port int, opts Options) *TCPResponder {
	r := &TCPResponder{opts: opts}
	r.binding.init(model.ProtocolTCP, port)
	return r
}

// Serve 监听 TCP 端口
// 单个连接的读写错误只记录日志，不影响 accept 循环
func (r *TCPResponder) Serve(ctx context.Context) error {
	lc := sockopt.ListenConfig(sockopt.Options{ReuseAddr: r.opts.ReuseAddr})
	l, err := lc.Listen(ctx, "tcp", fmt.Sprintf(":%d", r.port))
	if err != nil {
		r.markFailed(err)
		logger.LogResponderEvent(r.event("", nil), logger.ErrorLevel,
			fmt.Sprintf("TCP socket on port %d creating error: %v", r.port, err))
		return err
	}
	defer l.Close()

	r.markListening(l.Addr())
	logger.LogResponderEvent(r.event("", nil), logger.InfoLevel,
		fmt.Sprintf("TCP server listening on port %d", r.port))

	stop := context.AfterFunc(ctx, func() { l.Close() })
	defer stop()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				r.markStopped()
				return nil
			}
			logger.LogResponderEvent(r.event("", nil), logger.ErrorLevel,
				fmt.Sprintf("[TCP:%d]: accept error: %v", r.port, err))
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			r.handleConn(ctx, conn)
		}()
	}
}

// handleConn 处理单个连接，直到对端关闭或出错
func (r *TCPResponder) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	peer := utils.FormatPeer(conn.RemoteAddr())
	buf := make([]byte, r.opts.bufferSize())

	for {
		n, err := conn.Read(buf)
		if n > 0 {
			payload := buf[:n]
			r.received.Add(1)
			logger.LogResponderEvent(r.event(peer, payload), logger.InfoLevel,
				fmt.Sprintf("[TCP:%d]: Received data from %s - %q", r.port, peer, payload))

			if model.IsPing(payload) {
				if _, werr := conn.Write([]byte(model.PongToken)); werr != nil {
					logger.LogResponderEvent(r.event(peer, nil), logger.ErrorLevel,
						fmt.Sprintf("[TCP:%d]: write to %s failed: %v", r.port, peer, werr))
					return
				}
				r.acknowledged.Add(1)
			}
		}
		if err != nil {
			// 对端正常关闭 (零长度读) 不算错误
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				logger.LogResponderEvent(r.event(peer, nil), logger.ErrorLevel,
					fmt.Sprintf("[TCP:%d]: read from %s failed: %v", r.port, peer, err))
			}
			return
		}
	}
}

func (r *TCPResponder) event(remote string, payload []byte) logger.ResponderEvent {
	return logger.ResponderEvent{Protocol: string(model.ProtocolTCP), Port: r.port, Remote: remote, Payload: payload}
}
