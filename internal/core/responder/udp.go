package responder

import (
	"context"
	"errors"
	"fmt"
	"net"

	"portchecker/internal/core/lib/network/sockopt"
	"portchecker/internal/core/model"
	"portchecker/internal/pkg/logger"
	"portchecker/internal/pkg/utils"
)

// UDPResponder UDP 响应端
type UDPResponder struct {
	binding
	opts Options
}

func NewUDPResponder(port int, opts Options) *UDPResponder {
	r := &UDPResponder{opts: opts}
	r.binding.init(model.ProtocolUDP, port)
	return r
}

// Serve 监听 UDP 端口
// 收到空数据报时退出循环，该端口停止响应
func (r *UDPResponder) Serve(ctx context.Context) error {
	lc := sockopt.ListenConfig(sockopt.Options{ReuseAddr: r.opts.ReuseAddr})
	pc, err := lc.ListenPacket(ctx, "udp", fmt.Sprintf(":%d", r.port))
	if err != nil {
		r.markFailed(err)
		logger.LogResponderEvent(r.event("", nil), logger.ErrorLevel,
			fmt.Sprintf("UDP socket on port %d creating error: %v", r.port, err))
		return err
	}
	defer pc.Close()

	r.markListening(pc.LocalAddr())
	logger.LogResponderEvent(r.event("", nil), logger.InfoLevel,
		fmt.Sprintf("UDP server listening on port %d", r.port))

	stop := context.AfterFunc(ctx, func() { pc.Close() })
	defer stop()
	defer r.markStopped()

	buf := make([]byte, r.opts.bufferSize())
	for {
		n, addr, err := pc.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			logger.LogResponderEvent(r.event("", nil), logger.ErrorLevel,
				fmt.Sprintf("[UDP:%d]: receive error: %v", r.port, err))
			continue
		}

		peer := utils.FormatPeer(addr)
		if n == 0 {
			logger.LogResponderEvent(r.event(peer, nil), logger.InfoLevel,
				fmt.Sprintf("[UDP:%d]: Received empty datagram from %s, stopping listener", r.port, peer))
			return nil
		}

		payload := buf[:n]
		r.received.Add(1)
		logger.LogResponderEvent(r.event(peer, payload), logger.InfoLevel,
			fmt.Sprintf("[UDP:%d]: Received data from %s - %q", r.port, peer, payload))

		if model.IsPing(payload) {
			if _, err := pc.WriteTo([]byte(model.PongToken), addr); err != nil {
				logger.LogResponderEvent(r.event(peer, nil), logger.ErrorLevel,
					fmt.Sprintf("[UDP:%d]: send to %s failed: %v", r.port, peer, err))
				continue
			}
			r.acknowledged.Add(1)
		}
	}
}

func (r *UDPResponder) event(remote string, payload []byte) logger.ResponderEvent {
	return logger.ResponderEvent{Protocol: string(model.ProtocolUDP), Port: r.port, Remote: remote, Payload: payload}
}
