package sockopt

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListenConfig_TCP(t *testing.T) {
	for _, reuse := range []bool{true, false} {
		l, err := ListenConfig(Options{ReuseAddr: reuse}).Listen(context.Background(), "tcp", "127.0.0.1:0")
		require.NoError(t, err)
		assert.NotZero(t, l.Addr().(*net.TCPAddr).Port)
		l.Close()
	}
}

// UDP 端口被占用时第二次绑定必须失败
func TestListenConfig_UDPDoubleBindFails(t *testing.T) {
	lc := ListenConfig(Options{ReuseAddr: true})
	pc, err := lc.ListenPacket(context.Background(), "udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	_, err = lc.ListenPacket(context.Background(), "udp", pc.LocalAddr().String())
	assert.Error(t, err)
}
