package responder

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portchecker/internal/config"
	"portchecker/internal/core/model"
	"portchecker/internal/pkg/logger"
)

func init() {
	logger.InitLogger(&config.LogConfig{
		Level:  "debug",
		Format: "text",
		Output: "stdout",
	})
}

// serve 启动响应端并等待绑定完成，返回 127.0.0.1:<port>
func serve(t *testing.T, r Responder) (string, context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Serve(ctx) }()

	select {
	case <-r.Ready():
	case <-time.After(2 * time.Second):
		cancel()
		t.Fatal("responder not ready")
	}
	t.Cleanup(cancel)
	return fmt.Sprintf("127.0.0.1:%d", r.Status().Port), cancel, done
}

func exchange(t *testing.T, network, addr string, payload []byte) (string, error) {
	t.Helper()
	conn, err := net.DialTimeout(network, addr, time.Second)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write(payload)
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	buf := make([]byte, 1024)
	n, err := conn.Read(buf)
	return string(buf[:n]), err
}

func TestTCPResponder_PingPong(t *testing.T) {
	r := NewTCPResponder(0, DefaultOptions())
	addr, _, _ := serve(t, r)

	for i := 0; i < 3; i++ {
		reply, err := exchange(t, "tcp", addr, []byte(model.PingToken))
		require.NoError(t, err)
		assert.Equal(t, model.PongToken, reply)
	}

	st := r.Status()
	assert.Equal(t, model.BindingListening, st.State)
	assert.EqualValues(t, 3, st.Received)
	assert.EqualValues(t, 3, st.Acknowledged)
}

func TestTCPResponder_MultipleReadsOnOneConnection(t *testing.T) {
	r := NewTCPResponder(0, DefaultOptions())
	addr, _, _ := serve(t, r)

	conn, err := net.DialTimeout("tcp", addr, time.Second)
	require.NoError(t, err)
	defer conn.Close()

	buf := make([]byte, 16)
	for i := 0; i < 2; i++ {
		_, err = conn.Write([]byte("ping"))
		require.NoError(t, err)
		conn.SetReadDeadline(time.Now().Add(time.Second))
		n, err := conn.Read(buf)
		require.NoError(t, err)
		assert.Equal(t, "pong", string(buf[:n]))
	}
}

func TestTCPResponder_IgnoresOtherPayloads(t *testing.T) {
	r := NewTCPResponder(0, DefaultOptions())
	addr, _, _ := serve(t, r)

	for _, payload := range [][]byte{[]byte("PING"), []byte("ping\n"), []byte("hello"), {0xff, 0xfe, 0xfd}} {
		_, err := exchange(t, "tcp", addr, payload)
		var ne net.Error
		require.ErrorAs(t, err, &ne)
		assert.True(t, ne.Timeout(), "payload %q must not be acknowledged", payload)
	}

	assert.Eventually(t, func() bool { return r.Status().Received == 4 }, time.Second, 10*time.Millisecond)
	assert.EqualValues(t, 0, r.Status().Acknowledged)
}

func TestTCPResponder_SurvivesAbruptClients(t *testing.T) {
	r := NewTCPResponder(0, DefaultOptions())
	addr, _, _ := serve(t, r)

	// 连上立刻断开
	for i := 0; i < 5; i++ {
		conn, err := net.DialTimeout("tcp", addr, time.Second)
		require.NoError(t, err)
		conn.Close()
	}

	reply, err := exchange(t, "tcp", addr, []byte("ping"))
	require.NoError(t, err)
	assert.Equal(t, "pong", reply)
}

func TestTCPResponder_BindFailure(t *testing.T) {
	l, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer l.Close()
	port := l.Addr().(*net.TCPAddr).Port

	r := NewTCPResponder(port, DefaultOptions())
	err = r.Serve(context.Background())
	assert.Error(t, err)

	<-r.Ready()
	st := r.Status()
	assert.Equal(t, model.BindingFailed, st.State)
	assert.NotEmpty(t, st.Error)
}

func TestTCPResponder_StopClosesPort(t *testing.T) {
	r := NewTCPResponder(0, DefaultOptions())
	addr, cancel, done := serve(t, r)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("responder did not stop")
	}
	assert.Equal(t, model.BindingStopped, r.Status().State)

	_, err := net.DialTimeout("tcp", addr, 300*time.Millisecond)
	assert.Error(t, err)
}

func TestUDPResponder_PingPong(t *testing.T) {
	r := NewUDPResponder(0, DefaultOptions())
	addr, _, _ := serve(t, r)

	reply, err := exchange(t, "udp", addr, []byte("ping"))
	require.NoError(t, err)
	assert.Equal(t, "pong", reply)

	_, err = exchange(t, "udp", addr, []byte("pong"))
	assert.Error(t, err)

	st := r.Status()
	assert.EqualValues(t, 2, st.Received)
	assert.EqualValues(t, 1, st.Acknowledged)
}

// 空数据报会让 UDP 响应端退出循环
func TestUDPResponder_EmptyDatagramStops(t *testing.T) {
	r := NewUDPResponder(0, DefaultOptions())
	addr, _, done := serve(t, r)

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	require.NoError(t, err)
	_, err = pc.WriteTo([]byte{}, udpAddr)
	require.NoError(t, err)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("udp responder should stop on empty datagram")
	}
	assert.Equal(t, model.BindingStopped, r.Status().State)
}

func TestUDPResponder_BindFailure(t *testing.T) {
	pc, err := net.ListenPacket("udp", ":0")
	require.NoError(t, err)
	defer pc.Close()
	port := pc.LocalAddr().(*net.UDPAddr).Port

	r := NewUDPResponder(port, DefaultOptions())
	assert.Error(t, r.Serve(context.Background()))
	assert.Equal(t, model.BindingFailed, r.Status().State)
}

func TestManager_IndependentResponders(t *testing.T) {
	// 一个端口被占用，不影响其它端口
	busy, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer busy.Close()
	busyPort := busy.Addr().(*net.TCPAddr).Port

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewManager(DefaultOptions())
	started := m.Start(ctx, []int{busyPort, 0}, []int{0})
	require.Len(t, started, 3)

	waitCtx, waitCancel := context.WithTimeout(ctx, 2*time.Second)
	defer waitCancel()
	require.NoError(t, m.WaitReady(waitCtx))

	statuses := m.Statuses()
	require.Len(t, statuses, 3)
	assert.Equal(t, model.BindingFailed, statuses[0].State)
	assert.Equal(t, model.BindingListening, statuses[1].State)
	assert.Equal(t, model.ProtocolUDP, statuses[2].Protocol)
	assert.Equal(t, model.BindingListening, statuses[2].State)

	reply, err := exchange(t, "tcp", fmt.Sprintf("127.0.0.1:%d", statuses[1].Port), []byte("ping"))
	require.NoError(t, err)
	assert.Equal(t, "pong", reply)

	cancel()
	m.Wait()
}
