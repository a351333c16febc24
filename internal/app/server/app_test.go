package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portchecker/internal/config"
	"portchecker/internal/core/model"
	"portchecker/internal/core/options"
	"portchecker/internal/pkg/logger"
)

func init() {
	logger.InitLogger(&config.LogConfig{
		Level:  "debug",
		Format: "text",
		Output: "stdout",
	})
}

type stubLookup struct {
	ip  string
	err error
}

func (s stubLookup) LookupPublicIP(context.Context) (string, error) {
	return s.ip, s.err
}

func TestApp_LookupFailureIsFatal(t *testing.T) {
	opts := options.NewServerOptions()
	opts.Ports.TcpPorts = []int{0}

	app := NewApp(config.DefaultConfig(), opts, "").
		WithLookupClient(stubLookup{err: errors.New("network unreachable")})

	err := app.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "network unreachable")
	assert.Empty(t, app.Manager().Statuses())
}

func TestApp_StartRespondersAndStatusAPI(t *testing.T) {
	opts := options.NewServerOptions()
	opts.Ports.TcpPorts = []int{0}
	opts.Ports.UdpPorts = []int{0}
	opts.StatusListen = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := NewApp(config.DefaultConfig(), opts, "").
		WithLookupClient(stubLookup{ip: "203.0.113.7"})
	require.NoError(t, app.Start(ctx))
	defer app.Stop(context.Background())

	assert.Equal(t, "203.0.113.7", app.PublicIP())

	waitCtx, waitCancel := context.WithTimeout(ctx, 2*time.Second)
	defer waitCancel()
	require.NoError(t, app.Manager().WaitReady(waitCtx))

	statuses := app.Manager().Statuses()
	require.Len(t, statuses, 2)
	for _, st := range statuses {
		assert.Equal(t, model.BindingListening, st.State)
	}

	// 响应端可用
	conn, err := net.DialTimeout("tcp", fmt.Sprintf("127.0.0.1:%d", statuses[0].Port), time.Second)
	require.NoError(t, err)
	conn.Write([]byte("ping"))
	conn.SetReadDeadline(time.Now().Add(time.Second))
	buf := make([]byte, 8)
	n, err := conn.Read(buf)
	conn.Close()
	require.NoError(t, err)
	assert.Equal(t, "pong", string(buf[:n]))

	// 状态接口可用
	require.NotEmpty(t, app.StatusAddr())
	resp, err := http.Get("http://" + app.StatusAddr() + "/api/v1/responders")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Total     int `json:"total"`
		Listening int `json:"listening"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 2, body.Total)
	assert.Equal(t, 2, body.Listening)
}

func TestApp_SkipIPLookup(t *testing.T) {
	opts := options.NewServerOptions()
	opts.Ports.UdpPorts = []int{0}
	opts.SkipIPLookup = true

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := NewApp(config.DefaultConfig(), opts, "").
		WithLookupClient(stubLookup{err: errors.New("must not be called")})
	require.NoError(t, app.Start(ctx))
	assert.Empty(t, app.PublicIP())
	assert.Empty(t, app.StatusAddr())
	require.NoError(t, app.Stop(context.Background()))
}

func TestApp_StopLeavesRespondersRunning(t *testing.T) {
	opts := options.NewServerOptions()
	opts.Ports.TcpPorts = []int{0}
	opts.StatusListen = "127.0.0.1:0"
	opts.SkipIPLookup = true

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := NewApp(config.DefaultConfig(), opts, "")
	require.NoError(t, app.Start(ctx))

	waitCtx, waitCancel := context.WithTimeout(ctx, 2*time.Second)
	defer waitCancel()
	require.NoError(t, app.Manager().WaitReady(waitCtx))
	statusAddr := app.StatusAddr()

	require.NoError(t, app.Stop(context.Background()))

	// 状态接口已关闭
	_, err := net.DialTimeout("tcp", statusAddr, 200*time.Millisecond)
	assert.Error(t, err)

	// 响应端不受影响，端口由进程退出释放
	statuses := app.Manager().Statuses()
	require.Len(t, statuses, 1)
	assert.Equal(t, model.BindingListening, statuses[0].State)

	conn, err := net.DialTimeout("tcp", fmt.Sprintf("127.0.0.1:%d", statuses[0].Port), time.Second)
	require.NoError(t, err)
	defer conn.Close()
	conn.Write([]byte("ping"))
	conn.SetReadDeadline(time.Now().Add(time.Second))
	buf := make([]byte, 8)
	n, err := conn.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(buf[:n]))
}
