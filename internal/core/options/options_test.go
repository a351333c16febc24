package options

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portchecker/internal/core/model"
)

func TestPortOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    PortOptions
		wantErr error
	}{
		{"tcp only", PortOptions{TcpPorts: []int{9001, 9002}}, nil},
		{"udp only", PortOptions{UdpPorts: []int{53}}, nil},
		{"bounds", PortOptions{TcpPorts: []int{1, 65535}}, nil},
		{"none", PortOptions{}, ErrNoPorts},
		{"zero", PortOptions{TcpPorts: []int{0}}, ErrInvalidPort},
		{"too large", PortOptions{UdpPorts: []int{65536}}, ErrInvalidPort},
		{"negative", PortOptions{TcpPorts: []int{80}, UdpPorts: []int{-1}}, ErrInvalidPort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestProbeScanOptions_Validate(t *testing.T) {
	base := func() *ProbeScanOptions {
		o := NewProbeScanOptions()
		o.Target = "127.0.0.1"
		o.Ports.TcpPorts = []int{9001}
		return o
	}

	tests := []struct {
		name   string
		mutate func(o *ProbeScanOptions)
		ok     bool
	}{
		{"valid", func(o *ProbeScanOptions) {}, true},
		{"missing target", func(o *ProbeScanOptions) { o.Target = "  " }, false},
		{"zero timeout", func(o *ProbeScanOptions) { o.Timeout = 0 }, false},
		{"socks5 proxy", func(o *ProbeScanOptions) { o.Proxy = "socks5://127.0.0.1:1080" }, true},
		{"socks5h proxy with auth", func(o *ProbeScanOptions) { o.Proxy = "socks5h://u:p@proxy:1080" }, true},
		{"http proxy", func(o *ProbeScanOptions) { o.Proxy = "http://127.0.0.1:8080" }, false},
		{"proxy without host", func(o *ProbeScanOptions) { o.Proxy = "socks5://" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := base()
			tt.mutate(o)
			if tt.ok {
				assert.NoError(t, o.Validate())
			} else {
				assert.Error(t, o.Validate())
			}
		})
	}
}

func TestProbeScanOptions_ToTask(t *testing.T) {
	o := NewProbeScanOptions()
	o.Target = " example.com "
	o.Ports = PortOptions{TcpPorts: []int{9002, 9001}, UdpPorts: []int{53}}
	o.Timeout = 2 * time.Second
	o.Proxy = "socks5://127.0.0.1:1080"
	o.Output.OutputJson = "out.json"
	require.NoError(t, o.Validate())

	task := o.ToTask()
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, model.TaskTypeProbeScan, task.Type)
	assert.Equal(t, "example.com", task.Target)
	assert.Equal(t, []int{9002, 9001}, task.TcpPorts)
	assert.Equal(t, []int{53}, task.UdpPorts)
	assert.Equal(t, 2*time.Second, task.ParamDuration("timeout", time.Second))
	assert.Equal(t, "socks5://127.0.0.1:1080", task.Params["proxy"])
	assert.Equal(t, "out.json", task.Params["output_json"])
	assert.NotContains(t, task.Params, "output_csv")

	// 修改选项不影响已生成的任务
	o.Ports.TcpPorts[0] = 1
	assert.Equal(t, 9002, task.TcpPorts[0])
}

func TestServerOptions(t *testing.T) {
	o := NewServerOptions()
	assert.ErrorIs(t, o.Validate(), ErrNoPorts)

	o.Ports.UdpPorts = []int{9001}
	o.StatusListen = "not-an-address"
	assert.Error(t, o.Validate())

	o.StatusListen = "127.0.0.1:8088"
	require.NoError(t, o.Validate())

	task := o.ToTask()
	assert.Equal(t, model.TaskTypeResponder, task.Type)
	assert.Equal(t, []int{9001}, task.UdpPorts)
	assert.Empty(t, task.TcpPorts)
	assert.Equal(t, "127.0.0.1:8088", task.Params["status_listen"])
}

func TestOutputOptions(t *testing.T) {
	var o OutputOptions
	assert.False(t, o.Enabled())

	o.OutputCsv = "r.csv"
	o.OutputYaml = "r.yaml"
	assert.True(t, o.Enabled())

	params := map[string]interface{}{}
	o.ApplyToParams(params)
	assert.Equal(t, map[string]interface{}{"output_csv": "r.csv", "output_yaml": "r.yaml"}, params)
}
