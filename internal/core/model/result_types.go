package model

import (
	"fmt"
	"strconv"
	"time"
)

// ProbeResult 单次探测结果
// 对应一次 INIT -> SENT -> {OPEN|CLOSED} 的完整交换，分类结束后即丢弃
type ProbeResult struct {
	Target   string        `json:"target" yaml:"target"`
	Port     int           `json:"port" yaml:"port"`
	Protocol Protocol      `json:"protocol" yaml:"protocol"`
	State    PortState     `json:"state" yaml:"state"`
	Reply    string        `json:"reply,omitempty" yaml:"reply,omitempty"` // 收到的原始响应
	Elapsed  time.Duration `json:"elapsed" yaml:"elapsed"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"` // 导致 closed 的异常 (超时/解析失败等)
}

// NewClosedResult 创建一个 closed 状态的结果
func NewClosedResult(target string, port int, proto Protocol) *ProbeResult {
	return &ProbeResult{
		Target:   target,
		Port:     port,
		Protocol: proto,
		State:    PortStateClosed,
	}
}

// Open 是否判定为开放
func (r *ProbeResult) Open() bool {
	return r.State == PortStateOpen
}

// String 输出格式: "TCP port 9001 is open"
func (r *ProbeResult) String() string {
	return fmt.Sprintf("%s port %d is %s", r.Protocol.Label(), r.Port, r.State)
}

// Headers 实现 TabularData 接口
// Protocol | Port | State | Elapsed | Reply
func (r ProbeResult) Headers() []string {
	return []string{"Target", "Protocol", "Port", "State", "Elapsed", "Reply"}
}

// Rows 实现 TabularData 接口
func (r ProbeResult) Rows() [][]string {
	elapsed := "N/A"
	if r.Elapsed > 0 {
		elapsed = r.Elapsed.Round(time.Microsecond).String()
	}
	return [][]string{{r.Target, r.Protocol.Label(), strconv.Itoa(r.Port), string(r.State), elapsed, r.Reply}}
}

// BindingState 响应端监听状态
type BindingState string

const (
	BindingListening BindingState = "listening"
	BindingStopped   BindingState = "stopped"
	BindingFailed    BindingState = "failed"
)

// ResponderStatus 响应端 (端口绑定) 的运行快照
type ResponderStatus struct {
	Protocol     Protocol     `json:"protocol"`
	Port         int          `json:"port"`
	State        BindingState `json:"state"`
	Error        string       `json:"error,omitempty"`
	StartedAt    time.Time    `json:"started_at"`
	Received     uint64       `json:"received"`     // 收到的非空载荷数
	Acknowledged uint64       `json:"acknowledged"` // 回复 pong 的次数
}
