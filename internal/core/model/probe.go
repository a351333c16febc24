package model

import (
	"strings"
	"time"
)

// 探测协议常量
// 载荷固定为 4 字节 ASCII，没有长度前缀，也没有额外分帧
const (
	PingToken = "ping" // 存活探测令牌
	PongToken = "pong" // 确认令牌

	ReadBufferSize      = 1024
	DefaultProbeTimeout = 1 * time.Second
)

// Protocol 传输层协议
type Protocol string

const (
	ProtocolTCP Protocol = "tcp"
	ProtocolUDP Protocol = "udp"
)

// Label 输出用的大写协议名
func (p Protocol) Label() string {
	return strings.ToUpper(string(p))
}

// PortState 端口探测结论
type PortState string

const (
	PortStateOpen   PortState = "open"
	PortStateClosed PortState = "closed"
)

// IsAck 判断收到的载荷是否恰好为确认令牌
func IsAck(payload []byte) bool {
	return string(payload) == PongToken
}

// IsPing 判断收到的载荷是否恰好为探测令牌
func IsPing(payload []byte) bool {
	return string(payload) == PingToken
}
