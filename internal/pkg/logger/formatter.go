// 结构化事件日志
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// FormatTimestamp 格式化时间戳为统一的毫秒精度格式
func FormatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05.000")
}

// LogType 日志类型枚举
type LogType string

const (
	// SystemLog 系统日志 - 记录启动、退出、配置变更
	SystemLog LogType = "system"
	// ResponderLog 响应端日志 - 记录监听、收包、回包
	ResponderLog LogType = "responder"
	// ProbeLog 探测日志 - 记录客户端探测异常
	ProbeLog LogType = "probe"
)

// LogLevel 日志级别类型，封装logrus.Level避免业务层直接依赖logrus
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// toLogrusLevel 将封装的LogLevel转换为logrus.Level
func toLogrusLevel(level LogLevel) logrus.Level {
	switch level {
	case DebugLevel:
		return logrus.DebugLevel
	case WarnLevel:
		return logrus.WarnLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// ResponderEvent 响应端事件
type ResponderEvent struct {
	Protocol string // tcp / udp
	Port     int
	Remote   string // 对端地址 ip:port
	Payload  []byte
}

// LogResponderEvent 记录响应端事件
// message 为面向用户的文本，字段用于 JSON 格式下的检索
func LogResponderEvent(ev ResponderEvent, level LogLevel, message string) {
	fields := logrus.Fields{
		"type":  ResponderLog,
		"proto": ev.Protocol,
		"port":  ev.Port,
	}
	if ev.Remote != "" {
		fields["remote"] = ev.Remote
	}
	if ev.Payload != nil {
		fields["bytes"] = len(ev.Payload)
	}
	WithFields(fields).Log(toLogrusLevel(level), message)
}

// ProbeEvent 探测事件
type ProbeEvent struct {
	Protocol string
	Target   string
	Port     int
	Elapsed  time.Duration
}

// LogProbeEvent 记录探测事件
func LogProbeEvent(ev ProbeEvent, level LogLevel, message string) {
	fields := logrus.Fields{
		"type":   ProbeLog,
		"proto":  ev.Protocol,
		"target": ev.Target,
		"port":   ev.Port,
	}
	if ev.Elapsed > 0 {
		fields["elapsed_ms"] = ev.Elapsed.Milliseconds()
	}
	WithFields(fields).Log(toLogrusLevel(level), message)
}

// LogSystemEvent 记录系统事件日志
// 用于记录启动、关闭、配置变更等系统级事件
func LogSystemEvent(component, event, message string, level LogLevel, extraFields map[string]interface{}) {
	fields := logrus.Fields{
		"type":      SystemLog,
		"component": component,
		"event":     event,
	}
	for k, v := range extraFields {
		fields[k] = v
	}
	WithFields(fields).Log(toLogrusLevel(level), message)
}
