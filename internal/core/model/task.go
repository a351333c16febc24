/**
 * 任务模型定义 (Core Domain)
 * @author: Sun977
 * @date: 2026.01.21
 * @description: 核心任务模型。CLI 参数最终都转换为 Task，由 Runner 执行。
 */

package model

import (
	"time"

	"github.com/google/uuid"
)

// TaskType 定义任务类型
type TaskType string

const (
	TaskTypeProbeScan TaskType = "probe_scan" // 端口连通性探测 (ping/pong)
	TaskTypeResponder TaskType = "responder"  // 响应端服务 (server 模式)
)

// TaskStatus 定义任务状态
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
)

// Task 核心任务结构体
type Task struct {
	ID        string                 `json:"id"`
	Type      TaskType               `json:"type"`
	Target    string                 `json:"target"`              // 探测目标 (IP/Domain)
	TcpPorts  []int                  `json:"tcp_ports,omitempty"` // TCP 端口，按用户给定顺序
	UdpPorts  []int                  `json:"udp_ports,omitempty"` // UDP 端口，按用户给定顺序
	Params    map[string]interface{} `json:"params,omitempty"`    // 任务特定参数
	Timeout   time.Duration          `json:"timeout"`
	CreatedAt time.Time              `json:"created_at"`
}

// TaskResult 任务执行结果
type TaskResult struct {
	TaskID    string      `json:"task_id"`
	Status    TaskStatus  `json:"status"`
	Data      interface{} `json:"data"`
	Error     string      `json:"error,omitempty"`
	StartTime time.Time   `json:"start_time"`
	EndTime   time.Time   `json:"end_time"`
}

// NewTask 创建一个新任务
func NewTask(taskType TaskType, target string) *Task {
	return &Task{
		ID:        uuid.NewString(),
		Type:      taskType,
		Target:    target,
		CreatedAt: time.Now(),
		Params:    make(map[string]interface{}),
	}
}

// ParamDuration 读取 time.Duration 类型的参数，不存在或类型不符时返回默认值
func (t *Task) ParamDuration(key string, def time.Duration) time.Duration {
	if v, ok := t.Params[key]; ok {
		if d, ok := v.(time.Duration); ok && d > 0 {
			return d
		}
	}
	return def
}
