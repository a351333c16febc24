package runner

import (
	"context"

	"portchecker/internal/core/model"
)

// Runner 定义了任务执行器的通用接口
type Runner interface {
	// Name 返回 Runner 的名称 (对应 TaskType)
	Name() model.TaskType

	// Run 执行具体的任务
	// ctx: 用于控制超时和取消
	// task: 任务参数
	// 返回: 结果列表 (每个端口一条)
	Run(ctx context.Context, task *model.Task) ([]*model.TaskResult, error)
}
