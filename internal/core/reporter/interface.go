/**
 * 结果输出接口定义
 * @author: Sun977
 * @date: 2026.01.21
 * @description: 定义结果输出的通用接口，解耦控制台输出与文件导出。
 */

package reporter

import (
	"context"

	"portchecker/internal/core/model"
)

// TabularData 是一个可以被渲染为表格的数据接口
// 任何想要在控制台漂亮打印的 Result 都应该实现此接口
type TabularData interface {
	Headers() []string
	Rows() [][]string
}

// Reporter 定义结果上报的行为
type Reporter interface {
	// Report 上报/输出任务结果
	Report(ctx context.Context, result *model.TaskResult) error
}

// ProbeResults 从任务结果中取出探测结果，保持原有顺序
func ProbeResults(results []*model.TaskResult) []*model.ProbeResult {
	out := make([]*model.ProbeResult, 0, len(results))
	for _, res := range results {
		if res == nil {
			continue
		}
		if pr, ok := res.Data.(*model.ProbeResult); ok && pr != nil {
			out = append(out, pr)
		}
	}
	return out
}

// collectTable 聚合所有可表格化的结果
func collectTable(results []*model.TaskResult) ([]string, [][]string) {
	var headers []string
	var rows [][]string
	for _, res := range results {
		if res == nil || res.Data == nil {
			continue
		}
		if tabular, ok := res.Data.(TabularData); ok {
			if len(headers) == 0 {
				headers = tabular.Headers()
			}
			rows = append(rows, tabular.Rows()...)
		}
	}
	return headers, rows
}
