package reporter

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm" // 引入 pterm 库用于控制台输出

	"portchecker/internal/core/model"
)

// ConsoleReporter 控制台输出
// 每个端口一行 "<PROTO> port <N> is open|closed"，可选追加汇总表格
type ConsoleReporter struct {
	out io.Writer
}

func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{out: os.Stdout}
}

// WithWriter 替换输出目标
func (r *ConsoleReporter) WithWriter(w io.Writer) *ConsoleReporter {
	r.out = w
	return r
}

// Report 输出单个端口的结论行
func (r *ConsoleReporter) Report(ctx context.Context, result *model.TaskResult) error {
	if result == nil || result.Data == nil {
		return nil
	}
	if pr, ok := result.Data.(*model.ProbeResult); ok {
		r.PrintLine(pr)
		return nil
	}
	_, err := fmt.Fprintln(r.out, result.Data)
	return err
}

// PrintLine 输出一行探测结论
func (r *ConsoleReporter) PrintLine(res *model.ProbeResult) {
	fmt.Fprintln(r.out, res.String())
}

// PrintResults 以表格形式输出全部结果
func (r *ConsoleReporter) PrintResults(results []*model.TaskResult) error {
	headers, rows := collectTable(results)
	if len(rows) == 0 {
		pterm.Warning.WithWriter(r.out).Println("No results found.")
		return nil
	}
	return r.printTableFromData(headers, rows)
}

// PrintSummary 输出 open/closed 统计
func (r *ConsoleReporter) PrintSummary(results []*model.ProbeResult) {
	open := 0
	for _, res := range results {
		if res.Open() {
			open++
		}
	}
	fmt.Fprintf(r.out, "%d/%d ports open\n", open, len(results))
}

func (r *ConsoleReporter) printTableFromData(headers []string, rows [][]string) error {
	// 使用 pterm 渲染表格
	tableData := pterm.TableData{headers}
	tableData = append(tableData, rows...)

	table, err := pterm.DefaultTable.
		WithHasHeader(true).
		WithBoxed(false). // 简洁风格
		WithData(tableData).
		Srender()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	_, err = fmt.Fprintln(r.out, table)
	return err
}
