package reporter

import (
	"encoding/csv"
	"fmt"
	"os"

	"portchecker/internal/core/model"
)

// SaveCsvResult 将结果一次性保存为 CSV
func SaveCsvResult(path string, results []*model.TaskResult) error {
	headers, rows := collectTable(results)
	if len(headers) == 0 {
		return fmt.Errorf("no tabular data found to export")
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	defer f.Close()

	// 写入 UTF-8 BOM，防止 Excel 打开乱码
	if _, err := f.WriteString("\xEF\xBB\xBF"); err != nil {
		return fmt.Errorf("failed to write csv file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return w.Error()
}
