package options

// OutputOptions 定义结果输出的通用参数
type OutputOptions struct {
	OutputJson string // --oj, --output-json
	OutputCsv  string // --oc, --output-csv
	OutputYaml string // --oy, --output-yaml
}

// ApplyToParams 将输出参数应用到 Task 的 Params 中
func (o *OutputOptions) ApplyToParams(params map[string]interface{}) {
	if o.OutputJson != "" {
		params["output_json"] = o.OutputJson
	}
	if o.OutputCsv != "" {
		params["output_csv"] = o.OutputCsv
	}
	if o.OutputYaml != "" {
		params["output_yaml"] = o.OutputYaml
	}
}

// Enabled 是否需要导出文件
func (o *OutputOptions) Enabled() bool {
	return o.OutputJson != "" || o.OutputCsv != "" || o.OutputYaml != ""
}
