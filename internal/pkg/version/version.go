// ### 发布流程
// 1. **更新版本号**：修改 `internal/pkg/version/version.go`
// 2. **构建注入**：go build -ldflags "-X portchecker/internal/pkg/version.GitCommit=$(git rev-parse --short HEAD)"
// 3. **推送代码和 Tag**：推送到远程仓库

package version

import "runtime"

var (
	Version   = "0.1.0" // 版本号 -- 发布时候更新版本号
	BuildTime string
	GitCommit string
	GoVersion = runtime.Version()
)

func GetVersion() string {
	return Version
}

func GetUserAgent() string {
	return "portchecker/" + Version
}
