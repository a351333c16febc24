//go:build !unix

package sockopt

// 非 unix 平台保持系统默认行为
func setReuseAddr(fd uintptr, on bool) error {
	return nil
}
