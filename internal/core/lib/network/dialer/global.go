package dialer

import (
	"sync"
	"time"
)

// 全局拨号器实例
// TCP 探测统一通过 Get() 拿到拨号器，配置了 --proxy 时替换为 ProxyDialer
var (
	globalDialer Dialer = NewDefaultDialer(3 * time.Second)
	globalMu     sync.RWMutex
)

// SetGlobalDialer 设置全局拨号器 (例如配置了全局代理时)
func SetGlobalDialer(d Dialer) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalDialer = d
}

// Get 获取全局拨号器
func Get() Dialer {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalDialer
}
