/**
 * 配置管理
 * @author: sun977
 * @date: 2025.10.21
 * @description: portchecker 配置结构定义，由 ConfigLoader 通过 viper 填充
 */
package config

import (
	"sync"
	"time"
)

// Config 全局配置
type Config struct {
	// 应用配置
	App *AppConfig `yaml:"app" mapstructure:"app"`

	// 日志配置
	Log *LogConfig `yaml:"log" mapstructure:"log"`

	// 探测客户端配置
	Probe *ProbeConfig `yaml:"probe" mapstructure:"probe"`

	// 响应端 (server 模式) 配置
	Server *ServerConfig `yaml:"server" mapstructure:"server"`

	// 代理配置
	Proxy *ProxyConfig `yaml:"proxy" mapstructure:"proxy"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name   string `yaml:"name" mapstructure:"name"`     // 应用名称 (Banner 显示)
	Author string `yaml:"author" mapstructure:"author"` // 作者 (Banner 显示)
	Banner bool   `yaml:"banner" mapstructure:"banner"` // 是否显示 Banner
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `yaml:"level" mapstructure:"level"`             // 日志级别 (debug/info/warn/error)
	Format     string `yaml:"format" mapstructure:"format"`           // 日志格式 (json/text)
	Output     string `yaml:"output" mapstructure:"output"`           // 日志输出 (stdout/stderr/file)
	FilePath   string `yaml:"file_path" mapstructure:"file_path"`     // 日志文件路径
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"`       // 最大文件大小（MB）
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"` // 最大备份数
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"`         // 最大保留天数
	Compress   bool   `yaml:"compress" mapstructure:"compress"`       // 是否压缩
	Caller     bool   `yaml:"caller" mapstructure:"caller"`           // 是否显示调用者信息
}

// ProbeConfig 探测客户端配置
type ProbeConfig struct {
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`         // 连接/读超时
	BufferSize int           `yaml:"buffer_size" mapstructure:"buffer_size"` // 单次读取上限
}

// ServerConfig 响应端配置
type ServerConfig struct {
	IPLookupURL     string        `yaml:"ip_lookup_url" mapstructure:"ip_lookup_url"`         // 公网 IP 查询地址
	IPLookupTimeout time.Duration `yaml:"ip_lookup_timeout" mapstructure:"ip_lookup_timeout"` // 公网 IP 查询超时
	SkipIPLookup    bool          `yaml:"skip_ip_lookup" mapstructure:"skip_ip_lookup"`       // 跳过公网 IP 查询
	StatusListen    string        `yaml:"status_listen" mapstructure:"status_listen"`         // 状态 API 监听地址，空则不启动
	ReuseAddr       bool          `yaml:"reuse_addr" mapstructure:"reuse_addr"`               // 监听套接字是否设置 SO_REUSEADDR
	BufferSize      int           `yaml:"buffer_size" mapstructure:"buffer_size"`             // 单次读取上限
}

// ProxyConfig 代理配置 (仅作用于 TCP 探测)
type ProxyConfig struct {
	Address string        `yaml:"address" mapstructure:"address"` // e.g. socks5://127.0.0.1:1080
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

var (
	globalConfig *Config
	globalMu     sync.RWMutex
)

// DefaultConfig 返回不依赖任何配置文件的默认配置
func DefaultConfig() *Config {
	return &Config{
		App: &AppConfig{
			Name:   "Port Checker",
			Author: "Haz",
			Banner: true,
		},
		Log: &LogConfig{
			Level:      "info",
			Format:     "text",
			Output:     "stderr", // 与结果行分流，stdout 只有探测结论
			FilePath:   "./logs/portchecker.log",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		},
		Probe: &ProbeConfig{
			Timeout:    1 * time.Second,
			BufferSize: 1024,
		},
		Server: &ServerConfig{
			IPLookupURL:     "http://ifconfig.me",
			IPLookupTimeout: 10 * time.Second,
			ReuseAddr:       true,
			BufferSize:      1024,
		},
		Proxy: &ProxyConfig{
			Timeout: 3 * time.Second,
		},
	}
}

// LoadConfig 加载配置
// configFile 为空时按默认路径搜索，找不到配置文件时使用默认值
func LoadConfig(configFile string) (*Config, error) {
	loader := NewConfigLoader(configFile, DefaultEnvPrefix)
	cfg, err := loader.LoadConfig()
	if err != nil {
		return nil, err
	}

	SetConfig(cfg)
	return cfg, nil
}

// SetConfig 设置全局配置
func SetConfig(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = cfg
}

// GetConfig 获取全局配置，未加载时返回默认配置
func GetConfig() *Config {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalConfig == nil {
		return DefaultConfig()
	}
	return globalConfig
}
