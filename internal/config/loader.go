package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// DefaultEnvPrefix 环境变量前缀
const DefaultEnvPrefix = "PORTCHECKER"

// ConfigLoader 配置加载器
type ConfigLoader struct {
	configFile string
	envPrefix  string
	viper      *viper.Viper
}

// NewConfigLoader 创建配置加载器
func NewConfigLoader(configFile, envPrefix string) *ConfigLoader {
	if envPrefix == "" {
		envPrefix = DefaultEnvPrefix
	}

	return &ConfigLoader{
		configFile: configFile,
		envPrefix:  envPrefix,
		viper:      viper.New(),
	}
}

// Viper 暴露底层 viper 实例，便于 CLI 绑定 flag
func (cl *ConfigLoader) Viper() *viper.Viper {
	return cl.viper
}

// LoadConfig 加载配置
// 优先级: flag (调用方 Set) > 环境变量 > 配置文件 > 默认值
func (cl *ConfigLoader) LoadConfig() (*Config, error) {
	// .env 文件不存在不算错误
	if err := NewEnvLoader().Load(); err != nil {
		return nil, err
	}

	cl.viper.SetConfigType("yaml")
	cl.viper.SetEnvPrefix(cl.envPrefix)
	cl.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cl.viper.AutomaticEnv()

	cl.setDefaults()

	if err := cl.loadConfigFile(); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	var cfg Config
	if err := cl.viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadConfigFile 加载配置文件
// 显式指定的文件必须存在；自动搜索时找不到文件则只用默认值
func (cl *ConfigLoader) loadConfigFile() error {
	if cl.configFile == "" {
		if envPath := os.Getenv(cl.envPrefix + "_CONFIG"); envPath != "" {
			cl.configFile = envPath
		}
	}

	if cl.configFile != "" {
		cl.viper.SetConfigFile(cl.configFile)
		return cl.viper.ReadInConfig()
	}

	cl.viper.AddConfigPath("./configs")
	cl.viper.AddConfigPath(".")
	cl.viper.SetConfigName("config")

	if err := cl.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

// setDefaults 设置默认值，与 DefaultConfig 保持一致
func (cl *ConfigLoader) setDefaults() {
	def := DefaultConfig()

	cl.viper.SetDefault("app.name", def.App.Name)
	cl.viper.SetDefault("app.author", def.App.Author)
	cl.viper.SetDefault("app.banner", def.App.Banner)

	cl.viper.SetDefault("log.level", def.Log.Level)
	cl.viper.SetDefault("log.format", def.Log.Format)
	cl.viper.SetDefault("log.output", def.Log.Output)
	cl.viper.SetDefault("log.file_path", def.Log.FilePath)
	cl.viper.SetDefault("log.max_size", def.Log.MaxSize)
	cl.viper.SetDefault("log.max_backups", def.Log.MaxBackups)
	cl.viper.SetDefault("log.max_age", def.Log.MaxAge)
	cl.viper.SetDefault("log.compress", def.Log.Compress)
	cl.viper.SetDefault("log.caller", def.Log.Caller)

	cl.viper.SetDefault("probe.timeout", def.Probe.Timeout)
	cl.viper.SetDefault("probe.buffer_size", def.Probe.BufferSize)

	cl.viper.SetDefault("server.ip_lookup_url", def.Server.IPLookupURL)
	cl.viper.SetDefault("server.ip_lookup_timeout", def.Server.IPLookupTimeout)
	cl.viper.SetDefault("server.skip_ip_lookup", def.Server.SkipIPLookup)
	cl.viper.SetDefault("server.status_listen", def.Server.StatusListen)
	cl.viper.SetDefault("server.reuse_addr", def.Server.ReuseAddr)
	cl.viper.SetDefault("server.buffer_size", def.Server.BufferSize)

	cl.viper.SetDefault("proxy.address", def.Proxy.Address)
	cl.viper.SetDefault("proxy.timeout", def.Proxy.Timeout)
}

// validateConfig 验证配置
func validateConfig(cfg *Config) error {
	if cfg.Probe == nil || cfg.Server == nil || cfg.Log == nil || cfg.App == nil || cfg.Proxy == nil {
		return fmt.Errorf("incomplete config")
	}

	if cfg.Probe.Timeout <= 0 {
		return fmt.Errorf("invalid probe timeout: %s", cfg.Probe.Timeout)
	}
	if cfg.Probe.BufferSize <= 0 {
		return fmt.Errorf("invalid probe buffer size: %d", cfg.Probe.BufferSize)
	}
	if cfg.Server.BufferSize <= 0 {
		return fmt.Errorf("invalid server buffer size: %d", cfg.Server.BufferSize)
	}

	if !cfg.Server.SkipIPLookup {
		u, err := url.Parse(cfg.Server.IPLookupURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid ip lookup url: %q", cfg.Server.IPLookupURL)
		}
	}

	return nil
}

// GetConfigPath 获取实际使用的配置文件路径，未使用配置文件时为空
func (cl *ConfigLoader) GetConfigPath() string {
	return cl.viper.ConfigFileUsed()
}
