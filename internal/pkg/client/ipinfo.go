/**
 * 公网 IP 查询客户端
 * @author: sun977
 * @date: 2025.10.21
 * @description: 向 IP 回显服务 (默认 http://ifconfig.me) 发起 GET 请求，响应体即调用方的公网 IP。
 */
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"portchecker/internal/pkg/version"
)

const (
	DefaultLookupURL     = "http://ifconfig.me"
	DefaultLookupTimeout = 10 * time.Second
	maxBodySize          = 4096
)

// IPLookupClient 公网 IP 查询接口
type IPLookupClient interface {
	// LookupPublicIP 返回去除首尾空白后的响应体
	LookupPublicIP(ctx context.Context) (string, error)
}

// ipLookupClient IPLookupClient 实现
type ipLookupClient struct {
	client    *http.Client
	url       string
	userAgent string
}

// NewIPLookupClient 创建查询客户端，url 为空时使用默认服务
func NewIPLookupClient(url string, timeout time.Duration) IPLookupClient {
	if url == "" {
		url = DefaultLookupURL
	}
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}
	return &ipLookupClient{
		client: &http.Client{
			Timeout: timeout,
		},
		url:       url,
		userAgent: version.GetUserAgent(),
	}
}

func (c *ipLookupClient) LookupPublicIP(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", fmt.Errorf("create lookup request: %w", err)
	}
	// ifconfig.me 根据 UA 判断返回纯文本还是 HTML
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/plain")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("lookup public ip: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("read lookup response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("lookup public ip: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	ip := strings.TrimSpace(string(body))
	if ip == "" {
		return "", fmt.Errorf("lookup public ip: empty response")
	}
	return ip, nil
}
