package monitor

import (
	"net"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	psnet "github.com/shirou/gopsutil/v3/net"

	"portchecker/internal/pkg/logger"
)

// HostInfo 主机静态信息
type HostInfo struct {
	Hostname    string   `json:"hostname"`
	OS          string   `json:"os"`
	Platform    string   `json:"platform"`
	Arch        string   `json:"arch"`
	CPUCores    int      `json:"cpu_cores"`
	MemoryTotal uint64   `json:"memory_total"`
	Addresses   []string `json:"addresses"`
}

// InterfaceAddress 网卡地址
type InterfaceAddress struct {
	Interface string `json:"interface"`
	IP        string `json:"ip"`
}

// GetHostInfo 获取主机静态信息，单项失败只记日志
func GetHostInfo() *HostInfo {
	info := &HostInfo{}

	hInfo, err := host.Info()
	if err != nil {
		logger.LogSystemEvent("Monitor", "GetHostInfo", "Failed to get host info: "+err.Error(), logger.WarnLevel, nil)
	} else {
		info.Hostname = hInfo.Hostname
		info.OS = hInfo.OS
		info.Platform = hInfo.Platform
		info.Arch = hInfo.KernelArch
	}

	// host.Info 失败或字段为空时回退到 runtime
	if info.OS == "" {
		info.OS = runtime.GOOS
	}
	if info.Arch == "" {
		info.Arch = runtime.GOARCH
	}

	info.CPUCores = runtime.NumCPU()
	if counts, err := cpu.Counts(true); err == nil && counts > 0 {
		info.CPUCores = counts
	}

	if vMem, err := mem.VirtualMemory(); err != nil {
		logger.LogSystemEvent("Monitor", "GetHostInfo", "Failed to get Memory info: "+err.Error(), logger.WarnLevel, nil)
	} else {
		info.MemoryTotal = vMem.Total
	}

	addrs, err := LocalAddresses()
	if err != nil {
		logger.LogSystemEvent("Monitor", "GetHostInfo", "Failed to list interfaces: "+err.Error(), logger.WarnLevel, nil)
	}
	for _, a := range addrs {
		info.Addresses = append(info.Addresses, a.IP)
	}

	return info
}

// LocalAddresses 列出处于 up 状态的非回环网卡地址
func LocalAddresses() ([]InterfaceAddress, error) {
	ifaces, err := psnet.Interfaces()
	if err != nil {
		return nil, err
	}

	var out []InterfaceAddress
	for _, iface := range ifaces {
		if !hasFlag(iface.Flags, "up") || hasFlag(iface.Flags, "loopback") {
			continue
		}
		for _, addr := range iface.Addrs {
			ip := parseAddr(addr.Addr)
			if ip == nil || ip.IsLoopback() || ip.IsLinkLocalUnicast() {
				continue
			}
			out = append(out, InterfaceAddress{Interface: iface.Name, IP: ip.String()})
		}
	}
	return out, nil
}

func hasFlag(flags []string, want string) bool {
	for _, f := range flags {
		if f == want {
			return true
		}
	}
	return false
}

// parseAddr gopsutil 返回 CIDR 形式，如 192.168.1.2/24
func parseAddr(s string) net.IP {
	if ip, _, err := net.ParseCIDR(s); err == nil {
		return ip
	}
	return net.ParseIP(s)
}
