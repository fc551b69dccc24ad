package bench

import (
	"runtime"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
)

type HostInfo struct {
	Arch     string
	Hostname string
	Platform string
	CPUModel string
	CPUCount int
	RAM      float64 // GiB
}

// HostSnapshot collects what it can; missing probes leave fields empty.
func HostSnapshot() HostInfo {
	info := HostInfo{Arch: runtime.GOARCH, CPUCount: runtime.NumCPU()}

	if hostStat, err := host.Info(); err == nil && hostStat != nil {
		info.Hostname = hostStat.Hostname
		info.Platform = hostStat.Platform
	}
	if cpuStat, err := cpu.Info(); err == nil && len(cpuStat) > 0 {
		info.CPUModel = cpuStat[0].ModelName
	}
	if vmStat, err := mem.VirtualMemory(); err == nil && vmStat != nil {
		info.RAM = float64(vmStat.Total) / 1024 / 1024 / 1024
	}
	return info
}

func (h HostInfo) MarshalZerologObject(e *zerolog.Event) {
	e.Str("arch", h.Arch).
		Str("hostname", h.Hostname).
		Str("platform", h.Platform).
		Str("cpu_model", h.CPUModel).
		Int("cpu_count", h.CPUCount).
		Float64("ram_gib", h.RAM)
}
