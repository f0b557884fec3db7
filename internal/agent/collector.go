// Package agent implements the HostWatch collector.
// It uses gopsutil for cross-platform system telemetry and the platform ping
// utility for reachability.
package agent

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// Usage holds one reading of the three utilization percentages.
type Usage struct {
	CPU    float64
	Memory float64
	Disk   float64
}

// MetricsSource yields utilization percentages. Errors are fatal to a run.
type MetricsSource interface {
	Usage(ctx context.Context) (Usage, error)
}

// HostMetrics reads utilization of the local host through gopsutil.
type HostMetrics struct {
	// DiskPath is the mount whose usage is reported.
	DiskPath string
	// CPUWindow is how long CPU time is sampled for the percentage.
	CPUWindow time.Duration
}

// NewHostMetrics creates a source measuring the mount at diskPath over a 1s CPU window.
func NewHostMetrics(diskPath string) *HostMetrics {
	return &HostMetrics{DiskPath: diskPath, CPUWindow: time.Second}
}

// Usage blocks for CPUWindow and returns the values exactly as gopsutil reports them.
func (h *HostMetrics) Usage(ctx context.Context) (Usage, error) {
	var u Usage

	pcts, err := cpu.PercentWithContext(ctx, h.CPUWindow, false)
	if err != nil {
		return u, fmt.Errorf("cpu percent: %w", err)
	}
	if len(pcts) == 0 {
		return u, fmt.Errorf("cpu percent: no samples")
	}
	u.CPU = pcts[0]

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return u, fmt.Errorf("virtual memory: %w", err)
	}
	u.Memory = vm.UsedPercent

	du, err := disk.UsageWithContext(ctx, h.DiskPath)
	if err != nil {
		return u, fmt.Errorf("disk usage %s: %w", h.DiskPath, err)
	}
	u.Disk = du.UsedPercent

	return u, nil
}

// describeHost returns "hostname (platform version)", or runtime.GOOS as fallback.
func describeHost(ctx context.Context) string {
	info, err := host.InfoWithContext(ctx)
	if err != nil || info.Hostname == "" {
		return runtime.GOOS
	}
	if info.Platform == "" {
		return info.Hostname
	}
	if info.PlatformVersion != "" {
		return fmt.Sprintf("%s (%s %s)", info.Hostname, info.Platform, info.PlatformVersion)
	}
	return fmt.Sprintf("%s (%s)", info.Hostname, info.Platform)
}
