// Package status provides system metrics collection.
package status

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// Metrics holds host resource usage.
type Metrics struct {
	CPUPercent    float64
	MemoryUsed    uint64
	MemoryTotal   uint64
	MemoryPercent float64
	UptimeSeconds uint64
}

// Collector gathers system metrics.
type Collector interface {
	Collect(ctx context.Context) (*Metrics, error)
}

// GopsutilCollector uses gopsutil for metrics.
type GopsutilCollector struct{}

// NewGopsutilCollector creates a collector.
func NewGopsutilCollector() *GopsutilCollector {
	return &GopsutilCollector{}
}

// Collect gathers current system metrics.
func (c *GopsutilCollector) Collect(ctx context.Context) (*Metrics, error) {
	var m Metrics

	cpuPercent, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return nil, fmt.Errorf("get cpu: %w", err)
	}
	if len(cpuPercent) > 0 {
		m.CPUPercent = cpuPercent[0]
	}

	memInfo, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("get memory: %w", err)
	}
	m.MemoryUsed = memInfo.Used
	m.MemoryTotal = memInfo.Total
	m.MemoryPercent = memInfo.UsedPercent

	uptime, err := host.UptimeWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("get uptime: %w", err)
	}
	m.UptimeSeconds = uptime

	return &m, nil
}
