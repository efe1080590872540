package utils

import (
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/rdebiasec/gaby-website-admin/internal/models"
)

// CaptureResourceSnapshot 采集当前系统内存和CPU使用情况
// 仅用于写入爬取报告,不影响任何爬取行为
// 采集失败时记录警告并返回nil
func CaptureResourceSnapshot() *models.ResourceSnapshot {
	vmStat, err := mem.VirtualMemory()
	if err != nil {
		Warnf("获取系统内存信息失败: %v", err)
		return nil
	}

	snapshot := &models.ResourceSnapshot{
		TotalMemoryMB:     int64(vmStat.Total) / (1024 * 1024),
		AvailableMemoryMB: int64(vmStat.Available) / (1024 * 1024),
		MemoryUsedPercent: vmStat.UsedPercent,
	}

	// 100毫秒采样间隔,避免阻塞过久
	percentages, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		Warnf("获取CPU使用率失败: %v", err)
	} else if len(percentages) > 0 {
		snapshot.CPUPercent = percentages[0]
	}

	return snapshot
}
