package health

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusDisabled  = "disabled"
)

// Pinger is satisfied by *pgxpool.Pool
type Pinger interface {
	Ping(ctx context.Context) error
}

// CachePinger is satisfied by *cache.Cache
type CachePinger interface {
	Enabled() bool
	IsHealthy(ctx context.Context) bool
}

type HealthChecker struct {
	db    Pinger
	cache CachePinger
}

type HealthStatus struct {
	Status   string          `json:"status"`
	Database ComponentHealth `json:"database"`
	Cache    ComponentHealth `json:"cache"`
}

type ComponentHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

// DetailedStatus adds host resource usage for the ops dashboard
type DetailedStatus struct {
	HealthStatus
	System SystemStats `json:"system"`
}

type SystemStats struct {
	Goroutines    int     `json:"goroutines"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsed    string  `json:"memory_used"`
	MemoryTotal   string  `json:"memory_total"`
	DiskPercent   float64 `json:"disk_percent"`
	DiskUsed      string  `json:"disk_used"`
	DiskTotal     string  `json:"disk_total"`
}

// NewHealthChecker builds a checker; cache may be nil when redis is not configured
func NewHealthChecker(db Pinger, cache CachePinger) *HealthChecker {
	return &HealthChecker{db: db, cache: cache}
}

// CheckBasic reports unhealthy only when the database is unreachable. Redis
// is optional, so a cache failure is reported but does not fail readiness.
func (h *HealthChecker) CheckBasic(ctx context.Context) HealthStatus {
	dbHealth := h.checkDatabase(ctx)

	status := StatusHealthy
	if dbHealth.Status != StatusHealthy {
		status = StatusUnhealthy
	}

	return HealthStatus{
		Status:   status,
		Database: dbHealth,
		Cache:    h.checkCache(ctx),
	}
}

func (h *HealthChecker) CheckDetailed(ctx context.Context) DetailedStatus {
	return DetailedStatus{
		HealthStatus: h.CheckBasic(ctx),
		System:       systemStats(),
	}
}

func (h *HealthChecker) checkDatabase(ctx context.Context) ComponentHealth {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return ComponentHealth{
			Status:       StatusUnhealthy,
			ResponseTime: responseTime,
		}
	}

	return ComponentHealth{
		Status:       StatusHealthy,
		ResponseTime: responseTime,
	}
}

func (h *HealthChecker) checkCache(ctx context.Context) ComponentHealth {
	if h.cache == nil || !h.cache.Enabled() {
		return ComponentHealth{Status: StatusDisabled}
	}

	start := time.Now()
	healthy := h.cache.IsHealthy(ctx)
	responseTime := time.Since(start).Milliseconds()

	status := StatusHealthy
	if !healthy {
		status = StatusUnhealthy
	}
	return ComponentHealth{Status: status, ResponseTime: responseTime}
}

func systemStats() SystemStats {
	stats := SystemStats{Goroutines: runtime.NumGoroutine()}

	if memStats, err := mem.VirtualMemory(); err == nil {
		stats.MemoryPercent = memStats.UsedPercent
		stats.MemoryUsed = formatBytes(memStats.Used)
		stats.MemoryTotal = formatBytes(memStats.Total)
	}

	if diskStats, err := disk.Usage("/"); err == nil {
		stats.DiskPercent = diskStats.UsedPercent
		stats.DiskUsed = formatBytes(diskStats.Used)
		stats.DiskTotal = formatBytes(diskStats.Total)
	}
	return stats
}

func formatBytes(bytes uint64) string {
	gb := float64(bytes) / (1024 * 1024 * 1024)
	if gb < 1 {
		mb := float64(bytes) / (1024 * 1024)
		return fmt.Sprintf("%.1f MB", mb)
	}
	return fmt.Sprintf("%.1f GB", gb)
}
