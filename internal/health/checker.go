// Package health aggregates liveness information: process counters plus
// memory, disk and upstream sub-checks rolled up into one status.
package health

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
	"go.uber.org/fx"

	"github.com/Angelito-Alit/comments-api/internal/clock"
	"github.com/Angelito-Alit/comments-api/internal/config"
)

// Status is a sub-check or overall health verdict.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusWarning   Status = "warning"
	StatusUnhealthy Status = "unhealthy"
)

// Usage thresholds shared by the memory and disk checks.
const (
	warnPercent      = 80.0
	unhealthyPercent = 90.0
)

// UpstreamProbe checks one external dependency.
type UpstreamProbe func(ctx context.Context) Probe

// Probe is the outcome of one sub-check.
type Probe struct {
	Status         Status  `json:"status"`
	Message        string  `json:"message,omitempty"`
	Error          string  `json:"error,omitempty"`
	ResponseTimeMS float64 `json:"response_time_ms,omitempty"`
}

// MemoryCheck reports system memory pressure.
type MemoryCheck struct {
	Status       Status  `json:"status"`
	UsagePercent float64 `json:"usage_percent"`
	AvailableMB  float64 `json:"available_mb"`
	TotalMB      float64 `json:"total_mb"`
	Error        string  `json:"error,omitempty"`
}

// DiskCheck reports root filesystem usage.
type DiskCheck struct {
	Status       Status  `json:"status"`
	UsagePercent float64 `json:"usage_percent"`
	FreeGB       float64 `json:"free_gb"`
	TotalGB      float64 `json:"total_gb"`
	Error        string  `json:"error,omitempty"`
}

// AppCheck reports process-level metrics.
type AppCheck struct {
	Status        Status  `json:"status"`
	Environment   string  `json:"environment"`
	GoVersion     string  `json:"go_version"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	RequestsTotal int64   `json:"requests_total"`
	RequestsError int64   `json:"requests_error"`
}

// Report is the full health payload.
type Report struct {
	Status    Status `json:"status"`
	Timestamp string `json:"timestamp"`
	Checks    struct {
		Memory      MemoryCheck      `json:"memory"`
		Disk        DiskCheck        `json:"disk"`
		Application AppCheck         `json:"application"`
		Upstreams   map[string]Probe `json:"external_apis,omitempty"`
	} `json:"checks"`
}

// Checker owns request counters and runs the sub-checks on demand.
type Checker struct {
	clk         clock.Clock
	environment string
	started     time.Time

	requests atomic.Int64
	errors   atomic.Int64

	mu     sync.Mutex
	probes map[string]UpstreamProbe
}

func NewChecker(cfg config.Config, clk clock.Clock) *Checker {
	return &Checker{
		clk:         clk,
		environment: cfg.Environment,
		started:     clk.Now(),
		probes:      make(map[string]UpstreamProbe),
	}
}

// RegisterProbe adds an upstream sub-check under the given name.
func (c *Checker) RegisterProbe(name string, probe UpstreamProbe) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.probes[name] = probe
}

// Record counts a finished request for the application sub-check.
func (c *Checker) Record(statusCode int) {
	c.requests.Add(1)
	if statusCode >= 400 {
		c.errors.Add(1)
	}
}

// Middleware feeds every response into the request counters.
func Middleware(c *Checker) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()
		c.Record(ctx.Writer.Status())
	}
}

// Check runs all sub-checks and rolls their statuses up: any unhealthy check
// marks the whole report unhealthy, otherwise any warning marks it warning.
func (c *Checker) Check(ctx context.Context) Report {
	report := Report{
		Status:    StatusHealthy,
		Timestamp: c.clk.Now().UTC().Format(time.RFC3339),
	}
	report.Checks.Memory = checkMemory()
	report.Checks.Disk = checkDisk()
	report.Checks.Application = c.checkApplication()

	c.mu.Lock()
	probes := make(map[string]UpstreamProbe, len(c.probes))
	for name, probe := range c.probes {
		probes[name] = probe
	}
	c.mu.Unlock()

	if len(probes) > 0 {
		report.Checks.Upstreams = make(map[string]Probe, len(probes))
		for name, probe := range probes {
			report.Checks.Upstreams[name] = probe(ctx)
		}
	}

	statuses := []Status{
		report.Checks.Memory.Status,
		report.Checks.Disk.Status,
		report.Checks.Application.Status,
	}
	for _, probe := range report.Checks.Upstreams {
		statuses = append(statuses, probe.Status)
	}
	report.Status = rollup(statuses)
	return report
}

func (c *Checker) checkApplication() AppCheck {
	return AppCheck{
		Status:        StatusHealthy,
		Environment:   c.environment,
		GoVersion:     runtime.Version(),
		UptimeSeconds: c.clk.Now().Sub(c.started).Seconds(),
		RequestsTotal: c.requests.Load(),
		RequestsError: c.errors.Load(),
	}
}

func checkMemory() MemoryCheck {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return MemoryCheck{Status: StatusUnhealthy, Error: err.Error()}
	}
	return MemoryCheck{
		Status:       usageStatus(vm.UsedPercent),
		UsagePercent: vm.UsedPercent,
		AvailableMB:  float64(vm.Available) / 1024 / 1024,
		TotalMB:      float64(vm.Total) / 1024 / 1024,
	}
}

func checkDisk() DiskCheck {
	usage, err := disk.Usage("/")
	if err != nil {
		return DiskCheck{Status: StatusUnhealthy, Error: err.Error()}
	}
	return DiskCheck{
		Status:       usageStatus(usage.UsedPercent),
		UsagePercent: usage.UsedPercent,
		FreeGB:       float64(usage.Free) / 1024 / 1024 / 1024,
		TotalGB:      float64(usage.Total) / 1024 / 1024 / 1024,
	}
}

func usageStatus(percent float64) Status {
	switch {
	case percent > unhealthyPercent:
		return StatusUnhealthy
	case percent > warnPercent:
		return StatusWarning
	default:
		return StatusHealthy
	}
}

func rollup(statuses []Status) Status {
	overall := StatusHealthy
	for _, status := range statuses {
		if status == StatusUnhealthy {
			return StatusUnhealthy
		}
		if status == StatusWarning {
			overall = StatusWarning
		}
	}
	return overall
}

var Module = fx.Module("health",
	fx.Provide(NewChecker),
)
