package api

import (
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"
)

const bytesInMB = 1 << 20

// ProcessSample снимок ресурсов процесса для /api/stats
type ProcessSample struct {
	Uptime     string  `json:"uptime"`
	CPUPercent float64 `json:"cpu_percent"`
	RSSMB      float64 `json:"rss_mb"`
	HeapMB     float64 `json:"heap_mb"`
	SysMB      float64 `json:"sys_mb"`
	NumGC      uint32  `json:"num_gc"`
	Goroutines int     `json:"goroutines"`
}

// processStats читает ресурсы процесса через gopsutil.
// Без доступа к /proc поля CPU и RSS остаются нулевыми.
type processStats struct {
	started time.Time
	proc    *process.Process
}

func newProcessStats() *processStats {
	ps := &processStats{started: time.Now()}
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		ps.proc = p
	}
	return ps
}

// Uptime округлено до секунды
func (ps *processStats) Uptime() string {
	return time.Since(ps.started).Round(time.Second).String()
}

func (ps *processStats) Sample() ProcessSample {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	s := ProcessSample{
		Uptime:     ps.Uptime(),
		HeapMB:     float64(m.HeapAlloc) / bytesInMB,
		SysMB:      float64(m.Sys) / bytesInMB,
		NumGC:      m.NumGC,
		Goroutines: runtime.NumGoroutine(),
	}
	if ps.proc == nil {
		return s
	}

	if pct, err := ps.proc.CPUPercent(); err == nil {
		s.CPUPercent = pct
	} else if all, err := cpu.Percent(0, false); err == nil && len(all) > 0 {
		// процент системы, если процесс не читается
		s.CPUPercent = all[0]
	}
	if info, err := ps.proc.MemoryInfo(); err == nil {
		s.RSSMB = float64(info.RSS) / bytesInMB
	}
	return s
}
