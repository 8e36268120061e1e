// Package sysinfo reports process resource usage for the chunked numerical
// loops, which log their memory footprint between chunks.
package sysinfo

import (
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v3/process"
)

// ProcessRSS returns the resident set size of the current process in bytes.
func ProcessRSS() (uint64, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0, fmt.Errorf("failed to open current process: %w", err)
	}
	memInfo, err := proc.MemoryInfo()
	if err != nil {
		return 0, fmt.Errorf("failed to read process memory info: %w", err)
	}
	return memInfo.RSS, nil
}

// RSSMegabytes returns the resident set size in megabytes, or 0 when the
// platform does not expose it. Telemetry only, never load-bearing.
func RSSMegabytes() float64 {
	rss, err := ProcessRSS()
	if err != nil {
		return 0
	}
	return float64(rss) / (1024 * 1024)
}
