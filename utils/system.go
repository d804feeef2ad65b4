package utils

import (
	"fmt"
	"runtime"
)

// MemUsage summarizes the Go heap, for reports after long runs
func MemUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	toMiB := func(b uint64) float64 { return float64(b) / (1 << 20) }
	return fmt.Sprintf("heap %.1f MiB in %d objects, total allocated %.1f MiB, sys %.1f MiB, %d GCs",
		toMiB(m.HeapAlloc), m.HeapObjects, toMiB(m.TotalAlloc), toMiB(m.Sys), m.NumGC)
}
