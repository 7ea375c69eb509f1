package cmd

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// defaultWorkers returns the number of physical cores, falling back to the
// logical CPU count when the host cannot report it
func defaultWorkers() int {
	cores, err := cpu.Counts(false)
	if err != nil || cores <= 0 {
		return runtime.NumCPU()
	}
	return cores
}

// hostInfo describes the machine a render ran on
func hostInfo() string {
	model := "unknown cpu"
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		model = infos[0].ModelName
	}

	physical, _ := cpu.Counts(false)
	logical, _ := cpu.Counts(true)

	memory := "unknown memory"
	if vm, err := mem.VirtualMemory(); err == nil {
		memory = fmt.Sprintf("%.1f GiB", float64(vm.Total)/(1<<30))
	}

	return fmt.Sprintf("%s, %d cores / %d threads, %s", model, physical, logical, memory)
}
