package device

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Info identifies the host a sweep ran on. Both fields are best effort.
type Info interface {
	ProcessorDescription() string
	TotalMemoryBytes() uint64
}

// Host is a snapshot of the local machine.
type Host struct {
	Processor string `json:"processor"`
	MemoryB   uint64 `json:"memory_bytes"`
}

func (h Host) ProcessorDescription() string { return h.Processor }
func (h Host) TotalMemoryBytes() uint64     { return h.MemoryB }

// Detect queries the local machine. Lookup failures leave the field empty.
func Detect(ctx context.Context) Host {
	var h Host

	infos, err := cpu.InfoWithContext(ctx)
	if err != nil {
		slog.Debug("cpu info unavailable", "error", err)
	} else if len(infos) > 0 {
		h.Processor = strings.TrimSpace(infos[0].ModelName)
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		slog.Debug("memory info unavailable", "error", err)
	} else {
		h.MemoryB = vm.Total
	}

	return h
}

// MemoryGB converts bytes to GiB rounded to one decimal.
func MemoryGB(b uint64) float64 {
	return math.Round(float64(b)/(1<<30)*10) / 10
}

// Label renders "Device: <cpu>, RAM: <gb> GB".
func Label(info Info) string {
	return fmt.Sprintf("Device: %s, RAM: %.1f GB", info.ProcessorDescription(), MemoryGB(info.TotalMemoryBytes()))
}
