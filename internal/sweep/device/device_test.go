package device

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryGB(t *testing.T) {
	assert.Equal(t, 16.0, MemoryGB(16<<30))
	assert.Equal(t, 7.7, MemoryGB(8_270_000_000))
	assert.Equal(t, 0.0, MemoryGB(0))
}

func TestLabel(t *testing.T) {
	h := Host{Processor: "Apple M2", MemoryB: 8 << 30}
	assert.Equal(t, "Device: Apple M2, RAM: 8.0 GB", Label(h))
	assert.Equal(t, "Device: , RAM: 0.0 GB", Label(Host{}))
}

func TestDetect(t *testing.T) {
	h := Detect(context.Background())
	// Memory is always reported on the platforms gopsutil supports.
	assert.NotZero(t, h.TotalMemoryBytes())
}
