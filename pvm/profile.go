package pvm

import (
	"go.pokelang.org/pk/internal/pprofutil"
	"go.pokelang.org/pk/internal/stats"
)

// OpcodeCounter is the default [Profiler]: a per-opcode instruction tally
// a host can attach to a VM via vm.Profiler = &OpcodeCounter{} and later
// export through pprofutil for `go tool pprof`.
type OpcodeCounter struct {
	counts map[Opcode]int64
}

// Tick implements Profiler.
func (c *OpcodeCounter) Tick(op Opcode) {
	if c.counts == nil {
		c.counts = make(map[Opcode]int64)
	}
	c.counts[op]++
}

// Samples converts the accumulated counts into pprofutil.Sample form.
func (c *OpcodeCounter) Samples() []pprofutil.Sample {
	samples := make([]pprofutil.Sample, 0, len(c.counts))
	for op, n := range c.counts {
		samples = append(samples, pprofutil.Sample{Opcode: op.String(), Count: n})
	}
	return samples
}

// Summary reports the distribution of per-opcode tick counts collected so
// far (min/max/mean/median/total across opcodes), a quick "which opcodes
// dominate this run" digest that doesn't require exporting through
// pprofutil and shelling out to `go tool pprof`.
func (c *OpcodeCounter) Summary() stats.Summary {
	samples := make([]float64, 0, len(c.counts))
	for _, n := range c.counts {
		samples = append(samples, float64(n))
	}
	return stats.Summarize(samples)
}
