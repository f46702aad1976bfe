// Package pprofutil turns the PVM executor's per-opcode sample counters
// into a github.com/google/pprof/profile.Profile, so a host embedding the
// compiler can write it straight to a .pprof file and open it with
// `go tool pprof` or the pprof web UI.
//
// Grounded on buf.build/go/hyperpb's internal/tdp/profile package, which
// records per-field-archetype parse counts; here the samples are per-opcode
// instruction counts gathered by [pvm.Profiler], and ymm135-go (the Go
// toolchain mirror in the retrieval pack) is what originally pulled in
// github.com/google/pprof as a real dependency.
package pprofutil

import (
	"time"

	"github.com/google/pprof/profile"
)

// Sample is one (opcode, count) observation from a single VM run.
type Sample struct {
	Opcode string
	Count  int64
}

// Build assembles a profile.Profile with a single "instructions" value
// type from a set of per-opcode samples.
func Build(samples []Sample) *profile.Profile {
	opcodeFn := map[string]*profile.Function{}
	locs := map[string]*profile.Location{}

	p := &profile.Profile{
		SampleType:    []*profile.ValueType{{Type: "instructions", Unit: "count"}},
		TimeNanos:     time.Now().UnixNano(),
		DurationNanos: 0,
	}

	nextID := uint64(1)
	for _, s := range samples {
		fn, ok := opcodeFn[s.Opcode]
		if !ok {
			fn = &profile.Function{ID: nextID, Name: s.Opcode}
			nextID++
			opcodeFn[s.Opcode] = fn
			p.Function = append(p.Function, fn)
		}
		loc, ok := locs[s.Opcode]
		if !ok {
			loc = &profile.Location{
				ID:   nextID,
				Line: []profile.Line{{Function: fn}},
			}
			nextID++
			locs[s.Opcode] = loc
			p.Location = append(p.Location, loc)
		}
		p.Sample = append(p.Sample, &profile.Sample{
			Location: []*profile.Location{loc},
			Value:    []int64{s.Count},
		})
	}
	return p
}
