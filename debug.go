package gfxlab

import (
	"fmt"
	"math"
	"os"
	"time"
)

// debugStats holds per-frame timing and workload metrics.
// Only populated when the Viewer is in debug mode.
type debugStats struct {
	advanceTime time.Duration
	rasterTime  time.Duration
	uploadTime  time.Duration
	steps       int
	vertices    int
}

// SetDebugMode enables per-frame timing output and simulation sanity
// warnings on stderr.
func (v *Viewer) SetDebugMode(on bool) {
	v.debug = on
}

// debugLog prints timing and workload stats to stderr.
func (v *Viewer) debugLog(stats debugStats) {
	if !v.debug {
		return
	}
	total := stats.advanceTime + stats.rasterTime + stats.uploadTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[gfxlab] advance: %v | raster: %v | upload: %v | total: %v\n",
		stats.advanceTime, stats.rasterTime, stats.uploadTime, total)
	_, _ = fmt.Fprintf(os.Stderr,
		"[gfxlab] steps: %d | vertices: %d | triangles: %d\n",
		stats.steps, stats.vertices, stats.vertices/3)
}

// debugCheckSubsteps warns on stderr when a frame ran the maximum number of
// fixed steps, which means simulated time is being dropped.
func debugCheckSubsteps(steps, maxSubsteps int) {
	if maxSubsteps > 0 && steps >= maxSubsteps {
		_, _ = fmt.Fprintf(os.Stderr, "[gfxlab] warning: %d steps hit the substep cap; simulation is behind real time\n",
			steps)
	}
}

// debugCheckStats warns on stderr when the simulation has diverged.
func debugCheckStats(st SimStats) {
	if math.IsNaN(st.KineticEnergy) || math.IsInf(st.KineticEnergy, 0) {
		_, _ = fmt.Fprintf(os.Stderr, "[gfxlab] warning: simulation diverged after %d steps (kinetic energy %v)\n",
			st.Steps, st.KineticEnergy)
	}
}
