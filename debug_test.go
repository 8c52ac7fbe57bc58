package gfxlab

import (
	"bytes"
	"math"
	"os"
	"strings"
	"testing"
)

// captureStderr runs fn with os.Stderr redirected and returns what it wrote.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	oldStderr := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stderr = w

	fn()

	w.Close()
	os.Stderr = oldStderr

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestDebugLogDisabled(t *testing.T) {
	v := NewViewer(ViewerConfig{Width: 4, Height: 4})
	out := captureStderr(t, func() {
		v.debugLog(debugStats{steps: 3})
	})
	if out != "" {
		t.Errorf("debugLog wrote %q with debug mode off", out)
	}
}

func TestDebugLogEnabled(t *testing.T) {
	v := NewViewer(ViewerConfig{Width: 4, Height: 4})
	v.SetDebugMode(true)
	out := captureStderr(t, func() {
		v.debugLog(debugStats{steps: 3, vertices: 36})
	})
	for _, want := range []string{"advance:", "steps: 3", "triangles: 12"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestDebugCheckSubsteps(t *testing.T) {
	out := captureStderr(t, func() {
		debugCheckSubsteps(2, 8)
	})
	if out != "" {
		t.Errorf("unexpected warning %q", out)
	}
	out = captureStderr(t, func() {
		debugCheckSubsteps(8, 8)
	})
	if !strings.Contains(out, "substep cap") {
		t.Errorf("expected substep warning, got %q", out)
	}
}

func TestDebugCheckStats(t *testing.T) {
	out := captureStderr(t, func() {
		debugCheckStats(SimStats{KineticEnergy: 1.5})
	})
	if out != "" {
		t.Errorf("unexpected warning %q", out)
	}
	out = captureStderr(t, func() {
		debugCheckStats(SimStats{KineticEnergy: math.Inf(1), Steps: 40})
	})
	if !strings.Contains(out, "diverged after 40 steps") {
		t.Errorf("expected divergence warning, got %q", out)
	}
}

func TestViewerDebugAdvanceRecordsSteps(t *testing.T) {
	v := smallClothViewer(t)
	v.SetDebugMode(true)
	v.Simulation().Start()

	out := captureStderr(t, func() {
		if err := v.Advance(100 * DefaultTimeStep); err != nil {
			t.Fatal(err)
		}
	})
	if v.stats.steps != defaultMaxSubsteps {
		t.Errorf("steps = %d, want %d", v.stats.steps, defaultMaxSubsteps)
	}
	if !strings.Contains(out, "substep cap") {
		t.Errorf("expected substep warning, got %q", out)
	}

	if err := v.Render(); err != nil {
		t.Fatal(err)
	}
	if v.stats.vertices != v.Drawer().VertexCount() {
		t.Errorf("vertices = %d, want %d", v.stats.vertices, v.Drawer().VertexCount())
	}
}
