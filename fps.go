package gfxlab

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsRefresh is how often, in seconds, the overlay text is rebuilt.
const fpsRefresh = 0.5

// fpsOverlay prints frame rate and simulation statistics in the top-left
// corner. The text is rebuilt every fpsRefresh seconds.
type fpsOverlay struct {
	elapsed float64
	text    string
}

// update accumulates dt and rebuilds the text when due. It reports whether
// the text changed.
func (o *fpsOverlay) update(dt, fps, tps float64, st SimStats, paused bool) bool {
	o.elapsed += dt
	if o.text != "" && o.elapsed < fpsRefresh {
		return false
	}
	o.elapsed = 0

	o.text = fmt.Sprintf("FPS: %.1f\nTPS: %.1f", fps, tps)
	if st.Steps > 0 || paused {
		o.text += fmt.Sprintf("\nsteps: %d\nKE: %.4f\nmax |v|: %.3f", st.Steps, st.KineticEnergy, st.MaxSpeed)
	}
	if paused {
		o.text += "\n[paused]"
	}
	return true
}

func (o *fpsOverlay) draw(screen *ebiten.Image) {
	ebitenutil.DebugPrint(screen, o.text)
}
