package gfxlab

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// maxTweenFields is the number of fields one TweenGroup can drive.
const maxTweenFields = 4

// TweenGroup animates up to four float64 fields simultaneously. Create one
// via the convenience constructors (TweenValue, TweenValues, TweenVec3,
// TweenColor) and call Update(dt) each frame; the group writes the eased
// values straight into the fields it was given.
//
// There is no global animation manager; callers call Update themselves.
type TweenGroup struct {
	tweens [maxTweenFields]*gween.Tween
	fields [maxTweenFields]*float64
	to     [maxTweenFields]float64
	count  int
	Done   bool
}

// Update advances all tweens by dt seconds and writes the values to the
// target fields. Once every tween finishes, each field holds its exact
// target value and Done is set.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	if allDone {
		for i := 0; i < g.count; i++ {
			*g.fields[i] = g.to[i]
		}
	}
	g.Done = allDone
}

// Cancel stops the group where it is.
func (g *TweenGroup) Cancel() {
	g.Done = true
}

// add registers one field. Fields beyond the capacity are ignored.
func (g *TweenGroup) add(field *float64, to float64, duration float32, fn ease.TweenFunc) {
	if g.count == maxTweenFields {
		return
	}
	g.tweens[g.count] = gween.New(float32(*field), float32(to), duration, fn)
	g.fields[g.count] = field
	g.to[g.count] = to
	g.count++
}

// TweenValue creates a TweenGroup that animates *field to the target value
// over the specified duration using the easing function.
func TweenValue(field *float64, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(field, to, duration, fn)
	return g
}

// TweenValues animates fields[i] to to[i] together. Only the first four
// pairs are used; extra fields or targets are ignored.
func TweenValues(fields []*float64, to []float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	for i := 0; i < len(fields) && i < len(to); i++ {
		g.add(fields[i], to[i], duration, fn)
	}
	return g
}

// TweenVec3 creates a TweenGroup that animates all three components of *v.
func TweenVec3(v *Vec3, to Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	for axis := AxisX; axis <= AxisZ; axis++ {
		g.add(&v[axis], to[axis], duration, fn)
	}
	return g
}

// TweenColor creates a TweenGroup that animates all four components of *c
// (R, G, B, A) to the target color.
func TweenColor(c *Color, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(&c.R, to.R, duration, fn)
	g.add(&c.G, to.G, duration, fn)
	g.add(&c.B, to.B, duration, fn)
	g.add(&c.A, to.A, duration, fn)
	return g
}
