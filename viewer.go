package gfxlab

import (
	"image"
	"log"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tanema/gween/ease"
)

// Viewer defaults.
const (
	DefaultFrameWidth  = 480
	DefaultFrameHeight = 360
	DefaultCameraZ     = 3.0
	DefaultFOV         = 60.0

	minCameraZ = 1.8
	maxCameraZ = 10.0

	keyRotateSpeed   = 1.5  // radians per second
	dragRotateSpeed  = 0.01 // radians per pixel
	wheelZoomSpeed   = 0.2  // units per wheel notch
	viewResetSeconds = 0.6  // view reset tween length
	lightStepSeconds = 1.0  // light orbit tween length
	lightElevation   = 0.5  // y component of the light before normalizing
)

// ViewerConfig sets up a Viewer. Zero fields take the defaults above.
type ViewerConfig struct {
	// Width and Height are the framebuffer size. The frame is scaled to
	// the window.
	Width, Height int
	// CameraZ is the starting distance from the camera to the scene origin.
	CameraZ float64
	// FOV is the vertical field of view in degrees.
	FOV float64
	// ClearColor fills the frame before drawing.
	ClearColor Color
}

// Viewer is an ebiten.Game that renders a cloth simulation or a static
// mesh and presents the frame in a window. Advance and Render drive the
// software pipeline headlessly; after UseGPU the window draws through an
// EbitenContext instead.
//
// Keys: arrows rotate, mouse drag rotates, the wheel zooms, R resets the
// view, L moves the light a quarter turn, Space pauses, C restarts the
// cloth, T toggles the texture, H toggles lighting, P saves a screenshot.
type Viewer struct {
	RotX, RotY float64
	CameraZ    float64
	ClearColor Color

	cfg       ViewerConfig
	ctx       *SoftwareContext
	drawer    *MeshDrawer
	gpu       *EbitenContext
	gpuDrawer *MeshDrawer
	texture   image.Image

	sim       *MassSpring
	cloth     *ClothGrid
	clothMesh TriangleMesh
	mesh      *TriangleMesh

	lightAngle float64
	lightTween *TweenGroup
	viewTween  *TweenGroup
	showTex    bool
	lighting   bool

	updateFunc func() error
	script     *ScriptRunner
	shots      screenshotQueue
	overlay    fpsOverlay
	showFPS    bool
	debug      bool
	stats      debugStats

	frame    *ebiten.Image
	dragging bool
	lastDrag image.Point
}

// NewViewer creates a Viewer with its own SoftwareContext and MeshDrawer.
func NewViewer(cfg ViewerConfig) *Viewer {
	if cfg.Width <= 0 {
		cfg.Width = DefaultFrameWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultFrameHeight
	}
	if cfg.CameraZ <= 0 {
		cfg.CameraZ = DefaultCameraZ
	}
	if cfg.FOV <= 0 {
		cfg.FOV = DefaultFOV
	}
	if cfg.ClearColor == (Color{}) {
		cfg.ClearColor = Color{0.08, 0.08, 0.1, 1}
	}

	ctx := NewSoftwareContext(cfg.Width, cfg.Height)
	return &Viewer{
		CameraZ:    cfg.CameraZ,
		ClearColor: cfg.ClearColor,
		cfg:        cfg,
		ctx:        ctx,
		drawer:     NewMeshDrawer(ctx),
		showTex:    true,
		lighting:   true,
	}
}

// Context returns the software render target.
func (v *Viewer) Context() *SoftwareContext { return v.ctx }

// Drawer returns the MeshDrawer bound to the software context.
func (v *Viewer) Drawer() *MeshDrawer { return v.drawer }

// GPUContext returns the ebiten render context, or nil before UseGPU.
func (v *Viewer) GPUContext() *EbitenContext { return v.gpu }

// UseGPU makes Draw render through an EbitenContext of the configured
// size. The current mesh and texture are uploaded to it. Render keeps
// using the software context.
func (v *Viewer) UseGPU() {
	if v.gpu != nil {
		return
	}
	v.gpu = NewEbitenContext(v.cfg.Width, v.cfg.Height)
	v.gpuDrawer = NewMeshDrawer(v.gpu)
	if v.mesh != nil {
		v.gpuDrawer.SetTriangleMesh(v.mesh)
	}
	if v.texture != nil {
		v.gpuDrawer.SetTexture(v.texture)
	}
}

// drawers returns every MeshDrawer in use.
func (v *Viewer) drawers() []*MeshDrawer {
	if v.gpuDrawer != nil {
		return []*MeshDrawer{v.drawer, v.gpuDrawer}
	}
	return []*MeshDrawer{v.drawer}
}

// SetSimulation makes the viewer step sim every frame and draw it through
// cloth's topology. It replaces any static mesh.
func (v *Viewer) SetSimulation(sim *MassSpring, cloth *ClothGrid) {
	v.sim = sim
	v.cloth = cloth
	v.mesh = nil
}

// Simulation returns the attached simulation, or nil.
func (v *Viewer) Simulation() *MassSpring { return v.sim }

// SetMesh draws a static mesh instead of a simulation.
func (v *Viewer) SetMesh(m *TriangleMesh) {
	v.sim = nil
	v.cloth = nil
	v.mesh = m
	for _, d := range v.drawers() {
		d.SetTriangleMesh(m)
	}
}

// SetTexture binds img for texturing. A nil image removes the texture.
func (v *Viewer) SetTexture(img image.Image) {
	v.texture = img
	for _, d := range v.drawers() {
		d.SetTexture(img)
	}
}

// SetScript attaches a ScriptRunner that is stepped once per frame.
func (v *Viewer) SetScript(r *ScriptRunner) {
	v.script = r
}

// SetUpdateFunc sets a callback run at the end of every Advance.
func (v *Viewer) SetUpdateFunc(fn func() error) {
	v.updateFunc = fn
}

// Screenshot queues a labeled screenshot, written once the next frame is
// rendered.
func (v *Viewer) Screenshot(label string) {
	v.shots.push(label)
}

// Rotate adds dx radians about X and dy radians about Y to the view.
func (v *Viewer) Rotate(dx, dy float64) {
	if v.viewTween != nil {
		v.viewTween.Cancel()
		v.viewTween = nil
	}
	v.RotX += dx
	v.RotY += dy
}

// ResetView tweens the rotation and camera distance back to their
// starting values.
func (v *Viewer) ResetView() {
	v.viewTween = TweenValues(
		[]*float64{&v.RotX, &v.RotY, &v.CameraZ},
		[]float64{0, 0, v.cfg.CameraZ},
		viewResetSeconds, ease.OutCubic,
	)
}

// AnimateLight starts moving the light a quarter turn around the view
// axis. It does nothing while a previous move is running.
func (v *Viewer) AnimateLight() {
	if v.lightTween != nil {
		return
	}
	v.lightTween = TweenValue(&v.lightAngle, v.lightAngle+math.Pi/2, lightStepSeconds, ease.InOutSine)
}

// LightDirection returns the current unit direction toward the light in
// view space.
func (v *Viewer) LightDirection() Vec3 {
	sin, cos := math.Sincos(v.lightAngle)
	return V3(sin, lightElevation, -cos).Unit()
}

// TogglePause starts or stops the simulation.
func (v *Viewer) TogglePause() {
	if v.sim == nil {
		return
	}
	if v.sim.IsActive() {
		v.sim.Stop()
	} else {
		v.sim.Start()
	}
}

// Advance runs one frame of logic: the script, tweens, the simulation and
// the update callback. It does not read input.
func (v *Viewer) Advance(dt float64) error {
	var start time.Time
	if v.debug {
		start = time.Now()
	}

	if v.script != nil {
		v.script.Step(v)
	}
	if v.viewTween != nil {
		v.viewTween.Update(float32(dt))
		if v.viewTween.Done {
			v.viewTween = nil
		}
	}
	if v.lightTween != nil {
		v.lightTween.Update(float32(dt))
		if v.lightTween.Done {
			v.lightTween = nil
		}
	}
	if v.sim != nil {
		n := v.sim.Update(dt)
		if v.debug {
			v.stats.steps = n
			debugCheckSubsteps(n, v.sim.Config().MaxSubsteps)
			debugCheckStats(v.sim.Stats())
		}
	}

	if v.debug {
		v.stats.advanceTime = time.Since(start)
	}
	if v.updateFunc != nil {
		return v.updateFunc()
	}
	return nil
}

// Render draws the current state into the software framebuffer and writes
// any queued screenshots.
func (v *Viewer) Render() error {
	var start time.Time
	if v.debug {
		start = time.Now()
	}

	v.ctx.SetClearColor(v.ClearColor)
	v.ctx.Clear()
	w, h := v.ctx.Size()
	err := v.drawScene(v.drawer, w, h)

	if v.debug {
		v.stats.rasterTime = time.Since(start)
		v.stats.vertices = v.drawer.VertexCount()
	}
	v.shots.flush(v.ctx.Image())
	return err
}

// drawScene uploads the cloth mesh if a simulation is attached and draws
// the scene through d onto a w x h target.
func (v *Viewer) drawScene(d *MeshDrawer, w, h int) error {
	if v.sim != nil && v.cloth != nil {
		v.cloth.FillMesh(v.sim.Positions(), &v.clothMesh)
		d.SetTriangleMesh(&v.clothMesh)
	}
	if d.VertexCount() == 0 {
		return nil
	}

	l := v.LightDirection()
	d.SetLightDir(l[0], l[1], l[2])
	d.ShowTexture(v.showTex)
	d.SetLighting(v.lighting)

	proj := ProjectionMatrix(float64(w)/float64(h), v.CameraZ, v.cfg.FOV)
	mv := ModelViewMatrix(0, 0, v.CameraZ, v.RotX, v.RotY)
	return d.Draw(MatrixMult(proj, mv), mv, NormalMatrix(mv))
}

// renderGPU draws the current state into the ebiten target and writes any
// queued screenshots from it.
func (v *Viewer) renderGPU() error {
	var start time.Time
	if v.debug {
		start = time.Now()
	}

	v.gpu.SetClearColor(v.ClearColor)
	v.gpu.Clear()
	w, h := v.gpu.Size()
	err := v.drawScene(v.gpuDrawer, w, h)

	if v.debug {
		v.stats.rasterTime = time.Since(start)
		v.stats.vertices = v.gpuDrawer.VertexCount()
	}
	if v.shots.pending() {
		v.shots.flush(v.gpu.Snapshot())
	}
	return err
}

// Update implements ebiten.Game.
func (v *Viewer) Update() error {
	dt := 1.0 / float64(ebiten.TPS())
	v.handleInput(dt)
	if err := v.Advance(dt); err != nil {
		return err
	}

	var st SimStats
	paused := false
	if v.sim != nil {
		st = v.sim.Stats()
		paused = !v.sim.IsActive()
	}
	v.overlay.update(dt, ebiten.ActualFPS(), ebiten.ActualTPS(), st, paused)
	return nil
}

func (v *Viewer) handleInput(dt float64) {
	var dx, dy float64
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dx -= keyRotateSpeed * dt
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dx += keyRotateSpeed * dt
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dy -= keyRotateSpeed * dt
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dy += keyRotateSpeed * dt
	}

	cx, cy := ebiten.CursorPosition()
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if v.dragging {
			dy -= float64(cx-v.lastDrag.X) * dragRotateSpeed
			dx -= float64(cy-v.lastDrag.Y) * dragRotateSpeed
		}
		v.dragging = true
		v.lastDrag = image.Pt(cx, cy)
	} else {
		v.dragging = false
	}
	if dx != 0 || dy != 0 {
		v.Rotate(dx, dy)
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		v.CameraZ = min(max(v.CameraZ-wy*wheelZoomSpeed, minCameraZ), maxCameraZ)
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		v.ResetView()
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		v.AnimateLight()
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		v.TogglePause()
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		if v.sim != nil {
			v.sim.Reset()
			v.sim.Start()
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyT):
		v.showTex = !v.showTex
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		v.lighting = !v.lighting
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		v.Screenshot("frame")
	}
}

// Draw implements ebiten.Game. The frame comes from the ebiten context
// after UseGPU; otherwise the software frame is uploaded with WritePixels.
// Either way it is stretched to the screen.
func (v *Viewer) Draw(screen *ebiten.Image) {
	render := v.Render
	if v.gpu != nil {
		render = v.renderGPU
	}
	if err := render(); err != nil {
		log.Printf("gfxlab: render: %v", err)
	}

	var start time.Time
	if v.debug {
		start = time.Now()
	}

	var frame *ebiten.Image
	var w, h int
	if v.gpu != nil {
		frame = v.gpu.Image()
		w, h = v.gpu.Size()
	} else {
		w, h = v.ctx.Size()
		if v.frame == nil {
			v.frame = ebiten.NewImage(w, h)
		}
		// Every pixel is opaque, so straight and premultiplied alpha agree.
		v.frame.WritePixels(v.ctx.Image().Pix)
		frame = v.frame
	}

	sb := screen.Bounds()
	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	op.GeoM.Scale(float64(sb.Dx())/float64(w), float64(sb.Dy())/float64(h))
	screen.DrawImage(frame, op)

	if v.showFPS {
		v.overlay.draw(screen)
	}
	if v.debug {
		v.stats.uploadTime = time.Since(start)
		v.debugLog(v.stats)
	}
}

// Layout implements ebiten.Game.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title         string
	Width         int
	Height        int
	ShowFPS       bool
	ScreenshotDir string
	// Debug prints per-frame timings and simulation warnings to stderr.
	Debug bool
	// Software draws the window with the CPU rasterizer instead of the
	// Kage shader.
	Software bool
}

// Run opens a window and runs v until the window closes.
func Run(v *Viewer, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 2 * v.cfg.Width
	}
	if cfg.Height <= 0 {
		cfg.Height = 2 * v.cfg.Height
	}
	if cfg.Title == "" {
		cfg.Title = "gfxlab"
	}
	v.showFPS = cfg.ShowFPS
	v.SetDebugMode(cfg.Debug)
	v.shots.dir = cfg.ScreenshotDir
	if !cfg.Software {
		v.UseGPU()
	}

	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(v)
}
