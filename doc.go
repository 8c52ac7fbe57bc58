// Package gfxlab is a small graphics laboratory for [Ebitengine]: a
// mass-spring cloth simulator, a software triangle pipeline with
// Blinn-Phong style shading, 2D and 3D transform math and image compositing.
//
// # Quick start
//
// The simplest way to see something is a [Scenario] and a [Viewer]:
//
//	sim, grid, err := gfxlab.DefaultScenario().Build()
//	if err != nil {
//		log.Fatal(err)
//	}
//	sim.Start()
//
//	v := gfxlab.NewViewer(gfxlab.ViewerConfig{})
//	v.SetSimulation(sim, grid)
//	gfxlab.Run(v, gfxlab.RunConfig{Title: "Cloth", ShowFPS: true})
//
// # Simulation
//
// [Step] advances particle positions and velocities by one explicit Euler
// step: spring and damping forces, gravity, then collision against the
// axis-aligned box [BoxMin]..[BoxMax] with restitution. [StepChecked]
// validates its inputs first. [MassSpring] wraps Step with a fixed time
// step accumulator, pinned particles and optional parallel integration.
//
// [NewClothGrid] builds the particle grid, structural, shear and bend
// springs and the triangle topology used to draw the cloth. [NewSoftBody]
// turns a closed mesh into the same shape of body.
//
// # Rendering
//
// [MeshDrawer] uploads vertex buffers and uniforms to a [RenderContext] and
// issues draws. [SoftwareContext] is a RenderContext that rasterizes into an
// image with a depth buffer, running the vertex and fragment stages of
// [ShadeFragment] on the CPU. [EbitenContext] draws the same meshes on the GPU
// with a Kage port of ShadeFragment; the window uses it by default.
// Matrices come from [ModelViewMatrix], [ProjectionMatrix] and
// [NormalMatrix].
//
// # 2D
//
// [Transform2D] and [ApplyTransform] build and compose 3x3 column-major
// transforms; [Mat3.GeoM] converts one to an [ebiten.GeoM]. [CompositeBlend]
// alpha-composites a foreground image onto a background.
//
// # Scenarios
//
// A [Scenario] is a JSON document describing a cloth, its parameters and an
// optional per-frame script. [ScriptRunner] plays the script against a
// Viewer, which makes headless screenshots reproducible.
//
// The ECS adapter in gfxlab/ecs steps simulations stored as [Donburi]
// components.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package gfxlab
