package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/gekko3d/scenery"
	"github.com/gekko3d/scenery/render/rt/app"
	"github.com/gekko3d/scenery/render/rt/core"
	"github.com/gekko3d/scenery/render/rt/font"

	"github.com/chewxy/math32"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

func init() {
	runtime.LockOSThread()
}

type demo struct {
	root    *core.Node
	spinner *core.Node
	swarm   *core.Geometry
}

func buildScene(tess *font.Tessellator) (*demo, error) {
	d := &demo{root: core.NewNode("root")}

	sun := core.NewNode("sun")
	sun.Light = &core.Light{Kind: core.LightDirectional, Color: mgl32.Vec3{1, 0.95, 0.9}, Intensity: 0.9}
	sun.Transform.Rotation = mgl32.QuatRotate(mgl32.DegToRad(-50), mgl32.Vec3{1, 0.3, 0}.Normalize())
	ambient := core.NewNode("ambient")
	ambient.Light = &core.Light{Kind: core.LightAmbient, Color: mgl32.Vec3{1, 1, 1}, Intensity: 0.2}
	lamp := core.NewNode("lamp")
	lamp.Light = &core.Light{Kind: core.LightPoint, Color: mgl32.Vec3{1, 0.6, 0.3}, Intensity: 2, Range: 8}
	lamp.Transform.Position = mgl32.Vec3{-2, 2, 1}
	d.root.Add(sun)
	d.root.Add(ambient)
	d.root.Add(lamp)

	floor := core.NewNode("floor")
	floor.Mesh = core.NewMesh(core.NewPlaneGeometry(20, 20), core.NewMaterial(mgl32.Vec4{0.35, 0.37, 0.4, 1}))
	floor.Transform.Rotation = mgl32.QuatRotate(mgl32.DegToRad(-90), mgl32.Vec3{1, 0, 0})
	d.root.Add(floor)

	d.spinner = core.NewNode("cube")
	d.spinner.Mesh = core.NewMesh(core.NewBoxGeometry(1, 1, 1), core.NewMaterial(mgl32.Vec4{0.9, 0.3, 0.2, 1}))
	d.spinner.Transform.Position = mgl32.Vec3{0, 0.75, 0}
	d.root.Add(d.spinner)

	axes := core.NewNode("axes")
	axes.Mesh = core.NewMesh(core.NewAxesGeometry(1.5), core.NewMaterial(mgl32.Vec4{1, 1, 1, 1}))
	axes.Mesh.Lines = true
	axes.Mesh.Material.Unlit = true
	d.spinner.Add(axes)

	d.swarm = core.NewBoxGeometry(0.3, 0.3, 0.3)
	d.swarm.SetInstanceCount(16)
	swarm := core.NewNode("swarm")
	swarm.Mesh = core.NewMesh(d.swarm, core.NewMaterial(mgl32.Vec4{1, 1, 1, 1}))
	d.root.Add(swarm)

	glass := core.NewNode("glass")
	glass.Mesh = core.NewMesh(core.NewPlaneGeometry(2, 1.5), core.NewGlassMaterial(mgl32.Vec4{0.7, 0.85, 1, 0.35}))
	glass.Transform.Position = mgl32.Vec3{0.5, 1, 1.8}
	d.root.Add(glass)

	title, err := tess.NewText("Scenery", 0.5, core.NewMaterial(mgl32.Vec4{1, 1, 1, 1}))
	if err != nil {
		return nil, err
	}
	label := core.NewNode("title")
	label.Text = title
	label.Transform.Position = mgl32.Vec3{-1.2, 2.2, 0}
	d.root.Add(label)

	hud, err := tess.NewText("stencil-then-cover", 0.2, &core.Material{Color: mgl32.Vec4{1, 0.9, 0.2, 1}, Layer: core.LayerUI})
	if err != nil {
		return nil, err
	}
	hudNode := core.NewNode("hud")
	hudNode.Text = hud
	hudNode.Transform.Position = mgl32.Vec3{-2.5, -0.5, 0}
	d.root.Add(hudNode)

	return d, nil
}

func (d *demo) update(t float32) {
	d.spinner.Transform.Rotation = mgl32.QuatRotate(t, mgl32.Vec3{0, 1, 0})
	n := d.swarm.InstanceCount()
	for i := 0; i < n; i++ {
		a := t*0.5 + float32(i)*2*math32.Pi/float32(n)
		m := mgl32.Translate3D(3*math32.Cos(a), 0.5+0.3*math32.Sin(3*a), 3*math32.Sin(a))
		tint := mgl32.Vec4{0.5 + 0.5*math32.Cos(a), 0.6, 0.5 + 0.5*math32.Sin(a), 1}
		d.swarm.SetInstance(i, m, tint)
	}
}

func main() {
	configPath := flag.String("config", "", "Path to a TOML config file")
	debug := flag.Bool("debug", false, "Enable debug logging (per-frame stats)")
	flag.Parse()

	cfg := scenery.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = scenery.LoadConfig(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	cfg.Debug = cfg.Debug || *debug
	logger := scenery.NewDefaultLogger("scenery", cfg.Debug)

	if err := run(cfg, logger); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(cfg scenery.Config, logger *scenery.DefaultLogger) error {
	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return err
	}
	defer window.Destroy()

	renderer, err := app.New(window, cfg, logger.With("app"))
	if err != nil {
		return err
	}
	defer renderer.Release()

	tess, err := font.NewDefaultTessellator(font.NewGlyphCache())
	if err != nil {
		return err
	}
	scene, err := buildScene(tess)
	if err != nil {
		return err
	}

	cam := core.NewCamera()
	cam.Position = mgl32.Vec3{0, 2, 6}
	cam.Pitch = mgl32.DegToRad(-15)

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		if err := renderer.Resize(width, height); err != nil {
			logger.Warnf("resize: %v", err)
		}
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	last := glfw.GetTime()
	for !window.ShouldClose() {
		glfw.PollEvents()
		now := glfw.GetTime()
		dt := float32(now - last)
		last = now

		moveCamera(window, cam, dt)
		scene.update(float32(now))
		if err := renderer.Render(scene.root, cam); err != nil {
			return err
		}
	}
	return nil
}

func moveCamera(w *glfw.Window, cam *core.Camera, dt float32) {
	const speed, turn = 3.0, 1.5
	pressed := func(k glfw.Key) bool { return w.GetKey(k) == glfw.Press }

	if pressed(glfw.KeyLeft) {
		cam.Yaw -= turn * dt
	}
	if pressed(glfw.KeyRight) {
		cam.Yaw += turn * dt
	}
	if pressed(glfw.KeyUp) {
		cam.Pitch = mgl32.Clamp(cam.Pitch+turn*dt, -1.5, 1.5)
	}
	if pressed(glfw.KeyDown) {
		cam.Pitch = mgl32.Clamp(cam.Pitch-turn*dt, -1.5, 1.5)
	}

	var move mgl32.Vec3
	if pressed(glfw.KeyW) {
		move = move.Add(cam.Forward())
	}
	if pressed(glfw.KeyS) {
		move = move.Sub(cam.Forward())
	}
	if pressed(glfw.KeyD) {
		move = move.Add(cam.Right())
	}
	if pressed(glfw.KeyA) {
		move = move.Sub(cam.Right())
	}
	if move.Len() > 0 {
		cam.Position = cam.Position.Add(move.Normalize().Mul(speed * dt))
	}
}
