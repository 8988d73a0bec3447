package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gekko3d/scenery/render/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

// Uniform block sizes, matching scene.wgsl.
const (
	FrameUniformSize  = 64 + 16 + 16
	LightStride       = 64
	LightsUniformSize = 16 + core.MaxLights*LightStride
)

// byteWriter appends little endian values into a fixed buffer.
type byteWriter struct {
	buf []byte
	off int
}

func (w *byteWriter) f32(v float32) {
	binary.LittleEndian.PutUint32(w.buf[w.off:], math.Float32bits(v))
	w.off += 4
}

func (w *byteWriter) u32(v uint32) {
	binary.LittleEndian.PutUint32(w.buf[w.off:], v)
	w.off += 4
}

func (w *byteWriter) mat4(m mgl32.Mat4) {
	for _, v := range m {
		w.f32(v)
	}
}

func (w *byteWriter) vec4(v mgl32.Vec4) {
	for _, f := range v {
		w.f32(f)
	}
}

// PackFrameUniform lays out the per-frame block: view-projection, camera
// position and viewport size with its reciprocal.
func PackFrameUniform(viewProj mgl32.Mat4, camPos mgl32.Vec3, width, height uint32) []byte {
	w := &byteWriter{buf: make([]byte, FrameUniformSize)}
	w.mat4(viewProj)
	w.vec4(camPos.Vec4(1))
	fw, fh := float32(max(width, 1)), float32(max(height, 1))
	w.vec4(mgl32.Vec4{fw, fh, 1 / fw, 1 / fh})
	return w.buf
}

// PackLights lays out the light count followed by MaxLights entries.
// Lights past the capacity are dropped.
func PackLights(lights []core.LightItem) []byte {
	if len(lights) > core.MaxLights {
		lights = lights[:core.MaxLights]
	}
	w := &byteWriter{buf: make([]byte, LightsUniformSize)}
	w.u32(uint32(len(lights)))
	w.off = 16
	for _, li := range lights {
		l := li.Light
		w.vec4(li.Position().Vec4(1))
		w.vec4(li.Direction().Vec4(0))
		w.vec4(l.Color.Vec4(1))
		w.vec4(mgl32.Vec4{float32(l.Kind), l.Intensity, l.Range, 0})
	}
	return w.buf
}
